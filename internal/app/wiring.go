package app

import (
	"fmt"
	"time"

	"github.com/harry-torres/gbarber-backend/internal/config"
	"github.com/harry-torres/gbarber-backend/internal/mail"
	"github.com/harry-torres/gbarber-backend/internal/queue"
	"github.com/harry-torres/gbarber-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NewDispatcher выбирает транспорт писем по MAIL_TRANSPORT
func NewDispatcher(cfg *config.Config, logger *zap.Logger) (mail.Dispatcher, error) {
	switch cfg.MailTransport {
	case "smtp":
		return mail.NewSMTPDispatcher(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom), nil
	case "telegram":
		b, err := mail.NewTelegramBot(cfg.TelegramToken)
		if err != nil {
			return nil, err
		}
		return mail.NewTelegramDispatcher(b), nil
	case "log":
		return mail.NewLogDispatcher(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.MailTransport)
	}
}

// NewConsumer собирает обработчик очереди со всеми типами задач
func NewConsumer(pool *pgxpool.Pool, cfg *config.Config, dispatcher mail.Dispatcher, logger *zap.Logger) *queue.Consumer {
	consumer := queue.NewConsumer(
		repository.NewJobRepository(pool),
		queue.Options{
			BackoffBase:  cfg.Worker.BackoffBase,
			BackoffMax:   cfg.Worker.BackoffMax,
			PollInterval: cfg.Worker.PollInterval,
			LeaseTimeout: cfg.Worker.LeaseTimeout,
		},
		time.Now,
		logger.Named("queue"),
	)

	consumer.Register(queue.TypeCancellationMail, queue.NewCancellationMailHandler(dispatcher, logger.Named("mail")))

	return consumer
}
