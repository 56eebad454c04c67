package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ErrNoTelegramChat получатель не привязал Telegram
var ErrNoTelegramChat = errors.New("recipient has no telegram chat")

// MessageSender часть *bot.Bot, используемая диспетчером
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramDispatcher доставляет письма провайдеру в его Telegram чат
type TelegramDispatcher struct {
	sender MessageSender
}

// NewTelegramBot создаёт клиента Bot API по токену
func NewTelegramBot(token string) (*bot.Bot, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return b, nil
}

func NewTelegramDispatcher(sender MessageSender) *TelegramDispatcher {
	return &TelegramDispatcher{sender: sender}
}

func (d *TelegramDispatcher) Name() string {
	return "telegram"
}

func (d *TelegramDispatcher) Send(ctx context.Context, msg Message) error {
	if msg.To.TelegramChatID == nil {
		return ErrNoTelegramChat
	}

	body, err := Render(msg)
	if err != nil {
		return err
	}

	_, err = d.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: *msg.To.TelegramChatID,
		Text:   msg.Subject + "\n\n" + body,
	})
	if err != nil {
		return fmt.Errorf("telegram send to chat %d: %w", *msg.To.TelegramChatID, err)
	}
	return nil
}
