package mail

import (
	"context"

	"go.uber.org/zap"
)

// LogDispatcher только пишет письмо в лог (локальная разработка)
type LogDispatcher struct {
	logger *zap.Logger
}

func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Name() string {
	return "log"
}

func (d *LogDispatcher) Send(_ context.Context, msg Message) error {
	body, err := Render(msg)
	if err != nil {
		return err
	}

	d.logger.Info("Mail dispatched",
		zap.String("to", msg.To.Address()),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.Template),
		zap.String("body", body),
	)
	return nil
}
