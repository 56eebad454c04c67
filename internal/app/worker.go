package app

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Runner фоновый цикл, работающий до отмены контекста
type Runner interface {
	Run(ctx context.Context) error
}

// Worker управляет фоновым обработчиком очереди задач
type Worker struct {
	runner Runner
	logger *zap.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker создаёт фоновый обработчик
func NewWorker(runner Runner, logger *zap.Logger) *Worker {
	return &Worker{
		runner: runner,
		logger: logger,
	}
}

// Start запускает обработчик в отдельной горутине
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting background worker")

	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		if err := w.runner.Run(ctx); err != nil {
			w.logger.Error("Background worker exited with error", zap.Error(err))
		}
	}()
}

// Stop останавливает обработчик и ждёт завершения текущей задачи
func (w *Worker) Stop() {
	w.logger.Info("Stopping background worker")

	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
