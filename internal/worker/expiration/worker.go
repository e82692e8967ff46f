// Package expiration запускает expiration sweep по расписанию.
// Таймер - единственный триггер: reconciler сходится к консистентному
// состоянию без внешних вызовов.
package expiration

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/parkeasy/booking-service/internal/usecase/expire_bookings"
	"github.com/parkeasy/booking-service/pkg/metrics"
)

// Sweeper интерфейс одного прохода reconciler'а
type Sweeper interface {
	Execute(ctx context.Context) (*expire_bookings.Result, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Worker периодически запускает sweep. Прошлый проход не прерывается:
// медленный tick просто задерживает следующий (cron.SkipIfStillRunning).
type Worker struct {
	sweeper    Sweeper
	logger     Logger
	metrics    *metrics.Metrics
	schedule   string
	runOnStart bool
	cron       *cron.Cron
}

// New создает worker. schedule в формате robfig/cron, например "@every 1m".
// runOnStart=true дополнительно запускает sweep при старте процесса,
// чтобы подобрать бронирования, истекшие пока сервис лежал.
func New(sweeper Sweeper, logger Logger, m *metrics.Metrics, schedule string, runOnStart bool) *Worker {
	return &Worker{
		sweeper:    sweeper,
		logger:     logger,
		metrics:    m,
		schedule:   schedule,
		runOnStart: runOnStart,
	}
}

// Start запускает расписание. Возвращает ошибку только при невалидном schedule.
func (w *Worker) Start() error {
	if w.runOnStart {
		go w.runSweep()
	}

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	if _, err := c.AddFunc(w.schedule, w.runSweep); err != nil {
		return fmt.Errorf("expiration worker: invalid schedule %q: %w", w.schedule, err)
	}

	c.Start()
	w.cron = c
	w.logger.Info("Expiration worker started, schedule=%s, runOnStart=%v", w.schedule, w.runOnStart)
	return nil
}

// Stop останавливает расписание и дожидается завершения текущего прохода
func (w *Worker) Stop() {
	if w.cron == nil {
		return
	}
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Info("Expiration worker stopped")
}

// runSweep один запуск sweep с метриками
func (w *Worker) runSweep() {
	start := time.Now()

	result, err := w.sweeper.Execute(context.Background())
	if err != nil {
		w.logger.Error("Expiration worker: sweep failed: %v", err)
		if w.metrics != nil {
			w.metrics.ObserveSweep(0, 1, time.Since(start))
		}
		return
	}

	if w.metrics != nil {
		w.metrics.ObserveSweep(result.UpdatedCount, result.ErrorCount, time.Since(start))
	}

	if result.UpdatedCount > 0 || result.ErrorCount > 0 {
		w.logger.Info("Expiration worker: expired=%d, errors=%d", result.UpdatedCount, result.ErrorCount)
	}
}
