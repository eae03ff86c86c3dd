package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/usecase/expire_bookings"
)

// ExpireUseCase один прогон очистки
type ExpireUseCase interface {
	Execute(ctx context.Context) (*expire_bookings.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sweeper периодически запускает очистку просроченных бронирований
type Sweeper struct {
	useCase  ExpireUseCase
	interval time.Duration
	logger   Logger
	wg       sync.WaitGroup
}

// New создает воркер с интервалом interval
func New(useCase ExpireUseCase, interval time.Duration, logger Logger) *Sweeper {
	return &Sweeper{
		useCase:  useCase,
		interval: interval,
		logger:   logger,
	}
}

// Start запускает воркер в фоне, остановка по отмене ctx
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run(ctx)
	}()
}

// Run выполняет прогон сразу и затем каждые interval до отмены ctx
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Sweeper: started, interval=%s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper: stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Wait ждёт завершения фонового воркера
func (s *Sweeper) Wait() {
	s.wg.Wait()
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.useCase.Execute(ctx); err != nil {
		s.logger.Error("Sweeper: sweep failed: %v", err)
	}
}
