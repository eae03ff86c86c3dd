package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const sendTimeout = 30 * time.Second

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счётчики уведомлений
type Metrics interface {
	RecordNotification(result string)
}

type job struct {
	bookingID int64
	msg       Message
}

// WorkerPool пул воркеров, отправляющих подтверждения броней
type WorkerPool struct {
	size    int
	jobs    chan job
	sender  Sender
	metrics Metrics
	logger  Logger
	wg      sync.WaitGroup
}

// NewWorkerPool создает пул из size воркеров с очередью queueSize
func NewWorkerPool(size, queueSize int, sender Sender, metrics Metrics, logger Logger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if queueSize <= 0 {
		queueSize = size
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan job, queueSize),
		sender:  sender,
		metrics: metrics,
		logger:  logger,
	}
}

// Start запускает воркеры, остановка по отмене ctx
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait ждёт остановки воркеров
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	for {
		select {
		case j := <-wp.jobs:
			wp.send(ctx, j)
		case <-ctx.Done():
			wp.logger.Info("Notifier: worker %d shutting down", id)
			return
		}
	}
}

func (wp *WorkerPool) send(ctx context.Context, j job) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := wp.sender.Send(sendCtx, j.msg); err != nil {
		wp.logger.Error("Notifier: booking id=%d: %v", j.bookingID, err)
		wp.metrics.RecordNotification("failed")
		return
	}
	wp.logger.Info("Notifier: confirmation sent for booking id=%d", j.bookingID)
	wp.metrics.RecordNotification("sent")
}

// BookingCreated ставит подтверждение в очередь. Не блокирует:
// при заполненной очереди письмо отбрасывается с предупреждением
func (wp *WorkerPool) BookingCreated(booking *domain.Booking, slot *domain.Slot) {
	msg, err := renderConfirmation(booking, slot)
	if err != nil {
		wp.logger.Error("Notifier: failed to render confirmation for booking id=%d: %v", booking.ID, err)
		wp.metrics.RecordNotification("failed")
		return
	}

	select {
	case wp.jobs <- job{bookingID: booking.ID, msg: msg}:
	default:
		wp.logger.Warn("Notifier: queue is full, confirmation for booking id=%d dropped", booking.ID)
		wp.metrics.RecordNotification("dropped")
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordNotification(string) {}
