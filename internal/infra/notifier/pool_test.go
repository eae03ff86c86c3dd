package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type mockSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *mockSender) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockSender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type countingMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (c *countingMetrics) RecordNotification(result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[result]++
}

func (c *countingMetrics) get(result string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results[result]
}

func testBooking() *domain.Booking {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID: 7, Name: "Ann", Email: "ann@example.com", RFIDTag: "TAG1",
		SlotID: 1, StartTime: start, EndTime: start.Add(2 * time.Hour),
	}
}

func TestWorkerPool_SendsConfirmation(t *testing.T) {
	sender := &mockSender{}
	metrics := &countingMetrics{results: map[string]int{}}
	wp := NewWorkerPool(1, 4, sender, metrics, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.BookingCreated(testBooking(), &domain.Slot{ID: 1, Label: "A1"})

	require.Eventually(t, func() bool { return sender.count() == 1 }, time.Second, 5*time.Millisecond)

	msg := sender.sent[0]
	assert.Equal(t, "ann@example.com", msg.To)
	assert.Equal(t, confirmationSubject, msg.Subject)
	assert.Contains(t, msg.HTML, "Booking ID: 7")
	assert.Contains(t, msg.HTML, "Slot: A1")
	assert.Contains(t, msg.HTML, "RFID tag: TAG1")
	assert.Equal(t, 1, metrics.get("sent"))
}

func TestWorkerPool_DropsWhenQueueFull(t *testing.T) {
	metrics := &countingMetrics{results: map[string]int{}}
	wp := NewWorkerPool(1, 1, &mockSender{}, metrics, logger.NewNop())

	// Воркеры не запущены, очередь на одно письмо
	wp.BookingCreated(testBooking(), nil)
	wp.BookingCreated(testBooking(), nil)

	assert.Len(t, wp.jobs, 1)
	assert.Equal(t, 1, metrics.get("dropped"))
}

func TestWorkerPool_SendFailureIsSwallowed(t *testing.T) {
	sender := &mockSender{err: errors.New("smtp down")}
	metrics := &countingMetrics{results: map[string]int{}}
	wp := NewWorkerPool(1, 1, sender, metrics, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	wp.Start(ctx)

	wp.BookingCreated(testBooking(), nil)
	require.Eventually(t, func() bool { return metrics.get("failed") == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	wp.Wait()
}

func TestRenderConfirmation_EscapesHTML(t *testing.T) {
	b := testBooking()
	b.Name = "<script>x</script>"

	msg, err := renderConfirmation(b, nil)
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
}
