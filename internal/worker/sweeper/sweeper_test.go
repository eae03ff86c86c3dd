package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ParkingService/internal/usecase/expire_bookings"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type countingUseCase struct {
	runs int32
	err  error
}

func (u *countingUseCase) Execute(context.Context) (*expire_bookings.Response, error) {
	atomic.AddInt32(&u.runs, 1)
	if u.err != nil {
		return nil, u.err
	}
	return &expire_bookings.Response{}, nil
}

func TestSweeper_RunsUntilCancelled(t *testing.T) {
	uc := &countingUseCase{}
	s := New(uc, 10*time.Millisecond, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&uc.runs) >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	s.Wait()

	runs := atomic.LoadInt32(&uc.runs)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, runs, atomic.LoadInt32(&uc.runs))
}

func TestSweeper_KeepsRunningAfterError(t *testing.T) {
	uc := &countingUseCase{err: errors.New("db down")}
	s := New(uc, 5*time.Millisecond, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&uc.runs) >= 2
	}, time.Second, 5*time.Millisecond)
}
