package gate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/handle_scan"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type fakePublisher struct {
	messages []published
	err      error
}

func (p *fakePublisher) Publish(topic string, qos byte, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, published{topic: topic, qos: qos, payload: payload})
	return nil
}

func (p *fakePublisher) last(t *testing.T) (string, Result) {
	t.Helper()
	require.NotEmpty(t, p.messages)
	msg := p.messages[len(p.messages)-1]
	var r Result
	require.NoError(t, json.Unmarshal(msg.payload, &r))
	return msg.topic, r
}

type fakeScan struct {
	requests []*handle_scan.Request
	resp     *handle_scan.Response
	err      error
}

func (f *fakeScan) Execute(_ context.Context, req *handle_scan.Request) (*handle_scan.Response, error) {
	f.requests = append(f.requests, req)
	return f.resp, f.err
}

type fakeGuard struct {
	allow bool
	err   error
}

func (g *fakeGuard) Allow(context.Context, string) (bool, error) {
	return g.allow, g.err
}

func newTestConsumer(uc ScanUseCase, guard Guard, pub Publisher) *Consumer {
	return NewConsumer(uc, guard, pub, "parking/gates/", 1, logger.NewNop())
}

func TestConsumer_Handle_Entry(t *testing.T) {
	uc := &fakeScan{resp: &handle_scan.Response{
		Action: domain.ActionCheckedIn, Message: "Welcome, Ann!", SlotLabel: "A1",
	}}
	pub := &fakePublisher{}
	c := newTestConsumer(uc, nil, pub)

	err := c.Handle("parking/gates/north/scan", []byte(`{"tag":" TAG1 "}`))
	require.NoError(t, err)

	require.Len(t, uc.requests, 1)
	assert.Equal(t, "TAG1", uc.requests[0].Tag)
	assert.Equal(t, "north", uc.requests[0].Source)

	topic, r := pub.last(t)
	assert.Equal(t, "parking/gates/north/result", topic)
	assert.Equal(t, Result{Action: ActionEntry, Message: "Welcome, Ann!", Slot: "A1"}, r)
	assert.Equal(t, byte(1), pub.messages[0].qos)
}

func TestConsumer_Handle_ExitWithBareUID(t *testing.T) {
	uc := &fakeScan{resp: &handle_scan.Response{
		Action: domain.ActionCompleted, Message: "Thank you, Ann! Come again.", SlotLabel: "A1",
	}}
	pub := &fakePublisher{}
	c := newTestConsumer(uc, nil, pub)

	require.NoError(t, c.Handle("parking/gates/south/scan", []byte("04A1B2C3\n")))

	assert.Equal(t, "04A1B2C3", uc.requests[0].Tag)
	_, r := pub.last(t)
	assert.Equal(t, ActionExit, r.Action)
}

func TestConsumer_Handle_Denied(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"no booking", handle_scan.ErrNoBooking, "No valid booking found for this RFID tag"},
		{"too early", lifecycle.ErrEarlyCheckIn, "Booking has not started yet"},
		{"window over", lifecycle.ErrWindowOver, "Booking window is over"},
		{"internal", handle_scan.ErrInternal, "Service unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			c := newTestConsumer(&fakeScan{err: tt.err}, nil, pub)

			require.NoError(t, c.Handle("parking/gates/g1/scan", []byte("TAG1")))

			_, r := pub.last(t)
			assert.Equal(t, ActionDenied, r.Action)
			assert.Equal(t, tt.message, r.Message)
			assert.Empty(t, r.Slot)
		})
	}
}

func TestConsumer_Handle_EmptyTag(t *testing.T) {
	uc := &fakeScan{}
	pub := &fakePublisher{}
	c := newTestConsumer(uc, nil, pub)

	require.NoError(t, c.Handle("parking/gates/g1/scan", []byte(`{"tag":""}`)))
	require.NoError(t, c.Handle("parking/gates/g1/scan", []byte(`{broken`)))

	assert.Empty(t, uc.requests)
	require.Len(t, pub.messages, 2)
	_, r := pub.last(t)
	assert.Equal(t, ActionDenied, r.Action)
}

func TestConsumer_Handle_Guard(t *testing.T) {
	t.Run("repeated scan is dropped silently", func(t *testing.T) {
		uc := &fakeScan{}
		pub := &fakePublisher{}
		c := newTestConsumer(uc, &fakeGuard{allow: false}, pub)

		require.NoError(t, c.Handle("parking/gates/g1/scan", []byte("TAG1")))
		assert.Empty(t, uc.requests)
		assert.Empty(t, pub.messages)
	})

	t.Run("guard failure does not block the gate", func(t *testing.T) {
		uc := &fakeScan{resp: &handle_scan.Response{Action: domain.ActionCheckedIn}}
		pub := &fakePublisher{}
		c := newTestConsumer(uc, &fakeGuard{err: errors.New("redis down")}, pub)

		require.NoError(t, c.Handle("parking/gates/g1/scan", []byte("TAG1")))
		assert.Len(t, uc.requests, 1)
		assert.Len(t, pub.messages, 1)
	})
}

func TestConsumer_Handle_BadTopic(t *testing.T) {
	c := newTestConsumer(&fakeScan{}, nil, &fakePublisher{})

	for _, topic := range []string{"scan", "parking/gates/g1/result", "parking/gates//scan"} {
		err := c.Handle(topic, []byte("TAG1"))
		assert.ErrorIs(t, err, ErrBadTopic, topic)
	}
}

func TestConsumer_Handle_PublishError(t *testing.T) {
	pubErr := errors.New("broker gone")
	c := newTestConsumer(&fakeScan{resp: &handle_scan.Response{Action: domain.ActionCheckedIn}}, nil, &fakePublisher{err: pubErr})

	err := c.Handle("parking/gates/g1/scan", []byte("TAG1"))
	assert.ErrorIs(t, err, pubErr)
}
