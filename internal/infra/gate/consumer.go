package gate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/handle_scan"
)

const (
	ActionEntry  = "entry"
	ActionExit   = "exit"
	ActionDenied = "denied"

	scanTimeout = 10 * time.Second
)

// ErrBadTopic топик не соответствует шаблону parking/gates/{gate}/scan
var ErrBadTopic = errors.New("gate: unexpected topic")

// scanPayload сообщение считывателя
type scanPayload struct {
	Tag string `json:"tag"`
}

// Result ответ шлагбауму
type Result struct {
	Action  string `json:"action"`
	Message string `json:"message"`
	Slot    string `json:"slot,omitempty"`
}

// Consumer принимает сканы со шлагбаумов и публикует решение
type Consumer struct {
	useCase     ScanUseCase
	guard       Guard
	publisher   Publisher
	resultTopic string
	qos         byte
	logger      Logger
}

// NewConsumer создает обработчик сканов; guard может быть nil
func NewConsumer(useCase ScanUseCase, guard Guard, publisher Publisher, resultTopicPrefix string, qos byte, logger Logger) *Consumer {
	return &Consumer{
		useCase:     useCase,
		guard:       guard,
		publisher:   publisher,
		resultTopic: strings.TrimSuffix(resultTopicPrefix, "/"),
		qos:         qos,
		logger:      logger,
	}
}

// Handle обрабатывает одно сообщение; подходит как MessageHandler
func (c *Consumer) Handle(topic string, payload []byte) error {
	gateID, err := gateFromTopic(topic)
	if err != nil {
		return err
	}

	tag := parseTag(payload)
	if tag == "" {
		c.logger.Warn("Gate.Handle: empty tag gate=%s", gateID)
		return c.publish(gateID, Result{Action: ActionDenied, Message: "Empty RFID tag"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	if c.guard != nil {
		allowed, err := c.guard.Allow(ctx, tag)
		if err != nil {
			// при недоступности хранилища скан пропускается
			c.logger.Warn("Gate.Handle: scan guard unavailable gate=%s: %v", gateID, err)
		} else if !allowed {
			c.logger.Info("Gate.Handle: repeated scan ignored gate=%s tag=%s", gateID, tag)
			return nil
		}
	}

	resp, err := c.useCase.Execute(ctx, &handle_scan.Request{Tag: tag, Source: gateID})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrInvalidInput) {
			c.logger.Info("Gate.Handle: denied gate=%s tag=%s: %v", gateID, tag, err)
			return c.publish(gateID, Result{Action: ActionDenied, Message: deniedMessage(err)})
		}
		c.logger.Error("Gate.Handle: scan failed gate=%s tag=%s: %v", gateID, tag, err)
		return c.publish(gateID, Result{Action: ActionDenied, Message: "Service unavailable"})
	}

	result := Result{Action: ActionEntry, Message: resp.Message, Slot: resp.SlotLabel}
	if resp.Action == domain.ActionCompleted {
		result.Action = ActionExit
	}
	return c.publish(gateID, result)
}

func (c *Consumer) publish(gateID string, result Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("gate: marshal result: %w", err)
	}
	return c.publisher.Publish(c.resultTopic+"/"+gateID+"/result", c.qos, data)
}

// gateFromTopic извлекает идентификатор шлагбаума из .../{gate}/scan
func gateFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) < 2 || parts[len(parts)-1] != "scan" || parts[len(parts)-2] == "" {
		return "", fmt.Errorf("%w: %s", ErrBadTopic, topic)
	}
	return parts[len(parts)-2], nil
}

// parseTag принимает JSON {"tag": "..."} или голый UID
func parseTag(payload []byte) string {
	raw := strings.TrimSpace(string(payload))
	if strings.HasPrefix(raw, "{") {
		var p scanPayload
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return ""
		}
		return strings.TrimSpace(p.Tag)
	}
	return raw
}

func deniedMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "No valid booking found for this RFID tag"
	case errors.Is(err, lifecycle.ErrEarlyCheckIn):
		return "Booking has not started yet"
	case errors.Is(err, lifecycle.ErrWindowOver):
		return "Booking window is over"
	case errors.Is(err, domain.ErrInvalidInput):
		return "Invalid RFID tag"
	default:
		return "Access denied"
	}
}
