package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// normalizeRequest обрезает пробелы во входных строках
func normalizeRequest(req *Request) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.RFIDTag = strings.TrimSpace(req.RFIDTag)
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Name == "" || utf8.RuneCountInString(req.Name) > domain.MaxNameLength {
		return fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, domain.MaxNameLength)
	}

	if len(req.Email) > domain.MaxEmailLength {
		return fmt.Errorf("%w: email is too long", ErrInvalidInput)
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, req.Email)
	}

	if req.RFIDTag == "" || len(req.RFIDTag) > domain.MaxRFIDTagLength {
		return fmt.Errorf("%w: rfid tag must be 1-%d characters", ErrInvalidInput, domain.MaxRFIDTagLength)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	return nil
}

// validateWindow Start < End и начало не в прошлом
func validateWindow(window domain.Window, now time.Time) error {
	if !window.Start.Before(window.End) {
		return ErrInvalidWindow
	}
	if window.Start.Before(now) {
		return ErrStartInPast
	}
	return nil
}
