package handle_scan

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при пустой метке
	ErrInvalidInput = fmt.Errorf("%w: handle_scan: rfid tag is required", domain.ErrInvalidInput)

	// ErrNoBooking возвращается, когда у метки нет брони, отвечающей на скан
	ErrNoBooking = fmt.Errorf("%w: handle_scan: no valid booking found for this RFID tag", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("handle_scan: internal error")
)
