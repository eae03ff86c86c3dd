package booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: booking.repository: booking not found", domain.ErrNotFound)

	// ErrOverlap возвращается, когда окно пересекается с другой бронью этого слота
	ErrOverlap = fmt.Errorf("%w: booking.repository: slot already booked for this window", domain.ErrConflict)

	// ErrTagOverlap возвращается, когда метка уже привязана к пересекающейся удерживающей брони
	ErrTagOverlap = fmt.Errorf("%w: booking.repository: rfid tag already bound to an overlapping booking", domain.ErrConflict)

	// ErrStatusChanged возвращается, когда статус изменился между чтением и обновлением
	ErrStatusChanged = fmt.Errorf("%w: booking.repository: booking status changed concurrently", domain.ErrConflict)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
