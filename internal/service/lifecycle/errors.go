package lifecycle

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: lifecycle: booking not found", domain.ErrNotFound)

	// ErrEarlyCheckIn возвращается при заезде до начала окна брони
	ErrEarlyCheckIn = fmt.Errorf("%w: lifecycle: booking window has not started yet", domain.ErrConflict)

	// ErrWindowOver возвращается при заезде после окончания окна брони
	ErrWindowOver = fmt.Errorf("%w: lifecycle: booking window is over", domain.ErrConflict)

	// ErrCannotComplete возвращается, когда бронь нельзя завершить в текущем состоянии
	ErrCannotComplete = fmt.Errorf("%w: lifecycle: booking cannot be completed", domain.ErrConflict)

	// ErrNotExpired возвращается при попытке истечь бронь, окно которой ещё не закончилось
	ErrNotExpired = fmt.Errorf("%w: lifecycle: booking has not expired", domain.ErrConflict)

	// ErrConcurrentUpdate возвращается, когда бронь изменили параллельно
	ErrConcurrentUpdate = fmt.Errorf("%w: lifecycle: booking was modified concurrently", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("lifecycle: internal error")
)
