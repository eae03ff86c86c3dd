package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_booking: invalid input data", domain.ErrInvalidInput)

	// ErrInvalidWindow возвращается, когда начало брони не раньше конца
	ErrInvalidWindow = fmt.Errorf("%w: create_booking: start time must be before end time", domain.ErrInvalidInput)

	// ErrStartInPast возвращается при попытке забронировать окно, начавшееся в прошлом
	ErrStartInPast = fmt.Errorf("%w: create_booking: start time is in the past", domain.ErrInvalidInput)

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("%w: create_booking: slot not found", domain.ErrNotFound)

	// ErrSlotOccupied возвращается, когда слот физически занят
	ErrSlotOccupied = fmt.Errorf("%w: create_booking: slot is currently occupied", domain.ErrConflict)

	// ErrOverlap возвращается, когда окно пересекается с другой бронью слота
	ErrOverlap = fmt.Errorf("%w: create_booking: slot is already booked for this time", domain.ErrConflict)

	// ErrTagInUse возвращается, когда метка уже привязана к пересекающейся брони
	ErrTagInUse = fmt.Errorf("%w: create_booking: RFID tag is already used by an overlapping booking", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
