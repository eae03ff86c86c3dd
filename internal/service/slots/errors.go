package slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("%w: slot not found", domain.ErrNotFound)

	// ErrLabelTaken возвращается, когда слот с такой меткой уже существует
	ErrLabelTaken = fmt.Errorf("%w: slot label already exists", domain.ErrConflict)

	// ErrInvalidLabel возвращается при пустой или слишком длинной метке
	ErrInvalidLabel = fmt.Errorf("%w: slot label must be 1-%d characters", domain.ErrInvalidInput, domain.MaxSlotLabelLength)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("slots: internal error")
)
