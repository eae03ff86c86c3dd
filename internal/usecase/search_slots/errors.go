package search_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректном окне поиска
	ErrInvalidInput = fmt.Errorf("%w: search_slots: invalid search window", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("search_slots: internal error")
)
