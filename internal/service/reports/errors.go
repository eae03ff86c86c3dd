package reports

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректном фильтре
	ErrInvalidInput = fmt.Errorf("%w: reports: invalid filter", domain.ErrInvalidInput)

	// ErrInternal возвращается при ошибках чтения или формирования файла
	ErrInternal = errors.New("reports: internal error")
)
