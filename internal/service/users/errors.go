package users

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = fmt.Errorf("%w: user not found", domain.ErrNotFound)

	// ErrUIDTaken возвращается, когда метка уже зарегистрирована за другим пользователем
	ErrUIDTaken = fmt.Errorf("%w: user with this RFID tag already exists", domain.ErrConflict)

	// ErrEmailTaken возвращается, когда email уже зарегистрирован
	ErrEmailTaken = fmt.Errorf("%w: user with this email already exists", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных данных регистрации
	ErrInvalidInput = fmt.Errorf("%w: users: invalid input data", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("users: internal error")
)
