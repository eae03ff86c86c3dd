package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	userRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/user"
	"github.com/m04kA/SMC-ParkingService/internal/service/users/models"
)

// Service реестр владельцев RFID меток
type Service struct {
	userRepo UserRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса пользователей
func NewService(userRepo UserRepository, logger Logger) *Service {
	return &Service{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register регистрирует пользователя. Метка и email не должны быть заняты
func (s *Service) Register(ctx context.Context, req *models.RegisterUserRequest) (*models.UserResponse, error) {
	user := &domain.User{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		UID:   strings.TrimSpace(req.UID),
	}
	if err := validateUser(user); err != nil {
		s.logger.Warn("RegisterUser: validation failed: %v", err)
		return nil, err
	}

	existing, err := s.userRepo.GetByUID(ctx, user.UID)
	if err == nil && existing != nil {
		s.logger.Warn("RegisterUser: uid=%s already registered to user id=%d", user.UID, existing.ID)
		return nil, ErrUIDTaken
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("RegisterUser: repository error: %v", err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, userRepo.ErrEmailTaken):
			s.logger.Warn("RegisterUser: email=%s already registered", user.Email)
			return nil, ErrEmailTaken
		case errors.Is(err, domain.ErrConflict):
			s.logger.Warn("RegisterUser: uid=%s registered concurrently", user.UID)
			return nil, ErrUIDTaken
		}
		s.logger.Error("RegisterUser: repository error: %v", err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RegisterUser: registered user id=%d uid=%s", created.ID, created.UID)
	return models.FromDomainUser(created), nil
}

// List все зарегистрированные пользователи
func (s *Service) List(ctx context.Context) (*models.UserListResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListUsers: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainUserList(users), nil
}

// Get получает пользователя по ID
func (s *Service) Get(ctx context.Context, id int64) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError("GetUser", fmt.Sprintf("id=%d", id), err)
	}
	return models.FromDomainUser(user), nil
}

// GetByUID получает владельца метки
func (s *Service) GetByUID(ctx context.Context, uid string) (*models.UserResponse, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, s.mapError("GetUserByUID", "uid="+uid, err)
	}
	return models.FromDomainUser(user), nil
}

func (s *Service) mapError(op, key string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("%s: user %s not found", op, key)
		return ErrUserNotFound
	}
	s.logger.Error("%s: repository error for user %s: %v", op, key, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func validateUser(u *domain.User) error {
	if u.Name == "" || utf8.RuneCountInString(u.Name) > domain.MaxNameLength {
		return fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	if len(u.Email) > domain.MaxEmailLength {
		return fmt.Errorf("%w: email is too long", ErrInvalidInput)
	}
	if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, u.Email)
	}
	if u.UID == "" || len(u.UID) > domain.MaxRFIDTagLength {
		return fmt.Errorf("%w: uid must be 1-%d characters", ErrInvalidInput, domain.MaxRFIDTagLength)
	}
	return nil
}
