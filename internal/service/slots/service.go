package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
)

// Service реестр слотов парковки
type Service struct {
	slotRepo  SlotRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(slotRepo SlotRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		slotRepo:  slotRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// List все слоты или только физически свободные
func (s *Service) List(ctx context.Context, onlyFree bool) (*models.SlotListResponse, error) {
	slots, err := s.slotRepo.List(ctx, domain.SlotFilter{OnlyFree: onlyFree})
	if err != nil {
		s.logger.Error("ListSlots: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlotList(slots), nil
}

// Get получает слот по ID
func (s *Service) Get(ctx context.Context, id int64) (*models.SlotResponse, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError("GetSlot", id, err)
	}
	return models.FromDomainSlot(slot), nil
}

// Create создает свободный слот с уникальной меткой
func (s *Service) Create(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	label := strings.TrimSpace(req.Label)
	if label == "" || utf8.RuneCountInString(label) > domain.MaxSlotLabelLength {
		s.logger.Warn("CreateSlot: invalid label %q", req.Label)
		return nil, ErrInvalidLabel
	}

	slot, err := s.slotRepo.Create(ctx, &domain.Slot{Label: label})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Warn("CreateSlot: label %q already exists", label)
			return nil, ErrLabelTaken
		}
		s.logger.Error("CreateSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSlot: created slot id=%d label=%s", slot.ID, slot.Label)
	return models.FromDomainSlot(slot), nil
}

// SetOccupied ручная установка занятости администратором.
// Выполняется под блокировкой слота, с бронями не сверяется
func (s *Service) SetOccupied(ctx context.Context, id int64, occupied bool) (*models.SlotResponse, error) {
	var result *domain.Slot

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		slot, err := s.slotRepo.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.slotRepo.SetOccupied(txCtx, id, occupied); err != nil {
			return err
		}
		slot.Occupied = occupied
		result = slot
		return nil
	})
	if err != nil {
		return nil, s.mapError("SetOccupied", id, err)
	}

	s.logger.Info("SetOccupied: slot id=%d occupied=%t (manual override)", id, occupied)
	return models.FromDomainSlot(result), nil
}

func (s *Service) mapError(op string, id int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("%s: slot id=%d not found", op, id)
		return ErrSlotNotFound
	}
	s.logger.Error("%s: repository error for slot id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
