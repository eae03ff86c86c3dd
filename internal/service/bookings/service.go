package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования с фильтрацией по email, метке, слоту и статусу
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// ListActive бронирования, удерживающие слот (active и checked_in)
func (s *Service) ListActive(ctx context.Context) (*models.BookingListResponse, error) {
	bookings, err := s.bookingRepo.List(ctx, domain.BookingFilter{Statuses: domain.HoldingStatuses})
	if err != nil {
		s.logger.Error("ListActive: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetUserBookings история бронирований по email
func (s *Service) GetUserBookings(ctx context.Context, email string) (*models.BookingListResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	return s.List(ctx, &models.ListBookingsRequest{Email: &email})
}

// FindByTag бронь, которая сейчас ответила бы на скан метки
func (s *Service) FindByTag(ctx context.Context, tag string) (*models.BookingResponse, error) {
	booking, err := s.findForTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// VerifyTag проверяет, есть ли у метки действующая бронь, и возвращает имя владельца
func (s *Service) VerifyTag(ctx context.Context, tag string) (*models.VerifyTagResponse, error) {
	booking, err := s.findForTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	return &models.VerifyTagResponse{Valid: true, Name: booking.Name, BookingID: booking.ID}, nil
}

func (s *Service) findForTag(ctx context.Context, tag string) (*domain.Booking, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("%w: rfid tag is required", ErrInvalidInput)
	}

	candidates, err := s.bookingRepo.FindScanCandidates(ctx, tag, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("FindByTag: repository error for tag=%s: %v", tag, err)
		return nil, fmt.Errorf("%w: FindByTag - repository error: %v", ErrInternal, err)
	}

	booking, _ := domain.PickForScan(candidates)
	if booking == nil {
		s.logger.Warn("FindByTag: no valid booking for tag=%s", tag)
		return nil, ErrNoBookingForTag
	}
	return booking, nil
}
