package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const (
	sheetName = "Bookings"
	// ContentType MIME тип xlsx
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []string{
	"ID", "Name", "Email", "RFID Tag", "Slot", "Start", "End",
	"Status", "Check-in", "Check-out", "Duration", "Created",
}

var columnWidths = []float64{8, 24, 30, 18, 10, 20, 20, 12, 20, 20, 10, 20}

// Service выгрузка бронирований в Excel
type Service struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	logger       Logger
	timeProvider TimeProvider
}

func NewService(bookingRepo BookingRepository, slotRepo SlotRepository, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		logger:       logger,
		timeProvider: &RealTimeProvider{},
	}
}

// FileName имя файла выгрузки на текущий момент
func (s *Service) FileName() string {
	return fmt.Sprintf("bookings_%s.xlsx", s.timeProvider.Now().UTC().Format("20060102_150405"))
}

// ExportBookings формирует xlsx со списком бронирований по фильтру
func (s *Service) ExportBookings(ctx context.Context, filter domain.BookingFilter) ([]byte, error) {
	for _, st := range filter.Statuses {
		if !st.IsValid() {
			return nil, fmt.Errorf("%w: status %q", ErrInvalidInput, st)
		}
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ExportBookings: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: ExportBookings - list bookings: %v", ErrInternal, err)
	}

	slots, err := s.slotRepo.List(ctx, domain.SlotFilter{})
	if err != nil {
		s.logger.Error("ExportBookings: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: ExportBookings - list slots: %v", ErrInternal, err)
	}
	labels := make(map[int64]string, len(slots))
	for _, slot := range slots {
		labels[slot.ID] = slot.Label
	}

	data, err := buildWorkbook(bookings, labels)
	if err != nil {
		s.logger.Error("ExportBookings: failed to build workbook: %v", err)
		return nil, fmt.Errorf("%w: ExportBookings - %v", ErrInternal, err)
	}

	s.logger.Info("ExportBookings: exported %d bookings (%d bytes)", len(bookings), len(data))
	return data, nil
}

func buildWorkbook(bookings []*domain.Booking, labels map[int64]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("set header style: %w", err)
		}

		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, col, col, columnWidths[i]); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	for i, b := range bookings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := bookingRow(b, labels[b.SlotID])
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func bookingRow(b *domain.Booking, slotLabel string) []interface{} {
	return []interface{}{
		b.ID,
		b.Name,
		b.Email,
		b.RFIDTag,
		slotLabel,
		formatTime(&b.StartTime),
		formatTime(&b.EndTime),
		string(b.Status),
		formatTime(b.CheckInTime),
		formatTime(b.CheckOutTime),
		parkedFor(b),
		formatTime(&b.CreatedAt),
	}
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(domain.DateTimeFormat)
}

func parkedFor(b *domain.Booking) string {
	if b.CheckInTime == nil || b.CheckOutTime == nil {
		return ""
	}
	return domain.FormatDuration(b.CheckOutTime.Sub(*b.CheckInTime))
}
