package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

// exclusionViolation нарушение EXCLUDE-ограничения
const exclusionViolation = "23P01"

// tagOverlapConstraint ограничение на пересечение удерживающих броней одной метки
const tagOverlapConstraint = "bookings_tag_no_overlap"

var columns = []string{
	"id",
	"name",
	"email",
	"rfid_tag",
	"slot_id",
	"start_time",
	"end_time",
	"status",
	"check_in_time",
	"check_out_time",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Пересечение с другой удерживающей бронью слота или метки отсекается
// ограничениями БД и возвращается как ErrOverlap или ErrTagOverlap
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"name",
			"email",
			"rfid_tag",
			"slot_id",
			"start_time",
			"end_time",
			"status",
		).
		Values(
			booking.Name,
			booking.Email,
			booking.RFIDTag,
			booking.SlotID,
			booking.StartTime,
			booking.EndTime,
			booking.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == exclusionViolation {
			if pqErr.Constraint == tagOverlapConstraint {
				return nil, ErrTagOverlap
			}
			return nil, ErrOverlap
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// List получает бронирования по фильтру, новые сверху
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(columns...).
		From("bookings").
		OrderBy("start_time DESC", "id DESC")

	if filter.Email != nil {
		builder = builder.Where(squirrel.Eq{"email": *filter.Email})
	}
	if filter.RFIDTag != nil {
		builder = builder.Where(squirrel.Eq{"rfid_tag": *filter.RFIDTag})
	}
	if filter.SlotID != nil {
		builder = builder.Where(squirrel.Eq{"slot_id": *filter.SlotID})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(squirrel.Eq{"status": filter.Statuses})
	}

	return r.query(ctx, "List", builder)
}

// FindOverlapping удерживающие брони слота, пересекающиеся с окном
func (r *Repository) FindOverlapping(ctx context.Context, slotID int64, window domain.Window) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.Eq{"status": domain.HoldingStatuses}).
		Where(squirrel.Lt{"start_time": window.End}).
		Where(squirrel.Gt{"end_time": window.Start}).
		OrderBy("start_time ASC")

	return r.query(ctx, "FindOverlapping", builder)
}

// FindOverlappingByTag удерживающие брони метки, пересекающиеся с окном (на любом слоте)
func (r *Repository) FindOverlappingByTag(ctx context.Context, tag string, window domain.Window) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"rfid_tag": tag}).
		Where(squirrel.Eq{"status": domain.HoldingStatuses}).
		Where(squirrel.Lt{"start_time": window.End}).
		Where(squirrel.Gt{"end_time": window.Start}).
		OrderBy("start_time ASC")

	return r.query(ctx, "FindOverlappingByTag", builder)
}

// FindBlockingSlotIDs слоты, недоступные в окне: активная бронь пересекается с окном,
// либо машина на месте и её бронь заканчивается после начала окна
func (r *Repository) FindBlockingSlotIDs(ctx context.Context, window domain.Window) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT slot_id").
		From("bookings").
		Where(squirrel.Or{
			squirrel.And{
				squirrel.Eq{"status": domain.StatusActive},
				squirrel.Lt{"start_time": window.End},
				squirrel.Gt{"end_time": window.Start},
			},
			squirrel.And{
				squirrel.Eq{"status": domain.StatusCheckedIn},
				squirrel.Gt{"end_time": window.Start},
			},
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindBlockingSlotIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindBlockingSlotIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: FindBlockingSlotIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindBlockingSlotIDs - rows iteration: %v", ErrScanRow, err)
	}

	return ids, nil
}

// FindScanCandidates брони метки, которые могут ответить на скан в момент now
func (r *Repository) FindScanCandidates(ctx context.Context, tag string, now time.Time) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"rfid_tag": tag}).
		Where(squirrel.Or{
			squirrel.And{
				squirrel.Eq{"status": domain.StatusActive},
				squirrel.LtOrEq{"start_time": now},
				squirrel.Gt{"end_time": now},
			},
			squirrel.Eq{"status": domain.StatusCheckedIn},
		}).
		OrderBy("start_time ASC", "id ASC")

	return r.query(ctx, "FindScanCandidates", builder)
}

// FindExpired активные брони, окно которых закончилось до now
func (r *Repository) FindExpired(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusActive}).
		Where(squirrel.Lt{"end_time": now}).
		OrderBy("end_time ASC", "id ASC")

	return r.query(ctx, "FindExpired", builder)
}

// ApplyStatusChange compare-and-set обновление статуса: ErrStatusChanged,
// если бронь уже не в статусе change.From
func (r *Repository) ApplyStatusChange(ctx context.Context, change domain.StatusChange) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("bookings").
		Set("status", change.To).
		Set("updated_at", change.At).
		Where(squirrel.Eq{"id": change.BookingID}).
		Where(squirrel.Eq{"status": change.From})
	if change.CheckInTime != nil {
		builder = builder.Set("check_in_time", *change.CheckInTime)
	}
	if change.CheckOutTime != nil {
		builder = builder.Set("check_out_time", *change.CheckOutTime)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ApplyStatusChange - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ApplyStatusChange - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ApplyStatusChange - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrStatusChanged
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var checkIn, checkOut sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.Name,
		&booking.Email,
		&booking.RFIDTag,
		&booking.SlotID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&checkIn,
		&checkOut,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if checkIn.Valid {
		t := checkIn.Time
		booking.CheckInTime = &t
	}
	if checkOut.Valid {
		t := checkOut.Time
		booking.CheckOutTime = &t
	}

	return &booking, nil
}
