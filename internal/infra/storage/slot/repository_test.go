package slot

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock, db
}

func TestRepository_Create(t *testing.T) {
	repo, mock, _ := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO slots (label,occupied) VALUES ($1,$2) RETURNING id, created_at, updated_at")).
		WithArgs("A1", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	slot, err := repo.Create(context.Background(), &domain.Slot{Label: "A1"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), slot.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_DuplicateLabel(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("INSERT INTO slots").
		WillReturnError(&pq.Error{Code: uniqueViolation})

	_, err := repo.Create(context.Background(), &domain.Slot{Label: "A1"})
	assert.ErrorIs(t, err, ErrLabelTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, label, occupied, created_at, updated_at FROM slots WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_GetForUpdate_LocksInsideTransaction(t *testing.T) {
	repo, mock, db := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM slots WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "A1", true, now, now))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	slot, err := repo.GetForUpdate(ctx, 1)
	require.NoError(t, err)
	assert.True(t, slot.Occupied)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_OnlyFree(t *testing.T) {
	repo, mock, _ := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, label, occupied, created_at, updated_at FROM slots WHERE occupied = $1 ORDER BY label ASC")).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "A1", false, now, now).
			AddRow(2, "A2", false, now, now))

	slots, err := repo.List(context.Background(), domain.SlotFilter{OnlyFree: true})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "A2", slots[1].Label)
}

func TestRepository_SetOccupied(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE slots SET occupied = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs(true, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE slots").
		WithArgs(true, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SetOccupied(context.Background(), 1, true))
	assert.ErrorIs(t, repo.SetOccupied(context.Background(), 99, true), ErrSlotNotFound)
}
