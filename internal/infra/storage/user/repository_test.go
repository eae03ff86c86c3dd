package user

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
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (name,email,uid) VALUES ($1,$2,$3) RETURNING id, created_at")).
		WithArgs("Ann", "ann@example.com", "04A1B2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(5, now))

	user, err := repo.Create(context.Background(), &domain.User{Name: "Ann", Email: "ann@example.com", UID: "04A1B2"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_UniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"uid", "users_uid_uidx", ErrUIDTaken},
		{"email", emailConstraint, ErrEmailTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			mock.ExpectQuery("INSERT INTO users").
				WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: tt.constraint})

			_, err := repo.Create(context.Background(), &domain.User{Name: "Ann", Email: "ann@example.com", UID: "04A1B2"})
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrConflict)
		})
	}
}

func TestRepository_GetByUID(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, uid, created_at FROM users WHERE uid = $1")).
		WithArgs("04A1B2").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(5, "Ann", "ann@example.com", "04A1B2", now))

	user, err := repo.GetByUID(context.Background(), "04A1B2")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, uid, created_at FROM users WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_List(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, uid, created_at FROM users ORDER BY id ASC")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "Ann", "ann@example.com", "04A1", now).
			AddRow(2, "Bob", "bob@example.com", "04B2", now))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "04B2", users[1].UID)
}
