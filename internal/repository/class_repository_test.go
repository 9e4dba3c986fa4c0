package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classfee-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestClassRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "fee", "start_date", "created_at"}).
		AddRow("class1", "Mathematics", 150.0, "2023-01-15", time.Now()).
		AddRow("class2", "Science", 180.0, "2023-01-20", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, fee, to_char(start_date, 'YYYY-MM-DD') AS start_date, created_at FROM classes ORDER BY created_at ASC, id ASC")).
		WillReturnRows(rows)

	classes, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "Mathematics", classes[0].Name)
	assert.Equal(t, 180.0, classes[1].Fee)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM classes WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "fee", "start_date", "created_at"}))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO classes")).
		WithArgs(sqlmock.AnyArg(), "Art", 95.5, "2024-02-01", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	class := &models.Class{Name: "Art", Fee: 95.5, StartDate: "2024-02-01"}
	require.NoError(t, repo.Create(context.Background(), class))
	assert.NotEmpty(t, class.ID)
	assert.False(t, class.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE classes SET name = $1, fee = $2, start_date = $3 WHERE id = $4")).
		WithArgs("Art", 100.0, "2024-02-01", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Class{ID: "missing", Name: "Art", Fee: 100, StartDate: "2024-02-01"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryFindByIDScansNumericText(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM classes WHERE id = $1")).
		WithArgs("class1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "fee", "start_date", "created_at"}).
			AddRow("class1", "Mathematics", []byte("0.005"), "2023-01-15", time.Now()))

	class, err := repo.FindByID(context.Background(), "class1")
	require.NoError(t, err)
	assert.Equal(t, 0.005, class.Fee)
	assert.NoError(t, mock.ExpectationsWereMet())
}
