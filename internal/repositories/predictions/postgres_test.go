package predictions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/dmitrijs2005/drscreen/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

const (
	insertQ = `(?s)^INSERT\s+INTO\s+predictions\s*\(user_id,\s*image_path,\s*predicted_class,\s*confidence,\s*timestamp\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id$`
	selectQ = `(?s)^SELECT\s+id,\s*user_id,\s*image_path,\s*predicted_class,\s*confidence,\s*timestamp\s+FROM\s+predictions\s+WHERE\s+`
)

var cols = []string{"id", "user_id", "image_path", "predicted_class", "confidence", "timestamp"}

func TestPostgres_Create(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ok", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(insertQ).
			WithArgs(int64(1), "u/a.png", "Moderate", 0.6, ts).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

		p, err := repo.Create(context.Background(), &models.Prediction{
			UserID: 1, ImagePath: "u/a.png", PredictedClass: models.SeverityModerate, Confidence: 0.6, Timestamp: ts,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 5, p.ID)
	})

	t.Run("missing user", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(insertQ).WillReturnError(&pgconn.PgError{Code: "23503"})

		_, err := repo.Create(context.Background(), &models.Prediction{UserID: 9, Timestamp: ts})
		assert.ErrorIs(t, err, common.ErrorForeignKeyViolation)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(insertQ).WillReturnError(errors.New("boom"))

		_, err := repo.Create(context.Background(), &models.Prediction{UserID: 9, Timestamp: ts})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db error: boom")
	})
}

func TestPostgres_GetByID(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(selectQ + `id\s*=\s*\$1$`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(5), int64(1), "u/a.png", "Severe", 0.9, ts))
	mock.ExpectQuery(selectQ + `id\s*=\s*\$1$`).
		WithArgs(int64(6)).
		WillReturnError(sql.ErrNoRows)

	p, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, models.SeveritySevere, p.PredictedClass)
	assert.Equal(t, ts, p.Timestamp)

	_, err = repo.GetByID(context.Background(), 6)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgres_ListByUser(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(selectQ + `user_id\s*=\s*\$1\s+ORDER\s+BY\s+timestamp\s+DESC,\s*id\s+DESC$`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(2), int64(1), "b.png", "Mild", 0.4, ts.Add(time.Second)).
			AddRow(int64(1), int64(1), "a.png", "Moderate", 0.5, ts))

	list, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.EqualValues(t, 2, list[0].ID)
	assert.EqualValues(t, 1, list[1].ID)
}

func TestPostgres_ListByUser_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(selectQ).WillReturnRows(sqlmock.NewRows(cols))

	list, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestPostgres_DeleteAndDeleteByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+predictions\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`(?s)^DELETE\s+FROM\s+predictions\s+WHERE\s+user_id\s*=\s*\$1\s+RETURNING\s+image_path$`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"image_path"}).AddRow("a.png").AddRow("b.png"))

	assert.ErrorIs(t, repo.Delete(context.Background(), 3), common.ErrorNotFound)

	paths, err := repo.DeleteByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, paths)
}
