package predictions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/dmitrijs2005/drscreen/internal/dbx"
	"github.com/dmitrijs2005/drscreen/internal/models"
	"github.com/dmitrijs2005/drscreen/internal/timex"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, p *models.Prediction) (*models.Prediction, error) {
	query :=
		`INSERT INTO predictions (user_id, image_path, predicted_class, confidence, timestamp)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.ImagePath, string(p.PredictedClass), p.Confidence, timex.FormatISO(p.Timestamp),
	).Scan(&p.ID)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorForeignKeyViolation
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func scanSQLite(s scanner) (*models.Prediction, error) {
	var (
		p     models.Prediction
		class string
		ts    string
	)
	if err := s.Scan(&p.ID, &p.UserID, &p.ImagePath, &class, &p.Confidence, &ts); err != nil {
		return nil, err
	}
	t, err := timex.ParseISO(ts)
	if err != nil {
		return nil, fmt.Errorf("timestamp: %w", err)
	}
	p.PredictedClass = models.Severity(class)
	p.Timestamp = t
	return &p, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Prediction, error) {
	query :=
		`SELECT id, user_id, image_path, predicted_class, confidence, timestamp
		 FROM predictions WHERE id = ?`

	p, err := scanSQLite(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Prediction, error) {
	query :=
		`SELECT id, user_id, image_path, predicted_class, confidence, timestamp
		 FROM predictions WHERE user_id = ?
		 ORDER BY timestamp DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Prediction, 0)
	for rows.Next() {
		p, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM predictions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLiteRepository) DeleteByUser(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `DELETE FROM predictions WHERE user_id = ? RETURNING image_path`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collectPaths(rows)
}
