package predictions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/dmitrijs2005/drscreen/internal/dbx"
	"github.com/dmitrijs2005/drscreen/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Prediction) (*models.Prediction, error) {
	query :=
		`INSERT INTO predictions (user_id, image_path, predicted_class, confidence, timestamp)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.ImagePath, string(p.PredictedClass), p.Confidence, p.Timestamp.UTC(),
	).Scan(&p.ID)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorForeignKeyViolation
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func scanPostgres(s scanner) (*models.Prediction, error) {
	var (
		p     models.Prediction
		class string
	)
	if err := s.Scan(&p.ID, &p.UserID, &p.ImagePath, &class, &p.Confidence, &p.Timestamp); err != nil {
		return nil, err
	}
	p.PredictedClass = models.Severity(class)
	p.Timestamp = p.Timestamp.UTC()
	return &p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Prediction, error) {
	query :=
		`SELECT id, user_id, image_path, predicted_class, confidence, timestamp
		 FROM predictions WHERE id = $1`

	p, err := scanPostgres(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Prediction, error) {
	query :=
		`SELECT id, user_id, image_path, predicted_class, confidence, timestamp
		 FROM predictions WHERE user_id = $1
		 ORDER BY timestamp DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Prediction, 0)
	for rows.Next() {
		p, err := scanPostgres(rows)
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

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM predictions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `DELETE FROM predictions WHERE user_id = $1 RETURNING image_path`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collectPaths(rows)
}
