// Package predictions provides persistence for classification results.
package predictions

import (
	"context"

	"github.com/dmitrijs2005/drscreen/internal/models"
)

type Repository interface {
	// Create inserts p and fills in its generated ID. A missing user is
	// reported as common.ErrorForeignKeyViolation.
	Create(ctx context.Context, p *models.Prediction) (*models.Prediction, error)
	GetByID(ctx context.Context, id int64) (*models.Prediction, error)
	// ListByUser returns the user's predictions newest first; ties on
	// timestamp are broken by descending id.
	ListByUser(ctx context.Context, userID int64) ([]*models.Prediction, error)
	Delete(ctx context.Context, id int64) error
	// DeleteByUser removes every prediction of the user and returns the
	// image paths they referenced.
	DeleteByUser(ctx context.Context, userID int64) ([]string, error)
}
