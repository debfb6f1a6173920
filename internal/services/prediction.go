package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/dmitrijs2005/drscreen/internal/dbx"
	"github.com/dmitrijs2005/drscreen/internal/models"
	"github.com/dmitrijs2005/drscreen/internal/repositories/repomanager"
)

// PredictionService stores and queries classification history.
type PredictionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewPredictionService(db *sql.DB, m repomanager.RepositoryManager, opts ...Option) *PredictionService {
	o := buildOptions(opts)
	return &PredictionService{db: db, repomanager: m, now: o.now}
}

// SavePrediction stamps the record with the current time. Unknown users
// yield common.ErrorForeignKeyViolation; a class outside the known set or a
// confidence outside [0,1] yields common.ErrorValidation.
func (s *PredictionService) SavePrediction(ctx context.Context, userID int64, imagePath string, class models.Severity, confidence float64) (*models.Prediction, error) {
	if !class.Valid() {
		return nil, fmt.Errorf("%w: unknown class %q", common.ErrorValidation, class)
	}
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0,1]", common.ErrorValidation, confidence)
	}

	var p *models.Prediction
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		p, err = s.repomanager.Predictions(tx).Create(ctx, &models.Prediction{
			UserID:         userID,
			ImagePath:      imagePath,
			PredictedClass: class,
			Confidence:     confidence,
			Timestamp:      s.now().UTC(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPredictionsForUser returns newest first; an unknown user has an empty
// history.
func (s *PredictionService) GetPredictionsForUser(ctx context.Context, userID int64) ([]*models.Prediction, error) {
	var list []*models.Prediction
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		list, err = s.repomanager.Predictions(tx).ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// GetPrediction returns common.ErrorNotFound for unknown ids.
func (s *PredictionService) GetPrediction(ctx context.Context, id int64) (*models.Prediction, error) {
	var p *models.Prediction
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		p, err = s.repomanager.Predictions(tx).GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePrediction removes one record and returns it.
func (s *PredictionService) DeletePrediction(ctx context.Context, id int64) (*models.Prediction, error) {
	var p *models.Prediction
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Predictions(tx)

		var err error
		if p, err = repo.GetByID(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Summary aggregates the user's history. MostCommon is the least severe
// class among those with the highest count, nil for an empty history.
func (s *PredictionService) Summary(ctx context.Context, userID int64) (*models.HistorySummary, error) {
	list, err := s.GetPredictionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(list), nil
}

func summarize(list []*models.Prediction) *models.HistorySummary {
	counts := make([]int, len(models.SeverityClasses))
	sum := &models.HistorySummary{TotalScans: len(list)}

	for _, p := range list {
		if i := p.PredictedClass.Index(); i >= 0 {
			counts[i]++
		}
		if sum.LastScan == nil || p.Timestamp.After(*sum.LastScan) {
			ts := p.Timestamp
			sum.LastScan = &ts
		}
	}

	best := -1
	for i, c := range models.SeverityClasses {
		sum.Counts = append(sum.Counts, models.ClassCount{Class: c, Count: counts[i]})
		if counts[i] > 0 && (best < 0 || counts[i] > counts[best]) {
			best = i
		}
	}
	if best >= 0 {
		mc := models.SeverityClasses[best]
		sum.MostCommon = &mc
	}
	return sum
}
