// Package controller orchestrates drscreen use cases for a presentation
// layer: account lifecycle, image analysis and history. Callers pass the
// acting user's id explicitly (usually taken from a Session); the
// controller keeps no per-user state.
//
// Errors returned by Controller methods are always one of the sentinels in
// package common, possibly wrapped. Anything unexpected is logged and
// replaced with common.ErrorInternal.
package controller

import (
	"context"
	"time"

	"github.com/dmitrijs2005/drscreen/internal/imaging"
	"github.com/dmitrijs2005/drscreen/internal/logging"
	"github.com/dmitrijs2005/drscreen/internal/models"
	"github.com/dmitrijs2005/drscreen/internal/uploads"
)

// UserService is the account store used by the controller.
type UserService interface {
	CreateUser(ctx context.Context, username, email, password string, fullName *string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, fullName, email *string) (*models.User, error)
	ChangePassword(ctx context.Context, id int64, current, newPassword string) error
	DeleteUser(ctx context.Context, id int64) ([]string, error)
}

// PredictionService is the history store used by the controller.
type PredictionService interface {
	SavePrediction(ctx context.Context, userID int64, imagePath string, class models.Severity, confidence float64) (*models.Prediction, error)
	GetPrediction(ctx context.Context, id int64) (*models.Prediction, error)
	GetPredictionsForUser(ctx context.Context, userID int64) ([]*models.Prediction, error)
	DeletePrediction(ctx context.Context, id int64) (*models.Prediction, error)
	Summary(ctx context.Context, userID int64) (*models.HistorySummary, error)
}

// Predictor runs the classifier on a preprocessed tensor.
type Predictor interface {
	Predict(ctx context.Context, t *imaging.Tensor) ([]float32, error)
}

// Recommender maps a class to advice text.
type Recommender interface {
	For(class models.Severity) string
}

// Deps lists the collaborators of a Controller.
type Deps struct {
	Users       UserService
	Predictions PredictionService
	Images      uploads.Store
	Model       Predictor
	Remedies    Recommender
	Logger      logging.Logger
	// SecretKey signs session tokens.
	SecretKey []byte
	// InferenceTimeout bounds one classifier run; zero means 30s.
	InferenceTimeout time.Duration
}

type Controller struct {
	users   UserService
	preds   PredictionService
	images  uploads.Store
	model   Predictor
	book    Recommender
	log     logging.Logger
	secret  []byte
	timeout time.Duration
}

func New(d Deps) *Controller {
	log := d.Logger
	if log == nil {
		log = logging.Discard()
	}
	timeout := d.InferenceTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Controller{
		users:   d.Users,
		preds:   d.Predictions,
		images:  d.Images,
		model:   d.Model,
		book:    d.Remedies,
		log:     log.With("module", "controller"),
		secret:  d.SecretKey,
		timeout: timeout,
	}
}
