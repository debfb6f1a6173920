// Package users provides persistence for user accounts.
//
// Implementations must map "no row" to common.ErrorNotFound and unique
// constraint failures to common.ErrorDuplicateKey; everything else is
// returned wrapped as "db error: ...".
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/drscreen/internal/models"
)

type Repository interface {
	// Create inserts user and fills in its generated ID.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateProfile writes full_name and email of user.ID.
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
