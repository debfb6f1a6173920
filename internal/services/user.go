package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/drscreen/internal/common"
	"github.com/dmitrijs2005/drscreen/internal/credentials"
	"github.com/dmitrijs2005/drscreen/internal/dbx"
	"github.com/dmitrijs2005/drscreen/internal/models"
	"github.com/dmitrijs2005/drscreen/internal/repositories/repomanager"
)

// UserService manages accounts: registration, credential checks, profile
// edits and deletion.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      credentials.Hasher
	now         func() time.Time
	dummyDigest string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher credentials.Hasher, opts ...Option) *UserService {
	o := buildOptions(opts)
	// Verified against when the username is unknown, so both failure paths
	// cost one hash.
	dummy, _ := hasher.Hash("drscreen-dummy-password")
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		now:         o.now,
		dummyDigest: dummy,
	}
}

func (s *UserService) clock() time.Time {
	return s.now().UTC()
}

// CreateUser registers an account. Username or email collisions yield
// common.ErrorDuplicateKey.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string, fullName *string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", common.ErrorValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.createTx(ctx, tx, username, email, hash, fullName)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) createTx(ctx context.Context, tx dbx.DBTX, username, email, hash string, fullName *string) (*models.User, error) {
	repo := s.repomanager.Users(tx)

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return nil, common.ErrorDuplicateKey
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorDuplicateKey
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	u, err := repo.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		CreatedAt:    s.clock(),
	})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateKey) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Authenticate checks the password and records the login time. Unknown
// usernames and wrong passwords both yield common.ErrorAuthFailure. A digest
// in an outdated scheme is replaced in the same transaction.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := repo.GetByUsername(ctx, strings.TrimSpace(username))
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				_ = s.hasher.Verify(s.dummyDigest, password)
				return common.ErrorAuthFailure
			}
			return err
		}
		if !s.hasher.Verify(u.PasswordHash, password) {
			return common.ErrorAuthFailure
		}

		now := s.clock()
		if err := repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
			return err
		}
		u.LastLogin = &now

		if s.hasher.NeedsRehash(u.PasswordHash) {
			hash, err := s.hasher.Hash(password)
			if err != nil {
				return fmt.Errorf("error hashing password: %w", err)
			}
			if err := repo.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
				return err
			}
			u.PasswordHash = hash
		}

		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID returns common.ErrorNotFound for unknown ids.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes full name and/or email; nil arguments are left
// untouched and an empty full name clears it. Concurrent updates of the same
// row are last-write-wins.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, fullName, email *string) (*models.User, error) {
	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if email != nil {
			e := strings.TrimSpace(*email)
			if e == "" {
				return fmt.Errorf("%w: email must not be empty", common.ErrorValidation)
			}
			if e != u.Email {
				other, err := repo.GetByEmail(ctx, e)
				switch {
				case err == nil && other.ID != u.ID:
					return common.ErrorDuplicateKey
				case err != nil && !errors.Is(err, common.ErrorNotFound):
					return err
				}
				u.Email = e
			}
		}
		if fullName != nil {
			if *fullName == "" {
				u.FullName = nil
			} else {
				name := *fullName
				u.FullName = &name
			}
		}

		if err := repo.UpdateProfile(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the password when current verifies. Otherwise,
// and for unknown ids, it returns common.ErrorAuthFailure and changes
// nothing.
func (s *UserService) ChangePassword(ctx context.Context, id int64, current, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password must not be empty", common.ErrorValidation)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				_ = s.hasher.Verify(s.dummyDigest, current)
				return common.ErrorAuthFailure
			}
			return err
		}
		if !s.hasher.Verify(u.PasswordHash, current) {
			return common.ErrorAuthFailure
		}

		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}
		return repo.UpdatePasswordHash(ctx, id, hash)
	})
}

// DeleteUser removes the user's predictions and then the user, returning
// the image paths the predictions referenced.
func (s *UserService) DeleteUser(ctx context.Context, id int64) ([]string, error) {
	var paths []string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).GetByID(ctx, id); err != nil {
			return err
		}

		var err error
		paths, err = s.repomanager.Predictions(tx).DeleteByUser(ctx, id)
		if err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// EnsureDefaultAdmin creates the given account when no users exist yet.
// It returns nil when nothing was created.
func (s *UserService) EnsureDefaultAdmin(ctx context.Context, username, email, password, fullName string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Users(tx).Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		name := fullName
		user, err = s.createTx(ctx, tx, username, email, hash, &name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
