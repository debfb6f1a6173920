// Package uploads stores uploaded fundus images, either in a flat local
// directory or in an S3-compatible bucket. Every image gets a fresh
// "<uuid><ext>" name with the extension lower-cased.
package uploads

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/drscreen/internal/config"
	"github.com/google/uuid"
)

// Store persists image bytes. Failures are reported as common.ErrorStorage.
type Store interface {
	// Save writes data under a new unique name derived from filename and
	// returns the path to record with the prediction.
	Save(ctx context.Context, data []byte, filename string) (string, error)
	// Remove deletes a stored image. Missing images are not an error.
	Remove(ctx context.Context, path string) error
	// URL returns a location the image can be viewed at.
	URL(ctx context.Context, path string) (string, error)
}

// NewName returns a collision-free name that keeps filename's extension.
func NewName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// New builds the Store selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case "", config.StorageLocal:
		return NewLocalStore(cfg.UploadDir), nil
	case config.StorageS3:
		return NewS3Store(ctx, S3Config{
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
