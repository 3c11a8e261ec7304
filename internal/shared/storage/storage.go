// Package storage persists uploaded movie images. The local store writes to a
// directory served as static files; the S3 store writes to a bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andrasnagy-data/peliculas/internal/shared/apperror"
	"github.com/andrasnagy-data/peliculas/internal/shared/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	StoreLocal = "local"
	StoreS3    = "s3"
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Images stores an upload under a generated name and returns the public path
// to write onto the movie record
type Images interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}

// NewImages selects the store named by IMAGE_STORE
func NewImages(cfg *config.Config, logger zerolog.Logger) (Images, error) {
	logger = logger.With().Str("component", "storage").Logger()

	switch cfg.ImageStore {
	case StoreLocal, "":
		logger.Debug().Str("dir", cfg.ImageDir).Msg("Using local image store")
		return NewLocalStore(cfg.ImageDir, cfg.ImageURLPrefix), nil
	case StoreS3:
		logger.Debug().Str("bucket", cfg.S3Bucket).Msg("Using S3 image store")
		return NewS3Store(context.Background(), cfg)
	default:
		return nil, fmt.Errorf("unknown IMAGE_STORE %q", cfg.ImageStore)
	}
}

// generatedName returns "<uuid><ext>" keeping the lowercased extension of the
// uploaded file
func generatedName(originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExt[ext] {
		return "", fmt.Errorf("%w: unsupported image type %q", apperror.ErrValidation, ext)
	}
	return uuid.NewString() + ext, nil
}
