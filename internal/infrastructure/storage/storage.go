package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"file-uploader/config"
	"file-uploader/internal/application/ports"
	"file-uploader/internal/infrastructure/jwt"
	"file-uploader/internal/infrastructure/storage/local"
	"file-uploader/internal/infrastructure/storage/s3"
)

// New builds the backend named by cfg.Storage.Backend. tokens signs the
// local backend's /blobs/ URLs.
func New(ctx context.Context, logger *zap.Logger, cfg config.Config, tokens *jwt.Service) (ports.Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendLocal:
		return local.New(cfg.Storage.LocalDir, cfg.App.PublicURL, tokens, logger)
	case config.BackendS3:
		return s3.New(ctx, logger, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
