package blob

import (
	"context"

	"go-diet-pipeline/internal/config"
)

// Open builds the store selected by cfg.Driver
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	if cfg.Driver == "dir" {
		return NewDirStore(cfg.Dir, cfg.Bucket), nil
	}
	store, err := NewS3Store(ctx, S3Options{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		Bucket:    cfg.Bucket,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		PathStyle: cfg.PathStyle,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}
