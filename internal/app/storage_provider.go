package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/platform/gcp"
	"github.com/yungbote/coursegen-backend/internal/platform/localmedia"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/services"
)

var (
	newBucketService = gcp.NewBucketService
	newLocalStore    = localmedia.NewStore
)

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingBucket       StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// BannerStorage is the resolved banner store. Store is nil in "none" mode;
// MediaDir is set only in "local" mode so the router can serve /media.
type BannerStorage struct {
	Store    services.ObjectStore
	MediaDir string
	close    func() error
}

func (b BannerStorage) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

func resolveBannerStorage(ctx context.Context, log *logger.Logger, cfg Config) (BannerStorage, error) {
	mode := cfg.StorageMode()
	log.Info("Selecting object storage provider",
		"mode", mode,
		"bucket", cfg.Storage.Bucket,
		"emulator_host", cfg.Storage.EmulatorHost,
	)

	switch mode {
	case StorageModeNone:
		return BannerStorage{}, nil

	case StorageModeLocal:
		store, err := newLocalStore(log, cfg.Storage.LocalMediaDir, "/media")
		if err != nil {
			return BannerStorage{}, &StorageProviderBootstrapError{
				Code:  StorageProviderBootstrapErrorConnectFailed,
				Mode:  mode,
				Cause: err,
			}
		}
		return BannerStorage{Store: store, MediaDir: store.Dir()}, nil

	case StorageModeGCS, StorageModeGCSEmulator:
		storageCfg := gcp.ObjectStorageConfig{
			Mode:            gcp.ObjectStorageMode(mode),
			Bucket:          strings.TrimSpace(cfg.Storage.Bucket),
			EmulatorHost:    strings.TrimSpace(cfg.Storage.EmulatorHost),
			PublicBaseURL:   strings.TrimSpace(cfg.Storage.PublicBaseURL),
			CDNDomain:       strings.TrimSpace(cfg.Storage.CDNDomain),
			CredentialsJSON: cfg.Storage.CredentialsJSON,
		}
		bucket, err := newBucketService(ctx, log, storageCfg)
		if err != nil {
			classified := classifyStorageProviderBootstrapError(storageCfg, err)
			log.Error("Object storage provider bootstrap failed",
				"mode", mode,
				"emulator_host", storageCfg.EmulatorHost,
				"error_code", storageProviderBootstrapErrorCode(classified),
				"error", classified,
			)
			return BannerStorage{}, classified
		}
		return BannerStorage{Store: bucket, close: bucket.Close}, nil

	default:
		return BannerStorage{}, &StorageProviderBootstrapError{
			Code:  StorageProviderBootstrapErrorInvalidMode,
			Mode:  mode,
			Cause: fmt.Errorf("unsupported object storage mode %q", mode),
		}
	}
}

func classifyStorageProviderBootstrapError(storageCfg gcp.ObjectStorageConfig, err error) error {
	code := StorageProviderBootstrapErrorConnectFailed
	var cfgErr *gcp.ObjectStorageConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case gcp.ObjectStorageConfigErrorInvalidMode:
			code = StorageProviderBootstrapErrorInvalidMode
		case gcp.ObjectStorageConfigErrorMissingBucket:
			code = StorageProviderBootstrapErrorMissingBucket
		case gcp.ObjectStorageConfigErrorMissingEmulatorHost:
			code = StorageProviderBootstrapErrorMissingEmulatorHost
		case gcp.ObjectStorageConfigErrorInvalidEmulatorHost:
			code = StorageProviderBootstrapErrorInvalidEmulatorHost
		}
	}
	return &StorageProviderBootstrapError{
		Code:         code,
		Mode:         string(storageCfg.Mode),
		EmulatorHost: storageCfg.EmulatorHost,
		Cause:        err,
	}
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return StorageProviderBootstrapErrorConnectFailed
}
