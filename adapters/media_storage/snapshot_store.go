package media_storage

import (
	"context"
	"fmt"

	"github.com/khoahotran/career-studio/internal/application/service"
	"github.com/khoahotran/career-studio/internal/config"
	"github.com/khoahotran/career-studio/pkg/logger"
)

const (
	DriverCloudinary = "cloudinary"
	DriverS3         = "s3"
)

// NewSnapshotStore picks the snapshot backend named by storage.driver.
func NewSnapshotStore(ctx context.Context, cfg config.Config, log logger.Logger) (service.SnapshotStore, error) {
	switch cfg.Storage.Driver {
	case DriverCloudinary, "":
		return NewCloudinaryAdapter(cfg, log)
	case DriverS3:
		return NewS3Adapter(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
