package media_storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/khoahotran/career-studio/internal/application/service"
	"github.com/khoahotran/career-studio/internal/config"
	"github.com/khoahotran/career-studio/pkg/logger"
)

type cloudinaryAdapter struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.SnapshotStore, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld}, nil
}

// Snapshots are raw assets; raw public ids keep their extension.
func snapshotFile(name string) string {
	return name + ".json"
}

func (a *cloudinaryAdapter) Upload(ctx context.Context, body io.Reader, folder string, name string) (string, error) {
	uploadParams := uploader.UploadParams{
		PublicID:     snapshotFile(name),
		Folder:       folder,
		ResourceType: "raw",
		Overwrite:    api.Bool(true),
		Invalidate:   api.Bool(true),
	}
	result, err := a.cld.Upload.Upload(ctx, body, uploadParams)
	if err != nil {
		return "", fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload cloudinary: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

func (a *cloudinaryAdapter) Delete(ctx context.Context, folder string, name string) error {
	_, err := a.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     folder + "/" + snapshotFile(name),
		ResourceType: "raw",
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to delete cloudinary: %w", err)
	}
	return nil
}
