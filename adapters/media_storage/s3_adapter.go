package media_storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/khoahotran/career-studio/internal/application/service"
	"github.com/khoahotran/career-studio/internal/config"
	"github.com/khoahotran/career-studio/pkg/logger"
)

// s3Adapter stores snapshots in one bucket of an S3 compatible backend
// (AWS S3 or MinIO).
type s3Adapter struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
}

func NewS3Adapter(ctx context.Context, cfg config.Config, log logger.Logger) (service.SnapshotStore, error) {
	if cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket has not config")
	}
	region := cfg.S3.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("cannot load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3.PathStyle
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		}
	})

	log.Info("connect S3 successfully.")
	return &s3Adapter{client: client, bucket: cfg.S3.Bucket, region: region, endpoint: strings.TrimRight(cfg.S3.Endpoint, "/")}, nil
}

func (a *s3Adapter) key(folder, name string) string {
	return strings.Trim(folder, "/") + "/" + snapshotFile(name)
}

func (a *s3Adapter) Upload(ctx context.Context, body io.Reader, folder string, name string) (string, error) {
	key := a.key(folder, name)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(a.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload s3: %w", err)
	}
	return a.objectURL(key), nil
}

func (a *s3Adapter) Delete(ctx context.Context, folder string, name string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.key(folder, name)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete s3: %w", err)
	}
	return nil
}

func (a *s3Adapter) objectURL(key string) string {
	if a.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", a.endpoint, a.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, key)
}
