package objectstore

import (
	"context"
	"fmt"

	"beat-fulfillment/internal/pkg/clock"
	"beat-fulfillment/internal/pkg/config"
	"beat-fulfillment/internal/pkg/errs"
	"beat-fulfillment/internal/usecase/shared"

	"cloud.google.com/go/storage"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	DriverGCS = "gcs"
	DriverS3  = "s3"
)

var (
	ErrExpiryInPast  = errs.New("signed url expiry must be in the future")
	ErrUnknownDriver = errs.New("unknown storage driver")
)

// New builds the deliverable store selected by cfg.Driver. The returned
// cleanup closes any client the store owns.
func New(ctx context.Context, cfg config.StorageConfig, clk clock.Clock) (shared.ObjectStore, func(), error) {
	switch cfg.Driver {
	case DriverGCS:
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create GCS client: %w", err)
		}
		store := NewGCSStore(client, GCSStoreConfig{
			Bucket:        cfg.Bucket,
			AccessID:      cfg.GCSAccessID,
			PrivateKeyPEM: cfg.GCSPrivateKeyPEM,
		}, clk)
		return store, func() { _ = client.Close() }, nil

	case DriverS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, S3ClientOptions(S3StoreConfig{
			Bucket:   cfg.Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		}))
		return NewS3Store(client, cfg.Bucket, clk), func() {}, nil

	default:
		return nil, nil, errs.Wrap(ErrUnknownDriver, cfg.Driver)
	}
}
