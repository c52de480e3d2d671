package objectstore

import (
	"context"
	"errors"
	"net/http"
	"time"

	"beat-fulfillment/internal/pkg/clock"
	"beat-fulfillment/internal/pkg/errs"

	"cloud.google.com/go/storage"
)

// GCSStore serves deliverables from a Cloud Storage bucket.
type GCSStore struct {
	bucket *storage.BucketHandle
	clock  clock.Clock

	// Empty means the client's own credentials sign URLs.
	accessID   string
	privateKey []byte
}

type GCSStoreConfig struct {
	Bucket        string
	AccessID      string
	PrivateKeyPEM string
}

func NewGCSStore(client *storage.Client, cfg GCSStoreConfig, clk clock.Clock) *GCSStore {
	s := &GCSStore{bucket: client.Bucket(cfg.Bucket), clock: clk}
	if cfg.AccessID != "" && cfg.PrivateKeyPEM != "" {
		s.accessID = cfg.AccessID
		s.privateKey = []byte(cfg.PrivateKeyPEM)
	}
	return s
}

func (s *GCSStore) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.bucket.Object(path).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	return false, errs.Wrap(err, "gcs attrs failed")
}

func (s *GCSStore) SignedReadURL(_ context.Context, path string, expiresAt time.Time) (string, error) {
	if !expiresAt.After(s.clock.Now()) {
		return "", ErrExpiryInPast
	}

	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: expiresAt,
	}
	if s.accessID != "" {
		opts.GoogleAccessID = s.accessID
		opts.PrivateKey = s.privateKey
	}

	url, err := s.bucket.SignedURL(path, opts)
	if err != nil {
		return "", errs.Wrap(err, "gcs sign failed")
	}
	return url, nil
}
