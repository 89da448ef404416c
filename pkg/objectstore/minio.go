package objectstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// ErrObjectNotFound indicates the requested attachment does not exist in the
// bucket. Callers distinguish it from transport failures so a missing file
// degrades a single question instead of the batch.
var ErrObjectNotFound = errors.New("object not found")

// Config contains credentials and placement for the S3-compatible store
// holding benchmark attachments.
type Config struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	Bucket      string
	UseSSL      bool
	DownloadDir string
}

// Store implements the narrow download/upload contract the evaluation core
// needs. The extractor only ever operates on the downloaded local path.
type Store struct {
	client      *minio.Client
	bucket      string
	downloadDir string
	logger      zerolog.Logger
}

// New constructs a Store against an S3-compatible endpoint.
func New(cfg Config, logger zerolog.Logger) (*Store, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("object store endpoint and bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object store client: %w", err)
	}

	downloadDir := cfg.DownloadDir
	if downloadDir == "" {
		downloadDir = filepath.Join(os.TempDir(), "eval-attachments")
	}
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	return &Store{
		client:      client,
		bucket:      cfg.Bucket,
		downloadDir: downloadDir,
		logger:      logger.With().Str("component", "objectstore").Logger(),
	}, nil
}

// Download fetches the named object into the local download directory and
// returns the local path.
func (s *Store) Download(ctx context.Context, fileName string) (string, error) {
	if fileName == "" {
		return "", fmt.Errorf("file name must not be empty")
	}

	localPath := filepath.Join(s.downloadDir, filepath.Base(fileName))
	if err := s.client.FGetObject(ctx, s.bucket, fileName, localPath, minio.GetObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("failed to download %s: %w", fileName, err)
	}

	s.logger.Debug().Str("file", fileName).Str("path", localPath).Msg("attachment downloaded")

	return localPath, nil
}

// Upload stores a local file under the given key and returns its URL.
func (s *Store) Upload(ctx context.Context, localPath, key string) (string, error) {
	contentType := "application/octet-stream"
	if mime, err := mimetype.DetectFile(localPath); err == nil {
		contentType = mime.String()
	}

	if _, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, key)
	s.logger.Info().Str("key", key).Msg("attachment uploaded")

	return url, nil
}
