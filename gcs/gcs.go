// Package gcs stores issue photos in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

const folder = "issue_photos"

var ErrUnsupportedType = errors.New("unsupported image type")

type Config struct {
	Bucket string
	// CredentialsFile is optional; application default credentials are used
	// when it is empty.
	CredentialsFile string
}

type Uploader struct {
	client *storage.Client
	bucket string
}

func NewUploader(ctx context.Context, config Config) (*Uploader, error) {
	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}

	if _, err = client.Bucket(config.Bucket).Attrs(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("bucket %s: Attrs: %w", config.Bucket, err)
	}
	log.WithField("bucket", config.Bucket).Info("connected to Google Cloud Storage")

	return &Uploader{
		client: client,
		bucket: config.Bucket,
	}, nil
}

// Extension maps an accepted image content type to a file extension.
func Extension(contentType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/png":
		return "png", nil
	case "image/jpeg", "image/jpg":
		return "jpeg", nil
	case "image/gif":
		return "gif", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
}

// ObjectName builds a collision free object name for a photo.
func ObjectName(extension string, now time.Time) string {
	return fmt.Sprintf("%s/%s_%d.%s", folder, uuid.NewString(), now.UnixNano(), extension)
}

func PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

// Upload writes the photo and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, reader io.Reader, contentType string) (string, error) {
	extension, err := Extension(contentType)
	if err != nil {
		return "", err
	}
	object := ObjectName(extension, time.Now())

	writer := u.client.Bucket(u.bucket).Object(object).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err = io.Copy(writer, reader); err != nil {
		writer.Close()
		return "", fmt.Errorf("io.Copy: %w", err)
	}
	if err = writer.Close(); err != nil {
		return "", fmt.Errorf("writer.Close: %w", err)
	}

	url := PublicURL(u.bucket, object)
	log.WithField("object", object).Info("photo uploaded")
	return url, nil
}

func (u *Uploader) Close() error {
	return u.client.Close()
}
