package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/config"
	"github.com/proyectoiso/recetario/internal/constants"
)

// s3API is the subset of the S3 client used by S3Store
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store writes images to an S3 compatible bucket such as AWS S3 or Cloudflare R2
type S3Store struct {
	client        s3API
	bucket        string
	publicBaseURL string
	timeout       time.Duration
}

// NewS3Store creates an S3Store from the object store settings using static credentials.
// A custom endpoint switches the client to path style addressing.
func NewS3Store(_ context.Context, cfg config.ObjectStoreSettings) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("object store bucket is required for the s3 driver")
	}
	if cfg.PublicBaseURL == "" {
		return nil, errors.New("object store public base url is required for the s3 driver")
	}

	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info().
		Str("bucket", cfg.Bucket).
		Str("endpoint", cfg.Endpoint).
		Msg("S3 object store initialized")

	return newS3StoreWithClient(client, cfg.Bucket, cfg.PublicBaseURL, cfg.Timeout), nil
}

func newS3StoreWithClient(client s3API, bucket, publicBaseURL string, timeout time.Duration) *S3Store {
	if timeout <= 0 {
		timeout = constants.DefaultObjectStoreTimeout
	}
	return &S3Store{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		timeout:       timeout,
	}
}

// Put implements ObjectStore
func (s *S3Store) Put(ctx context.Context, purpose, filename, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	key := path.Join(purpose, filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return s.publicBaseURL + "/" + key, nil
}

// Delete implements ObjectStore
func (s *S3Store) Delete(ctx context.Context, url string) error {
	prefix := s.publicBaseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}

	key := path.Clean(strings.TrimPrefix(url, prefix))
	if key == "." || strings.HasPrefix(key, "..") {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
