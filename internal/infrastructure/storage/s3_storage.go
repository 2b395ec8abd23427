// Package storage uploads user files to S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/config"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage implements repositories.ObjectStorage
type S3Storage struct {
	client    *s3.Client
	uploader  *manager.Uploader
	region    string
	endpoint  string
	publicURL string
	pathStyle bool
}

// NewS3Storage builds an S3 client from cfg. Static credentials are used when
// set, otherwise the default AWS credential chain applies.
func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// S3-compatible stores do not all accept trailing checksums
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		}
	})

	return &S3Storage{
		client:    client,
		uploader:  manager.NewUploader(client),
		region:    cfg.Region,
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		pathStyle: cfg.UsePathStyle,
	}, nil
}

// Upload streams body to bucket/key
func (s *S3Storage) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) (*repositories.StoredObject, error) {
	counter := &countingReader{r: body}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        counter,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s/%s: %w", bucket, key, err)
	}
	return &repositories.StoredObject{
		Bucket: bucket,
		Key:    key,
		URL:    s.PublicURL(bucket, key),
		Size:   counter.n,
	}, nil
}

// Delete removes bucket/key
func (s *S3Storage) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// PublicURL returns the address clients use to fetch bucket/key
func (s *S3Storage) PublicURL(bucket, key string) string {
	escaped := escapeKey(key)
	switch {
	case s.publicURL != "":
		return s.publicURL + "/" + bucket + "/" + escaped
	case s.endpoint != "" && s.pathStyle:
		return s.endpoint + "/" + bucket + "/" + escaped
	case s.endpoint != "":
		u, err := url.Parse(s.endpoint)
		if err != nil {
			return s.endpoint + "/" + bucket + "/" + escaped
		}
		u.Host = bucket + "." + u.Host
		return u.String() + "/" + escaped
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.region, escaped)
	}
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
