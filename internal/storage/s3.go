// Package storage provides presigned S3 access for note attachments.
// Clients upload and download directly against the presigned URLs; the API
// server only stores object keys.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignTTL = 15 * time.Minute

// Options configures the S3 client. Endpoint is optional and supports
// S3-compatible stores (MinIO).
type Options struct {
	Region    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
}

// S3Storage issues presigned PUT/GET URLs for attachment objects.
type S3Storage struct {
	presign *s3.PresignClient
	bucket  string
}

// New builds the storage from static credentials.
func New(ctx context.Context, opts Options) (*S3Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{presign: s3.NewPresignClient(client), bucket: opts.Bucket}, nil
}

// NewObjectKey returns a fresh date-partitioned key for an upload.
func NewObjectKey(userID string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("attachments/%s/%d/%02d/%v", userID, d.Year(), d.Month(), uuid.New())
}

// PresignPut returns a URL the client can PUT the object to.
func (s *S3Storage) PresignPut(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PresignGet returns a URL the client can GET the object from.
func (s *S3Storage) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
