package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds connection details for an S3-compatible endpoint
// (AWS or minio).
type S3Config struct {
	// e.g. "http://127.0.0.1:9000"; empty for AWS
	HostEndpointUrl string
	Region          string
	Bucket          string
	Username        string
	Password        string
}

type s3Storage struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

// NewS3Storage stores approved media in an S3 bucket, keyed under media/
// and thumbnails/ prefixes.
func NewS3Storage(config S3Config) ports.Storage {
	client := s3.NewFromConfig(aws.Config{Region: config.Region}, func(o *s3.Options) {
		if config.HostEndpointUrl != "" {
			o.BaseEndpoint = aws.String(config.HostEndpointUrl)
			o.UsePathStyle = true
		}
		if config.Username != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(config.Username, config.Password, "")
		}
	})
	return &s3Storage{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   config.Bucket,
	}
}

func (s *s3Storage) SaveMedia(ctx context.Context, filename string, data []byte) (string, error) {
	return s.put(ctx, "media/"+filename, data)
}

func (s *s3Storage) SaveThumbnail(ctx context.Context, filename string, data []byte) (string, error) {
	return s.put(ctx, "thumbnails/"+filename, data)
}

func (s *s3Storage) put(ctx context.Context, key string, data []byte) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("couldn't upload %s to bucket %s, details: %w", key, s.bucket, err)
	}
	return key, nil
}

func (s *s3Storage) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("couldn't remove %s from bucket %s, details: %w", path, s.bucket, err)
	}
	return nil
}
