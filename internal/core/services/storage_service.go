package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	appconfig "skool-lms/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// StorageService uploads user documents (passport images) to S3
// compatible object storage
type StorageService struct {
	cfg    appconfig.StorageConfig
	client *s3.Client
}

// NewStorageService creates a new storage service
func NewStorageService(cfg appconfig.StorageConfig) (*StorageService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // MinIO
		}
	})

	return &StorageService{cfg: cfg, client: client}, nil
}

// storageKey builds a date-partitioned object key
func storageKey(prefix string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%d/%d/%v", prefix, d.Year(), d.Month(), d.Day(), uuid.New())
}

// UploadPassport stores a passport image sent as a base64 data URI and
// returns the object URL persisted on the application record
func (s *StorageService) UploadPassport(ctx context.Context, dataURI string) (string, error) {
	contentType, data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := storageKey("passports")

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload passport: %w", err)
	}

	return s.objectURL(key), nil
}

// PresignedGetURL returns a time-limited download link for an object key
func (s *StorageService) PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	presigner := s3.NewPresignClient(s.client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *StorageService) objectURL(key string) string {
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

// decodeDataURI splits "data:image/png;base64,...." into media type and
// raw bytes. Bare base64 payloads default to image/jpeg.
func decodeDataURI(uri string) (string, []byte, error) {
	contentType := "image/jpeg"
	payload := uri

	if strings.HasPrefix(uri, "data:") {
		semi := strings.Index(uri, ";base64,")
		if semi < 0 {
			return "", nil, fmt.Errorf("unsupported data URI encoding")
		}
		contentType = uri[len("data:"):semi]
		payload = uri[semi+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	return contentType, data, nil
}
