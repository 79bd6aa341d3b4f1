package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/kendall-kelly/printshop-api/config"
	"github.com/kendall-kelly/printshop-api/utils"
	"go.uber.org/zap"
)

// ReceiptStore keeps payment receipt files
type ReceiptStore interface {
	// Save stores the file for orderID and returns its storage key
	Save(ctx context.Context, orderID string, fileHeader *multipart.FileHeader) (string, error)
	// URL returns a link the client can fetch the receipt from
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewReceiptStore picks S3 when a bucket is configured, local disk otherwise
func NewReceiptStore(ctx context.Context, cfg *appConfig.Config, log *zap.Logger) (ReceiptStore, error) {
	if cfg.AWSS3Bucket == "" {
		log.Info("receipts stored on local disk", zap.String("dir", cfg.UploadDir))
		return NewLocalReceiptStore(cfg.UploadDir), nil
	}
	store, err := NewS3ReceiptStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("receipts stored in S3", zap.String("bucket", cfg.AWSS3Bucket))
	return store, nil
}

// S3ReceiptStore stores receipts in a private bucket and hands out presigned links
type S3ReceiptStore struct {
	client *s3.Client
	bucket string
}

// NewS3ReceiptStore initializes the S3 client with the configured credentials
func NewS3ReceiptStore(ctx context.Context, cfg *appConfig.Config) (*S3ReceiptStore, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3ReceiptStore{
		client: s3.NewFromConfig(awsConfig),
		bucket: cfg.AWSS3Bucket,
	}, nil
}

// Save uploads the receipt under receipts/{order}/
func (s *S3ReceiptStore) Save(ctx context.Context, orderID string, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("receipts/%s/%s", orderID, utils.ReceiptFilename(orderID, fileHeader.Filename))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(utils.ContentType(fileHeader.Filename)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return key, nil
}

// URL generates a presigned GET valid for one hour
func (s *S3ReceiptStore) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	request, err := s3.NewPresignClient(s.client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

func (s *S3ReceiptStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// LocalReceiptStore keeps receipts in a directory served by the API
type LocalReceiptStore struct {
	dir string
}

func NewLocalReceiptStore(dir string) *LocalReceiptStore {
	return &LocalReceiptStore{dir: dir}
}

// Dir is the directory receipts are written to
func (s *LocalReceiptStore) Dir() string {
	return s.dir
}

func (s *LocalReceiptStore) Save(ctx context.Context, orderID string, fileHeader *multipart.FileHeader) (string, error) {
	filename := utils.ReceiptFilename(orderID, fileHeader.Filename)
	if err := utils.SaveUploadedFile(fileHeader, s.dir, filename); err != nil {
		return "", err
	}
	return filename, nil
}

func (s *LocalReceiptStore) URL(ctx context.Context, key string) (string, error) {
	return utils.GetReceiptURL(key), nil
}

func (s *LocalReceiptStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	return nil
}
