package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"recipe-catalog/domain"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type (
	S3Config struct {
		Bucket    string
		Region    string
		AccessKey string
		SecretKey string
		// Endpoint targets an S3-compatible service instead of AWS.
		Endpoint string
		// PublicURL overrides the base of links handed to clients.
		PublicURL string
		Folder    string
	}

	s3API interface {
		PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
		DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	}

	AwsS3 struct {
		client     s3API
		bucket     string
		folder     string
		publicBase string
	}
)

func NewAwsS3(ctx context.Context, cfg S3Config) (*AwsS3, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, errors.New("AWS_S3_BUCKET and AWS_S3_REGION are required for s3 storage")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newAwsS3(client, cfg), nil
}

func newAwsS3(client s3API, cfg S3Config) *AwsS3 {
	publicBase := cfg.PublicURL
	switch {
	case publicBase != "":
	case cfg.Endpoint != "":
		publicBase = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &AwsS3{
		client:     client,
		bucket:     cfg.Bucket,
		folder:     strings.Trim(cfg.Folder, "/"),
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

func (s *AwsS3) Store(ctx context.Context, _ string, data []byte) (string, error) {
	contentType, ext, err := detectImage(data, AllowImage...)
	if err != nil {
		return "", err
	}

	objectKey, err := s.UploadFile(ctx, uuid.NewString()+ext, data, contentType)
	if err != nil {
		return "", err
	}
	return s.GetPublicLinkKey(objectKey), nil
}

func (s *AwsS3) Remove(ctx context.Context, url string) error {
	objectKey := s.GetObjectKeyFromLink(url)
	if objectKey == "" {
		return nil
	}
	return s.DeleteFile(ctx, objectKey)
}

// UploadFile puts data under the configured folder and returns the object key.
func (s *AwsS3) UploadFile(ctx context.Context, fileName string, data []byte, contentType string) (string, error) {
	objectKey := path.Join(s.folder, fileName)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	return objectKey, nil
}

func (s *AwsS3) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (s *AwsS3) GetPublicLinkKey(objectKey string) string {
	return s.publicBase + "/" + objectKey
}

// GetObjectKeyFromLink returns "" for links that do not point into the bucket.
func (s *AwsS3) GetObjectKeyFromLink(link string) string {
	prefix := s.publicBase + "/"
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}
