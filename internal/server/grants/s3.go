package grants

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Config holds the settings for an S3-compatible storage backend
// (MinIO in development).
type S3Config struct {
	Region       string
	RootUser     string
	RootPassword string
	Bucket       string
	BaseEndpoint string
}

// S3Issuer signs presigned URLs against one bucket. The underlying client
// is built once at construction and injected everywhere it is needed, not
// re-derived per request.
type S3Issuer struct {
	presign *s3.PresignClient
	bucket  string
}

// NewS3Issuer builds the S3 client and presign client. A missing signing
// credential is a fatal configuration error and is not retried.
func NewS3Issuer(cfg S3Config) (*S3Issuer, error) {
	if cfg.RootUser == "" || cfg.RootPassword == "" {
		return nil, errors.New("grants: storage credentials are not configured")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("grants: storage bucket is not configured")
	}

	awsCfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.RootUser,
			cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("grants: aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Issuer{presign: newS3PresignClient(client), bucket: cfg.Bucket}, nil
}

// IssueUpload presigns a PUT for exactly one object key.
func (i *S3Issuer) IssueUpload(ctx context.Context, objectName string, expiresIn time.Duration) (string, error) {
	req, err := presignPutObject(i.presign, ctx, &s3.PutObjectInput{
		Bucket: &i.bucket,
		Key:    &objectName,
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}
	return req.URL, nil
}

// IssueDownload presigns a GET for exactly one object key.
func (i *S3Issuer) IssueDownload(ctx context.Context, objectName string, expiresIn time.Duration) (string, error) {
	req, err := presignGetObject(i.presign, ctx, &s3.GetObjectInput{
		Bucket: &i.bucket,
		Key:    &objectName,
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}
