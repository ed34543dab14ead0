package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var archiveClient *s3.Client
var archiveBucket string

// InitArchiveStore configures the S3-compatible bucket used for event
// archives. Works against R2 when ARCHIVE_ENDPOINT points at it.
func InitArchiveStore() error {
	accessKeyID := os.Getenv("ARCHIVE_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("ARCHIVE_ACCESS_KEY_SECRET")
	archiveBucket = os.Getenv("ARCHIVE_BUCKET_NAME")
	endpoint := os.Getenv("ARCHIVE_ENDPOINT")
	region := os.Getenv("ARCHIVE_REGION")
	if region == "" {
		region = "auto"
	}
	if archiveBucket == "" {
		return fmt.Errorf("ARCHIVE_BUCKET_NAME is not set")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if accessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)))
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return fmt.Errorf("failed to load archive store config: %w", err)
	}

	archiveClient = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return nil
}

// UploadArchive writes one archive object and returns its key.
func UploadArchive(ctx context.Context, key string, body []byte) error {
	if archiveClient == nil {
		return fmt.Errorf("archive store is not initialized")
	}
	_, err := archiveClient.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(archiveBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload archive %s: %w", key, err)
	}
	return nil
}
