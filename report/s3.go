package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	awsprov "github.com/cloudtally/cloudtally/providers/aws"
)

// Uploader copies finished report files to an S3 bucket.
type Uploader struct {
	client awsprov.S3API
	bucket string
}

// NewUploader creates an Uploader targeting bucket.
func NewUploader(client awsprov.S3API, bucket string) *Uploader {
	return &Uploader{client: client, bucket: bucket}
}

// Upload puts one local file into the bucket under its base name.
func (u *Uploader) Upload(ctx context.Context, path string) error {
	f, err := os.Open(path) // #nosec G304 -- path was produced by this run
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(filepath.Base(path)),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("upload %s to s3://%s: %w", path, u.bucket, err)
	}
	return nil
}
