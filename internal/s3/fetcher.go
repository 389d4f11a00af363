// server/internal/s3/fetcher.go
package s3

import (
	"context"
	"fmt"
	"io"
	"path"

	"lmis-mock-server/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Fetcher reads fixture objects from a bucket. It satisfies fixtures.Source.
type Fetcher struct {
	Client *s3.Client
	Bucket string
	Prefix string
}

func NewFetcher(ctx context.Context, cfg config.S3Config) (*Fetcher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		// MinIO and other S3-compatible stores
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Fetcher{
		Client: client,
		Bucket: cfg.Bucket,
		Prefix: cfg.Prefix,
	}, nil
}

// Key maps a fixture name to its object key.
func (f *Fetcher) Key(name string) string {
	return path.Join(f.Prefix, name)
}

// Open fetches the object for name. The caller closes the body.
func (f *Fetcher) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	out, err := f.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.Bucket),
		Key:    aws.String(f.Key(name)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", f.Bucket, f.Key(name), err)
	}
	return out.Body, nil
}
