// Package s3 provides the S3 implementation of storage.ObjectStore.
package s3

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/shiplift/shiplift/internal/config"
)

// Store writes objects to one S3 bucket with caller-supplied static
// credentials. Credentials are injected at construction and never read from
// the ambient environment or instance metadata; a CI step gets exactly the
// identity it was handed.
type Store struct {
	client *s3.Client
	bucket string
}

// Options configures a Store.
type Options struct {
	Bucket      string
	Region      string
	Credentials config.Credentials
	// HTTPClient overrides the SDK's default transport so storage calls
	// share the tool's pooled, proxy-aware client. nil keeps the SDK
	// default.
	HTTPClient *nethttp.Client
}

// NewStore creates an S3-backed object store.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket must not be empty")
	}
	if opts.Credentials.AccessKeyID == "" || opts.Credentials.SecretAccessKey == "" {
		return nil, fmt.Errorf("s3 credentials are required (access key id and secret access key)")
	}
	if opts.Region == "" {
		return nil, fmt.Errorf("s3 region must not be empty")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
		// Pin the static provider so the default chain (env, shared
		// config, IMDS) is never consulted.
		awsconfig.WithCredentialsProvider(awscreds.NewStaticCredentialsProvider(
			opts.Credentials.AccessKeyID,
			opts.Credentials.SecretAccessKey,
			opts.Credentials.SessionToken,
		)),
	}
	if opts.HTTPClient != nil {
		loadOpts = append(loadOpts, awsconfig.WithHTTPClient(opts.HTTPClient))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Store{
		client: s3.NewFromConfig(cfg),
		bucket: opts.Bucket,
	}, nil
}

// Bucket returns the bucket name objects are written to.
func (s *Store) Bucket() string {
	return s.bucket
}

// Put uploads body to the key in a single PutObject call, overwriting any
// existing object. No retry: a failed call is a failed deployment.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}
