package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/narwhalmedia/marquee/pkg/interfaces"
)

// S3API is the subset of the S3 client the blob store uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures the S3 client.
type S3Options struct {
	Bucket       string
	Prefix       string
	Region       string
	Endpoint     string
	UsePathStyle bool
}

// S3BlobStore keeps each blob as one object under a prefix.
type S3BlobStore struct {
	client S3API
	bucket string
	prefix string
	logger interfaces.Logger
}

// NewS3Client builds an S3 client from the default AWS credential chain.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	}), nil
}

// NewS3BlobStore creates a blob store on an existing client.
func NewS3BlobStore(client S3API, bucket, prefix string, logger interfaces.Logger) *S3BlobStore {
	return &S3BlobStore{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Load downloads the object for key.
func (s *S3BlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get object %s: %w", s.objectKey(key), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", s.objectKey(key), err)
	}
	return data, nil
}

// Save uploads the whole blob. S3 replaces objects atomically.
func (s *S3BlobStore) Save(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(key)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", s.objectKey(key), err)
	}

	s.logger.Debug("blob saved",
		interfaces.String("backend", "s3"),
		interfaces.String("bucket", s.bucket),
		interfaces.String("key", s.objectKey(key)),
		interfaces.Int("bytes", len(data)),
	)
	return nil
}

func (s *S3BlobStore) objectKey(key string) string {
	if s.prefix != "" {
		return path.Join(s.prefix, key+".json")
	}
	return key + ".json"
}
