package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// S3Config locates the documents in a bucket.
type S3Config struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string // for S3 compatible services, uses path style addressing
}

// objectAPI is the part of the S3 client used by the store.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 stores each document as the object <prefix>/<id>.json.
type S3 struct {
	client objectAPI
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3 builds an S3 store using the default AWS credential chain.
func NewS3(ctx context.Context, cfg S3Config, logger zerolog.Logger) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 store requires a bucket")
	}
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3(client, cfg, logger), nil
}

func newS3(client objectAPI, cfg S3Config, logger zerolog.Logger) *S3 {
	return &S3{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger.With().Str("store", "s3").Str("bucket", cfg.Bucket).Logger(),
	}
}

func (s *S3) key(id string) string { return path.Join(s.prefix, sanitizeID(id)+".json") }

func (s *S3) Load(ctx context.Context, id string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if nsk := (*types.NoSuchKey)(nil); errors.As(err, &nsk) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("failed to get object %s: %w", s.key(id), err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", s.key(id), err)
	}
	return data, nil
}

func (s *S3) Save(ctx context.Context, id string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", s.key(id), err)
	}
	s.logger.Debug().Str("key", s.key(id)).Int("bytes", len(data)).Msg("saved")
	return nil
}

func (s *S3) Close() error { return nil }
