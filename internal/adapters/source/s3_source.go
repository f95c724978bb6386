package source

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ObjectGetter is the subset of the S3 client used by S3Source
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a domain list object from S3
type S3Source struct {
	client ObjectGetter
	bucket string
	key    string
	logger *zap.Logger
}

// NewS3Source creates an S3 source over an existing client
func NewS3Source(client ObjectGetter, bucket, key string, logger *zap.Logger) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger,
	}
}

// NewS3SourceFromRegion loads the default AWS configuration and creates an S3 source
func NewS3SourceFromRegion(ctx context.Context, region, bucket, key string, logger *zap.Logger) (*S3Source, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return NewS3Source(s3.NewFromConfig(awsCfg), bucket, key, logger), nil
}

// Name returns the source name
func (s *S3Source) Name() string { return fmt.Sprintf("s3://%s/%s", s.bucket, s.key) }

// Fetch downloads and parses the object
func (s *S3Source) Fetch(ctx context.Context) ([]string, error) {
	s.logger.Info("Fetching disposable domain list from S3",
		zap.String("bucket", s.bucket),
		zap.String("key", s.key))

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}
	defer out.Body.Close()

	return ParseList(out.Body)
}
