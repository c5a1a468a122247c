package publish

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/okian/scoreboard/pkg/metrics"
)

// ObjectPutter is the subset of the S3 client used by S3.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 mirrors published frames to an S3 object.
type S3 struct {
	client ObjectPutter
	bucket string
	key    string
}

// NewS3 builds an S3 mirror from the default AWS credential chain.
func NewS3(ctx context.Context, bucket, key string) (*S3, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %w", ErrMirror, err)
	}
	return NewS3WithClient(s3.NewFromConfig(cfg), bucket, key), nil
}

// NewS3WithClient builds an S3 mirror around an existing client.
func NewS3WithClient(client ObjectPutter, bucket, key string) *S3 {
	return &S3{client: client, bucket: bucket, key: key}
}

// Publish uploads data as image/png with caching disabled.
func (m *S3) Publish(ctx context.Context, data []byte) error {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(m.bucket),
		Key:          aws.String(m.key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("image/png"),
		CacheControl: aws.String("no-store"),
	})
	if err != nil {
		metrics.RecordPublishError("s3")
		return fmt.Errorf("%w: s3://%s/%s: %w", ErrMirror, m.bucket, m.key, err)
	}
	return nil
}
