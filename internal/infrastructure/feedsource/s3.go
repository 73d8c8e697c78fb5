package feedsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/feed"
)

// S3API is the part of the S3 client the source uses.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ feed.Source = (*S3Source)(nil)

// S3Source reads a feed from a bucket. With Key set that object is read;
// otherwise the most recently modified object under Prefix.
type S3Source struct {
	client S3API
	bucket string
	prefix string
	key    string
}

// S3Config configures an S3 client. Endpoint is set for S3-compatible stores such as MinIO.
type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds an S3 client. Without static keys the default AWS
// credential chain is used.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewS3Source creates a source. key may be empty.
func NewS3Source(client S3API, bucket, prefix, key string) (*S3Source, error) {
	if bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	return &S3Source{client: client, bucket: bucket, prefix: prefix, key: key}, nil
}

func (s *S3Source) Fetch(ctx context.Context) (feed.Document, error) {
	key := s.key
	if key == "" {
		latest, err := s.latest(ctx)
		if err != nil {
			return feed.Document{}, err
		}
		key = latest
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return feed.Document{}, apperror.NewNotFound("feed", "s3://"+s.bucket+"/"+key)
		}
		return feed.Document{}, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return feed.Document{}, fmt.Errorf("read s3://%s/%s: %w", s.bucket, key, err)
	}
	return feed.Document{Name: path.Base(key), Body: body}, nil
}

func (s *S3Source) latest(ctx context.Context) (string, error) {
	var (
		best  *types.Object
		token *string
	)
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return "", fmt.Errorf("list s3://%s/%s: %w", s.bucket, s.prefix, err)
		}
		for i := range out.Contents {
			obj := &out.Contents[i]
			if obj.Key == nil || strings.HasSuffix(*obj.Key, "/") || obj.LastModified == nil {
				continue
			}
			if best == nil || obj.LastModified.After(*best.LastModified) {
				best = obj
			}
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}

	if best == nil {
		return "", apperror.NewNotFound("feed", "s3://"+s.bucket+"/"+s.prefix)
	}
	return *best.Key, nil
}
