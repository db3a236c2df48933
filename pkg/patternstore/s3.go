package patternstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// S3Client is the subset of the S3 API used by S3Source.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config locates the pattern file in a bucket. Static credentials are
// optional; without them the default AWS credential chain is used.
type S3Config struct {
	Bucket         string `env:"UAPARSER_S3_BUCKET"`
	Key            string `env:"UAPARSER_S3_KEY" envDefault:"regexes.yaml"`
	Region         string `env:"UAPARSER_S3_REGION" envDefault:"us-east-1"`
	Endpoint       string `env:"UAPARSER_S3_ENDPOINT"`
	AccessKeyID    string `env:"UAPARSER_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"UAPARSER_S3_SECRET_KEY"`
	ForcePathStyle bool   `env:"UAPARSER_S3_FORCE_PATH_STYLE"`
}

// Enabled reports whether a bucket was configured.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

type S3Option func(*s3Options)

type s3Options struct {
	client     S3Client
	httpClient *http.Client
}

// WithS3Client replaces the SDK client, mainly for tests.
func WithS3Client(c S3Client) S3Option {
	return func(o *s3Options) { o.client = c }
}

// WithHTTPClient sets the transport of the SDK client, e.g. to bound fetch
// time.
func WithHTTPClient(c *http.Client) S3Option {
	return func(o *s3Options) { o.httpClient = c }
}

// S3Source fetches pattern definitions from an S3 object. It remembers the
// ETag of the last download and asks S3 to skip unchanged objects.
type S3Source struct {
	client S3Client
	bucket string
	key    string

	mu   sync.Mutex
	etag string
}

func NewS3Source(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Source, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("%w: bucket and key are required", ErrInvalidConfig)
	}

	o := &s3Options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		if o.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
		}

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client = s3.NewFromConfig(awsConfig, func(so *s3.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return &S3Source{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

func (s *S3Source) Name() string { return "s3://" + s.bucket + "/" + s.key }

func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	}
	if s.etag != "" {
		in.IfNoneMatch = aws.String(s.etag)
	}

	out, err := s.client.GetObject(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Join(ErrFetch, err)
	}
	s.etag = aws.ToString(out.ETag)
	return b, nil
}

func (s *S3Source) mapError(err error) error {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, s.Name(), err)
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotModified {
		return ErrNotModified
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotModified":
			return ErrNotModified
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return fmt.Errorf("%w: %s: %w", ErrNotFound, s.Name(), err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %s: %w", ErrAccessDenied, s.Name(), err)
		}
	}

	return errors.Join(ErrFetch, err)
}
