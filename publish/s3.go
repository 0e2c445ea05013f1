package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"yourmovie/logging"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// ErrNotPublished is returned for jobs whose movie is not in the bucket.
var ErrNotPublished = errors.New("movie has not been published")

// S3Config contains minimal configuration for creating an S3 client.
// Values are optional and will fall back to the standard AWS config/credential chain.
type S3Config struct {
	Bucket string
	// Prefix is prepended to every key, e.g. "yourmovie/"
	Prefix string
	// Region to use for requests, e.g. "us-east-1". If empty, AWS defaults apply.
	Region string
	// Profile selects a named shared config/credentials profile.
	Profile string
	// UsePathStyle forces path-style addressing (useful for S3-compatible providers).
	UsePathStyle bool
}

// S3 stores movies in a bucket.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 creates an S3 publisher using the default AWS configuration chain,
// with optional overrides from cfg.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewS3FromClient(c, cfg.Bucket, cfg.Prefix), nil
}

// NewS3FromClient wraps an existing SDK client.
func NewS3FromClient(client *s3.Client, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

// Name implements Publisher.
func (s *S3) Name() string { return "s3" }

// moviesPrefix is the key prefix shared by every published movie.
func (s *S3) moviesPrefix() string {
	return s.prefix + "movies/"
}

// MovieKey is the object key of a job's movie.
func (s *S3) MovieKey(jobID string) string {
	return s.moviesPrefix() + jobID + ".mp4"
}

// Publish uploads the movie under <prefix>movies/<job>.mp4 and returns its
// s3:// URI. A job that is already in the bucket is not uploaded again.
func (s *S3) Publish(ctx context.Context, path string, meta Metadata) (string, error) {
	key := s.MovieKey(meta.JobID)
	location := fmt.Sprintf("s3://%s/%s", s.bucket, key)

	published, err := s.HasMovie(ctx, meta.JobID)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", key, err)
	}
	if published {
		logging.From(ctx).Info("movie already published", "job", meta.JobID, "location", location)
		return location, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open movie: %w", err)
	}
	defer f.Close()

	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("video/mp4"),
		Metadata: map[string]string{
			"job-id": meta.JobID,
			"title":  meta.Title,
		},
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return location, nil
}

// OpenMovie streams a published movie. Caller must Close it.
func (s *S3) OpenMovie(ctx context.Context, jobID string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.MovieKey(jobID)),
	})
	if isNotFound(err) {
		return nil, ErrNotPublished
	}
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// DeleteMovie removes a published movie.
func (s *S3) DeleteMovie(ctx context.Context, jobID string) error {
	published, err := s.HasMovie(ctx, jobID)
	if err != nil {
		return err
	}
	if !published {
		return ErrNotPublished
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.MovieKey(jobID)),
	})
	return err
}

// HasMovie reports whether the job's movie is in the bucket.
func (s *S3) HasMovie(ctx context.Context, jobID string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.MovieKey(jobID)),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// ListMovies returns the job ids of published movies.
func (s *S3) ListMovies(ctx context.Context) ([]string, error) {
	var (
		jobs  []string
		token *string
	)
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.moviesPrefix()),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.moviesPrefix())
			if job, ok := strings.CutSuffix(name, ".mp4"); ok && job != "" {
				jobs = append(jobs, job)
			}
		}
		if !aws.ToBool(out.IsTruncated) {
			return jobs, nil
		}
		token = out.NextContinuationToken
	}
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}

	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}

	var respErr *http.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
