package storage

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"sensorprep/internal/config"
	"sensorprep/internal/errors"
	"sensorprep/internal/files"
)

const defaultS3Region = "us-east-1"

// S3Source reads objects from Amazon S3 or an S3 compatible endpoint
type S3Source struct {
	client *s3.S3
}

// NewS3Source creates an S3 client from cfg
func NewS3Source(cfg config.StorageConfig) (*S3Source, error) {
	region := cfg.S3Region
	if region == "" {
		region = defaultS3Region
	}

	awsCfg := &aws.Config{Region: aws.String(region)}
	if cfg.S3Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.S3Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.Anonymous {
		awsCfg.Credentials = credentials.AnonymousCredentials
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, err
	}
	return &S3Source{client: s3.New(sess)}, nil
}

// Exists implements Source
func (s *S3Source) Exists(ctx context.Context, loc Location) (bool, error) {
	if loc.IsPrefix() {
		out, err := s.client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
			Bucket:  aws.String(loc.Bucket),
			Prefix:  aws.String(loc.Key),
			MaxKeys: aws.Int64(1),
		})
		if err != nil {
			if isS3NotFound(err) {
				return false, nil
			}
			return false, errors.NewStorageError("failed to list objects", err).WithContext("uri", loc.String())
		}
		return len(out.Contents) > 0, nil
	}

	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, errors.NewStorageError("failed to stat object", err).WithContext("uri", loc.String())
	}
	return true, nil
}

// Open implements Source
func (s *S3Source) Open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return nil, errors.NewStorageError("failed to open object", err).WithContext("uri", loc.String())
	}
	return out.Body, nil
}

// List implements Source
func (s *S3Source) List(ctx context.Context, loc Location) ([]Location, error) {
	if !loc.IsPrefix() {
		return []Location{loc}, nil
	}

	var out []Location
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(loc.Bucket),
		Prefix:    aws.String(loc.Key),
		Delimiter: aws.String("/"),
	}
	err := s.client.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			if strings.HasSuffix(key, "/") || !files.IsCSV(key) {
				continue
			}
			out = append(out, Location{Scheme: SchemeS3, Bucket: loc.Bucket, Key: key})
		}
		return true
	})
	if err != nil {
		return nil, errors.NewStorageError("failed to list objects", err).WithContext("uri", loc.String())
	}
	return out, nil
}

// Close implements Source
func (s *S3Source) Close() error {
	return nil
}

func isS3NotFound(err error) bool {
	var reqErr awserr.RequestFailure
	if stderrors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
		return true
	}
	var aerr awserr.Error
	if stderrors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
			return true
		}
	}
	return false
}
