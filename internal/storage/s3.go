package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/terpwatch/terpwatch/internal/course"
)

// s3API is the slice of the S3 client the storage uses, so tests can stub
// it.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage keeps the snapshot as a JSON object in an S3 bucket.
type S3Storage struct {
	client s3API
	bucket string
	key    string
}

// NewS3Storage creates S3-backed storage using the ambient AWS credential
// chain.
func NewS3Storage(ctx context.Context, bucket, key string) (*S3Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &S3Storage{client: s3.NewFromConfig(cfg), bucket: bucket, key: key}, nil
}

// Load fetches the snapshot object. A missing key yields an empty snapshot.
func (s *S3Storage) Load(ctx context.Context) (course.Snapshot, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return course.Snapshot{}, nil
		}
		return nil, fmt.Errorf("loading snapshot from s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot body: %w", err)
	}

	var snap course.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snap == nil {
		snap = course.Snapshot{}
	}
	return snap, nil
}

// Save writes the snapshot object as indented JSON.
func (s *S3Storage) Save(ctx context.Context, snap course.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("saving snapshot to s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}
