package infra_s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	usecase_notes "github.com/ShivanshCoding36/college-companion/internal/usecase/notes"
)

type Storage struct {
	client *s3.Client

	prefix     string
	bucketName string
}

// New checks the bucket and creates it when it does not exist yet.
func New(ctx context.Context, client *s3.Client, bucketName, prefix string) (*Storage, error) {
	storage := &Storage{
		client:     client,
		prefix:     prefix,
		bucketName: bucketName,
	}

	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucketName),
	})
	if err == nil {
		slog.Info("notes bucket exists", slog.String("bucket", bucketName))
		return storage, nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return nil, fmt.Errorf("head bucket %s: %w", bucketName, err)
	}
	if _, ok := apiErr.(*types.NotFound); !ok {
		return nil, fmt.Errorf("bucket %s is not accessible: %w", bucketName, err)
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(bucketName)}
	if region := client.Options().Region; region != "" && region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}
	if _, err := client.CreateBucket(ctx, input); err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", bucketName, err)
	}
	slog.Info("notes bucket created", slog.String("bucket", bucketName))
	return storage, nil
}

// buildKey drops empty and dot segments so a key never leaves the prefix.
func (s *Storage) buildKey(key string) string {
	parts := []string{s.prefix}
	for _, p := range strings.Split(strings.ReplaceAll(key, "\\", "/"), "/") {
		if p == "" || p == "." || p == ".." {
			continue
		}
		parts = append(parts, p)
	}
	return path.Join(parts...)
}

func (s *Storage) Save(ctx context.Context, key string, content io.Reader, size int64, contentType string) error {
	// The request signer needs to rewind the body.
	if _, ok := content.(io.ReadSeeker); !ok {
		data, err := io.ReadAll(io.LimitReader(content, size))
		if err != nil {
			return fmt.Errorf("failed to read note content: %w", err)
		}
		content = bytes.NewReader(data)
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(s.buildKey(key)),
		Body:          content,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPrivate,
	}); err != nil {
		return fmt.Errorf("failed to save object to S3: %w", err)
	}
	return nil
}

func (s *Storage) Load(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.buildKey(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, usecase_notes.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to load object from S3: %w", err)
	}
	return resp.Body, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.buildKey(key)),
	})
	return err
}

func (s *Storage) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s3.NewPresignClient(s.client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.buildKey(key)),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
