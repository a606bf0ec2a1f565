// Package s3 stores payloads in an S3-compatible bucket. Objects live under
// <resource type>/<key>, the resource type being derived from the display
// name on every call.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"file-uploader/config"
	"file-uploader/internal/domain/blob"
)

type (
	ObjectAPI interface {
		PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
		GetObject(ctx context.Context, in *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
		DeleteObject(ctx context.Context, in *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
	}
	PresignAPI interface {
		PresignGetObject(ctx context.Context, in *awss3.GetObjectInput, optFns ...func(*awss3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	}

	Storage struct {
		log       *zap.Logger
		bucket    string
		publicURL string
		objects   ObjectAPI
		presign   PresignAPI
	}
)

func New(ctx context.Context, logger *zap.Logger, cfg config.S3) (*Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, clientOptions(cfg)...)

	logger.Info("s3 storage configured",
		zap.String("bucket", cfg.BucketUploads),
		zap.String("region", cfg.Region),
	)

	return NewWithClients(logger, cfg.BucketUploads, publicBase(cfg), client, awss3.NewPresignClient(client)), nil
}

// NewWithClients wires already built API clients. publicURL is the origin
// unsigned object URLs are built on.
func NewWithClients(logger *zap.Logger, bucket, publicURL string, objects ObjectAPI, presign PresignAPI) *Storage {
	return &Storage{
		log:       logger,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		objects:   objects,
		presign:   presign,
	}
}

func clientOptions(cfg config.S3) []func(*awss3.Options) {
	var opts []func(*awss3.Options)
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.UsePathStyle {
		opts = append(opts, func(o *awss3.Options) {
			o.UsePathStyle = true
		})
	}
	return opts
}

func publicBase(cfg config.S3) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.BucketUploads
	}
	if cfg.UsePathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s", cfg.Region, cfg.BucketUploads)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.BucketUploads, cfg.Region)
}

// ObjectPath is where a payload lives inside the bucket.
func ObjectPath(storageKey, displayName string) string {
	return string(blob.Classify(displayName)) + "/" + storageKey
}

func (s *Storage) Put(ctx context.Context, displayName string, r io.Reader, size int64, contentType string) (string, error) {
	key := blob.NewKey(displayName)

	in := &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ObjectPath(key, displayName)),
		Body:   r,
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.objects.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("s3 put: %w", err)
	}

	return key, nil
}

func (s *Storage) Open(ctx context.Context, storageKey, displayName string) (*blob.Object, error) {
	if storageKey == "" {
		return nil, blob.ErrInvalidKey
	}

	out, err := s.objects.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ObjectPath(storageKey, displayName)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, blob.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get: %w", err)
	}

	size := int64(-1)
	if out.ContentLength != nil {
		size = *out.ContentLength
	}

	return &blob.Object{
		Body:               out.Body,
		Size:               size,
		ContentType:        aws.ToString(out.ContentType),
		ContentDisposition: blob.ContentDisposition(displayName),
	}, nil
}

func (s *Storage) URLFor(ctx context.Context, storageKey, displayName string, opts blob.URLOptions) (string, error) {
	if storageKey == "" {
		return "", blob.ErrInvalidKey
	}
	objectPath := ObjectPath(storageKey, displayName)

	if !opts.Signed {
		return s.publicURL + "/" + (&url.URL{Path: objectPath}).EscapedPath(), nil
	}

	req, err := s.presign.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(objectPath),
		ResponseContentDisposition: aws.String(blob.ContentDisposition(displayName)),
	}, awss3.WithPresignExpires(opts.EffectiveTTL()))
	if err != nil {
		return "", fmt.Errorf("s3 presign: %w", err)
	}

	return req.URL, nil
}

// Remove succeeds for objects that are already gone.
func (s *Storage) Remove(ctx context.Context, storageKey, displayName string) error {
	if storageKey == "" {
		return blob.ErrInvalidKey
	}

	_, err := s.objects.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ObjectPath(storageKey, displayName)),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("s3 delete: %w", err)
	}

	return nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}
