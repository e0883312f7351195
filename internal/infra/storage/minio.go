package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archive keeps copies of exported reports in a MinIO bucket.
type Archive struct {
	client        *minio.Client
	bucketName    string
	region        string
	presignExpiry time.Duration
}

// Options for connecting the archive
type Options struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	PresignExpiry time.Duration
}

// New connects to MinIO and makes sure the bucket exists
func New(ctx context.Context, opt Options) (*Archive, error) {
	cli, err := minio.New(opt.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opt.AccessKey, opt.SecretKey, ""),
		Secure: opt.UseSSL,
		Region: opt.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := cli.BucketExists(ctx, opt.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", opt.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, opt.Bucket, minio.MakeBucketOptions{Region: opt.Region}); err != nil {
			return nil, fmt.Errorf("make bucket %s: %w", opt.Bucket, err)
		}
	}

	return &Archive{client: cli, bucketName: opt.Bucket, region: opt.Region, presignExpiry: opt.PresignExpiry}, nil
}

// Put stores data under key and returns a URL for it. With a presign expiry
// configured the URL is a presigned GET, otherwise the plain object path.
func (a *Archive) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := a.client.PutObject(ctx, a.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	if a.presignExpiry > 0 {
		u, err := a.client.PresignedGetObject(ctx, a.bucketName, key, a.presignExpiry, nil)
		if err != nil {
			return "", fmt.Errorf("presign %s: %w", key, err)
		}
		return u.String(), nil
	}

	scheme := "http"
	if a.client.EndpointURL().Scheme == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, a.client.EndpointURL().Host, a.bucketName, key), nil
}

// Check reports whether the bucket is reachable, for readiness checks
func (a *Archive) Check(ctx context.Context) error {
	ok, err := a.client.BucketExists(ctx, a.bucketName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s missing", a.bucketName)
	}
	return nil
}
