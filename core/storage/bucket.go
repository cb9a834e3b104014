package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectInfo describes one stored object by its full key.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Bucket is the set of object operations the archive performs on its bucket.
type Bucket interface {
	Name() string
	Exists(ctx context.Context) (bool, error)
	Create(ctx context.Context) error
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Remove(ctx context.Context, key string) error
}

// NewBucket connects to the S3-compatible endpoint of cfg and returns its
// report bucket. An https:// endpoint implies TLS. No request is made until
// the bucket is used.
func NewBucket(cfg Config) (Bucket, error) {
	secure := cfg.UseSSL || strings.HasPrefix(cfg.Endpoint, "https://")
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")

	transport, err := minio.DefaultTransport(secure)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage transport: %w", err)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport.TLSHandshakeTimeout = timeout
	transport.ResponseHeaderTimeout = timeout

	client, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    secure,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &minioBucket{client: client, name: cfg.Bucket, region: cfg.Region}, nil
}

type minioBucket struct {
	client *minio.Client
	name   string
	region string
}

func (b *minioBucket) Name() string { return b.name }

func (b *minioBucket) Exists(ctx context.Context) (bool, error) {
	return b.client.BucketExists(ctx, b.name)
}

func (b *minioBucket) Create(ctx context.Context) error {
	return b.client.MakeBucket(ctx, b.name, minio.MakeBucketOptions{Region: b.region})
}

func (b *minioBucket) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := b.client.PutObject(ctx, b.name, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (b *minioBucket) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.name, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	// Missing objects surface on the first read.
	return io.ReadAll(obj)
}

func (b *minioBucket) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	for obj := range b.client.ListObjects(ctx, b.name, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		out = append(out, ObjectInfo{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}
	return out, nil
}

func (b *minioBucket) Remove(ctx context.Context, key string) error {
	return b.client.RemoveObject(ctx, b.name, key, minio.RemoveObjectOptions{})
}
