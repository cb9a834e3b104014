package storage

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ArchivedObject describes one stored report.
type ArchivedObject struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Archive stores rendered reports under a prefix in one bucket.
type Archive struct {
	bucket    Bucket
	prefix    string
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.Mutex
	ready bool
}

// NewArchiveFromConfig creates the minio-backed archive described by cfg.
func NewArchiveFromConfig(cfg Config, logger *zap.Logger) (*Archive, error) {
	bucket, err := NewBucket(cfg)
	if err != nil {
		return nil, err
	}
	return NewArchive(bucket, cfg, logger), nil
}

// NewArchive creates an archive over bucket using the prefix and retention
// of cfg.
func NewArchive(bucket Bucket, cfg Config, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := strings.TrimPrefix(cfg.Prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Archive{
		bucket:    bucket,
		prefix:    prefix,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		logger:    logger,
		now:       time.Now,
	}
}

// Bucket returns the archive bucket name.
func (a *Archive) Bucket() string { return a.bucket.Name() }

// EnsureBucket creates the bucket if it does not exist yet. The result is
// remembered after the first success.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ready {
		return nil
	}

	name := a.bucket.Name()
	exists, err := a.bucket.Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", name, err)
	}
	if !exists {
		a.logger.Info("Creating report bucket", zap.String("bucket", name))
		if err := a.bucket.Create(ctx); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", name, err)
		}
	}
	a.ready = true
	return nil
}

func (a *Archive) key(name string) string {
	return a.prefix + path.Base(name)
}

// Put uploads data as name and returns the object key.
func (a *Archive) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := a.EnsureBucket(ctx); err != nil {
		return "", err
	}
	key := a.key(name)
	if err := a.bucket.Put(ctx, key, contentType, data); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}

// Get downloads the report stored as name.
func (a *Archive) Get(ctx context.Context, name string) ([]byte, error) {
	key := a.key(name)
	data, err := a.bucket.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

// List returns the archived reports, newest first.
func (a *Archive) List(ctx context.Context) ([]ArchivedObject, error) {
	objects, err := a.bucket.List(ctx, a.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", a.bucket.Name(), err)
	}
	out := make([]ArchivedObject, 0, len(objects))
	for _, obj := range objects {
		out = append(out, ArchivedObject{
			Name:         strings.TrimPrefix(obj.Key, a.prefix),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastModified.After(out[j].LastModified)
	})
	return out, nil
}

// Prune removes reports older than the retention period and returns how
// many were removed. A zero retention keeps everything.
func (a *Archive) Prune(ctx context.Context) (int, error) {
	if a.retention <= 0 {
		return 0, nil
	}
	objects, err := a.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := a.now().Add(-a.retention)
	removed := 0
	for _, obj := range objects {
		if !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := a.bucket.Remove(ctx, a.prefix+obj.Name); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", obj.Name, err)
		}
		removed++
	}
	if removed > 0 {
		a.logger.Info("Pruned archived reports", zap.Int("removed", removed))
	}
	return removed, nil
}
