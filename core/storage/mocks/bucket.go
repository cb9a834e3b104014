package mocks

import (
	"context"

	"db-validator/core/storage"

	"github.com/stretchr/testify/mock"
)

// Bucket is a mock implementation of storage.Bucket.
type Bucket struct {
	mock.Mock
	BucketName string
}

func (m *Bucket) Name() string { return m.BucketName }

func (m *Bucket) Exists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *Bucket) Create(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *Bucket) Put(ctx context.Context, key, contentType string, data []byte) error {
	return m.Called(ctx, key, contentType, data).Error(0)
}

func (m *Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *Bucket) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	args := m.Called(ctx, prefix)
	objects, _ := args.Get(0).([]storage.ObjectInfo)
	return objects, args.Error(1)
}

func (m *Bucket) Remove(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
