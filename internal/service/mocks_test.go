package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"postboard/internal/models"
)

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, page models.PageRequest) ([]models.Post, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) UpdateOwned(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) DeleteOwned(ctx context.Context, postID, creatorID string) error {
	args := m.Called(ctx, postID, creatorID)
	return args.Error(0)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Put(ctx context.Context, objectName, contentType string, file io.Reader, size int64) error {
	args := m.Called(ctx, objectName, contentType, file, size)
	return args.Error(0)
}

func (m *MockStore) Remove(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockStore) Locator(objectName string) string {
	args := m.Called(objectName)
	return args.String(0)
}
