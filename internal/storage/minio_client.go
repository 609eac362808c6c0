package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"postboard/internal/apperr"
	"postboard/internal/config"
)

// Store durably persists validated attachment bytes under a storage name
// and resolves names to absolute, publicly retrievable locators.
type Store interface {
	Put(ctx context.Context, objectName, contentType string, file io.Reader, size int64) error
	Remove(ctx context.Context, objectName string) error
	Locator(objectName string) string
}

type MinIOClient struct {
	client *minio.Client
	config *config.Config
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create MinIO client: %w", err)
	}

	m := &MinIOClient{client: client, config: cfg}

	exists, err := client.BucketExists(context.Background(), cfg.MinIO.BucketName)
	if err != nil {
		return nil, fmt.Errorf("could not check MinIO bucket: %w", err)
	}
	if !exists {
		err = client.MakeBucket(context.Background(), cfg.MinIO.BucketName,
			minio.MakeBucketOptions{Region: cfg.MinIO.Region})
		if err != nil {
			return nil, fmt.Errorf("could not create MinIO bucket: %w", err)
		}
	}

	return m, nil
}

func (m *MinIOClient) Put(ctx context.Context, objectName, contentType string, file io.Reader, size int64) error {
	_, err := m.client.PutObject(ctx, m.config.MinIO.BucketName, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
		})
	if err != nil {
		return apperr.Wrap(apperr.StorageFailure, "could not store attachment", err)
	}
	return nil
}

func (m *MinIOClient) Remove(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.config.MinIO.BucketName, objectName,
		minio.RemoveObjectOptions{})
	if err != nil {
		return apperr.Wrap(apperr.StorageFailure, "could not remove attachment", err)
	}
	return nil
}

// Locator composes the absolute address clients retrieve the attachment
// from: the serving origin, the images path segment and the storage name.
func (m *MinIOClient) Locator(objectName string) string {
	return fmt.Sprintf("%s/images/%s", strings.TrimSuffix(m.config.PublicBaseURL, "/"), objectName)
}
