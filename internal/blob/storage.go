// Package blob stocke les fichiers binaires de la boutique : images produit,
// photos de profil, captures d'écran de paiement.
package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Storage : interface injectée dans les handlers d'upload.
type Storage interface {
	Upload(ctx context.Context, prefix, filename, contentType string, r io.Reader, size int64) (string, error)
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// MinioStorage range les objets dans un bucket unique, préfixés par usage
// (products/, profiles/, payments/).
type MinioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(client *minio.Client, bucket string) *MinioStorage {
	return &MinioStorage{client: client, bucket: bucket}
}

// Upload écrit l'objet et retourne son nom canonique dans le bucket. Le nom
// embarque un UUID pour éviter les collisions entre fichiers homonymes.
func (s *MinioStorage) Upload(ctx context.Context, prefix, filename, contentType string, r io.Reader, size int64) (string, error) {
	objectName := fmt.Sprintf("%s/%s-%s", prefix, uuid.NewString(), filename)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	return objectName, nil
}

// PresignedURL délivre une URL de lecture temporaire sur un objet.
func (s *MinioStorage) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
