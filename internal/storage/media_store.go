// Package storage keeps post images in the Firebase storage bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const cacheControl = "public, max-age=31536000, immutable"

// BucketStore implements services.MediaStore on a Cloud Storage bucket
type BucketStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewBucketStore creates a BucketStore writing to the named bucket
func NewBucketStore(bucket *gcs.BucketHandle, bucketName string) *BucketStore {
	return &BucketStore{bucket: bucket, bucketName: bucketName}
}

// Upload writes the object and returns a tokenized Firebase download URL
func (s *BucketStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	token := uuid.NewString()

	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = cacheControl
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s: %w", key, err)
	}
	return ObjectURL(s.bucketName, key, token), nil
}

// Delete removes the object. A missing object is not an error.
func (s *BucketStore) Delete(ctx context.Context, key string) error {
	err := s.bucket.Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// ObjectURL builds the download URL Firebase clients use for an object
func ObjectURL(bucketName, key, token string) string {
	u := fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media",
		bucketName, url.PathEscape(key))
	if token != "" {
		u += "&token=" + url.QueryEscape(token)
	}
	return u
}
