package media

import (
	"bytes"
	"context"
	"strings"

	"github.com/minio/minio-go/v7"
)

type MinIOStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewMinIOStore builds object URLs as publicBaseURL/bucket/key.
func NewMinIOStore(client *minio.Client, bucket, publicBaseURL string) *MinIOStore {
	return &MinIOStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *MinIOStore) PutAvatar(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(reader.Len()), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return s.publicBaseURL + "/" + s.bucket + "/" + key, nil
}
