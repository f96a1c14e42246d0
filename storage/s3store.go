package storage

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/minio/minio-go/v7"
)

/*
Storage provider for S3-compatible object storage. We use the minio client
library.
*/

////////////////////////////////////////////////////////////////////////////////

const minioCodeNoSuchKey = "NoSuchKey"

type s3store struct {
	mc     *minio.Client
	bucket string
	prefix string
}

// NewS3Store returns a provider reading reports stored under prefix in
// bucket.
func NewS3Store(mc *minio.Client, bucket string, prefix string) Provider {
	return &s3store{
		mc:     mc,
		bucket: bucket,
		prefix: prefix,
	}
}

// Put stores the data in the object store.
func (s *s3store) Put(ctx context.Context, id string, r io.Reader) error {
	_, err := s.mc.PutObject(ctx, s.bucket, s.prefix+id, r, -1, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

// Get opens an object for reading. The object is stat'ed first so that a
// missing report is reported here rather than on the first read.
func (s *s3store) Get(ctx context.Context, id string) (io.ReadCloser, error) {
	obj, err := s.mc.GetObject(ctx, s.bucket, s.prefix+id, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError(err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, s.mapError(err)
	}
	return obj, nil
}

// ModTime returns the last modified time of an object.
func (s *s3store) ModTime(ctx context.Context, id string) (time.Time, error) {
	info, err := s.mc.StatObject(ctx, s.bucket, s.prefix+id, minio.StatObjectOptions{})
	if err != nil {
		return time.Time{}, s.mapError(err)
	}
	return info.LastModified, nil
}

// List returns the ids of the objects under the store's prefix.
func (s *s3store) List(ctx context.Context) ([]string, error) {
	ids := []string{}
	for obj := range s.mc.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		ids = append(ids, obj.Key[len(s.prefix):])
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *s3store) mapError(err error) error {
	if minio.ToErrorResponse(err).Code == minioCodeNoSuchKey {
		return ErrObjectNotFound
	}
	return fmt.Errorf("failed to get object: %w", err)
}

func (s *s3store) String() string {
	return fmt.Sprintf("s3(%s/%s)", s.bucket, s.prefix)
}
