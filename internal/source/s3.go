package source

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds connection settings for an S3-compatible object store.
// Endpoint covers MinIO and other non-AWS deployments.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

// S3Lister enumerates documents under a bucket/prefix of an S3-compatible
// object store.
type S3Lister struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewS3Lister creates a lister for the configured bucket and prefix.
func NewS3Lister(cfg S3Config) (*S3Lister, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return &S3Lister{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// List returns every object under the prefix with a recognized document
// extension, sorted by name.
func (l *S3Lister) List(ctx context.Context) ([]Document, error) {
	var docs []Document

	objects := l.client.ListObjects(ctx, l.bucket, minio.ListObjectsOptions{
		Prefix:    l.prefix,
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list s3://%s/%s: %w", l.bucket, l.prefix, obj.Err)
		}
		if !recognizedExt(obj.Key) {
			continue
		}
		docs = append(docs, Document{
			Name: path.Base(obj.Key),
			Key:  obj.Key,
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// Open streams the object's content.
func (l *S3Lister) Open(ctx context.Context, doc Document) (io.ReadCloser, error) {
	obj, err := l.client.GetObject(ctx, l.bucket, doc.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", l.bucket, doc.Key, err)
	}
	return obj, nil
}
