// Package storage delivers exported artifacts to a directory or to an
// S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	offerletter "github.com/alnah/go-offerletter"
	"github.com/alnah/go-offerletter/internal/fileutil"
)

// Sentinel errors.
var (
	ErrStore         = errors.New("artifact storage failed")
	ErrInvalidSink   = errors.New("invalid storage sink")
	ErrEmptyArtifact = errors.New("artifact has no name")
)

// Sink stores an artifact and returns where it can be found: a file path
// for directories, a download URL for buckets.
type Sink interface {
	Put(ctx context.Context, art *offerletter.Artifact) (string, error)
}

// DirSink writes artifacts into a local directory.
type DirSink struct {
	Dir string
}

// NewDirSink returns a sink writing into dir ("." when empty).
func NewDirSink(dir string) *DirSink {
	if dir == "" {
		dir = "."
	}
	return &DirSink{Dir: dir}
}

// Put writes art under its own name, replacing any previous file.
func (s *DirSink) Put(ctx context.Context, art *offerletter.Artifact) (string, error) {
	if err := checkArtifact(art); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p, err := fileutil.WriteInDir(s.Dir, art.Name, art.Data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStore, err)
	}
	return p, nil
}

// objectStore is the part of *minio.Client a MinioSink needs.
type objectStore interface {
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucket, object string, expires time.Duration, params url.Values) (*url.URL, error)
}

// MinioConfig configures a MinioSink.
type MinioConfig struct {
	Endpoint   string
	Bucket     string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	Prefix     string        // object key prefix, e.g. "letters/"
	PresignTTL time.Duration // lifetime of returned download URLs
}

// MinioSink uploads artifacts to a bucket.
type MinioSink struct {
	store  objectStore
	bucket string
	prefix string
	ttl    time.Duration
}

// DefaultPresignTTL is used when MinioConfig.PresignTTL is zero.
const DefaultPresignTTL = 24 * time.Hour

// NewMinioSink creates a client for cfg.Endpoint. The bucket must exist.
func NewMinioSink(cfg MinioConfig) (*MinioSink, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: endpoint and bucket are required", ErrInvalidSink)
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: init minio client: %v", ErrInvalidSink, err)
	}
	return newMinioSink(client, cfg), nil
}

func newMinioSink(store objectStore, cfg MinioConfig) *MinioSink {
	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}
	return &MinioSink{store: store, bucket: cfg.Bucket, prefix: cfg.Prefix, ttl: ttl}
}

// Put uploads art and returns a presigned download URL.
func (s *MinioSink) Put(ctx context.Context, art *offerletter.Artifact) (string, error) {
	if err := checkArtifact(art); err != nil {
		return "", err
	}
	key := s.objectKey(art.Name)
	opts := minio.PutObjectOptions{
		ContentType:        art.MIMEType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", art.Name),
	}
	if _, err := s.store.PutObject(ctx, s.bucket, key, bytes.NewReader(art.Data), int64(len(art.Data)), opts); err != nil {
		return "", fmt.Errorf("%w: put object %q: %v", ErrStore, key, err)
	}
	u, err := s.store.PresignedGetObject(ctx, s.bucket, key, s.ttl, nil)
	if err != nil {
		return "", fmt.Errorf("%w: presign %q: %v", ErrStore, key, err)
	}
	return u.String(), nil
}

func (s *MinioSink) objectKey(name string) string {
	prefix := strings.Trim(s.prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func checkArtifact(art *offerletter.Artifact) error {
	if art == nil || strings.TrimSpace(art.Name) == "" {
		return ErrEmptyArtifact
	}
	return nil
}

// Compile-time interface checks.
var (
	_ Sink        = (*DirSink)(nil)
	_ Sink        = (*MinioSink)(nil)
	_ objectStore = (*minio.Client)(nil)
)
