package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"

	offerletter "github.com/alnah/go-offerletter"
)

func artifact(name string) *offerletter.Artifact {
	return &offerletter.Artifact{Name: name, MIMEType: offerletter.MIMETypePDF, Data: []byte("%PDF-1.4")}
}

func TestDirSink_Put(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out", "letters")
	sink := NewDirSink(dir)

	got, err := sink.Put(context.Background(), artifact("John Doe_Offer_Letter.pdf"))
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if got != filepath.Join(dir, "John Doe_Offer_Letter.pdf") {
		t.Errorf("Put() = %q", got)
	}
	data, err := os.ReadFile(got)
	if err != nil || string(data) != "%PDF-1.4" {
		t.Errorf("file content = %q, %v", data, err)
	}
}

func TestDirSink_Errors(t *testing.T) {
	t.Parallel()

	sink := NewDirSink(t.TempDir())

	tests := []struct {
		name    string
		ctx     func() context.Context
		art     *offerletter.Artifact
		wantErr error
	}{
		{"nil artifact", context.Background, nil, ErrEmptyArtifact},
		{"blank name", context.Background, artifact(" "), ErrEmptyArtifact},
		{"path in name", context.Background, artifact("../escape.pdf"), ErrStore},
		{"cancelled", func() context.Context {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx
		}, artifact("a.pdf"), context.Canceled},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := sink.Put(tt.ctx(), tt.art); !errors.Is(err, tt.wantErr) {
				t.Errorf("Put() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewDirSink_DefaultsToWorkingDir(t *testing.T) {
	t.Parallel()

	if got := NewDirSink("").Dir; got != "." {
		t.Errorf("Dir = %q, want .", got)
	}
}

// fakeStore records uploads.
type fakeStore struct {
	bucket, key string
	body        string
	opts        minio.PutObjectOptions
	expires     time.Duration
	putErr      error
	presignErr  error
}

func (f *fakeStore) PutObject(_ context.Context, bucket, object string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, _ := io.ReadAll(r)
	f.bucket, f.key, f.body, f.opts = bucket, object, string(data), opts
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: int64(len(data))}, nil
}

func (f *fakeStore) PresignedGetObject(_ context.Context, bucket, object string, expires time.Duration, _ url.Values) (*url.URL, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	f.expires = expires
	return &url.URL{Scheme: "https", Host: "files.example", Path: "/" + bucket + "/" + object}, nil
}

func TestMinioSink_Put(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	sink := newMinioSink(store, MinioConfig{Bucket: "offers", Prefix: "/letters/"})

	got, err := sink.Put(context.Background(), artifact("Jane_Offer_Letter.pdf"))
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if store.bucket != "offers" || store.key != "letters/Jane_Offer_Letter.pdf" {
		t.Errorf("uploaded to %s/%s", store.bucket, store.key)
	}
	if store.body != "%PDF-1.4" || store.opts.ContentType != offerletter.MIMETypePDF {
		t.Errorf("body = %q, content type = %q", store.body, store.opts.ContentType)
	}
	if !strings.Contains(store.opts.ContentDisposition, `filename="Jane_Offer_Letter.pdf"`) {
		t.Errorf("ContentDisposition = %q", store.opts.ContentDisposition)
	}
	if store.expires != DefaultPresignTTL {
		t.Errorf("expires = %v, want %v", store.expires, DefaultPresignTTL)
	}
	if got != "https://files.example/offers/letters/Jane_Offer_Letter.pdf" {
		t.Errorf("Put() = %q", got)
	}
}

func TestMinioSink_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		store *fakeStore
	}{
		{"upload", &fakeStore{putErr: errors.New("access denied")}},
		{"presign", &fakeStore{presignErr: errors.New("bad credentials")}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sink := newMinioSink(tt.store, MinioConfig{Bucket: "offers", PresignTTL: time.Hour})
			if _, err := sink.Put(context.Background(), artifact("a.pdf")); !errors.Is(err, ErrStore) {
				t.Errorf("Put() error = %v, want ErrStore", err)
			}
		})
	}
}

func TestNewMinioSink(t *testing.T) {
	t.Parallel()

	if _, err := NewMinioSink(MinioConfig{Bucket: "offers"}); !errors.Is(err, ErrInvalidSink) {
		t.Errorf("missing endpoint error = %v, want ErrInvalidSink", err)
	}

	sink, err := NewMinioSink(MinioConfig{Endpoint: "localhost:9000", Bucket: "offers", PresignTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewMinioSink() error: %v", err)
	}
	if sink.ttl != time.Hour || sink.bucket != "offers" {
		t.Errorf("sink = %+v", sink)
	}
}
