package handlers

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// FileStore persists attachment files (inspection documents, payment
// proofs, material invoices) and hands back a serving URL plus an opaque
// id for later deletion.
type FileStore interface {
	Save(ctx context.Context, folder, filename string, data []byte, contentType string) (url, publicID string, err error)
	Delete(ctx context.Context, publicID string) error
}

// NewFileStore picks the backend from the environment: GCS when USE_GCS is
// set and a bucket is configured, local disk otherwise.
func NewFileStore() FileStore {
	if os.Getenv("USE_GCS") == "true" && os.Getenv("GCS_BUCKET") != "" {
		store, err := newGCSStore(os.Getenv("GCS_BUCKET"))
		if err != nil {
			log.Printf("[FILES] GCS unavailable, falling back to local disk: %v", err)
		} else {
			log.Printf("[FILES] using GCS bucket %s", os.Getenv("GCS_BUCKET"))
			return store
		}
	}
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	log.Printf("[FILES] using local upload dir %s", dir)
	return &localStore{dir: dir, baseURL: os.Getenv("PUBLIC_URL")}
}

func uniqueObjectName(folder, filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%s/%d_%s%s", folder, time.Now().Unix(), uuid.NewString()[:8], ext)
}

type gcsStore struct {
	client *storage.Client
	bucket string
}

func newGCSStore(bucket string) (*gcsStore, error) {
	client, err := storage.NewClient(context.Background())
	if err != nil {
		return nil, err
	}
	return &gcsStore{client: client, bucket: bucket}, nil
}

func (s *gcsStore) Save(ctx context.Context, folder, filename string, data []byte, contentType string) (string, string, error) {
	object := uniqueObjectName(folder, filename)

	wc := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return "", "", err
	}
	if err := wc.Close(); err != nil {
		return "", "", err
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, object)
	return url, object, nil
}

func (s *gcsStore) Delete(ctx context.Context, publicID string) error {
	return s.client.Bucket(s.bucket).Object(publicID).Delete(ctx)
}

type localStore struct {
	dir     string
	baseURL string
}

func (s *localStore) Save(_ context.Context, folder, filename string, data []byte, _ string) (string, string, error) {
	object := uniqueObjectName(folder, filename)
	path := filepath.Join(s.dir, filepath.FromSlash(object))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", err
	}

	url := strings.TrimSuffix(s.baseURL, "/") + "/uploads/" + object
	return url, object, nil
}

func (s *localStore) Delete(_ context.Context, publicID string) error {
	// Refuse anything that could climb out of the upload dir.
	if strings.Contains(publicID, "..") {
		return fmt.Errorf("invalid object id: %s", publicID)
	}
	return os.Remove(filepath.Join(s.dir, filepath.FromSlash(publicID)))
}
