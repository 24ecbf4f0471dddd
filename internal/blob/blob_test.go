package blob

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go-diet-pipeline/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewDirStore(root, "datasets")

	require.NoError(t, store.EnsureBucket(ctx))
	require.NoError(t, store.EnsureBucket(ctx), "creating an existing bucket is not an error")

	require.NoError(t, store.Put(ctx, "All_Diets.csv", []byte("a,b\n"), "text/csv"))
	require.NoError(t, store.Put(ctx, "results/diet_summary.json", []byte("{}"), "application/json"))
	require.NoError(t, store.Put(ctx, "All_Diets.csv", []byte("c,d\n"), "text/csv"))

	data, err := store.Get(ctx, "All_Diets.csv")
	require.NoError(t, err)
	assert.Equal(t, "c,d\n", string(data))

	assert.FileExists(t, filepath.Join(root, "datasets", "results", "diet_summary.json"))
	assert.True(t, strings.HasPrefix(store.URL("All_Diets.csv"), "file://"))
	assert.True(t, strings.HasSuffix(store.URL("All_Diets.csv"), "/datasets/All_Diets.csv"))

	_, err = store.Get(ctx, "missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirStore_InvalidKeys(t *testing.T) {
	store := NewDirStore(t.TempDir(), "datasets")
	for _, key := range []string{"", "/", "../escape.csv", "a/../../b"} {
		err := store.Put(context.Background(), key, []byte("x"), "text/plain")
		assert.Error(t, err, "key %q", key)
	}
}

// fakeS3 is a minimal path-style S3 endpoint
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	bucket := parts[0]
	if len(parts) == 1 || parts[1] == "" {
		switch r.Method {
		case http.MethodHead:
			if !f.buckets[bucket] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
		case http.MethodPut:
			f.buckets[bucket] = true
		}
		return
	}

	key := bucket + "/" + parts[1]
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		_, _ = w.Write(body)
	}
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{buckets: map[string]bool{}, objects: map[string][]byte{}}
	server := httptest.NewServer(fake)
	defer server.Close()

	ctx := context.Background()
	store, err := Open(ctx, config.StorageConfig{
		Driver:    "s3",
		Endpoint:  server.URL,
		Region:    "us-east-1",
		Bucket:    "datasets",
		AccessKey: "test",
		SecretKey: "test",
		PathStyle: true,
	})
	require.NoError(t, err)

	require.NoError(t, store.EnsureBucket(ctx))
	assert.True(t, fake.buckets["datasets"])
	require.NoError(t, store.EnsureBucket(ctx))

	require.NoError(t, store.Put(ctx, "All_Diets.csv", []byte("Diet_type\nketo\n"), "text/csv"))
	data, err := store.Get(ctx, "All_Diets.csv")
	require.NoError(t, err)
	assert.Equal(t, "Diet_type\nketo\n", string(data))

	_, err = store.Get(ctx, "missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, server.URL+"/datasets/All_Diets.csv", store.URL("All_Diets.csv"))
}

func TestS3Store_URL(t *testing.T) {
	store := &S3Store{Bucket: "datasets", Region: "eu-west-1"}
	assert.Equal(t, "https://datasets.s3.eu-west-1.amazonaws.com/All_Diets.csv", store.URL("All_Diets.csv"))

	_, err := NewS3Store(context.Background(), S3Options{})
	assert.Error(t, err)
}

func TestOpen_Dir(t *testing.T) {
	store, err := Open(context.Background(), config.StorageConfig{Driver: "dir", Dir: t.TempDir(), Bucket: "datasets"})
	require.NoError(t, err)
	assert.IsType(t, &DirStore{}, store)
}
