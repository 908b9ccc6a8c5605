package infra_s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase_notes "github.com/ShivanshCoding36/college-companion/internal/usecase/notes"
)

type S3StorageSuite struct {
	suite.Suite
}

type object struct {
	body        []byte
	contentType string
}

// fakeS3 serves the path-style subset of the S3 API the storage uses.
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string]object
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if bucket == "forbidden" {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	switch {
	case key == "" && r.Method == http.MethodHead:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case key == "" && r.Method == http.MethodPut:
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[bucket+"/"+key] = object{body: body, contentType: r.Header.Get("Content-Type")}
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet:
		obj, ok := f.objects[bucket+"/"+key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", obj.contentType)
		_, _ = w.Write(obj.body)
	case r.Method == http.MethodDelete:
		delete(f.objects, bucket+"/"+key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeS3) object(key string) (object, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	return obj, ok
}

func initResources(t provider.T, bucket string) (*Storage, *fakeS3, string) {
	fake := &fakeS3{buckets: map[string]bool{}, objects: map[string]object{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	storage, err := New(context.Background(), NewClient(srv.URL, "us-east-1", "key", "secret"), bucket, "notes")
	require.NoError(t, err)
	return storage, fake, srv.URL
}

func (s *S3StorageSuite) TestNewCreatesMissingBucket(t provider.T) {
	t.Parallel()
	_, fake, _ := initResources(t, "companion")

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.True(t, fake.buckets["companion"])
}

func (s *S3StorageSuite) TestNewRejectsInaccessibleBucket(t provider.T) {
	t.Parallel()
	srv := httptest.NewServer(&fakeS3{buckets: map[string]bool{}, objects: map[string]object{}})
	t.Cleanup(srv.Close)

	_, err := New(context.Background(), NewClient(srv.URL, "us-east-1", "key", "secret"), "forbidden", "notes")

	assert.Error(t, err)
}

func (s *S3StorageSuite) TestSaveLoadDelete(t provider.T) {
	t.Parallel()
	ctx := context.Background()
	storage, fake, _ := initResources(t, "companion")

	require.NoError(t, storage.Save(ctx, "u1/n1", strings.NewReader("%PDF-1.7"), 8, "application/pdf"))

	stored, ok := fake.object("companion/notes/u1/n1")
	require.True(t, ok)
	assert.Equal(t, "application/pdf", stored.contentType)

	content, err := storage.Load(ctx, "u1/n1")
	require.NoError(t, err)
	body, err := io.ReadAll(content)
	require.NoError(t, err)
	_ = content.Close()
	assert.Equal(t, "%PDF-1.7", string(body))

	require.NoError(t, storage.Delete(ctx, "u1/n1"))
	_, err = storage.Load(ctx, "u1/n1")
	assert.ErrorIs(t, err, usecase_notes.ErrNoteNotFound)
}

func (s *S3StorageSuite) TestSaveBuffersUnseekableContent(t provider.T) {
	t.Parallel()
	storage, fake, _ := initResources(t, "companion")
	content := io.MultiReader(strings.NewReader("chapter "), strings.NewReader("one"))

	require.NoError(t, storage.Save(context.Background(), "u1/n2", content, 11, "text/plain"))

	stored, ok := fake.object("companion/notes/u1/n2")
	require.True(t, ok)
	assert.Equal(t, "chapter one", string(stored.body))
}

func (s *S3StorageSuite) TestKeysStayUnderPrefix(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		key      string
		expected string
	}{
		{name: "Plain key", key: "u1/n1", expected: "notes/u1/n1"},
		{name: "Parent segments", key: "../../etc/passwd", expected: "notes/etc/passwd"},
		{name: "Backslashes", key: `u1\..\n1`, expected: "notes/u1/n1"},
		{name: "Leading slash", key: "/u1//n1", expected: "notes/u1/n1"},
	}

	storage := &Storage{prefix: "notes"}
	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			assert.Equal(t, tc.expected, storage.buildKey(tc.key))
		})
	}
}

func (s *S3StorageSuite) TestPresignedURL(t provider.T) {
	t.Parallel()
	storage, _, endpoint := initResources(t, "companion")

	link, err := storage.PresignedURL(context.Background(), "u1/n1", 15*time.Minute)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, endpoint+"/companion/notes/u1/n1?"), link)
	assert.Contains(t, link, "X-Amz-Expires=900")
	assert.Contains(t, link, "X-Amz-Signature=")
}

func TestS3StorageSuite(t *testing.T) {
	suite.RunSuite(t, new(S3StorageSuite))
}
