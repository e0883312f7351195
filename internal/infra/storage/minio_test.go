package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMinio struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
}

func (f *fakeMinio) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func newFake(t *testing.T) (*fakeMinio, string) {
	t.Helper()
	f := &fakeMinio{objects: map[string]string{}, types: map[string]string{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, strings.TrimPrefix(srv.URL, "http://")
}

func TestArchivePutStoresObject(t *testing.T) {
	fake, endpoint := newFake(t)
	ctx := context.Background()

	a, err := New(ctx, Options{
		Endpoint:  endpoint,
		Region:    "us-east-1",
		Bucket:    "reports",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	require.NoError(t, a.Check(ctx))

	url, err := a.Put(ctx, "exports/s1/contract_analysis.txt", "text/plain; charset=utf-8", []byte("report body"))
	require.NoError(t, err)
	assert.Equal(t, "http://"+endpoint+"/reports/exports/s1/contract_analysis.txt", url)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.objects["/reports/exports/s1/contract_analysis.txt"], "report body")
	assert.Equal(t, "text/plain; charset=utf-8", fake.types["/reports/exports/s1/contract_analysis.txt"])
}
