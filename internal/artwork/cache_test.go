package artwork

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubConfig struct {
	dir string
}

func (c stubConfig) GetCacheDir() string          { return c.dir }
func (c stubConfig) GetListenAddr() string        { return "" }
func (c stubConfig) GetServiceName() string       { return "" }
func (c stubConfig) GetIdentity() string          { return "" }
func (c stubConfig) GetDesktopEntry() string      { return "" }
func (c stubConfig) NotificationsEnabled() bool   { return false }
func (c stubConfig) GetNotificationIconSize() int { return 0 }
func (c stubConfig) GetDownloadRetries() int      { return 0 }

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	// The directory is created lazily on first download.
	return NewCache(zap.NewNop(), stubConfig{dir: filepath.Join(t.TempDir(), "artwork")})
}

func TestCache_Resolve_Remote(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "mediabridge/1.0", r.UserAgent())
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("fake-image-data"))
	}))
	defer server.Close()

	cache := newTestCache(t)
	rawURL := server.URL + "/covers/a.png"

	first := cache.Resolve(context.Background(), rawURL)
	second := cache.Resolve(context.Background(), rawURL)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load(), "second resolve must be served from disk")

	assert.True(t, strings.HasPrefix(first, "file://"))
	assert.True(t, strings.HasSuffix(first, Key(rawURL)+".png"))

	data, err := os.ReadFile(LocalPath(first))
	require.NoError(t, err)
	assert.Equal(t, "fake-image-data", string(data))
}

func TestCache_Resolve_ConcurrentSingleFetch(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte("img"))
	}))
	defer server.Close()

	cache := newTestCache(t)
	rawURL := server.URL + "/same.jpg"

	const n = 8
	results := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Resolve(context.Background(), rawURL)
		}(i)
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	for _, r := range results {
		assert.Equal(t, results[0], r)
		assert.NotEmpty(t, r)
	}
}

func TestCache_Resolve_Failures(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name   string
		rawURL string
	}{
		{"Not Found", notFound.URL + "/missing.png"},
		{"Unreachable", closedURL + "/y.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newTestCache(t)
			assert.Equal(t, "", cache.Resolve(context.Background(), tt.rawURL))

			_, err := os.Stat(cache.Path(tt.rawURL))
			assert.True(t, os.IsNotExist(err), "failed downloads must not leave a file behind")

			entries, _ := os.ReadDir(cache.Dir())
			assert.Empty(t, entries, "no partial files")
		})
	}
}

func TestCache_Resolve_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("img"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cache := newTestCache(t)
	assert.Equal(t, "", cache.Resolve(ctx, server.URL+"/a.jpg"))
}

func TestCache_Resolve_NonRemote(t *testing.T) {
	cache := newTestCache(t)

	assert.Equal(t, "", cache.Resolve(context.Background(), ""))
	assert.Equal(t, "file:///home/u/cover.png", cache.Resolve(context.Background(), "/home/u/cover.png"))
	assert.Equal(t, "file:///already/there.jpg", cache.Resolve(context.Background(), "file:///already/there.jpg"))
	assert.Equal(t, "relative/cover.png", cache.Resolve(context.Background(), "relative/cover.png"))

	_, err := os.Stat(cache.Dir())
	assert.True(t, os.IsNotExist(err), "local references never touch the cache")
}

func TestCache_Path(t *testing.T) {
	cache := newTestCache(t)

	tests := []struct {
		name   string
		rawURL string
		ext    string
	}{
		{"Png", "https://x/y.png", ".png"},
		{"Webp With Query", "https://x/img/cover.webp?size=large", ".webp"},
		{"No Extension", "https://x/cover", ".jpg"},
		{"Trailing Slash", "https://x/cover/", ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cache.Path(tt.rawURL)
			assert.Equal(t, filepath.Join(cache.Dir(), Key(tt.rawURL)+tt.ext), got)
		})
	}
}

func TestKey(t *testing.T) {
	assert.Len(t, Key("https://x/y.png"), 64)
	assert.Equal(t, Key("https://x/y.png"), Key("https://x/y.png"))
	assert.NotEqual(t, Key("https://x/y.png"), Key("https://x/y.jpg"))
}
