// Package artwork implements the content-addressed on-disk artwork cache.
package artwork

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/20after4/configdir"
	"github.com/genricoloni/mediabridge/internal/domain"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultExt = ".jpg"
	userAgent  = "mediabridge/1.0"

	retryWaitMin = 250 * time.Millisecond
	retryWaitMax = 2 * time.Second
)

// Cache resolves artwork references to URIs, downloading remote images once
// into a directory keyed by the SHA-256 of their URL. Entries are never
// refreshed or evicted.
type Cache struct {
	logger *zap.Logger
	dir    string
	client *retryablehttp.Client
	group  singleflight.Group
}

// NewCache creates a cache rooted at the configured cache directory
func NewCache(logger *zap.Logger, cfg domain.Config) *Cache {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.GetDownloadRetries()
	client.RetryWaitMin = retryWaitMin
	client.RetryWaitMax = retryWaitMax
	client.Logger = leveledLogger{s: logger.Named("http").Sugar()}

	return &Cache{
		logger: logger,
		dir:    cfg.GetCacheDir(),
		client: client,
	}
}

// Resolve returns the URI to advertise for rawURL. Non-remote values go through
// FormatURI. Remote values resolve to a file:// URI of the cached copy, or ""
// when the download fails.
func (c *Cache) Resolve(ctx context.Context, rawURL string) string {
	if rawURL == "" || !IsRemote(rawURL) {
		return FormatURI(rawURL)
	}

	target := c.Path(rawURL)
	if fileExists(target) {
		return fileURI(target)
	}

	key := Key(rawURL)
	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		// Another flight may have completed between the check above and now.
		if fileExists(target) {
			return fileURI(target), nil
		}
		if err := c.download(ctx, rawURL, target); err != nil {
			return "", err
		}
		return fileURI(target), nil
	})
	if err != nil {
		c.logger.Warn("Artwork download failed",
			zap.String("url", rawURL),
			zap.Error(err))
		return ""
	}

	c.logger.Debug("Artwork resolved",
		zap.String("url", rawURL),
		zap.String("path", target),
		zap.Bool("shared", shared))
	return v.(string)
}

// Path returns the on-disk location for rawURL, whether or not it has been fetched.
func (c *Cache) Path(rawURL string) string {
	return filepath.Join(c.dir, Key(rawURL)+extension(rawURL))
}

// Dir returns the cache root
func (c *Cache) Dir() string {
	return c.dir
}

// Key is the content key for a source URL: the hex SHA-256 of the URL string.
func Key(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

// download streams rawURL into a temporary file next to target and renames it
// into place, so a partial download is never visible at target.
func (c *Cache) download(ctx context.Context, rawURL, target string) error {
	if err := configdir.MakePath(c.dir); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(c.dir, filepath.Base(target)+".*.part")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	n, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write artwork: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to move artwork into place: %w", err)
	}

	c.logger.Debug("Artwork downloaded",
		zap.Int64("bytes", n),
		zap.String("url", rawURL))
	return nil
}

// extension returns the URL path's extension, or .jpg when there is none.
func extension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return defaultExt
	}
	ext := path.Ext(u.Path)
	if ext == "" || ext == "." {
		return defaultExt
	}
	return ext
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// leveledLogger adapts zap to retryablehttp's LeveledLogger
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, keysAndValues...)
}
