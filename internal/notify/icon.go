package notify

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/20after4/configdir"
	"github.com/disintegration/imaging"
	"github.com/genricoloni/mediabridge/internal/domain"
	"go.uber.org/zap"
)

// IconCache produces downscaled copies of cached artwork for notification icons.
type IconCache struct {
	logger *zap.Logger
	dir    string
	size   int
}

// NewIconCache stores thumbnails under <cache-dir>/icons. A configured size
// of 0 disables resizing.
func NewIconCache(logger *zap.Logger, cfg domain.Config) *IconCache {
	return &IconCache{
		logger: logger,
		dir:    filepath.Join(cfg.GetCacheDir(), "icons"),
		size:   cfg.GetNotificationIconSize(),
	}
}

// Thumbnail returns the path of an icon-sized copy of src. The source path is
// returned unchanged when resizing is disabled, the image already fits, or it
// cannot be decoded.
func (c *IconCache) Thumbnail(src string) string {
	if c.size <= 0 || src == "" {
		return src
	}

	target := c.targetPath(src)
	if _, err := os.Stat(target); err == nil {
		return target
	}

	img, err := imaging.Open(src)
	if err != nil {
		c.logger.Debug("Using original artwork as icon", zap.String("path", src), zap.Error(err))
		return src
	}

	bounds := img.Bounds()
	if bounds.Dx() <= c.size && bounds.Dy() <= c.size {
		return src
	}

	if err := c.write(img, target); err != nil {
		c.logger.Warn("Failed to write notification icon", zap.String("path", target), zap.Error(err))
		return src
	}

	c.logger.Debug("Notification icon created",
		zap.String("path", target),
		zap.Int("w", bounds.Dx()),
		zap.Int("h", bounds.Dy()),
		zap.Int("size", c.size))
	return target
}

func (c *IconCache) targetPath(src string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(c.dir, fmt.Sprintf("%s_%d.png", base, c.size))
}

func (c *IconCache) write(img image.Image, target string) error {
	if err := configdir.MakePath(c.dir); err != nil {
		return fmt.Errorf("failed to create icon directory: %w", err)
	}
	thumb := imaging.Fit(img, c.size, c.size, imaging.Lanczos)

	tmp, err := os.CreateTemp(c.dir, filepath.Base(target)+".*.part")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	encErr := imaging.Encode(tmp, thumb, imaging.PNG, imaging.PNGCompressionLevel(png.BestSpeed))
	closeErr := tmp.Close()
	if err := errors.Join(encErr, closeErr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode icon: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to move icon into place: %w", err)
	}
	return nil
}
