// Package config loads the bridge configuration from defaults, a TOML file,
// a .env file, MEDIABRIDGE_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/20after4/configdir"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

const (
	AppName = "mediabridge"

	envPrefix = "MEDIABRIDGE_"

	defaultListenAddr      = "127.0.0.1:35791"
	defaultIdentity        = "Media Bridge"
	defaultIconSize        = 128
	defaultDownloadRetries = 2
	defaultLogLevel        = "info"
	configFileName         = "config.toml"
	defaultEnvFile         = ".env"
)

// AppConfig holds application configuration
type AppConfig struct {
	CacheDir             string `toml:"cache_dir"`
	ListenAddr           string `toml:"listen_addr"`
	ServiceName          string `toml:"service_name"`
	Identity             string `toml:"identity"`
	DesktopEntry         string `toml:"desktop_entry"`
	Notifications        bool   `toml:"notifications"`
	NotificationIconSize int    `toml:"notification_icon_size"`
	DownloadRetries      int    `toml:"download_retries"`
	LogLevel             string `toml:"log_level"`
	LogFile              string `toml:"log_file"`

	// source is the config file that was read, empty if none
	source string
}

// Overrides are values set on the command line. Empty fields are ignored.
type Overrides struct {
	ConfigFile      string
	EnvFile         string
	CacheDir        string
	ListenAddr      string
	LogLevel        string
	LogFile         string
	NoNotifications bool
}

// Default returns the built-in configuration
func Default() *AppConfig {
	return &AppConfig{
		CacheDir:             filepath.Join(configdir.LocalCache(AppName), "artwork"),
		ListenAddr:           defaultListenAddr,
		ServiceName:          AppName,
		Identity:             defaultIdentity,
		DesktopEntry:         AppName,
		Notifications:        true,
		NotificationIconSize: defaultIconSize,
		DownloadRetries:      defaultDownloadRetries,
		LogLevel:             defaultLogLevel,
	}
}

// Load builds the configuration. A missing default config file or .env file
// is not an error; a missing file named explicitly is.
func Load(o Overrides) (*AppConfig, error) {
	c := Default()

	if err := loadEnvFile(o.EnvFile); err != nil {
		return nil, err
	}

	path, explicit := configPath(o.ConfigFile)
	if err := c.readFile(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			path = ""
		} else {
			return nil, err
		}
	}
	c.source = path

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	c.applyOverrides(o)

	c.CacheDir = expandPath(c.CacheDir)
	c.LogFile = expandPath(c.LogFile)

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func configPath(flag string) (string, bool) {
	if flag != "" {
		return flag, true
	}
	if env := os.Getenv(envPrefix + "CONFIG"); env != "" {
		return env, true
	}
	return filepath.Join(configdir.LocalConfig(AppName), configFileName), false
}

// loadEnvFile reads KEY=VALUE pairs into the process environment without
// overriding variables that are already set.
func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) applyEnv() error {
	strs := map[string]*string{
		"CACHE_DIR":     &c.CacheDir,
		"LISTEN_ADDR":   &c.ListenAddr,
		"SERVICE_NAME":  &c.ServiceName,
		"IDENTITY":      &c.Identity,
		"DESKTOP_ENTRY": &c.DesktopEntry,
		"LOG_LEVEL":     &c.LogLevel,
		"LOG_FILE":      &c.LogFile,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"NOTIFICATION_ICON_SIZE": &c.NotificationIconSize,
		"DOWNLOAD_RETRIES":       &c.DownloadRetries,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
			}
			*dst = n
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "NOTIFICATIONS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sNOTIFICATIONS: %w", envPrefix, err)
		}
		c.Notifications = b
	}
	return nil
}

func (c *AppConfig) applyOverrides(o Overrides) {
	if o.CacheDir != "" {
		c.CacheDir = o.CacheDir
	}
	if o.ListenAddr != "" {
		c.ListenAddr = o.ListenAddr
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.NoNotifications {
		c.Notifications = false
	}
}

func (c *AppConfig) validate() error {
	if c.CacheDir == "" {
		return errors.New("cache_dir must not be empty")
	}
	if c.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	if !validBusElement(c.ServiceName) {
		return fmt.Errorf("service_name %q is not a valid bus name element", c.ServiceName)
	}
	if c.NotificationIconSize < 0 {
		return fmt.Errorf("notification_icon_size must be >= 0, got %d", c.NotificationIconSize)
	}
	if c.DownloadRetries < 0 {
		return fmt.Errorf("download_retries must be >= 0, got %d", c.DownloadRetries)
	}
	return nil
}

// validBusElement reports whether s can follow org.mpris.MediaPlayer2. in a
// well-known bus name.
func validBusElement(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if part == "" || (part[0] >= '0' && part[0] <= '9') {
			return false
		}
		for _, r := range part {
			if !(r == '_' || r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
				return false
			}
		}
	}
	return true
}

// expandPath expands environment variables and a leading ~
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

// Log reports the effective configuration
func (c *AppConfig) Log(logger *zap.Logger) {
	logger.Info("Configuration loaded",
		zap.String("file", c.source),
		zap.String("cacheDir", c.CacheDir),
		zap.String("listenAddr", c.ListenAddr),
		zap.String("serviceName", c.ServiceName),
		zap.Bool("notifications", c.Notifications),
		zap.Int("downloadRetries", c.DownloadRetries))
}

// Source returns the config file that was read, or "" when defaults were used.
func (c *AppConfig) Source() string {
	return c.source
}

// GetCacheDir returns the artwork cache directory
func (c *AppConfig) GetCacheDir() string {
	return c.CacheDir
}

// GetListenAddr returns the address of the UI message channel
func (c *AppConfig) GetListenAddr() string {
	return c.ListenAddr
}

// GetServiceName returns the MPRIS bus name suffix
func (c *AppConfig) GetServiceName() string {
	return c.ServiceName
}

// GetIdentity returns the player identity shown by media controls
func (c *AppConfig) GetIdentity() string {
	return c.Identity
}

// GetDesktopEntry returns the desktop entry basename
func (c *AppConfig) GetDesktopEntry() string {
	return c.DesktopEntry
}

// NotificationsEnabled reports whether track-change notifications are sent
func (c *AppConfig) NotificationsEnabled() bool {
	return c.Notifications
}

// GetNotificationIconSize returns the notification icon edge in pixels
func (c *AppConfig) GetNotificationIconSize() int {
	return c.NotificationIconSize
}

// GetDownloadRetries returns the number of artwork download retries
func (c *AppConfig) GetDownloadRetries() int {
	return c.DownloadRetries
}

// GetLogLevel returns the minimum log level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetLogFile returns the rotating log file path, empty for stderr only
func (c *AppConfig) GetLogFile() string {
	return c.LogFile
}
