package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort              = "5005"
	defaultWorkCenter        = "303"
	defaultSessionTTL        = "12h"
	defaultCookieSecure      = "false"
	defaultLogLevel          = "info"
	defaultLayoutLockTimeout = "3s"
	defaultMaxUploadMB       = 25
	defaultSessionSecret     = "change-me-session-secret"

	mainDBFile    = "projekti_baza.db"
	montazaDBFile = "velika_montaza.db"
	casDBFile     = "cas_baza.db"
	layoutFile    = "layout_data.json"
	uploadsDir    = "uploads"
)

// Config is the key-value configuration every component reads store
// locations and the work center code from.
type Config struct {
	AppEnv  string
	AppRoot string
	Port    string

	MainDBPath string
	MontazaDSN string
	CasDBPath  string
	LayoutPath string
	UploadsDir string
	WorkCenter string

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	LogLevel           string
	LayoutLockTimeout  time.Duration
	MaxUploadBytes     int64
	CORSAllowedOrigins []string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := &Config{}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", "dev")))

	root := strings.TrimSpace(os.Getenv("APP_ROOT"))
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}
	cfg.AppRoot = root

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.MainDBPath = getEnv("MAIN_DB_PATH", filepath.Join(root, mainDBFile))
	cfg.MontazaDSN = getEnv("MONTAZA_DB_PATH", filepath.Join(root, montazaDBFile))
	cfg.CasDBPath = getEnv("CAS_DB_PATH", filepath.Join(root, casDBFile))
	cfg.LayoutPath = getEnv("LAYOUT_FILE_PATH", filepath.Join(root, layoutFile))
	cfg.UploadsDir = getEnv("UPLOADS_DIR", filepath.Join(root, uploadsDir))
	cfg.WorkCenter = strings.TrimSpace(getEnv("WORK_CENTER", defaultWorkCenter))

	cfg.SessionSecret = strings.TrimSpace(getEnv("SESSION_SECRET", defaultSessionSecret))
	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", defaultCookieSecure)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))

	var err error
	cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return nil, err
	}
	cfg.LayoutLockTimeout, err = parseDurationEnv("LAYOUT_LOCK_TIMEOUT", defaultLayoutLockTimeout)
	if err != nil {
		return nil, err
	}

	uploadMB, err := parseIntEnv("MAX_UPLOAD_SIZE_MB", defaultMaxUploadMB)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(uploadMB) << 20

	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the app runs in a prod-like environment.
func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.WorkCenter == "" {
		return fmt.Errorf("WORK_CENTER must not be empty")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.LayoutLockTimeout <= 0 {
		return fmt.Errorf("LAYOUT_LOCK_TIMEOUT must be > 0")
	}
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE_MB must be > 0")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.SessionSecret, defaultSessionSecret) {
			return fmt.Errorf("in prod/release SESSION_SECRET must be set and not default")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
