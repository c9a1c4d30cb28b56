package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Default values applied when the corresponding variable is unset.
const (
	DefaultDatabaseURL = "sqlite:///carbon.db"
	DefaultHTTPAddr    = ":5000"
	DefaultGRPCAddr    = ":9090"
	DefaultHTTPURL     = "http://localhost:5000"
)

type Config struct {
	DatabaseURL string   // CARBON_DATABASE_URL (default "sqlite:///carbon.db")
	HTTPAddr    string   // CARBON_HTTP_ADDR (default ":5000")
	GRPCAddr    string   // CARBON_GRPC_ADDR (default ":9090"; set to "-" to disable)
	NATSURL     string   // CARBON_NATS_URL (optional, empty = no events)
	CORSOrigins []string // CARBON_CORS_ORIGINS (comma-separated, default "*")
	LogLevel    slog.Level
	LogFormat   string // CARBON_LOG_FORMAT ("text" or "json")

	// Sync settings
	SyncInterval   time.Duration // CARBON_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // CARBON_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // CARBON_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // CARBON_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // CARBON_SYNC_S3_KEY (default "carbon/emissions.jsonl")
	SyncGitRepo    string        // CARBON_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // CARBON_SYNC_GIT_FILE (default "emissions.jsonl")
	SyncGitBranch  string        // CARBON_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    envOrDefault("CARBON_DATABASE_URL", DefaultDatabaseURL),
		HTTPAddr:       envOrDefault("CARBON_HTTP_ADDR", DefaultHTTPAddr),
		GRPCAddr:       envOrDefault("CARBON_GRPC_ADDR", DefaultGRPCAddr),
		NATSURL:        os.Getenv("CARBON_NATS_URL"),
		CORSOrigins:    splitList(envOrDefault("CARBON_CORS_ORIGINS", "*")),
		LogFormat:      strings.ToLower(envOrDefault("CARBON_LOG_FORMAT", "text")),
		SyncS3Bucket:   os.Getenv("CARBON_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("CARBON_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("CARBON_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("CARBON_SYNC_S3_KEY", "carbon/emissions.jsonl"),
		SyncGitRepo:    os.Getenv("CARBON_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("CARBON_SYNC_GIT_FILE", "emissions.jsonl"),
		SyncGitBranch:  envOrDefault("CARBON_SYNC_GIT_BRANCH", "main"),
	}
	if c.GRPCAddr == "-" {
		c.GRPCAddr = ""
	}

	if _, _, err := ParseDatabaseURL(c.DatabaseURL); err != nil {
		return nil, fmt.Errorf("CARBON_DATABASE_URL: %w", err)
	}

	level, err := ParseLogLevel(envOrDefault("CARBON_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("CARBON_LOG_LEVEL: %w", err)
	}
	c.LogLevel = level

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return nil, fmt.Errorf("CARBON_LOG_FORMAT: unknown format %q", c.LogFormat)
	}

	intervalStr := envOrDefault("CARBON_SYNC_INTERVAL", "3m")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("CARBON_SYNC_INTERVAL: %w", err)
	}
	c.SyncInterval = d

	return c, nil
}

// Driver names returned by ParseDatabaseURL.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ParseDatabaseURL selects a store backend from a database URL.
//
//	postgres://... or postgresql://...   -> postgres, URL unchanged
//	sqlite:///relative/path.db           -> sqlite, "relative/path.db"
//	sqlite:////absolute/path.db          -> sqlite, "/absolute/path.db"
//	sqlite://:memory:                    -> sqlite, ":memory:"
func ParseDatabaseURL(raw string) (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DriverPostgres, raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		rest := strings.TrimPrefix(raw, "sqlite://")
		if rest == ":memory:" {
			return DriverSQLite, rest, nil
		}
		rest = strings.TrimPrefix(rest, "/")
		if rest == "" {
			return "", "", fmt.Errorf("sqlite URL %q has no path", raw)
		}
		return DriverSQLite, rest, nil
	default:
		return "", "", fmt.Errorf("unsupported database URL %q", raw)
	}
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return level, nil
}

// NewLogger builds the process logger described by c.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
