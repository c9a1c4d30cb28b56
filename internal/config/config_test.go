package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// allEnvVars lists every variable Load reads; each test starts from a clean slate.
var allEnvVars = []string{
	"CARBON_DATABASE_URL", "CARBON_HTTP_ADDR", "CARBON_GRPC_ADDR", "CARBON_NATS_URL",
	"CARBON_CORS_ORIGINS", "CARBON_LOG_LEVEL", "CARBON_LOG_FORMAT",
	"CARBON_SYNC_INTERVAL", "CARBON_SYNC_S3_BUCKET", "CARBON_SYNC_S3_ENDPOINT",
	"CARBON_SYNC_S3_REGION", "CARBON_SYNC_S3_KEY", "CARBON_SYNC_GIT_REPO",
	"CARBON_SYNC_GIT_FILE", "CARBON_SYNC_GIT_BRANCH",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantDB       string
		wantGRPCAddr string
		wantHTTPAddr string
		wantNATSURL  string
	}{
		{
			name:         "Defaults",
			env:          map[string]string{},
			wantDB:       DefaultDatabaseURL,
			wantGRPCAddr: ":9090",
			wantHTTPAddr: ":5000",
		},
		{
			name: "CustomAddresses",
			env: map[string]string{
				"CARBON_DATABASE_URL": "postgres://db:5432/carbon",
				"CARBON_GRPC_ADDR":    ":5050",
				"CARBON_HTTP_ADDR":    ":3000",
				"CARBON_NATS_URL":     "nats://localhost:4222",
			},
			wantDB:       "postgres://db:5432/carbon",
			wantGRPCAddr: ":5050",
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
		},
		{
			name:         "GRPCDisabled",
			env:          map[string]string{"CARBON_GRPC_ADDR": "-"},
			wantDB:       DefaultDatabaseURL,
			wantGRPCAddr: "",
			wantHTTPAddr: ":5000",
		},
		{
			name:    "UnsupportedDatabaseURL",
			env:     map[string]string{"CARBON_DATABASE_URL": "mysql://localhost/carbon"},
			wantErr: true,
		},
		{
			name:    "BadLogLevel",
			env:     map[string]string{"CARBON_LOG_LEVEL": "loud"},
			wantErr: true,
		},
		{
			name:    "BadLogFormat",
			env:     map[string]string{"CARBON_LOG_FORMAT": "xml"},
			wantErr: true,
		},
		{
			name:    "BadSyncInterval",
			env:     map[string]string{"CARBON_SYNC_INTERVAL": "not-a-duration"},
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DatabaseURL != tc.wantDB {
				t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, tc.wantDB)
			}
			if cfg.GRPCAddr != tc.wantGRPCAddr {
				t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, tc.wantGRPCAddr)
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoadAmbientDefaults(t *testing.T) {
	clearAllEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", cfg.LogFormat)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.SyncInterval != 3*time.Minute {
		t.Errorf("SyncInterval = %v, want 3m", cfg.SyncInterval)
	}
	if cfg.SyncS3Region != "us-east-1" || cfg.SyncS3Key != "carbon/emissions.jsonl" {
		t.Errorf("S3 defaults = %q %q", cfg.SyncS3Region, cfg.SyncS3Key)
	}
	if cfg.SyncGitFile != "emissions.jsonl" || cfg.SyncGitBranch != "main" {
		t.Errorf("git defaults = %q %q", cfg.SyncGitFile, cfg.SyncGitBranch)
	}
}

func TestLoadCustomAmbient(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("CARBON_LOG_LEVEL", "DEBUG")
	t.Setenv("CARBON_LOG_FORMAT", "JSON")
	t.Setenv("CARBON_CORS_ORIGINS", "https://a.example, https://b.example,,")
	t.Setenv("CARBON_SYNC_INTERVAL", "0s")
	t.Setenv("CARBON_SYNC_GIT_REPO", "/srv/backup")
	t.Setenv("CARBON_SYNC_GIT_BRANCH", "backup")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
	if got := strings.Join(cfg.CORSOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Errorf("CORSOrigins = %q", got)
	}
	if cfg.SyncInterval != 0 {
		t.Errorf("SyncInterval = %v, want 0 (disabled)", cfg.SyncInterval)
	}
	if cfg.SyncGitRepo != "/srv/backup" || cfg.SyncGitBranch != "backup" {
		t.Errorf("git = %q %q", cfg.SyncGitRepo, cfg.SyncGitBranch)
	}
}

func TestParseDatabaseURL(t *testing.T) {
	for _, tc := range []struct {
		in         string
		wantDriver string
		wantDSN    string
		wantErr    bool
	}{
		{"postgres://u:p@db:5432/carbon?sslmode=disable", DriverPostgres, "postgres://u:p@db:5432/carbon?sslmode=disable", false},
		{"postgresql://db/carbon", DriverPostgres, "postgresql://db/carbon", false},
		{"sqlite:///carbon.db", DriverSQLite, "carbon.db", false},
		{"sqlite:///data/carbon.db", DriverSQLite, "data/carbon.db", false},
		{"sqlite:////var/lib/carbon.db", DriverSQLite, "/var/lib/carbon.db", false},
		{"sqlite://:memory:", DriverSQLite, ":memory:", false},
		{"sqlite://", "", "", true},
		{"carbon.db", "", "", true},
		{"", "", "", true},
	} {
		t.Run(tc.in, func(t *testing.T) {
			driver, dsn, err := ParseDatabaseURL(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got driver=%q dsn=%q", driver, dsn)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if driver != tc.wantDriver || dsn != tc.wantDSN {
				t.Errorf("got (%q, %q), want (%q, %q)", driver, dsn, tc.wantDriver, tc.wantDSN)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: slog.LevelWarn, LogFormat: "json"}
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "repo", "api")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"repo":"api"`) {
		t.Errorf("unexpected JSON output: %s", out)
	}
}

func TestEnvOrDefault(t *testing.T) {
	for _, tc := range []struct {
		name     string
		key      string
		envVal   string
		fallback string
		want     string
	}{
		{"EmptyUsesDefault", "TEST_ENVDEFAULT_EMPTY", "", "default-val", "default-val"},
		{"SetUsesEnv", "TEST_ENVDEFAULT_SET", "custom", "default-val", "custom"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envVal)
			got := envOrDefault(tc.key, tc.fallback)
			if got != tc.want {
				t.Errorf("envOrDefault(%q, %q) = %q, want %q", tc.key, tc.fallback, got, tc.want)
			}
		})
	}
}
