package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jhiver/doxyde-sub000/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doxyde.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeAndLoad(t *testing.T, content string) *config.Config {
	t.Helper()
	cfg, err := config.Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return cfg
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 15s

database:
  driver: "sqlite"
  dsn: "content.db"

content:
  root_title: "Acme Corp"
  author: "editor@acme.test"

logging:
  level: "debug"
  format: "console"

metrics:
  enabled: true
`

	cfg := writeAndLoad(t, content)

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %s, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout)
	}
	if cfg.Database.DSN != "content.db" {
		t.Errorf("DSN = %s, want content.db", cfg.Database.DSN)
	}
	if cfg.Content.RootTitle != "Acme Corp" {
		t.Errorf("RootTitle = %s, want Acme Corp", cfg.Content.RootTitle)
	}
	if cfg.Content.Author != "editor@acme.test" {
		t.Errorf("Author = %s", cfg.Content.Author)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := writeAndLoad(t, `{}`)

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("default Host = %s, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("default Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("default Driver = %s, want sqlite", cfg.Database.Driver)
	}
	if cfg.Database.DSN != "doxyde.db" {
		t.Errorf("default DSN = %s, want doxyde.db", cfg.Database.DSN)
	}
	if cfg.Content.RootTitle != "Home" {
		t.Errorf("default RootTitle = %s, want Home", cfg.Content.RootTitle)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("default Logging = %+v", cfg.Logging)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("default Metrics.Path = %s", cfg.Metrics.Path)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	os.Setenv("TEST_DOXYDE_DSN", "/var/data/site.db")
	defer os.Unsetenv("TEST_DOXYDE_DSN")

	cfg := writeAndLoad(t, `
database:
  dsn: "${TEST_DOXYDE_DSN}"
`)

	if cfg.Database.DSN != "/var/data/site.db" {
		t.Errorf("DSN = %s, want /var/data/site.db", cfg.Database.DSN)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("DOXYDE_SERVER_PORT", "8088")
	os.Setenv("DOXYDE_LOG_LEVEL", "warn")
	os.Setenv("DOXYDE_ROOT_TITLE", "Override")
	defer func() {
		os.Unsetenv("DOXYDE_SERVER_PORT")
		os.Unsetenv("DOXYDE_LOG_LEVEL")
		os.Unsetenv("DOXYDE_ROOT_TITLE")
	}()

	cfg := writeAndLoad(t, `
server:
  port: 9090
logging:
  level: "debug"
`)

	if cfg.Server.Port != 8088 {
		t.Errorf("Port = %d, want env override 8088", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %s, want env override warn", cfg.Logging.Level)
	}
	if cfg.Content.RootTitle != "Override" {
		t.Errorf("RootTitle = %s, want Override", cfg.Content.RootTitle)
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("DOXYDE_DATABASE_DRIVER", "memory")
	os.Setenv("DOXYDE_METRICS_ENABLED", "yes")
	defer func() {
		os.Unsetenv("DOXYDE_DATABASE_DRIVER")
		os.Unsetenv("DOXYDE_METRICS_ENABLED")
	}()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv error: %v", err)
	}
	if cfg.Database.Driver != "memory" {
		t.Errorf("Driver = %s, want memory", cfg.Database.Driver)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
}

func TestLoadWithFallback_MissingFile(t *testing.T) {
	cfg, err := config.LoadWithFallback(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadWithFallback error: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Port = %d, want default 3000", cfg.Server.Port)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad driver",
			content: "database:\n  driver: postgres\n",
			wantErr: "database.driver",
		},
		{
			name:    "bad log level",
			content: "logging:\n  level: loud\n",
			wantErr: "logging.level",
		},
		{
			name:    "bad log format",
			content: "logging:\n  format: xml\n",
			wantErr: "logging.format",
		},
		{
			name:    "bad port",
			content: "server:\n  port: 70000\n",
			wantErr: "server.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
