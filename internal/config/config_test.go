package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := DefaultConfig()
	if cfg.Contact.SimulatedDelay != 2*time.Second {
		t.Errorf("expected 2s simulated delay, got %v", cfg.Contact.SimulatedDelay)
	}
	if cfg.Contact.RevertAfter != 5*time.Second {
		t.Errorf("expected 5s revert, got %v", cfg.Contact.RevertAfter)
	}
	if cfg.Data.DBPath != def.Data.DBPath {
		t.Errorf("expected default db path, got %q", cfg.Data.DBPath)
	}
}

func TestLoadYAMLAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	yaml := `
server:
  port: 9000
  mode: debug
contact:
  delivery: log
  revert_after: 3s
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("PORTFOLIO_CONTACT__TIMEOUT", "4s")
	t.Setenv("PORTFOLIO_DATA__DB_PATH", "/tmp/override.db")
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Mode != "debug" {
		t.Errorf("expected debug mode, got %q", cfg.Server.Mode)
	}
	if cfg.Contact.Delivery != DeliveryLog {
		t.Errorf("expected log delivery, got %q", cfg.Contact.Delivery)
	}
	if cfg.Contact.RevertAfter != 3*time.Second {
		t.Errorf("expected 3s revert, got %v", cfg.Contact.RevertAfter)
	}
	if cfg.Contact.Timeout != 4*time.Second {
		t.Errorf("expected env timeout 4s, got %v", cfg.Contact.Timeout)
	}
	if cfg.Data.DBPath != "/tmp/override.db" {
		t.Errorf("expected env db path, got %q", cfg.Data.DBPath)
	}
	if cfg.Admin.Password != "s3cret" {
		t.Errorf("expected legacy ADMIN_PASSWORD to apply")
	}
	if !cfg.AdminEnabled() {
		t.Errorf("expected admin to be enabled")
	}
}

func TestLegacyPortEnv(t *testing.T) {
	t.Setenv("PORT", "7521")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7521 {
		t.Errorf("expected PORT to set server.port, got %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "bad mode", mutate: func(c *Config) { c.Server.Mode = "prod" }, wantErr: true},
		{name: "bad delivery", mutate: func(c *Config) { c.Contact.Delivery = "carrier-pigeon" }, wantErr: true},
		{name: "smtp without credentials", mutate: func(c *Config) { c.Contact.Delivery = DeliverySMTP }, wantErr: true},
		{
			name: "smtp with credentials",
			mutate: func(c *Config) {
				c.Contact.Delivery = DeliverySMTP
				c.Contact.SMTP.Username = "me@example.com"
				c.Contact.SMTP.Password = "app-password"
			},
		},
		{name: "zero timeout", mutate: func(c *Config) { c.Contact.Timeout = 0 }, wantErr: true},
		{name: "watch without file", mutate: func(c *Config) { c.Content.Watch = true }, wantErr: true},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: true},
		{name: "zero retention", mutate: func(c *Config) { c.Data.RetentionDays = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	if err := InitFile(path); err != nil {
		t.Fatalf("InitFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load after init: %v", err)
	}
	if cfg.Server.CVFilename == "" {
		t.Error("expected cv filename to round-trip")
	}

	if err := InitFile(path); err == nil {
		t.Error("expected error when config already exists")
	}
}
