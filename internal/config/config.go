package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	// Load .env before any provider reads the environment.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides. Nesting uses a double
// underscore: PORTFOLIO_SERVER__PORT -> server.port.
const EnvPrefix = "PORTFOLIO_"

// legacyEnv maps the variable names the site has always read to config keys.
var legacyEnv = map[string]string{
	"PORT":           "server.port",
	"SMTP_HOST":      "contact.smtp.host",
	"SMTP_PORT":      "contact.smtp.port",
	"SMTP_USER":      "contact.smtp.username",
	"SMTP_PASS":      "contact.smtp.password",
	"TO_EMAIL":       "contact.smtp.to",
	"ADMIN_USERNAME": "admin.username",
	"ADMIN_PASSWORD": "admin.password",
}

// Load reads configuration from the given YAML file, then overlays the
// legacy variables and PORTFOLIO_* overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// Empty variables are skipped so that an exported-but-blank PORT does
	// not clobber the default.
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return legacyEnv[key], value
	}), nil); err != nil {
		return nil, fmt.Errorf("loading legacy env: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		return strings.ReplaceAll(key, "__", "."), value
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// InitFile writes the default configuration to path, refusing to overwrite.
func InitFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("accessing config %s: %w", path, err)
	}
	return DefaultConfig().Save(path)
}

var validDeliveries = map[Delivery]bool{
	DeliverySimulated: true,
	DeliverySMTP:      true,
	DeliveryLog:       true,
}

var validModes = map[string]bool{
	"debug":   true,
	"release": true,
	"test":    true,
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !validModes[c.Server.Mode] {
		return fmt.Errorf("invalid server.mode %q: must be one of debug, release, test", c.Server.Mode)
	}
	if c.Data.DBPath == "" {
		return fmt.Errorf("data.db_path is required")
	}
	if c.Data.RetentionDays <= 0 {
		return fmt.Errorf("data.retention_days must be positive")
	}
	if c.Data.CleanupInterval <= 0 {
		return fmt.Errorf("data.cleanup_interval must be positive")
	}
	if c.Data.SessionTTL <= 0 {
		return fmt.Errorf("data.session_ttl must be positive")
	}
	if !validDeliveries[c.Contact.Delivery] {
		return fmt.Errorf("invalid contact.delivery %q: must be one of simulated, smtp, log", c.Contact.Delivery)
	}
	if c.Contact.Timeout <= 0 {
		return fmt.Errorf("contact.timeout must be positive")
	}
	if c.Contact.RevertAfter <= 0 {
		return fmt.Errorf("contact.revert_after must be positive")
	}
	if c.Contact.SimulatedDelay < 0 {
		return fmt.Errorf("contact.simulated_delay must be non-negative")
	}
	if c.Contact.Delivery == DeliverySMTP {
		s := c.Contact.SMTP
		if s.Host == "" || s.Port == "" || s.To == "" {
			return fmt.Errorf("contact.smtp host, port and to are required for smtp delivery")
		}
		if s.Username == "" || s.Password == "" {
			return fmt.Errorf("SMTP credentials not configured")
		}
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	if c.Content.Watch && c.Content.File == "" {
		return fmt.Errorf("content.watch requires content.file")
	}
	return nil
}

// AdminEnabled reports whether dashboard credentials are configured.
func (c *Config) AdminEnabled() bool {
	return c.Admin.Username != "" && c.Admin.Password != ""
}
