package config

import "time"

// Delivery selects how contact form submissions leave the server.
type Delivery string

const (
	DeliverySimulated Delivery = "simulated"
	DeliverySMTP      Delivery = "smtp"
	DeliveryLog       Delivery = "log"
)

// Config is the top-level portfolio configuration, corresponding to portfolio.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Data    DataConfig    `yaml:"data" koanf:"data"`
	Content ContentConfig `yaml:"content" koanf:"content"`
	Contact ContactConfig `yaml:"contact" koanf:"contact"`
	Admin   AdminConfig   `yaml:"admin" koanf:"admin"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `yaml:"port" koanf:"port"`
	Mode            string        `yaml:"mode" koanf:"mode"` // gin mode: debug, release, test
	StaticDir       string        `yaml:"static_dir" koanf:"static_dir"`
	ImagesDir       string        `yaml:"images_dir" koanf:"images_dir"`
	CVPath          string        `yaml:"cv_path" koanf:"cv_path"`
	CVFilename      string        `yaml:"cv_filename" koanf:"cv_filename"`
	ReadTimeout     time.Duration `yaml:"read_timeout" koanf:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" koanf:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`
}

// DataConfig holds sqlite and retention settings.
type DataConfig struct {
	DBPath          string        `yaml:"db_path" koanf:"db_path"`
	RetentionDays   int           `yaml:"retention_days" koanf:"retention_days"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" koanf:"cleanup_interval"`
	SessionTTL      time.Duration `yaml:"session_ttl" koanf:"session_ttl"`
}

// ContentConfig points at an optional portfolio YAML replacing the embedded one.
type ContentConfig struct {
	File  string `yaml:"file" koanf:"file"`
	Watch bool   `yaml:"watch" koanf:"watch"`
}

// ContactConfig controls the contact form backend.
type ContactConfig struct {
	Delivery       Delivery      `yaml:"delivery" koanf:"delivery"`
	SimulatedDelay time.Duration `yaml:"simulated_delay" koanf:"simulated_delay"`
	Timeout        time.Duration `yaml:"timeout" koanf:"timeout"`
	RevertAfter    time.Duration `yaml:"revert_after" koanf:"revert_after"`
	SMTP           SMTPConfig    `yaml:"smtp" koanf:"smtp"`
}

// SMTPConfig holds outbound mail credentials.
type SMTPConfig struct {
	Host     string `yaml:"host" koanf:"host"`
	Port     string `yaml:"port" koanf:"port"`
	Username string `yaml:"username" koanf:"username"`
	Password string `yaml:"password" koanf:"password"`
	To       string `yaml:"to" koanf:"to"`
}

// AdminConfig holds the dashboard credentials.
type AdminConfig struct {
	Username string `yaml:"username" koanf:"username"`
	Password string `yaml:"password" koanf:"password"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" koanf:"level"`
	Development bool   `yaml:"development" koanf:"development"`
}

// Retention returns the visitor data retention as a duration.
func (d DataConfig) Retention() time.Duration {
	return time.Duration(d.RetentionDays) * 24 * time.Hour
}
