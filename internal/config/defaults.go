package config

import "time"

// DefaultConfig returns a Config with sensible defaults for local development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Mode:            "release",
			StaticDir:       "./static",
			ImagesDir:       "./images",
			CVPath:          "./static/cv.pdf",
			CVFilename:      "Emmanuel-Ruiz-CV.pdf",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Data: DataConfig{
			DBPath:          "./data/portfolio.db",
			RetentionDays:   365,
			CleanupInterval: 24 * time.Hour,
			SessionTTL:      12 * time.Hour,
		},
		Contact: ContactConfig{
			Delivery:       DeliverySimulated,
			SimulatedDelay: 2 * time.Second,
			Timeout:        10 * time.Second,
			RevertAfter:    5 * time.Second,
			SMTP: SMTPConfig{
				Host: "smtp.gmail.com",
				Port: "587",
				To:   "emmanuzdev@gmail.com",
			},
		},
		Admin: AdminConfig{
			Username: "admin",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
