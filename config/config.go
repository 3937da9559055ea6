package config

import (
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int
	}
	DB struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
	}
	JWT struct {
		SecretKey string
		ExpiresIn int // hours
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	Circulation struct {
		FinePerDay    float64 // fine rate applied per whole overdue day
		SweepInterval int     // minutes between background overdue sweeps
	}
	LedgerHMACKey string // key for HMAC signatures on settlement records
	UploadDir     string // directory for uploaded book cover images
}

// NewConfig creates a new configuration instance from the environment
func NewConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "libricore_db")
	v.SetDefault("JWT_SECRET_KEY", "your-secret-key-here")
	v.SetDefault("JWT_EXPIRES_IN", 24)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "your-email@gmail.com")
	v.SetDefault("SMTP_PASSWORD", "your-app-password")
	v.SetDefault("SMTP_FROM", "your-email@gmail.com")
	v.SetDefault("FINE_PER_DAY", 10.0)
	v.SetDefault("SWEEP_INTERVAL_MINUTES", 60)
	v.SetDefault("LEDGER_HMAC_KEY", "your-ledger-hmac-key-here")
	v.SetDefault("UPLOAD_DIR", "uploads")

	cfg := &Config{}

	cfg.Server.Port = v.GetInt("SERVER_PORT")

	cfg.DB.Host = v.GetString("DB_HOST")
	cfg.DB.Port = v.GetInt("DB_PORT")
	cfg.DB.User = v.GetString("DB_USER")
	cfg.DB.Password = v.GetString("DB_PASSWORD")
	cfg.DB.DBName = v.GetString("DB_NAME")

	cfg.JWT.SecretKey = v.GetString("JWT_SECRET_KEY")
	cfg.JWT.ExpiresIn = v.GetInt("JWT_EXPIRES_IN")

	cfg.SMTP.Host = v.GetString("SMTP_HOST")
	cfg.SMTP.Port = v.GetInt("SMTP_PORT")
	cfg.SMTP.Username = v.GetString("SMTP_USERNAME")
	cfg.SMTP.Password = v.GetString("SMTP_PASSWORD")
	cfg.SMTP.From = v.GetString("SMTP_FROM")

	cfg.Circulation.FinePerDay = v.GetFloat64("FINE_PER_DAY")
	cfg.Circulation.SweepInterval = v.GetInt("SWEEP_INTERVAL_MINUTES")

	cfg.LedgerHMACKey = v.GetString("LEDGER_HMAC_KEY")
	cfg.UploadDir = v.GetString("UPLOAD_DIR")

	return cfg, nil
}
