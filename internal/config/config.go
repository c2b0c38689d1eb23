package config

import (
	"time"

	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"   // Local file database (default)
	DriverPostgres DatabaseDriver = "postgres" // External PostgreSQL server
)

type (
	Config struct {
		HTTP
		Global
		Database
		Session
		UI
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver DatabaseDriver
		Path   string // SQLite file, used when Driver is sqlite
		DSN    string // Connection string, used when Driver is postgres
	}
	Session struct {
		SecretKey     string        // Signs notices and CSRF tokens; generated when empty
		Lifetime      time.Duration // How long pending notices survive
		SecureCookies bool          // Set to false for local dev without HTTPS
	}
	UI struct {
		TemplatesPath string // Empty means the embedded templates
		StaticPath    string // Empty means the embedded static assets
	}
	Log struct {
		Level  string // trace, debug, info, warn, error
		Format string // console or json
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 5000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_driver", string(DriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("secret_key", "")
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("secure_cookies", false)
	v.SetDefault("templates_path", "")
	v.SetDefault("static_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver: DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Session: Session{
			SecretKey:     v.GetString("SECRET_KEY"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}
