// Package config loads service settings from the environment, an optional
// .env file and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every setting of the service binaries.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Tracing  TracingConfig
	// AllowedUsers restricts repository access. Empty admits every user.
	AllowedUsers []string
	// SyncScheduleFile is the YAML file read by the sync command.
	SyncScheduleFile string
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            string
	UserID          string
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects and configures the repository database.
type DatabaseConfig struct {
	Driver     string // postgres or sqlite
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SSLMode    string
	SQLitePath string
	LogLevel   string // silent, error, warn or info
}

// LogConfig configures the service logger.
type LogConfig struct {
	Level  string
	Format string // text or json
}

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled      bool
	Exporter     string // none, stdout or otlp
	OTLPEndpoint string
	SampleRate   float64
}

// Environment keys.
const (
	KeyServerPort      = "SERVER_PORT"
	KeyServerUserID    = "SERVER_USER_ID"
	KeyShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	KeyDBDriver        = "DB_DRIVER"
	KeyDBHost          = "DB_HOST"
	KeyDBUser          = "DB_USER"
	KeyDBPassword      = "DB_PASSWORD"
	KeyDBName          = "DB_NAME"
	KeyDBPort          = "DB_PORT"
	KeyDBSSLMode       = "DB_SSLMODE"
	KeySQLitePath      = "SQLITE_PATH"
	KeyDBLogLevel      = "DB_LOG_LEVEL"
	KeyLogLevel        = "LOG_LEVEL"
	KeyLogFormat       = "LOG_FORMAT"
	KeyAllowedUsers    = "REPOSITORY_ALLOWED_USERS"
	KeyTracingEnabled  = "TRACING_ENABLED"
	KeyTracingExporter = "TRACING_EXPORTER"
	KeyTracingEndpoint = "TRACING_OTLP_ENDPOINT"
	KeyTracingSample   = "TRACING_SAMPLE_RATE"
	KeySyncSchedule    = "SYNC_SCHEDULE_FILE"
)

// Flag names bound over the environment when present on the command.
var flagKeys = map[string]string{
	"port":          KeyServerPort,
	"db-driver":     KeyDBDriver,
	"sqlite-path":   KeySQLitePath,
	"log-level":     KeyLogLevel,
	"log-format":    KeyLogFormat,
	"schedule-file": KeySyncSchedule,
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerPort, "8080")
	v.SetDefault(KeyServerUserID, "correlation-service")
	v.SetDefault(KeyShutdownTimeout, "10s")
	v.SetDefault(KeyDBDriver, "postgres")
	v.SetDefault(KeyDBHost, "localhost")
	v.SetDefault(KeyDBPort, "5432")
	v.SetDefault(KeyDBSSLMode, "disable")
	v.SetDefault(KeySQLitePath, "correlation.db")
	v.SetDefault(KeyDBLogLevel, "warn")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyTracingEnabled, false)
	v.SetDefault(KeyTracingExporter, "none")
	v.SetDefault(KeyTracingEndpoint, "localhost:4317")
	v.SetDefault(KeyTracingSample, 1.0)
	v.SetDefault(KeySyncSchedule, "sync-schedule.yaml")
}

// Load reads .env files (missing files are ignored), the environment and
// any of the known flags in flags, which may be nil.
func Load(flags *pflag.FlagSet, envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !isNotExist(err) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from the values held by v.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port:            v.GetString(KeyServerPort),
			UserID:          v.GetString(KeyServerUserID),
			ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString(KeyDBDriver)),
			Host:       v.GetString(KeyDBHost),
			User:       v.GetString(KeyDBUser),
			Password:   v.GetString(KeyDBPassword),
			Name:       v.GetString(KeyDBName),
			Port:       v.GetString(KeyDBPort),
			SSLMode:    v.GetString(KeyDBSSLMode),
			SQLitePath: v.GetString(KeySQLitePath),
			LogLevel:   strings.ToLower(v.GetString(KeyDBLogLevel)),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString(KeyLogLevel)),
			Format: strings.ToLower(v.GetString(KeyLogFormat)),
		},
		Tracing: TracingConfig{
			Enabled:      v.GetBool(KeyTracingEnabled),
			Exporter:     strings.ToLower(v.GetString(KeyTracingExporter)),
			OTLPEndpoint: v.GetString(KeyTracingEndpoint),
			SampleRate:   v.GetFloat64(KeyTracingSample),
		},
		AllowedUsers:     splitList(v.GetString(KeyAllowedUsers)),
		SyncScheduleFile: v.GetString(KeySyncSchedule),
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		var missing []string
		for key, val := range map[string]string{KeyDBHost: c.Database.Host, KeyDBUser: c.Database.User, KeyDBName: c.Database.Name, KeyDBPort: c.Database.Port} {
			if val == "" {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("postgres driver requires %s", strings.Join(sortStrings(missing), ", "))
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return errors.New("sqlite driver requires " + KeySQLitePath)
		}
	default:
		return fmt.Errorf("%s must be \"postgres\" or \"sqlite\", got %q", KeyDBDriver, c.Database.Driver)
	}

	switch c.Database.LogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("%s must be silent, error, warn or info, got %q", KeyDBLogLevel, c.Database.LogLevel)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s must be debug, info, warn or error, got %q", KeyLogLevel, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%s must be \"text\" or \"json\", got %q", KeyLogFormat, c.Log.Format)
	}
	switch c.Tracing.Exporter {
	case "", "none", "stdout", "otlp":
	default:
		return fmt.Errorf("%s must be none, stdout or otlp, got %q", KeyTracingExporter, c.Tracing.Exporter)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("%s must be between 0.0 and 1.0, got %v", KeyTracingSample, c.Tracing.SampleRate)
	}
	if c.Server.Port == "" {
		return errors.New(KeyServerPort + " must not be empty")
	}
	return nil
}

// PostgresDSN returns the connection string for lib/pq.
func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
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
