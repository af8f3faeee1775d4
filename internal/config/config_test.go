package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyDBDriver, "sqlite")
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := FromViper(sqliteViper())
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "correlation.db", cfg.Database.SQLitePath)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRate)
	assert.Empty(t, cfg.AllowedUsers)
}

func TestAllowedUsersList(t *testing.T) {
	v := sqliteViper()
	v.Set(KeyAllowedUsers, " alice, bob ,,")
	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, cfg.AllowedUsers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   interface{}
		wantErr string
	}{
		{"unknown driver", KeyDBDriver, "mysql", "DB_DRIVER"},
		{"unknown log format", KeyLogFormat, "xml", "LOG_FORMAT"},
		{"unknown log level", KeyLogLevel, "trace", "LOG_LEVEL"},
		{"unknown db log level", KeyDBLogLevel, "loud", "DB_LOG_LEVEL"},
		{"unknown exporter", KeyTracingExporter, "zipkin", "TRACING_EXPORTER"},
		{"sample rate out of range", KeyTracingSample, 1.5, "TRACING_SAMPLE_RATE"},
		{"empty sqlite path", KeySQLitePath, "", "SQLITE_PATH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := sqliteViper()
			v.Set(tt.key, tt.value)
			_, err := FromViper(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostgresRequiresConnectionFields(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	_, err := FromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_NAME")
	assert.Contains(t, err.Error(), "DB_USER")

	v.Set(KeyDBUser, "metadata")
	v.Set(KeyDBName, "correlation")
	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "host=localhost user=metadata password= dbname=correlation port=5432 sslmode=disable TimeZone=UTC", cfg.Database.PostgresDSN())
}

func TestLoadReadsEnvFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_DRIVER=sqlite\nLOG_FORMAT=json\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv(KeyDBDriver)
		os.Unsetenv(KeyLogFormat)
	})

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("port", "8080", "")
	require.NoError(t, flags.Parse([]string{"--port", "9090"}))

	cfg, err := Load(flags, envFile)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadIgnoresMissingEnvFile(t *testing.T) {
	t.Setenv(KeyDBDriver, "sqlite")
	cfg, err := Load(nil, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}
