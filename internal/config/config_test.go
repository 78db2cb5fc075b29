package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 480, cfg.JWTTTLMinutes)
	assert.Equal(t, "static", cfg.StaticDir)
	assert.Equal(t, defaultOrigins, cfg.AllowedOrigins)
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("PORT", "9090")
	v.Set("DB_DRIVER", "SQLite")
	v.Set("JWT_TTL_MINUTES", 15)

	cfg := fromViper(v)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 15, cfg.JWTTTLMinutes)
}

func TestAllowedOrigins(t *testing.T) {
	origins := allowedOrigins("https://escuela.example", " https://a.example , ,https://b.example")

	assert.Equal(t, []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"https://escuela.example",
		"https://a.example",
		"https://b.example",
	}, origins)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8123", cfg.Port)
}

func TestLoadRejectsBrokenDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=\"unterminated\n"), 0o600))
	t.Chdir(dir)

	_, err := Load()
	assert.Error(t, err)
}
