package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/banco")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "")
	t.Setenv("API_PREFIX", "")
	t.Setenv("STORE", "")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_TTL_MINUTES", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, "/api", cfg.APIPrefix)
	require.Equal(t, StorePostgres, cfg.Store)
	require.Equal(t, "banco-fiuba", cfg.JWTIssuer)
	require.Equal(t, 60*time.Minute, cfg.JWTTTL)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadRequiresDatabaseURLForPostgres(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadMemoryStoreNeedsNoDatabase(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StoreMemory, cfg.Store)
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE", "sqlite")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadValidatesPrefix(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("API_PREFIX", "api/")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadParsesTTLAndOrigins(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_TTL_MINUTES", "15")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://banco.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, cfg.JWTTTL)
	require.Equal(t, []string{"https://banco.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
}
