package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

func TestFromLookuper_Defaults(t *testing.T) {
	cfg, err := FromLookuper(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "development", cfg.Env)
	require.False(t, cfg.IsProduction())
	require.Equal(t, 24*24*time.Hour, cfg.TokenTTL)
	require.Equal(t, "hard", cfg.DeletePolicy)
	require.True(t, cfg.StrictSubmissions)
	require.Equal(t, 4, cfg.StatsWorkers)
	require.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	require.Equal(t, 10*time.Second, cfg.Mongo.Timeout)
	require.False(t, cfg.Redis.Enabled)
	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, 10.0, cfg.RateLimit.RPS)
}

func TestFromLookuper_Overrides(t *testing.T) {
	cfg, err := FromLookuper(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"ENV":                "production",
		"DELETE_POLICY":      "soft",
		"STRICT_SUBMISSIONS": "false",
		"TOKEN_TTL":          "2h",
		"REDIS_ENABLED":      "true",
		"REDIS_ADDR":         "cache:6379",
		"RATE_LIMIT_WINDOW":  "1m",
	}))
	require.NoError(t, err)

	require.True(t, cfg.IsProduction())
	require.Equal(t, "soft", cfg.DeletePolicy)
	require.False(t, cfg.StrictSubmissions)
	require.Equal(t, 2*time.Hour, cfg.TokenTTL)
	require.True(t, cfg.Redis.Enabled)
	require.Equal(t, "cache:6379", cfg.Redis.Addr)
	require.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestFromLookuper_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"bad policy":     {"JWT_SECRET": "s", "DELETE_POLICY": "archive"},
		"bad duration":   {"JWT_SECRET": "s", "TOKEN_TTL": "forever"},
		"zero workers":   {"JWT_SECRET": "s", "STATS_WORKERS": "0"},
		"zero rps":       {"JWT_SECRET": "s", "RATE_LIMIT_RPS": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromLookuper(context.Background(), envconfig.MapLookuper(env))
			require.Error(t, err)
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nSTATS_WORKERS=7\n"), 0o600))
	t.Setenv("STATS_WORKERS", "2")
	t.Setenv("JWT_SECRET", "") // restored after the test
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.JWTSecret)
	require.Equal(t, 2, cfg.StatsWorkers, "environment wins over the file")
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	require.Equal(t, "env-secret", cfg.JWTSecret)
}
