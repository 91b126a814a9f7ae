package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsEnvironment(t *testing.T) {
	previous := App
	t.Cleanup(func() { App = previous })

	t.Setenv("DATABASE_URL", "postgres://localhost/parkspace")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("DEFAULT_HOURLY_RATE", "200")
	t.Setenv("APP_ENV", "Production")

	s, err := Load()
	if err != nil {
		require.ErrorIs(t, err, ErrNoEnvFile)
	}
	require.NotNil(t, s)
	assert.Same(t, s, App)
	assert.Equal(t, "postgres://localhost/parkspace", s.DatabaseURL)
	assert.Equal(t, 24*time.Hour, s.JWTTTL)
	assert.Equal(t, 200, s.DefaultHourlyRate)
	assert.Equal(t, "8080", s.Port)
	assert.True(t, s.IsProduction())
}

func TestLoadRejectsNonPositiveRate(t *testing.T) {
	previous := App
	t.Cleanup(func() { App = previous })

	t.Setenv("DATABASE_URL", "postgres://localhost/parkspace")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DEFAULT_HOURLY_RATE", "0")

	_, err := Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoEnvFile)
	assert.Same(t, previous, App)
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, 150, d.DefaultHourlyRate)
	assert.Equal(t, 72*time.Hour, d.JWTTTL)
	assert.False(t, d.IsProduction())
}
