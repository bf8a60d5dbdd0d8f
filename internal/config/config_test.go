package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostphysio/clinic-booking/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 9, cfg.Term.DayStart)
	assert.Equal(t, 17, cfg.Term.DayEnd)
	assert.Equal(t, time.April, cfg.Term.Start.Month())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATA_DIR", "/var/lib/clinic")
	t.Setenv("TERM_START", "2025-09-01 09:00")
	t.Setenv("TERM_END", "2025-09-26 17:00")
	t.Setenv("DAY_END_HOUR", "18")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "/var/lib/clinic", cfg.DataDir)
	assert.Equal(t, time.September, cfg.Term.Start.Month())
	assert.Equal(t, 18, cfg.Term.DayEnd)
}

func TestLoadRejectsInvertedTerm(t *testing.T) {
	t.Setenv("TERM_START", "2025-09-26 17:00")
	t.Setenv("TERM_END", "2025-09-01 09:00")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadTermStart(t *testing.T) {
	t.Setenv("TERM_START", "September 1st")

	_, err := config.Load()
	assert.Error(t, err)
}
