package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adframes/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, int64(20), cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, int64(20*1024*1024), cfg.Upload.MaxFileSize())
	assert.Equal(t, 10, cfg.Upload.PreviewSize)
	assert.Equal(t, []string{"utf-8", "utf-16", "windows-1252", "iso-8859-1"}, cfg.Upload.DefaultEncodings)
	assert.Equal(t, "frame_id", cfg.Upload.GroupingField)
	assert.Equal(t, 144, cfg.Pricing.SlotsPerDay)
	assert.Equal(t, "contains", cfg.Dedupe.MatchMode)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "@every 5m", cfg.Session.JanitorSchedule)
	assert.Equal(t, "noop", cfg.Storage.Provider)
	assert.Equal(t, "noop", cfg.Email.Provider)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADFRAMES_UPLOAD_PREVIEW_SIZE", "25")
	t.Setenv("ADFRAMES_UPLOAD_DEFAULT_ENCODINGS", "windows-1252, utf-8")
	t.Setenv("ADFRAMES_DEDUPE_MATCH_MODE", "EXACT")
	t.Setenv("ADFRAMES_SESSION_TTL", "1h")
	t.Setenv("ADFRAMES_UPLOAD_GROUPING_FIELD", "site_code")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Upload.PreviewSize)
	assert.Equal(t, []string{"windows-1252", "utf-8"}, cfg.Upload.DefaultEncodings)
	assert.Equal(t, "exact", cfg.Dedupe.MatchMode)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, "site_code", cfg.Upload.GroupingField)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ADFRAMES_SERVER_PORT", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Port)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("ADFRAMES_DEDUPE_MATCH_MODE", "fuzzy")
	_, err := config.Load()
	assert.ErrorContains(t, err, "match_mode")
}

func TestLoad_RejectsNonPositiveSlots(t *testing.T) {
	t.Setenv("ADFRAMES_PRICING_SLOTS_PER_DAY", "0")
	_, err := config.Load()
	assert.ErrorContains(t, err, "slots_per_day")
}
