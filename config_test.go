package insider_test

import (
	"testing"
	"time"

	insider "github.com/RxDataLab/go-insider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("INSIDER_SEC_EMAIL", "analyst@example.com")
	t.Setenv("INSIDER_START_DATE", "2025-03-03")
	t.Setenv("INSIDER_END_DATE", "2025-03-07")
	t.Setenv("INSIDER_PACE_DELAY", "250ms")
	t.Setenv("INSIDER_FILING_LIMIT", "25")

	cfg, err := insider.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "analyst@example.com", cfg.SECEmail)
	assert.Equal(t, 250*time.Millisecond, cfg.PaceDelay)
	assert.Equal(t, 25, cfg.FilingLimit)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_EmailFallback(t *testing.T) {
	t.Setenv("INSIDER_SEC_EMAIL", "")
	t.Setenv("SEC_EMAIL", "fallback@rxdatalab.dev")

	cfg, err := insider.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "fallback@rxdatalab.dev", cfg.SECEmail)
}

func TestConfig_DateRange(t *testing.T) {
	cfg := &insider.Config{StartDate: "2025-03-03", EndDate: "2025-03-07"}
	start, end, err := cfg.DateRange()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), end)

	cfg = &insider.Config{StartDate: "2025-03-07", EndDate: "2025-03-03"}
	_, _, err = cfg.DateRange()
	assert.ErrorContains(t, err, "precedes")

	cfg = &insider.Config{StartDate: "03/03/2025", EndDate: "2025-03-07"}
	_, _, err = cfg.DateRange()
	assert.ErrorContains(t, err, "invalid start date")
}
