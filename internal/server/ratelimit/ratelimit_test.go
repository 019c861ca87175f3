package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled: true,
		Exempt:  map[string]bool{},
		Pipeline: Tier{
			Name:   "pipeline",
			Limit:  10,
			Window: time.Hour,
			Burst:  2,
		},
		Read: Tier{
			Name:   "read",
			Limit:  5,
			Window: time.Minute,
		},
	}
}

func TestLimiterBurstThenDeny(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	allowed, _ := l.Allow("1.2.3.4", "/interviews/run", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/interviews/run", "POST")
	assert.True(t, allowed)

	allowed, info := l.Allow("1.2.3.4", "/interviews/run", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 10, info.Limit)
	assert.Zero(t, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiterIsolatesClients(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("1.1.1.1", "/interviews/run", "POST")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("1.1.1.1", "/interviews/run", "POST")
	assert.False(t, allowed)

	// a different client still has a full bucket
	allowed, _ = l.Allow("2.2.2.2", "/interviews/run", "POST")
	assert.True(t, allowed)
}

func TestLimiterTiersAreIndependent(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		l.Allow("1.1.1.1", "/interviews/run", "POST")
	}
	allowed, _ := l.Allow("1.1.1.1", "/interviews/run", "POST")
	require.False(t, allowed)

	// the read tier still has budget for the same client
	allowed, info := l.Allow("1.1.1.1", "/interviews", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 5, info.Limit)
}

func TestLimiterHealthUnlimited(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.1.1.1", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiterExemptAndDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Exempt["10.0.0.1"] = true
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/interviews/run", "POST")
		require.True(t, allowed)
	}

	off := NewLimiter(&Config{Enabled: false})
	defer off.Stop()
	for i := 0; i < 10; i++ {
		allowed, _ := off.Allow("1.1.1.1", "/interviews/run", "POST")
		require.True(t, allowed)
	}
}

func TestTierFor(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, "health", cfg.tierFor("/health", "GET").Name)
	assert.Equal(t, "pipeline", cfg.tierFor("/interviews/run", "POST").Name)
	assert.Equal(t, "pipeline", cfg.tierFor("/interviews/rejudge", "POST").Name)
	assert.Equal(t, "read", cfg.tierFor("/interviews", "GET").Name)
	assert.Equal(t, "read", cfg.tierFor("/interviews/abc", "DELETE").Name)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	t.Setenv("RATE_LIMIT_PIPELINE_LIMIT", "")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 20, cfg.Pipeline.Limit)
	assert.Equal(t, 3, cfg.Pipeline.Burst)
	assert.Equal(t, 300, cfg.Read.Limit)
}

func TestLoadConfigDisabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
}
