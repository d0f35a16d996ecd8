package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg := Load("HICA_TEST_UNSET_")
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, "noop", cfg.Telemetry.Backend)
	assert.Equal(t, 0, cfg.AgentLoop.MaxEventsBeforeSummarization)
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("HICA_TEST_STORE_BACKEND", "mongo")
	t.Setenv("HICA_TEST_AGENT_MAX_EVENTS_BEFORE_SUMMARIZATION", "12")

	cfg := Load("HICA_TEST_")
	assert.Equal(t, "mongo", cfg.Store.Backend)
	assert.Equal(t, 12, cfg.AgentLoop.MaxEventsBeforeSummarization)
}
