package config

import (
	"os"
	"strconv"
)

// Load populates a Config from environment variables, applying the
// documented defaults for any variable that is unset. Prefix lets
// callers namespace variables (e.g. "HICA_") when multiple components
// share a process; pass "" for the bare names below.
func Load(prefix string) Config {
	return Config{
		Store: StoreConfig{
			Backend:         getenv(prefix, "STORE_BACKEND", "file"),
			FileDir:         getenv(prefix, "CONTEXT_DIR", "./threads"),
			SQLDSN:          getenv(prefix, "STORE_SQL_DSN", "hica.db"),
			MongoURI:        getenv(prefix, "STORE_MONGO_URI", ""),
			MongoDatabase:   getenv(prefix, "STORE_MONGO_DATABASE", "hica"),
			MongoCollection: getenv(prefix, "STORE_MONGO_COLLECTION", "threads"),
			CacheRedisAddr:  getenv(prefix, "STORE_CACHE_REDIS_ADDR", ""),
		},
		Remote: RemoteToolConfig{
			CallsPerSecond: getenvFloat(prefix, "REMOTE_CALLS_PER_SECOND", 0),
			Burst:          getenvInt(prefix, "REMOTE_BURST", 0),
		},
		AgentLoop: AgentLoopConfig{
			Model:                        getenv(prefix, "AGENT_MODEL", ""),
			SystemPrompt:                 getenv(prefix, "AGENT_SYSTEM_PROMPT", "You are a helpful assistant."),
			MaxEventsBeforeSummarization: getenvInt(prefix, "AGENT_MAX_EVENTS_BEFORE_SUMMARIZATION", 0),
			SummarizationTailSize:        getenvInt(prefix, "AGENT_SUMMARIZATION_TAIL_SIZE", 0),
		},
		Telemetry: TelemetryConfig{
			Backend:     getenv(prefix, "TELEMETRY_BACKEND", "noop"),
			ServiceName: getenv(prefix, "TELEMETRY_SERVICE_NAME", "hica"),
			Debug:       getenvBool(prefix, "TELEMETRY_DEBUG", false),
		},
	}
}

func getenv(prefix, name, fallback string) string {
	if v, ok := os.LookupEnv(prefix + name); ok {
		return v
	}
	return fallback
}

func getenvInt(prefix, name string, fallback int) int {
	v, ok := os.LookupEnv(prefix + name)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat(prefix, name string, fallback float64) float64 {
	v, ok := os.LookupEnv(prefix + name)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvBool(prefix, name string, fallback bool) bool {
	v, ok := os.LookupEnv(prefix + name)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
