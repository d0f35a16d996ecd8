// Package config defines one small configuration struct per subsystem,
// following the split-by-concern layout used for config_*.go files
// elsewhere (one type per subsystem rather than a single monolithic
// struct). Fields are populated from the environment directly rather
// than through YAML tags: envconfig-style tagged struct binding isn't a
// dependency this module carries, so Load uses a small internal
// os.Getenv-based reader instead (see DESIGN.md's stdlib-only
// justification).
package config

// Config aggregates every subsystem's settings. Callers typically load
// it once at process startup and pass the relevant sub-struct to each
// component's constructor.
type Config struct {
	Store     StoreConfig
	Remote    RemoteToolConfig
	AgentLoop AgentLoopConfig
	Telemetry TelemetryConfig
}
