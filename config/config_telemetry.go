package config

// TelemetryConfig selects the telemetry backend for logging, tracing,
// and metrics.
type TelemetryConfig struct {
	// Backend selects the implementation: "noop" or "clue". Defaults
	// to "noop" when empty.
	Backend string

	// ServiceName is a service name for the clue backend. Load reads it;
	// no component in this module attaches it to log entries or spans.
	ServiceName string

	// Debug is a debug-logging flag for the clue backend. Load reads it;
	// no component in this module applies it to the logger.
	Debug bool
}
