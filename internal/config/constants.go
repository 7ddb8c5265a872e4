package config

const (
	envPort          = "PORT"
	envLogLevel      = "LOG_LEVEL"
	envLogFormat     = "LOG_FORMAT"
	envRosterBaseURL = "ROSTER_API_BASE_URL"
	envRosterCohort  = "ROSTER_COHORT"
	envRosterTimeout = "ROSTER_API_TIMEOUT"
	envHTMXSrc       = "HTMX_SRC"
	envLiveUpdates   = "LIVE_UPDATES_ENABLED"
	envMetricsPort   = "METRICS_PORT"
	envMetricsOn     = "METRICS_ENABLED"
	envOtelEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService   = "OTEL_SERVICE_NAME"
	envOtelInsecure  = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort        = "4000"
	defaultMetricsPort = "9090"
	defaultServiceName = "puppy-bowl-web"
)
