package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vivandoshi08/cheesycareApp/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	DBURL                   string
	DBDisablePreparedBinary bool
	CORSAllowedOrigins      []string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration

	FocusTeamKey        string
	SchedulerMaxWorkers int

	TBABaseURL               string
	TBAAPIKey                string
	TBATimeout               time.Duration
	TBAMaxRetries            int
	TBACircuitEnabled        bool
	TBACircuitFailureCount   int
	TBACircuitOpenTimeout    time.Duration
	TBACircuitHalfOpenMaxReq int

	NexusBaseURL string
	NexusAPIKey  string
	NexusTimeout time.Duration

	PprofEnabled       bool
	PprofAddr          string
	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("SERVICE_NAME", "cheesycare-api"),
		ServiceVersion:     getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		FocusTeamKey:       strings.TrimSpace(getEnv("FOCUS_TEAM_KEY", "frc254")),
		TBABaseURL:         strings.TrimSpace(getEnv("TBA_BASE_URL", "")),
		TBAAPIKey:          strings.TrimSpace(getEnv("TBA_API_KEY", "")),
		NexusBaseURL:       strings.TrimSpace(getEnv("NEXUS_BASE_URL", "")),
		NexusAPIKey:        strings.TrimSpace(getEnv("NEXUS_API_KEY", "")),
	}

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.TBAAPIKey == "" {
		return Config{}, fmt.Errorf("TBA_API_KEY is required")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	cfg.ReadTimeout = readTimeout

	// Reconciliation runs can take a while against slow feeds.
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "120s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	cfg.WriteTimeout = writeTimeout

	schedulerMaxWorkers, err := getEnvAsInt("SCHEDULER_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_MAX_WORKERS: %w", err)
	}
	if schedulerMaxWorkers < 1 {
		return Config{}, fmt.Errorf("SCHEDULER_MAX_WORKERS must be >= 1")
	}
	cfg.SchedulerMaxWorkers = schedulerMaxWorkers

	tbaTimeout, err := time.ParseDuration(getEnv("TBA_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TBA_TIMEOUT: %w", err)
	}
	cfg.TBATimeout = tbaTimeout

	tbaMaxRetries, err := getEnvAsInt("TBA_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse TBA_MAX_RETRIES: %w", err)
	}
	if tbaMaxRetries < 0 {
		return Config{}, fmt.Errorf("TBA_MAX_RETRIES must be >= 0")
	}
	cfg.TBAMaxRetries = tbaMaxRetries

	tbaCircuitEnabled, err := strconv.ParseBool(getEnv("TBA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TBA_CIRCUIT_ENABLED: %w", err)
	}
	cfg.TBACircuitEnabled = tbaCircuitEnabled

	tbaCircuitFailureCount, err := getEnvAsInt("TBA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse TBA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if tbaCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("TBA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.TBACircuitFailureCount = tbaCircuitFailureCount

	tbaCircuitOpenTimeout, err := time.ParseDuration(getEnv("TBA_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TBA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if tbaCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("TBA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cfg.TBACircuitOpenTimeout = tbaCircuitOpenTimeout

	tbaCircuitHalfOpenMaxReq, err := getEnvAsInt("TBA_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse TBA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if tbaCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("TBA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.TBACircuitHalfOpenMaxReq = tbaCircuitHalfOpenMaxReq

	nexusTimeout, err := time.ParseDuration(getEnv("NEXUS_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NEXUS_TIMEOUT: %w", err)
	}
	cfg.NexusTimeout = nexusTimeout

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofEnabled = pprofEnabled
	cfg.PprofAddr = getEnv("PPROF_ADDR", "localhost:6060")

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = uptraceDSN
	cfg.UptraceLogsEnabled = uptraceLogsEnabled

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}
	cfg.PyroscopeEnabled = pyroscopeEnabled
	cfg.PyroscopeServerAddress = pyroscopeServerAddress
	cfg.PyroscopeAppName = getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName)
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	cfg.PyroscopeUploadRate = pyroscopeUploadRate

	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
