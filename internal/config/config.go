package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/cfb-edge/internal/platform/logging"
	"github.com/riskibarqy/cfb-edge/internal/platform/resilience"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	ArchiveDriverMemory   = "memory"
	ArchiveDriverPostgres = "postgres"
	ArchiveDriverSQLite   = "sqlite"
)

const (
	EdgeSourceSynthetic = "synthetic"
	EdgeSourceArchive   = "archive"
)

// Provider holds the connection settings shared by both upstream APIs.
type Provider struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	CircuitBreaker resilience.BreakerConfig
}

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string
	SwaggerEnabled     bool

	CacheEnabled bool
	CacheTTL     time.Duration

	CFBD               Provider
	CFBDWeatherEnabled bool

	Odds          Provider
	OddsRegions   string
	OddsBookmaker string

	DefaultSeason     int
	DefaultSeasonType string
	RankingPoll       string
	TeamAliases       map[string]string

	EdgeDefaultSource string
	EdgeSampleSize    int
	EdgeSeed          uint64

	ArchiveDriver           string
	ArchiveWorkers          int
	DBURL                   string
	DBDisablePreparedBinary bool
	SQLitePath              string
	InternalJobToken        string

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "cfb-edge"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		OddsRegions:        strings.TrimSpace(getEnv("ODDS_REGIONS", "us")),
		OddsBookmaker:      strings.TrimSpace(getEnv("ODDS_BOOKMAKER", "")),
		RankingPoll:        strings.TrimSpace(getEnv("RANKING_POLL", "AP Top 25")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		UptraceDSN:         strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if cfg.ReadTimeout, err = parsePositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = parsePositiveDuration("APP_WRITE_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}

	if cfg.SwaggerEnabled, err = parseBool("SWAGGER_ENABLED", "true"); err != nil {
		return Config{}, err
	}

	if cfg.CacheEnabled, err = parseBool("CACHE_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = parsePositiveDuration("CACHE_TTL", "10m"); err != nil {
		return Config{}, err
	}

	if cfg.CFBD, err = loadProvider("CFBD", "https://api.collegefootballdata.com", "20s"); err != nil {
		return Config{}, err
	}
	if cfg.CFBDWeatherEnabled, err = parseBool("CFBD_WEATHER_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.Odds, err = loadProvider("ODDS", "https://api.the-odds-api.com", "15s"); err != nil {
		return Config{}, err
	}
	if appEnv == EnvProd {
		if cfg.CFBD.APIKey == "" {
			return Config{}, fmt.Errorf("CFBD_API_KEY is required when APP_ENV=prod")
		}
		if cfg.Odds.APIKey == "" {
			return Config{}, fmt.Errorf("ODDS_API_KEY is required when APP_ENV=prod")
		}
	}

	if cfg.DefaultSeason, err = getEnvAsInt("DEFAULT_SEASON", defaultSeason(time.Now())); err != nil {
		return Config{}, fmt.Errorf("parse DEFAULT_SEASON: %w", err)
	}
	if cfg.DefaultSeason < 1869 {
		return Config{}, fmt.Errorf("DEFAULT_SEASON must be >= 1869")
	}
	cfg.DefaultSeasonType = strings.ToLower(strings.TrimSpace(getEnv("DEFAULT_SEASON_TYPE", "regular")))
	if cfg.DefaultSeasonType != "regular" && cfg.DefaultSeasonType != "postseason" {
		return Config{}, fmt.Errorf("invalid DEFAULT_SEASON_TYPE %q: valid values are regular, postseason", cfg.DefaultSeasonType)
	}
	if cfg.TeamAliases, err = parseAliasMap(getEnv("TEAM_ALIASES", "")); err != nil {
		return Config{}, fmt.Errorf("parse TEAM_ALIASES: %w", err)
	}

	cfg.EdgeDefaultSource = strings.ToLower(strings.TrimSpace(getEnv("EDGE_DEFAULT_SOURCE", EdgeSourceSynthetic)))
	if cfg.EdgeDefaultSource != EdgeSourceSynthetic && cfg.EdgeDefaultSource != EdgeSourceArchive {
		return Config{}, fmt.Errorf("invalid EDGE_DEFAULT_SOURCE %q: valid values are %s, %s", cfg.EdgeDefaultSource, EdgeSourceSynthetic, EdgeSourceArchive)
	}
	if cfg.EdgeSampleSize, err = getEnvAsInt("EDGE_SAMPLE_SIZE", 300); err != nil {
		return Config{}, fmt.Errorf("parse EDGE_SAMPLE_SIZE: %w", err)
	}
	if cfg.EdgeSampleSize <= 0 {
		return Config{}, fmt.Errorf("EDGE_SAMPLE_SIZE must be > 0")
	}
	seed, err := strconv.ParseUint(getEnv("EDGE_SEED", "42"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse EDGE_SEED: %w", err)
	}
	cfg.EdgeSeed = seed

	if err := loadArchive(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadProvider(prefix, defaultBaseURL, defaultTimeout string) (Provider, error) {
	p := Provider{
		BaseURL: strings.TrimRight(strings.TrimSpace(getEnv(prefix+"_BASE_URL", defaultBaseURL)), "/"),
		APIKey:  strings.TrimSpace(getEnv(prefix+"_API_KEY", "")),
	}

	var err error
	if p.Timeout, err = parsePositiveDuration(prefix+"_TIMEOUT", defaultTimeout); err != nil {
		return Provider{}, err
	}
	if p.MaxRetries, err = getEnvAsInt(prefix+"_MAX_RETRIES", 1); err != nil {
		return Provider{}, fmt.Errorf("parse %s_MAX_RETRIES: %w", prefix, err)
	}
	if p.MaxRetries < 0 {
		return Provider{}, fmt.Errorf("%s_MAX_RETRIES must be >= 0", prefix)
	}

	breaker := resilience.ProviderBreakerDefaults()
	if breaker.Enabled, err = parseBool(prefix+"_CIRCUIT_ENABLED", "true"); err != nil {
		return Provider{}, err
	}
	if breaker.MaxFailures, err = getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", breaker.MaxFailures); err != nil {
		return Provider{}, fmt.Errorf("parse %s_CIRCUIT_FAILURE_COUNT: %w", prefix, err)
	}
	if breaker.Cooldown, err = parsePositiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", breaker.Cooldown.String()); err != nil {
		return Provider{}, err
	}
	if breaker.TrialRequests, err = getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", breaker.TrialRequests); err != nil {
		return Provider{}, fmt.Errorf("parse %s_CIRCUIT_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	if err := breaker.Validate(); err != nil {
		return Provider{}, fmt.Errorf("%s_CIRCUIT_*: %w", prefix, err)
	}
	p.CircuitBreaker = breaker

	return p, nil
}

func loadArchive(cfg *Config) error {
	cfg.ArchiveDriver = strings.ToLower(strings.TrimSpace(getEnv("ARCHIVE_DRIVER", ArchiveDriverMemory)))
	switch cfg.ArchiveDriver {
	case ArchiveDriverMemory, ArchiveDriverPostgres, ArchiveDriverSQLite:
	default:
		return fmt.Errorf("invalid ARCHIVE_DRIVER %q: valid values are %s, %s, %s", cfg.ArchiveDriver, ArchiveDriverMemory, ArchiveDriverPostgres, ArchiveDriverSQLite)
	}

	var err error
	if cfg.ArchiveWorkers, err = getEnvAsInt("ARCHIVE_WORKERS", 4); err != nil {
		return fmt.Errorf("parse ARCHIVE_WORKERS: %w", err)
	}
	if cfg.ArchiveWorkers <= 0 {
		return fmt.Errorf("ARCHIVE_WORKERS must be > 0")
	}

	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))
	if cfg.ArchiveDriver == ArchiveDriverPostgres && cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required when ARCHIVE_DRIVER=postgres")
	}
	if cfg.DBDisablePreparedBinary, err = parseBool("DB_DISABLE_PREPARED_BINARY_RESULT", "true"); err != nil {
		return err
	}
	cfg.SQLitePath = strings.TrimSpace(getEnv("SQLITE_PATH", "cfb-edge.db"))
	if cfg.ArchiveDriver == ArchiveDriverSQLite && cfg.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required when ARCHIVE_DRIVER=sqlite")
	}
	return nil
}

func loadObservability(cfg *Config) error {
	var err error
	if cfg.PprofEnabled, err = parseBool("PPROF_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = parseBool("UPTRACE_ENABLED", "false"); err != nil {
		return err
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = parseBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = parsePositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	return nil
}

// defaultSeason is the current season year; CFB seasons roll over in August.
func defaultSeason(now time.Time) int {
	if now.Month() < time.August {
		return now.Year() - 1
	}
	return now.Year()
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

func parseBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
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

// parseAliasMap reads "Odds Name:School,..." pairs.
func parseAliasMap(raw string) (map[string]string, error) {
	out := make(map[string]string)
	for _, item := range splitCSV(raw) {
		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid alias item %q, expected provider_name:school", item)
		}

		from := strings.TrimSpace(segments[0])
		to := strings.TrimSpace(segments[1])
		if from == "" || to == "" {
			return nil, fmt.Errorf("empty name in alias item %q", item)
		}
		out[from] = to
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
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
