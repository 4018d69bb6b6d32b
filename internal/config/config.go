// Package config provides application configuration loaded from an optional
// YAML file and environment variables, with defaults and validation. It
// centralizes settings such as server timeouts, logging, the storage backend
// that holds the appointment blobs, calendar display bounds, rate limiting,
// backups and observability.
//
// Precedence is defaults, then the file named by CONFIG_FILE, then the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendSQLite   = "sqlite"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool          `yaml:"enable_hsts"`
	HSTSMaxAge time.Duration `yaml:"hsts_max_age"`
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    `yaml:"enabled"`      // OTEL_ENABLED
	Endpoint    string  `yaml:"endpoint"`     // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    `yaml:"insecure"`     // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  `yaml:"service_name"` // OTEL_SERVICE_NAME
	SampleRatio float64 `yaml:"sample_ratio"` // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// StorageConfig selects and tunes the blob backend.
type StorageConfig struct {
	Backend        string        `yaml:"backend"`         // sqlite|file|postgres|memory
	DBPath         string        `yaml:"db_path"`         // SQLite path
	DataDir        string        `yaml:"data_dir"`        // directory for the file backend
	PostgresDSN    string        `yaml:"postgres_dsn"`    // pgx connection string
	PersistDelay   time.Duration `yaml:"persist_delay"`   // debounce window for snapshot writes
	PersistTimeout time.Duration `yaml:"persist_timeout"` // upper bound for a single write
}

// CalendarConfig holds appointment and view bounds.
type CalendarConfig struct {
	Name         string `yaml:"name"`           // iCalendar display name
	TitleMaxLen  int    `yaml:"title_max_len"`  // runes
	DayStartHour int    `yaml:"day_start_hour"` // first timeline hour
	DayEndHour   int    `yaml:"day_end_hour"`   // last timeline hour (inclusive)

	SearchStopwords []string `yaml:"search_stopwords"` // words ignored by title search
}

// BackupConfig controls the periodic iCalendar export.
type BackupConfig struct {
	Cron string `yaml:"cron"` // robfig/cron spec; empty disables
	Path string `yaml:"path"` // output file
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        `yaml:"port"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes    int           `yaml:"max_header_bytes"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	GinMode           string        `yaml:"gin_mode"` // debug|release|test

	// Logging / Docs
	LogLevel       string `yaml:"log_level"` // debug|info|warn|error|fatal|panic
	LogPretty      bool   `yaml:"log_pretty"`
	SwaggerEnabled bool   `yaml:"swagger_enabled"`
	APIBasePath    string `yaml:"api_base_path"`

	Storage  StorageConfig  `yaml:"storage"`
	Calendar CalendarConfig `yaml:"calendar"`
	Backup   BackupConfig   `yaml:"backup"`

	// Rate limiting
	RateRPS   float64 `yaml:"rate_rps"`   // tokens per second (>= 0)
	RateBurst int     `yaml:"rate_burst"` // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig     `yaml:"cors"`
	Security SecurityConfig `yaml:"security"`

	// Observability
	OTEL OTELConfig `yaml:"otel"`
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Defaults returns the built-in configuration before any file or
// environment overrides.
func Defaults() Config {
	return Config{
		Port:              "8080",
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
		MaxBodyBytes:      1 << 20,
		GinMode:           "release",

		LogLevel:    "info",
		APIBasePath: "/api/v1",

		Storage: StorageConfig{
			Backend:        BackendSQLite,
			DBPath:         "calendar.db",
			DataDir:        "data",
			PersistDelay:   250 * time.Millisecond,
			PersistTimeout: 5 * time.Second,
		},
		Calendar: CalendarConfig{
			Name:         "Appointments",
			TitleMaxLen:  200,
			DayStartHour: 8,
			DayEndHour:   20,
		},
		Backup: BackupConfig{
			Path: "backup/calendar.ics",
		},

		RateRPS:   5.0,
		RateBurst: 10,

		Security: SecurityConfig{
			HSTSMaxAge: 180 * 24 * time.Hour,
		},

		OTEL: OTELConfig{
			Endpoint:    "localhost:4317",
			Insecure:    true,
			ServiceName: "go-calendar-backend",
			SampleRatio: 1.0,
		},
	}
}

// Load reads the optional CONFIG_FILE and environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	base := Defaults()
	if path := getenv("CONFIG_FILE", ""); path != "" {
		if err := LoadFile(path, &base); err != nil {
			return base, err
		}
	}

	cfg := Config{
		// Server
		Port:              getenv("PORT", base.Port),
		ReadTimeout:       getdur("READ_TIMEOUT", base.ReadTimeout),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", base.ReadHeaderTimeout),
		WriteTimeout:      getdur("WRITE_TIMEOUT", base.WriteTimeout),
		IdleTimeout:       getdur("IDLE_TIMEOUT", base.IdleTimeout),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", base.MaxHeaderBytes),
		MaxBodyBytes:      int64(getint("MAX_BODY_BYTES", int(base.MaxBodyBytes))),
		GinMode:           strings.ToLower(getenv("GIN_MODE", base.GinMode)),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", base.LogLevel)),
		LogPretty:      getbool("LOG_PRETTY", base.LogPretty),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", base.SwaggerEnabled),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", base.APIBasePath)),

		Storage: StorageConfig{
			Backend:        strings.ToLower(getenv("STORAGE_BACKEND", base.Storage.Backend)),
			DBPath:         getenv("DB_PATH", base.Storage.DBPath),
			DataDir:        getenv("DATA_DIR", base.Storage.DataDir),
			PostgresDSN:    getenv("POSTGRES_DSN", base.Storage.PostgresDSN),
			PersistDelay:   getdur("PERSIST_DELAY", base.Storage.PersistDelay),
			PersistTimeout: getdur("PERSIST_TIMEOUT", base.Storage.PersistTimeout),
		},
		Calendar: CalendarConfig{
			Name:         getenv("CALENDAR_NAME", base.Calendar.Name),
			TitleMaxLen:  getint("TITLE_MAX_LEN", base.Calendar.TitleMaxLen),
			DayStartHour: getint("DAY_START_HOUR", base.Calendar.DayStartHour),
			DayEndHour:   getint("DAY_END_HOUR", base.Calendar.DayEndHour),

			SearchStopwords: base.Calendar.SearchStopwords,
		},
		Backup: BackupConfig{
			Cron: strings.TrimSpace(getenv("BACKUP_CRON", base.Backup.Cron)),
			Path: getenv("BACKUP_PATH", base.Backup.Path),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", base.RateRPS),
		RateBurst: getint("RATE_BURST", base.RateBurst),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: base.CORS.AllowedOrigins,
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", base.Security.EnableHSTS),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", base.Security.HSTSMaxAge),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", base.OTEL.Enabled),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", base.OTEL.Endpoint),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", base.OTEL.Insecure),
			ServiceName: getenv("OTEL_SERVICE_NAME", base.OTEL.ServiceName),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", base.OTEL.SampleRatio),
		},
	}
	if v := getenv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		cfg.CORS.AllowedOrigins = splitCSV(v)
	}
	if v := getenv("SEARCH_STOPWORDS", ""); v != "" {
		cfg.Calendar.SearchStopwords = splitCSV(v)
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.Storage.Backend == "sqlite3" {
		cfg.Storage.Backend = BackendSQLite
	}

	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (cfg Config) Validate() error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be > 0")
	}

	switch cfg.Storage.Backend {
	case BackendSQLite:
		if strings.TrimSpace(cfg.Storage.DBPath) == "" {
			return errors.New("DB_PATH must not be empty")
		}
	case BackendFile:
		if strings.TrimSpace(cfg.Storage.DataDir) == "" {
			return errors.New("DATA_DIR must not be empty")
		}
	case BackendPostgres:
		if strings.TrimSpace(cfg.Storage.PostgresDSN) == "" {
			return errors.New("POSTGRES_DSN must be set for the postgres backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: sqlite, file, postgres, memory (got %q)", cfg.Storage.Backend)
	}
	if cfg.Storage.PersistDelay < 0 {
		return errors.New("PERSIST_DELAY must be >= 0")
	}
	if cfg.Storage.PersistTimeout <= 0 {
		return errors.New("PERSIST_TIMEOUT must be > 0")
	}

	if cfg.Calendar.TitleMaxLen < 1 {
		return errors.New("TITLE_MAX_LEN must be >= 1")
	}
	if cfg.Calendar.DayStartHour < 0 || cfg.Calendar.DayEndHour > 23 || cfg.Calendar.DayStartHour > cfg.Calendar.DayEndHour {
		return errors.New("DAY_START_HOUR and DAY_END_HOUR must satisfy 0 <= start <= end <= 23")
	}
	if cfg.Backup.Cron != "" && strings.TrimSpace(cfg.Backup.Path) == "" {
		return errors.New("BACKUP_PATH must not be empty when BACKUP_CRON is set")
	}

	if cfg.RateRPS < 0 {
		return errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return nil
}

// LoadFile overlays the YAML document at path onto cfg. Keys absent from the
// document keep their current values.
func LoadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// ---- env helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
