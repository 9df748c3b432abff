// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as the Telegram credential, LLM backend selection, retention policy,
// summary window bounds, logging, and observability.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DeliriumPulse/Summary/internal/llm"
	"github.com/DeliriumPulse/Summary/internal/sysutil"
)

// LLMConfig selects the summarization backend and its credentials. Keys,
// models, and base URLs are kept per backend so switching LLM_PROVIDER never
// requires re-wiring the rest of the environment.
type LLMConfig struct {
	Provider string // LLM_PROVIDER: openai | anthropic | gemini

	OpenAIKey    string
	AnthropicKey string
	GeminiKey    string

	OpenAIModel    string
	AnthropicModel string
	GeminiModel    string

	OpenAIBaseURL    string
	AnthropicBaseURL string
	GeminiBaseURL    string
}

// APIKey returns the credential for the active provider.
func (c LLMConfig) APIKey() string {
	switch c.Provider {
	case llm.BackendOpenAI:
		return c.OpenAIKey
	case llm.BackendAnthropic:
		return c.AnthropicKey
	case llm.BackendGemini:
		return c.GeminiKey
	}
	return ""
}

// Model returns the model override for the active provider ("" = backend default).
func (c LLMConfig) Model() string {
	switch c.Provider {
	case llm.BackendOpenAI:
		return c.OpenAIModel
	case llm.BackendAnthropic:
		return c.AnthropicModel
	case llm.BackendGemini:
		return c.GeminiModel
	}
	return ""
}

// BaseURL returns the endpoint override for the active provider ("" = real endpoint).
func (c LLMConfig) BaseURL() string {
	switch c.Provider {
	case llm.BackendOpenAI:
		return c.OpenAIBaseURL
	case llm.BackendAnthropic:
		return c.AnthropicBaseURL
	case llm.BackendGemini:
		return c.GeminiBaseURL
	}
	return ""
}

// AdminConfig defines the ops HTTP server (health, metrics, chat inspection).
type AdminConfig struct {
	Enabled           bool          // ADMIN_ENABLED
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test
	BasePath          string        // base path for API routes
	RateRPS           float64       // tokens per second (>= 0)
	RateBurst         int           // bucket size (>= 1)
}

// CORSConfig defines Cross-Origin Resource Sharing settings for the ops API.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "summarybot")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Telegram
	TelegramToken string // TELEGRAM_BOT_TOKEN (required)

	// Summarization backend
	LLM LLMConfig

	// Storage / retention
	DBPath          string        // DATABASE_PATH (SQLite file)
	RetentionDays   int           // MESSAGE_RETENTION_DAYS; 0 = retain forever
	CleanupInterval time.Duration // derived from CLEANUP_INTERVAL_HOURS

	// Summary windows
	DefaultSummaryCount int       // window when /summary has no argument
	MaxSummaryCount     int       // hard cap on any window
	DefaultStyle        llm.Style // style for users without a preference

	// Per-chat summary throttle
	SummaryRatePerMin float64 // SUMMARY_RATE_PER_MIN
	SummaryBurst      int     // SUMMARY_BURST

	// Ops HTTP API
	Admin AdminConfig

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	rawStyle := getenv("DEFAULT_STYLE", string(llm.DefaultStyle))

	cfg := Config{
		// Telegram
		TelegramToken: getenv("TELEGRAM_BOT_TOKEN", ""),

		// Summarization backend
		LLM: LLMConfig{
			Provider: strings.ToLower(getenv("LLM_PROVIDER", llm.BackendGemini)),

			OpenAIKey:    getenv("OPENAI_API_KEY", ""),
			AnthropicKey: getenv("ANTHROPIC_API_KEY", ""),
			// GOOGLE_API_KEY is the Gemini SDK's own variable; honor it too.
			GeminiKey: sysutil.FirstNonEmpty(getenv("GEMINI_API_KEY", ""), getenv("GOOGLE_API_KEY", "")),

			OpenAIModel:    getenv("OPENAI_MODEL", ""),
			AnthropicModel: getenv("ANTHROPIC_MODEL", ""),
			GeminiModel:    getenv("GEMINI_MODEL", ""),

			OpenAIBaseURL:    getenv("OPENAI_BASE_URL", ""),
			AnthropicBaseURL: getenv("ANTHROPIC_BASE_URL", ""),
			GeminiBaseURL:    getenv("GEMINI_BASE_URL", ""),
		},

		// Storage / retention
		DBPath:          getenv("DATABASE_PATH", "data/messages.db"),
		RetentionDays:   getint("MESSAGE_RETENTION_DAYS", 30),
		CleanupInterval: time.Duration(getint("CLEANUP_INTERVAL_HOURS", 24)) * time.Hour,

		// Summary windows
		DefaultSummaryCount: getint("DEFAULT_SUMMARY_COUNT", 20),
		MaxSummaryCount:     getint("MAX_SUMMARY_COUNT", 100),

		// Per-chat summary throttle
		SummaryRatePerMin: getfloat("SUMMARY_RATE_PER_MIN", 3.0),
		SummaryBurst:      getint("SUMMARY_BURST", 1),

		// Ops HTTP API
		Admin: AdminConfig{
			Enabled:           getbool("ADMIN_ENABLED", true),
			Port:              getenv("ADMIN_PORT", "8081"),
			ReadTimeout:       getdur("ADMIN_READ_TIMEOUT", 15*time.Second),
			ReadHeaderTimeout: getdur("ADMIN_READ_HEADER_TIMEOUT", 10*time.Second),
			WriteTimeout:      getdur("ADMIN_WRITE_TIMEOUT", 20*time.Second),
			IdleTimeout:       getdur("ADMIN_IDLE_TIMEOUT", 60*time.Second),
			MaxHeaderBytes:    getint("ADMIN_MAX_HEADER_BYTES", 1<<20),
			GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),
			BasePath:          normalizeBasePath(getenv("ADMIN_BASE_PATH", "/api/v1")),
			RateRPS:           getfloat("ADMIN_RATE_RPS", 20.0),
			RateBurst:         getint("ADMIN_RATE_BURST", 40),
		},

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("SECURITY_ENABLE_HSTS", false),
			HSTSMaxAge: getdur("SECURITY_HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "summarybot"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.Admin.GinMode {
	case "debug", "release", "test":
	default:
		cfg.Admin.GinMode = "release"
	}
	style, ok := llm.ParseStyle(rawStyle)
	if !ok {
		return cfg, errors.New("DEFAULT_STYLE must name a supported summary style")
	}
	cfg.DefaultStyle = style

	// --- validation ---
	if strings.TrimSpace(cfg.TelegramToken) == "" {
		return cfg, errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	switch cfg.LLM.Provider {
	case llm.BackendOpenAI, llm.BackendAnthropic, llm.BackendGemini:
	default:
		return cfg, fmt.Errorf("LLM_PROVIDER must be one of: openai, anthropic, gemini (got %q)", cfg.LLM.Provider)
	}
	if strings.TrimSpace(cfg.LLM.APIKey()) == "" {
		return cfg, fmt.Errorf("API key for provider %q is required", cfg.LLM.Provider)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DATABASE_PATH must not be empty")
	}
	if cfg.RetentionDays < 0 {
		return cfg, errors.New("MESSAGE_RETENTION_DAYS must be >= 0 (0 disables cleanup)")
	}
	if cfg.CleanupInterval <= 0 {
		return cfg, errors.New("CLEANUP_INTERVAL_HOURS must be > 0")
	}
	if cfg.DefaultSummaryCount < 1 {
		return cfg, errors.New("DEFAULT_SUMMARY_COUNT must be >= 1")
	}
	if cfg.MaxSummaryCount < cfg.DefaultSummaryCount {
		return cfg, errors.New("MAX_SUMMARY_COUNT must be >= DEFAULT_SUMMARY_COUNT")
	}
	if cfg.SummaryRatePerMin <= 0 {
		return cfg, errors.New("SUMMARY_RATE_PER_MIN must be > 0")
	}
	if cfg.SummaryBurst < 1 {
		return cfg, errors.New("SUMMARY_BURST must be >= 1")
	}
	if cfg.Admin.Enabled {
		if strings.TrimSpace(cfg.Admin.Port) == "" {
			return cfg, errors.New("ADMIN_PORT must not be empty")
		}
		if cfg.Admin.ReadTimeout <= 0 || cfg.Admin.ReadHeaderTimeout <= 0 ||
			cfg.Admin.WriteTimeout <= 0 || cfg.Admin.IdleTimeout <= 0 {
			return cfg, errors.New("admin timeouts must be positive durations")
		}
		if cfg.Admin.MaxHeaderBytes <= 0 {
			return cfg, errors.New("ADMIN_MAX_HEADER_BYTES must be > 0")
		}
		if cfg.Admin.RateRPS < 0 {
			return cfg, errors.New("ADMIN_RATE_RPS must be >= 0")
		}
		if cfg.Admin.RateBurst < 1 {
			return cfg, errors.New("ADMIN_RATE_BURST must be >= 1")
		}
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("SECURITY_HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
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
		return sysutil.IsTruthy(v)
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
