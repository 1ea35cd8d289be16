package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"credit-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	LogLevel        string

	ApplicationStore string
	DatabaseURL      string
	MongoURI         string
	MongoDatabase    string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ProfileCacheTTL time.Duration

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	LLMProvider string
	LLMBaseURL  string
	LLMModel    string
	LLMAPIKey   string
	LLMTimeout  time.Duration

	BureauSource          string
	ProfileSource         string
	ScoreVariant          string
	RiskLowThreshold      int
	RiskModerateThreshold int

	ReportRateLimitPerMinute int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "5050")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APPLICATION_STORE", "")
	v.SetDefault("MONGO_DATABASE", "unified_credit")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PROFILE_CACHE_TTL", "24h")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("LLM_PROVIDER", "")
	v.SetDefault("LLM_BASE_URL", "https://api.groq.com/openai/v1")
	v.SetDefault("LLM_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("LLM_TIMEOUT_SECONDS", 60)
	v.SetDefault("BUREAU_SOURCE", "hash")
	v.SetDefault("PROFILE_SOURCE", "fake")
	v.SetDefault("SCORE_VARIANT", "mean")
	v.SetDefault("RISK_LOW_THRESHOLD", 700)
	v.SetDefault("RISK_MODERATE_THRESHOLD", 600)
	v.SetDefault("REPORT_RATE_LIMIT_PER_MINUTE", 30)
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := v.GetString("DATABASE_URL")

	if env == "production" && dbURL == "" && v.GetString("MONGO_URI") == "" {
		telemetry.Error("config.missing_database", map[string]any{"env": env})
	}

	apiKey := firstNonEmpty(v.GetString("LLM_API_KEY"), v.GetString("GROQ_API_KEY"), v.GetString("OPENAI_API_KEY"))
	provider := normalizeProvider(v.GetString("LLM_PROVIDER"), apiKey)

	return Config{
		Port:            v.GetString("PORT"),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		Env:             env,
		LogLevel:        strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),

		ApplicationStore: normalizeApplicationStore(v.GetString("APPLICATION_STORE"), dbURL, v.GetString("MONGO_URI")),
		DatabaseURL:      dbURL,
		MongoURI:         v.GetString("MONGO_URI"),
		MongoDatabase:    v.GetString("MONGO_DATABASE"),

		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		ProfileCacheTTL: v.GetDuration("PROFILE_CACHE_TTL"),

		ObjectStoreType: normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:   v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:       v.GetString("AWS_REGION"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Prefix:        v.GetString("S3_PREFIX"),
		SSEKMSKeyID:     v.GetString("SSE_KMS_KEY_ID"),

		LLMProvider: provider,
		LLMBaseURL:  strings.TrimRight(v.GetString("LLM_BASE_URL"), "/"),
		LLMModel:    v.GetString("LLM_MODEL"),
		LLMAPIKey:   apiKey,
		LLMTimeout:  time.Duration(v.GetInt("LLM_TIMEOUT_SECONDS")) * time.Second,

		BureauSource:          strings.ToLower(strings.TrimSpace(v.GetString("BUREAU_SOURCE"))),
		ProfileSource:         strings.ToLower(strings.TrimSpace(v.GetString("PROFILE_SOURCE"))),
		ScoreVariant:          strings.ToLower(strings.TrimSpace(v.GetString("SCORE_VARIANT"))),
		RiskLowThreshold:      v.GetInt("RISK_LOW_THRESHOLD"),
		RiskModerateThreshold: v.GetInt("RISK_MODERATE_THRESHOLD"),

		ReportRateLimitPerMinute: v.GetInt("REPORT_RATE_LIMIT_PER_MINUTE"),
	}
}

// loadEnvFiles loads KEY=VALUE pairs from the given files if they exist.
// Variables already present in the environment win.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			telemetry.Error("config.env_file", map[string]any{"path": path, "error": err.Error()})
		}
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

// normalizeApplicationStore picks the application backend. An explicit value
// wins; otherwise Mongo is preferred when configured, then Postgres.
func normalizeApplicationStore(raw, dbURL, mongoURI string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mongo", "mongodb":
		return "mongo"
	case "postgres", "pg":
		return "postgres"
	case "memory":
		return "memory"
	}
	switch {
	case strings.TrimSpace(mongoURI) != "":
		return "mongo"
	case strings.TrimSpace(dbURL) != "":
		return "postgres"
	default:
		return "memory"
	}
}

func normalizeProvider(raw, apiKey string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai", "groq":
		return "openai"
	case "none", "placeholder":
		return "none"
	}
	if apiKey != "" {
		return "openai"
	}
	return "none"
}
