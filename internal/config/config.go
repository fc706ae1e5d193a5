package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Config holds all runtime configuration. Values come from the environment
// (optionally a local .env-style config file) and carry sane defaults for
// local development.
type Config struct {
	Environment string
	HTTPAddr    string

	DatabaseDSN string

	// Object storage.
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	PublicURLPrefix string

	// SMTP fallbacks used when the settings row is missing fields.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromEmail    string
	FromName     string

	// Admin login gate.
	JWTSecret     string
	AdminEmail    string
	AdminPassword string

	// Receipt rendering.
	ChromePath   string
	LogoPath     string
	RenderBudget int // seconds allowed per PDF render

	// Tracing.
	TracingEnabled     bool
	OTLPEndpoint       string
	OTLPProtocol       string
	TraceSamplingRatio float64
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_DSN", "host=localhost user=chns password=chns dbname=chns port=5432 sslmode=disable")
	v.SetDefault("S3_BUCKET", "donations")
	v.SetDefault("S3_REGION", "ap-southeast-1")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("JWT_SECRET", "dev-secret")
	v.SetDefault("LOGO_PATH", "public/logo.png")
	v.SetDefault("RENDER_BUDGET_SECONDS", 30)
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("OTLP_PROTOCOL", "grpc")
	v.SetDefault("TRACE_SAMPLING_RATIO", 0.1)

	cfg := Config{
		Environment:     v.GetString("ENVIRONMENT"),
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Region:        v.GetString("S3_REGION"),
		S3Endpoint:      v.GetString("S3_ENDPOINT"),
		PublicURLPrefix: v.GetString("PUBLIC_URL_PREFIX"),
		SMTPHost:        v.GetString("SMTP_HOST"),
		SMTPPort:        v.GetInt("SMTP_PORT"),
		SMTPUser:        v.GetString("SMTP_USER"),
		SMTPPassword:    v.GetString("SMTP_PASSWORD"),
		FromEmail:       v.GetString("FROM_EMAIL"),
		FromName:        v.GetString("FROM_NAME"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		AdminEmail:      v.GetString("ADMIN_EMAIL"),
		AdminPassword:   v.GetString("ADMIN_PASSWORD"),
		ChromePath:      v.GetString("CHROME_PATH"),
		LogoPath:        v.GetString("LOGO_PATH"),
		RenderBudget:    v.GetInt("RENDER_BUDGET_SECONDS"),

		TracingEnabled:     v.GetBool("TRACING_ENABLED"),
		OTLPEndpoint:       v.GetString("OTLP_ENDPOINT"),
		OTLPProtocol:       v.GetString("OTLP_PROTOCOL"),
		TraceSamplingRatio: v.GetFloat64("TRACE_SAMPLING_RATIO"),
	}
	return cfg, nil
}

var Module = fx.Module("config",
	fx.Provide(Load),
)
