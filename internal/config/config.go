package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DevJWTSecret is the fallback signing secret for local development. Load
// refuses it when Env is "prod".
const DevJWTSecret = "dev-only-insecure-secret"

// Authorization modes.
const (
	// AuthzOpen leaves reads unauthenticated and never checks ownership.
	AuthzOpen = "open"
	// AuthzOwner requires a token everywhere and restricts tasks to their owner.
	AuthzOwner = "owner"
)

type Config struct {
	Port string `validate:"required,numeric"`

	// DatabaseURL selects the backend by scheme: mongodb://, mongodb+srv://,
	// postgres://, postgresql:// or sqlite:// (sqlite://path/to/file.db).
	DatabaseURL string `validate:"required"`
	// DBName overrides the MongoDB database named in DatabaseURL.
	DBName string

	// DBMaxOpenConns is the maximum number of open SQL connections (default 25).
	DBMaxOpenConns int `validate:"gte=0"`
	// DBMaxIdleConns is the maximum number of idle SQL connections (default 5).
	DBMaxIdleConns int `validate:"gte=0"`

	JWTSecret string `validate:"required"`

	// JWTExpireHours is the token lifetime. 0 (default) issues tokens without expiry.
	JWTExpireHours int `validate:"gte=0"`

	// BcryptCost is the bcrypt work factor (default 10).
	BcryptCost int `validate:"gte=4,lte=31"`

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string `validate:"oneof=dev prod"`

	// LogFormat is "console" or "json". Defaults to json in prod and console otherwise.
	LogFormat string `validate:"oneof=console json"`
	LogLevel  string `validate:"oneof=debug info warn error"`

	// CORSAllowedOrigins is a list of allowed origins; "*" allows any origin.
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). Defaults to "*".
	CORSAllowedOrigins []string

	AuthzMode string `validate:"oneof=open owner"`

	MaxBodyBytes    int64         `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// JWTTTL returns the token lifetime, 0 meaning no expiry.
func (c Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTExpireHours) * time.Hour
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory. Variables already set win over .env.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.SetDefault("port", "4001")
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("jwt_secret", DevJWTSecret)
	v.SetDefault("jwt_expire_hours", 0)
	v.SetDefault("bcrypt_cost", 10)
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("authz_mode", AuthzOpen)
	v.SetDefault("max_body_bytes", 1<<20)
	v.SetDefault("shutdown_timeout_seconds", 10)

	// First name listed wins when several are set.
	binds := map[string][]string{
		"port":                     {"API_PORT", "PORT"},
		"database_url":             {"MONGODB_URI", "DATABASE_URL"},
		"db_name":                  {"DB_NAME"},
		"db_max_open_conns":        {"DB_MAX_OPEN_CONNS"},
		"db_max_idle_conns":        {"DB_MAX_IDLE_CONNS"},
		"jwt_secret":               {"JWT_SECRET"},
		"jwt_expire_hours":         {"JWT_EXPIRE_HOURS"},
		"bcrypt_cost":              {"BCRYPT_COST"},
		"env":                      {"ENV"},
		"log_format":               {"LOG_FORMAT"},
		"log_level":                {"LOG_LEVEL"},
		"cors_allowed_origins":     {"CORS_ALLOWED_ORIGINS"},
		"authz_mode":               {"AUTHZ_MODE"},
		"max_body_bytes":           {"MAX_BODY_BYTES"},
		"shutdown_timeout_seconds": {"SHUTDOWN_TIMEOUT_SECONDS"},
	}
	for key, envs := range binds {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	env := strings.ToLower(v.GetString("env"))
	logFormat := strings.ToLower(v.GetString("log_format"))
	if logFormat == "" {
		logFormat = "console"
		if env == "prod" {
			logFormat = "json"
		}
	}

	cfg := Config{
		Port:               v.GetString("port"),
		DatabaseURL:        v.GetString("database_url"),
		DBName:             v.GetString("db_name"),
		DBMaxOpenConns:     v.GetInt("db_max_open_conns"),
		DBMaxIdleConns:     v.GetInt("db_max_idle_conns"),
		JWTSecret:          v.GetString("jwt_secret"),
		JWTExpireHours:     v.GetInt("jwt_expire_hours"),
		BcryptCost:         v.GetInt("bcrypt_cost"),
		Env:                env,
		LogFormat:          logFormat,
		LogLevel:           strings.ToLower(v.GetString("log_level")),
		CORSAllowedOrigins: parseCORSOrigins(v.GetString("cors_allowed_origins")),
		AuthzMode:          strings.ToLower(v.GetString("authz_mode")),
		MaxBodyBytes:       v.GetInt64("max_body_bytes"),
		ShutdownTimeout:    time.Duration(v.GetInt("shutdown_timeout_seconds")) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and the production secret rule.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Env == "prod" && c.JWTSecret == DevJWTSecret {
		return fmt.Errorf("invalid config: JWT_SECRET must be set in prod")
	}
	return nil
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}
