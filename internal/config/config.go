// Package config assembles runtime configuration from the environment, with
// an optional YAML file overlay for deployments that prefer files over env.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr string
	LogLevel string

	DBDriver string
	DBDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	QuizCacheTTL  time.Duration

	AuthSecret         string
	AllowClaimFallback bool

	// The primary admin is protected from demotion and deletion by anyone,
	// itself included. Matched by id or by email.
	PrimaryAdminID    string
	PrimaryAdminEmail string

	DefaultPassingScore int

	CORSOrigins []string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:            envOr("HTTP_ADDR", ":8080"),
		LogLevel:            envOr("LOG_LEVEL", "info"),
		DBDriver:            envOr("DB_DRIVER", "sqlite"),
		DBDSN:               envOr("DB_DSN", ""),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             envInt("REDIS_DB", 0),
		QuizCacheTTL:        envDuration("QUIZ_CACHE_TTL", 10*time.Minute),
		AuthSecret:          envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AllowClaimFallback:  envBool("ALLOW_CLAIM_FALLBACK", true),
		PrimaryAdminID:      os.Getenv("PRIMARY_ADMIN_ID"),
		PrimaryAdminEmail:   os.Getenv("PRIMARY_ADMIN_EMAIL"),
		DefaultPassingScore: envInt("DEFAULT_PASSING_SCORE", 80),
		CORSOrigins:         csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

// fileConfig mirrors Config in YAML form. Only non-zero values override.
type fileConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	LogLevel string `yaml:"log_level"`
	DB       struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"db"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		QuizTTL  string `yaml:"quiz_ttl"`
	} `yaml:"redis"`
	Auth struct {
		Secret             string `yaml:"secret"`
		AllowClaimFallback *bool  `yaml:"allow_claim_fallback"`
	} `yaml:"auth"`
	PrimaryAdmin struct {
		ID    string `yaml:"id"`
		Email string `yaml:"email"`
	} `yaml:"primary_admin"`
	DefaultPassingScore int      `yaml:"default_passing_score"`
	CORSOrigins         []string `yaml:"cors_origins"`
}

// LoadFile overlays the YAML file at path onto cfg.
func LoadFile(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, err
	}
	overlay(&cfg.HTTPAddr, fc.HTTPAddr)
	overlay(&cfg.LogLevel, fc.LogLevel)
	overlay(&cfg.DBDriver, fc.DB.Driver)
	overlay(&cfg.DBDSN, fc.DB.DSN)
	overlay(&cfg.RedisAddr, fc.Redis.Addr)
	overlay(&cfg.RedisPassword, fc.Redis.Password)
	if fc.Redis.DB != 0 {
		cfg.RedisDB = fc.Redis.DB
	}
	if fc.Redis.QuizTTL != "" {
		if d, err := time.ParseDuration(fc.Redis.QuizTTL); err == nil {
			cfg.QuizCacheTTL = d
		}
	}
	overlay(&cfg.AuthSecret, fc.Auth.Secret)
	if fc.Auth.AllowClaimFallback != nil {
		cfg.AllowClaimFallback = *fc.Auth.AllowClaimFallback
	}
	overlay(&cfg.PrimaryAdminID, fc.PrimaryAdmin.ID)
	overlay(&cfg.PrimaryAdminEmail, fc.PrimaryAdmin.Email)
	if fc.DefaultPassingScore != 0 {
		cfg.DefaultPassingScore = fc.DefaultPassingScore
	}
	if len(fc.CORSOrigins) > 0 {
		cfg.CORSOrigins = fc.CORSOrigins
	}
	return cfg, nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
