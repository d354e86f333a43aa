package main

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Environment    string   `mapstructure:"ENVIRONMENT"`
	Version        string   `mapstructure:"VERSION"`
	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`
	TLSCertFile    string   `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile     string   `mapstructure:"TLS_KEY_FILE"`
	LogDebug       bool     `mapstructure:"LOG_DEBUG"`

	DBHost     string `mapstructure:"POSTGRES_HOST"`
	DBPort     string `mapstructure:"POSTGRES_PORT"`
	DBUser     string `mapstructure:"POSTGRES_USER"`
	DBPassword string `mapstructure:"POSTGRES_PASSWORD"`
	DBName     string `mapstructure:"POSTGRES_DB"`
	DBSSLMode  string `mapstructure:"POSTGRES_SSLMODE"`

	MailHost     string `mapstructure:"MAIL_HOST"`
	MailPort     int    `mapstructure:"MAIL_PORT"`
	MailUser     string `mapstructure:"MAIL_USER"`
	MailPassword string `mapstructure:"MAIL_PASSWORD"`
	MailSender   string `mapstructure:"MAIL_SENDER"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	LocalStoreTTL time.Duration `mapstructure:"LOCAL_STORE_TTL"`

	// BackendURL is the OG Camping REST API the consoles act on.
	BackendURL     string        `mapstructure:"BACKEND_URL"`
	BackendTimeout time.Duration `mapstructure:"BACKEND_TIMEOUT"`
	AssetBaseURL   string        `mapstructure:"ASSET_BASE_URL"`
	SiteURL        string        `mapstructure:"SITE_URL"`
	ActionTimeout  time.Duration `mapstructure:"ACTION_TIMEOUT"`
	ReconnectDelay time.Duration `mapstructure:"RECONNECT_DELAY"`
	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`

	OpenAIToken   string        `mapstructure:"OPENAI_TOKEN"`
	OpenAIBaseURL string        `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel   string        `mapstructure:"OPENAI_MODEL"`
	ChatTimeout   time.Duration `mapstructure:"CHAT_TIMEOUT"`

	RateLimitRPS     float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int     `mapstructure:"RATE_LIMIT_BURST"`
	RateLimitEnabled bool    `mapstructure:"RATE_LIMIT_ENABLED"`
}

var defaults = map[string]any{
	"PORT":               ":4000",
	"ENVIRONMENT":        "development",
	"VERSION":            "1.0.0",
	"TRUSTED_ORIGINS":    "",
	"TLS_CERT_FILE":      "",
	"TLS_KEY_FILE":       "",
	"LOG_DEBUG":          false,
	"POSTGRES_HOST":      "localhost",
	"POSTGRES_PORT":      "5432",
	"POSTGRES_USER":      "",
	"POSTGRES_PASSWORD":  "",
	"POSTGRES_DB":        "console",
	"POSTGRES_SSLMODE":   "disable",
	"MAIL_HOST":          "",
	"MAIL_PORT":          587,
	"MAIL_USER":          "",
	"MAIL_PASSWORD":      "",
	"MAIL_SENDER":        "",
	"RABBITMQ_HOST":      "localhost",
	"RABBITMQ_PORT":      "5672",
	"RABBITMQ_USER":      "guest",
	"RABBITMQ_PASSWORD":  "guest",
	"REDIS_ADDR":         "localhost:6379",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"LOCAL_STORE_TTL":    30 * 24 * time.Hour,
	"BACKEND_URL":        "http://localhost:8080",
	"BACKEND_TIMEOUT":    10 * time.Second,
	"ASSET_BASE_URL":     "http://localhost:8080/images/",
	"SITE_URL":           "http://localhost:3000",
	"ACTION_TIMEOUT":     15 * time.Second,
	"RECONNECT_DELAY":    5 * time.Second,
	"CACHE_TTL":          5 * time.Minute,
	"OPENAI_TOKEN":       "",
	"OPENAI_BASE_URL":    "",
	"OPENAI_MODEL":       "gpt-4o-mini",
	"CHAT_TIMEOUT":       30 * time.Second,
	"RATE_LIMIT_RPS":     2.0,
	"RATE_LIMIT_BURST":   4,
	"RATE_LIMIT_ENABLED": true,
}

// loadConfig reads the env file at path. Environment variables override the file.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
