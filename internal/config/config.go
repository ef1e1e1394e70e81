package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Env                 string `mapstructure:"env"`
	Port                int    `mapstructure:"port"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `mapstructure:"idle_timeout_seconds"`
}

type MongoCfg struct {
	URI                   string `mapstructure:"uri"`
	Database              string `mapstructure:"database"`
	ConnectTimeoutSeconds int    `mapstructure:"connect_timeout_seconds"`
}

type RedisCfg struct {
	Addr                  string `mapstructure:"addr"`
	Password              string `mapstructure:"password"`
	DB                    int    `mapstructure:"db"`
	ConnectTimeoutSeconds int    `mapstructure:"connect_timeout_seconds"`
}

type JWTCfg struct {
	Secret           string `mapstructure:"secret"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
}

type SecurityCfg struct {
	ResetTokenTTLMinutes  int `mapstructure:"reset_token_ttl_minutes"`
	ForgotPasswordPerHour int `mapstructure:"forgot_password_per_hour"`
}

type MailerCfg struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

type Config struct {
	App      AppCfg      `mapstructure:"app"`
	Mongo    MongoCfg    `mapstructure:"mongo"`
	Redis    RedisCfg    `mapstructure:"redis"`
	JWT      JWTCfg      `mapstructure:"jwt"`
	Security SecurityCfg `mapstructure:"security"`
	Mailer   MailerCfg   `mapstructure:"mailer"`

	// Derived
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	IdleTimeout         time.Duration
	AccessTTL           time.Duration
	ResetTTL            time.Duration
	MongoConnectTimeout time.Duration
	RedisConnectTimeout time.Duration
}

// Load reads config.yaml and applies environment overrides. A .env file is
// honoured when present so local runs do not need exported variables.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.read_timeout_seconds", 15)
	v.SetDefault("app.write_timeout_seconds", 15)
	v.SetDefault("app.idle_timeout_seconds", 60)
	v.SetDefault("mongo.connect_timeout_seconds", 15)
	v.SetDefault("redis.connect_timeout_seconds", 5)
	v.SetDefault("jwt.access_ttl_minutes", 60*24)
	v.SetDefault("security.reset_token_ttl_minutes", 10)
	v.SetDefault("security.forgot_password_per_hour", 5)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	for key, env := range map[string]string{
		"app.env":           "APP_ENV",
		"app.port":          "APP_PORT",
		"mongo.uri":         "MONGO_URI",
		"mongo.database":    "MONGO_DB",
		"redis.addr":        "REDIS_ADDR",
		"redis.password":    "REDIS_PASSWORD",
		"jwt.secret":        "JWT_SECRET",
		"mailer.api_key":    "MAILER_API_KEY",
		"mailer.from_email": "MAILER_FROM_EMAIL",
		"mailer.from_name":  "MAILER_FROM_NAME",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required (set in .env or config.yaml)")
	}
	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.Mongo.Database == "" {
		return nil, errors.New("MONGO_DB is required")
	}

	cfg.ReadTimeout = time.Duration(cfg.App.ReadTimeoutSeconds) * time.Second
	cfg.WriteTimeout = time.Duration(cfg.App.WriteTimeoutSeconds) * time.Second
	cfg.IdleTimeout = time.Duration(cfg.App.IdleTimeoutSeconds) * time.Second
	cfg.AccessTTL = time.Duration(cfg.JWT.AccessTTLMinutes) * time.Minute
	cfg.ResetTTL = time.Duration(cfg.Security.ResetTokenTTLMinutes) * time.Minute
	cfg.MongoConnectTimeout = time.Duration(cfg.Mongo.ConnectTimeoutSeconds) * time.Second
	cfg.RedisConnectTimeout = time.Duration(cfg.Redis.ConnectTimeoutSeconds) * time.Second

	return cfg, nil
}
