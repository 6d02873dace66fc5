package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			Password string `mapstructure:"password"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	JWT       JWTConfig     `mapstructure:"jwt"`
	Captcha   CaptchaConfig `mapstructure:"captcha"`
	RateLimit struct {
		AuthRequests int           `mapstructure:"authRequests"`
		AuthWindow   time.Duration `mapstructure:"authWindow"`
	} `mapstructure:"rateLimit"`
}

// JWTConfig holds the identity token settings. SecretKey comes from the
// JWT_SECRET_KEY environment variable, never from the committed config file.
type JWTConfig struct {
	SecretKey string        `mapstructure:"secretKey"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`
	Issuer    string        `mapstructure:"issuer"`
}

type CaptchaConfig struct {
	TTL    time.Duration `mapstructure:"ttl"`
	Width  int           `mapstructure:"width"`
	Height int           `mapstructure:"height"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Secrets are environment-only.
	v.AutomaticEnv()
	if err := v.BindEnv("jwt.secretKey", "JWT_SECRET_KEY"); err != nil {
		return Config{}, fmt.Errorf("failed to bind JWT_SECRET_KEY: %w", err)
	}
	if err := v.BindEnv("repositories.postgres.password", "POSTGRES_PASSWORD"); err != nil {
		return Config{}, fmt.Errorf("failed to bind POSTGRES_PASSWORD: %w", err)
	}

	// Try to load file-based config, falling back to the embedded one.
	if err := v.ReadInConfig(); err != nil {
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if config.JWT.SecretKey == "" {
		return Config{}, fmt.Errorf("JWT_SECRET_KEY is not set")
	}
	return config, nil
}
