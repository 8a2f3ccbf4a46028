package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// JWTConfig carries the signing secret and lifetime policy for access
// tokens. The secret is supplied through the environment at process start
// and must never be logged.
type JWTConfig struct {
	SecretKey string        `mapstructure:"secretKey"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`
	Issuer    string        `mapstructure:"issuer"`
}

type Config struct {
	Mode         string `mapstructure:"mode"`
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
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	JWT   JWTConfig `mapstructure:"jwt"`
	Swapi struct {
		BaseURL string        `mapstructure:"baseURL"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"swapi"`
}

// InitConfig loads configuration from config.yml (working dir or config/),
// falling back to the embedded copy, then overlays environment variables for
// the values that should not live in a file.
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	// Secrets and deploy-specific values come from the environment, not the
	// checked-in file.
	v.MustBindEnv("jwt.secretKey", "JWT_SECRET")
	v.MustBindEnv("repositories.postgres.host", "DB_HOST")
	v.MustBindEnv("repositories.postgres.port", "DB_PORT")
	v.MustBindEnv("repositories.postgres.username", "DB_USER")
	v.MustBindEnv("repositories.postgres.password", "DB_PASSWORD")
	v.MustBindEnv("repositories.postgres.db", "DB_NAME")
	v.MustBindEnv("server.HTTPPort", "PORT")

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.JWT.SecretKey == "" {
		return Config{}, errors.New("JWT_SECRET is not set")
	}
	if config.JWT.TokenTTL <= 0 {
		config.JWT.TokenTTL = 24 * time.Hour
	}

	return config, nil
}
