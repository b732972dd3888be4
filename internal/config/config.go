package config

import (
	"errors"

	"github.com/kelseyhightower/envconfig"
)

type ServerEnv = string

var (
	DevEnv     ServerEnv = "dev"
	StagingEnv ServerEnv = "staging"
	ProdEnv    ServerEnv = "prod"
)

const (
	GENERAL_CONFIG_KEY   = "general-config"
	NETWORK_CONFIG_KEY   = "network-config"
	ROUTING_CONFIG_KEY   = "routing-config"
	EXECUTION_CONFIG_KEY = "execution-config"
	STORAGE_CONFIG_KEY   = "storage-config"
)

// Loadable is implemented by every config section.
type Loadable interface {
	Key() string
	Load() error
	Validate() error
}

var ErrInvalidConfig = errors.New("invalid config")

type GeneralConfig struct {
	HTTPPort string `envconfig:"HTTP_PORT"`
	HTTPHost string `envconfig:"HTTP_HOST"`
	Env      string `envconfig:"ENV"`
	LogLevel string `envconfig:"LOG_LEVEL"`
	// RateLimit is the number of requests per second allowed per client IP.
	RateLimit int `envconfig:"HTTP_RATE_LIMIT"`
}

func DefaultGeneralConfig() GeneralConfig {
	return GeneralConfig{
		HTTPPort:  "8080",
		HTTPHost:  "localhost",
		Env:       DevEnv,
		LogLevel:  "INFO",
		RateLimit: 100,
	}
}

func (gc *GeneralConfig) Key() string {
	return GENERAL_CONFIG_KEY
}

// Load overrides fields with any environment variables that are set.
func (gc *GeneralConfig) Load() error {
	if err := envconfig.Process("", gc); err != nil {
		return err
	}
	return gc.Validate()
}

func (gc *GeneralConfig) Validate() error {
	if gc.HTTPPort == "" || gc.HTTPHost == "" || gc.Env == "" {
		return errors.New("invalid server config")
	}
	if gc.RateLimit < 0 {
		return errors.New("invalid server config: negative rate limit")
	}
	return nil
}
