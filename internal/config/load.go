package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// envOverrides maps environment variables onto secret config fields so a
// launch template can keep ciphertext out of the YAML file entirely.
var envOverrides = []struct {
	name  string
	apply func(*Config, string)
}{
	{"GATEWAYBOOT_REGISTRATION_CODE", func(c *Config, v string) { c.Registration.Code = v }},
	{"GATEWAYBOOT_AD_PASSWORD", func(c *Config, v string) { c.AD.Password = v }},
	{"GATEWAYBOOT_SERVICE_ACCOUNT", func(c *Config, v string) { c.API.ServiceAccount = v }},
}

// Load reads and parses the configuration from a YAML file, applies the
// bootstrap.env dotenv overlay from the same directory if one exists, then
// applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	// The overlay is loaded before the env overrides are read so that
	// cloud-init can deliver secrets through either mechanism.
	envFile := filepath.Join(filepath.Dir(path), "bootstrap.env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	for _, o := range envOverrides {
		if v := os.Getenv(o.name); v != "" {
			o.apply(&cfg, v)
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
