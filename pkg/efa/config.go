package efa

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/travigo/rtmonitor/pkg/util"
	"gopkg.in/yaml.v3"
)

const defaultBaseURL = "https://www.efa-bw.de/rtMonitor"

// Config is the process wide EFA configuration. Clients take a copy on
// construction and never change it afterwards.
type Config struct {
	BaseURL       string `yaml:"baseUrl"`
	DefaultParams Params `yaml:"defaultParams"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL: defaultBaseURL,
		DefaultParams: Params{
			"mode":                 "direct",
			"stateless":            1,
			"sRaLP":                1,
			"locationServerActive": 1,
			"outputFormat":         "json",
		},
	}
}

// LoadConfig starts from DefaultConfig, overlays the YAML file at path (if
// any) and finally the RTMONITOR_EFA_BASE_URL environment variable.
// Default params from the file are merged key by key over the built-in ones.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		configYaml, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("failed to read config file: %w", err)
		}

		var fileConfig Config
		if err := yaml.Unmarshal(configYaml, &fileConfig); err != nil {
			return config, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}

		if fileConfig.BaseURL != "" {
			config.BaseURL = fileConfig.BaseURL
		}
		config.DefaultParams = config.DefaultParams.Merge(fileConfig.DefaultParams)

		log.Debug().Str("path", path).Msg("Loaded EFA config file")
	}

	env := util.GetEnvironmentVariables()

	if env["RTMONITOR_EFA_BASE_URL"] != "" {
		config.BaseURL = env["RTMONITOR_EFA_BASE_URL"]
	}

	return config, nil
}

func (c Config) clone() Config {
	return Config{
		BaseURL:       c.BaseURL,
		DefaultParams: c.DefaultParams.Clone(),
	}
}
