package config

import (
	"os"
	"path"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"

	"github.com/openxc7/fasmout/log"
	"github.com/openxc7/fasmout/util"
)

// Config holds the user-level settings of the tool.
type Config struct {
	// WarningsAsErrors aborts emission on the first warning (e.g., an unprocessed route-thru).
	WarningsAsErrors bool `yaml:"warningsAsErrors"`
}

var config *Config

const configFileName string = "config.yaml"

func getConfigDir() (string, error) {
	if configDir, ok := os.LookupEnv("FASMOUT_CONFIG_DIR"); ok {
		return configDir, nil
	}

	if xdgConfigHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		return path.Join(xdgConfigHome, "fasmout"), nil
	}

	homeDir, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return path.Join(homeDir, ".config", "fasmout"), nil
}

func loadConfiguration() Config {
	var config Config

	configDir, err := getConfigDir()
	if err != nil {
		log.Debug("Unable to find the config directory. Using default configuration\n")
		return config
	}

	configFilePath := path.Join(configDir, configFileName)
	if !util.FileExists(configFilePath) {
		log.Debug("No configuration file at `%s`. Using default configuration\n", configFilePath)
		return config
	}
	err = yaml.Unmarshal(util.ReadFile(configFilePath), &config)
	if err != nil {
		log.Debug("Error reading configuration file at `%s`: `%s`. Using default configuration\n", configFilePath, err)
		return config
	}

	log.Debug("Loaded configuration from `%s`\n", configFilePath)
	log.Debug("Running with configuration: %+v\n", config)
	return config
}

// GetConfig returns the tool configuration, loading it on first use.
func GetConfig() Config {
	if config == nil {
		loadedConfig := loadConfiguration()
		config = &loadedConfig
	}

	return *config
}
