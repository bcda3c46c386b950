package cmd

import (
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	URL      string `json:"url" yaml:"url"`           // Root URL of the feature service
	Token    string `json:"token" yaml:"token"`       // Bearer token presented to the service
	LogLevel string `json:"loglevel" yaml:"loglevel"` // Logging verbosity
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// setGeomonParams fills flags left unset from the config file
func (c *CLIConfig) setGeomonParams(flags *flagsT) {
	if flags.root.url == "" {
		flags.root.url = c.URL
	}
	if flags.root.token == "" {
		flags.root.token = c.Token
	}
	if flags.root.logLevel == "" {
		flags.root.logLevel = c.LogLevel
	}
}
