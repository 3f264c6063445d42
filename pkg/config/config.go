// Package config loads the yaml configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// APIConfig configures the HTTP drive API backend and its OAuth flow.
type APIConfig struct {
	BaseURL      string   `yaml:"baseurl"`
	ClientID     string   `yaml:"clientid"`
	ClientSecret string   `yaml:"clientsecret"`
	AuthURL      string   `yaml:"authurl"`
	TokenURL     string   `yaml:"tokenurl"`
	RedirectURL  string   `yaml:"redirecturl"`
	Scopes       []string `yaml:"scopes"`
}

// S3Config configures the S3 backend.
type S3Config struct {
	Endpoint      string `yaml:"s3endpoint"`
	AccessKey     string `yaml:"accesskey"`
	SecretKey     string `yaml:"secretkey"`
	Region        string `yaml:"s3region"`
	SsoAwsProfile string `yaml:"ssoawsprofile"`
	SsoStartURL   string `yaml:"ssostarturl"`
	Bucket        string `yaml:"bucket"`
	Prefix        string `yaml:"prefix"`
}

// Config is the struct for the configuration.
type Config struct {
	RecordID   string `yaml:"recordid"`
	ObjectType string `yaml:"objecttype"`
	// Backend selects the remote store implementation: "api" or "s3".
	Backend    string `yaml:"backend"`
	ListenAddr string `yaml:"listenaddr"`
	LogLevel   string `yaml:"loglevel"`

	// SearchDebounceMs is the search quiet window; 0 means the default.
	SearchDebounceMs int `yaml:"searchdebouncems"`
	// TokenCheckCron re-validates the token in the background when set,
	// e.g. "@every 15m".
	TokenCheckCron string `yaml:"tokencheckcron"`

	EnableUpload       bool `yaml:"enableupload"`
	EnableDelete       bool `yaml:"enabledelete"`
	EnableCreateFolder bool `yaml:"enablecreatefolder"`

	API APIConfig `yaml:"api"`
	S3  S3Config  `yaml:"s3"`
}

// ReadYamlCnxFile reads a yaml file and returns a Config struct.
func ReadYamlCnxFile(filename string) (Config, error) {
	var config Config

	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return config, fmt.Errorf("error reading YAML file: %w", err)
	}

	if err = yaml.Unmarshal(yamlFile, &config); err != nil {
		return config, fmt.Errorf("error parsing YAML file: %w", err)
	}
	return config, nil
}
