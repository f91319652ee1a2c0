// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Runtime modes.
const (
	ModeService = "service"
	ModeLambda  = "lambda"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Slack is a struct that contains the configuration for the Slack platform.
	Slack slack
	// Rewrite is a struct that contains the configuration for the AI rewrite step.
	Rewrite rewrite
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"service"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
}

type slack struct {
	// AuthMode selects the credentials provider. Supported values are 'env' and 'ssm'.
	AuthMode string `yaml:"authMode,omitempty" default:"env"`
	// SSMKey is the SSM parameter holding the Slack credentials when AuthMode is 'ssm'.
	SSMKey string `yaml:"ssmKey,omitempty"`
	// SigningSecret is the shared secret used to validate incoming slash-command payloads.
	SigningSecret string `yaml:"signingSecret,omitempty"`
	// BotToken is the bot user OAuth token used for outbound Web API calls.
	BotToken string `yaml:"botToken,omitempty"`
	// RelayChannel is the channel anonymous messages are relayed to.
	RelayChannel string `yaml:"relayChannel,omitempty"`
	// APIBaseURL is the base URL of the Slack Web API.
	APIBaseURL string `yaml:"apiBaseUrl,omitempty" default:"https://slack.com"`
}

type rewrite struct {
	// Enabled toggles the AI rewrite and commentary step.
	Enabled bool `yaml:"enabled,omitempty" default:"true"`
	// APIKey authenticates against the rewrite backend. Rewriting is skipped when empty.
	APIKey string `yaml:"apiKey,omitempty"`
	// BaseURL is the base URL of the OpenAI-compatible chat completions API.
	BaseURL string `yaml:"baseUrl,omitempty" default:"https://api.openai.com/v1"`
	// Model is the model used for rewriting.
	Model string `yaml:"model,omitempty" default:"gpt-4o-mini"`
	// Timeout bounds a single rewrite call.
	Timeout time.Duration `yaml:"timeout,omitempty" default:"20s"`
}

type service struct {
	Path    string        `yaml:"path,omitempty" default:"/slack/command"`
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"8080"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"5s"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Slack),
		defaults.Set(&Rewrite),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global  global  `yaml:"global,omitempty"`
		Slack   slack   `yaml:"slack,omitempty"`
		Rewrite rewrite `yaml:"rewrite,omitempty"`
		Service service `yaml:"service,omitempty"`
		Lambda  lambda  `yaml:"lambda,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	Slack = a.Slack
	Rewrite = a.Rewrite
	Service = a.Service
	Lambda = a.Lambda

	return nil
}
