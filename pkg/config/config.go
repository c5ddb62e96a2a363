/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/scryptd/pkg/client"
	"github.com/ssargent/scryptd/pkg/dispatch"
)

// Config represents the scryptd configuration
type Config struct {
	MinWorkers         int      `json:"minWorkers" yaml:"minWorkers" validate:"min=0"`
	MaxWorkers         int      `json:"maxWorkers" yaml:"maxWorkers" validate:"min=-1,ne=0"`
	LogPath            string   `json:"logPath" yaml:"logPath"`
	LogLevel           string   `json:"logLevel" yaml:"logLevel"`
	IP                 string   `json:"ip" yaml:"ip" validate:"omitempty,ip|hostname_rfc1123"`
	Port               int      `json:"port" yaml:"port" validate:"min=1,max=65535"`
	CertificatePath    string   `json:"certificatePath" yaml:"certificatePath" validate:"required_with=CertificateKeyPath"`
	CertificateKeyPath string   `json:"certificateKeyPath" yaml:"certificateKeyPath" validate:"required_with=CertificatePath"`
	AllowedOrigins     []string `json:"allowedOrigins" yaml:"allowedOrigins"`
	Metrics            bool     `json:"metrics" yaml:"metrics"`
	Client             Client   `json:"client" yaml:"client"`
}

// Client contains settings for the hash and compare commands
type Client struct {
	Endpoint        string   `json:"endpoint" yaml:"endpoint" validate:"omitempty,url"`
	FallbackWorkers int      `json:"fallbackWorkers" yaml:"fallbackWorkers" validate:"min=-1"`
	ConnectTimeout  Duration `json:"connectTimeout" yaml:"connectTimeout" validate:"min=0"`
	HeaderTimeout   Duration `json:"headerTimeout" yaml:"headerTimeout" validate:"min=0"`
	BodyTimeout     Duration `json:"bodyTimeout" yaml:"bodyTimeout" validate:"min=0"`
}

// Duration is a time.Duration written as a string such as "5s"
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		MinWorkers: 0,
		MaxWorkers: dispatch.AutoWorkers,
		LogLevel:   "info",
		IP:         "127.0.0.1",
		Port:       8080,
		Client: Client{
			FallbackWorkers: dispatch.AutoWorkers,
			ConnectTimeout:  Duration(client.DefaultConnectTimeout),
			HeaderTimeout:   Duration(client.DefaultHeaderTimeout),
			BodyTimeout:     Duration(client.DefaultBodyTimeout),
		},
	}
}

// LoadConfig loads configuration from the specified path over the defaults.
// JSON files are read with encoding/json, anything else as YAML.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if isJSON(configPath, data) {
		err = json.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func isJSON(path string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return true
	}
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
}

// SaveConfig saves the configuration as JSON with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes the default configuration to configPath
func BootstrapConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}
	return config, nil
}

// Validate checks the server and client settings
func (c *Config) Validate() error {
	return NewValidator().Validate(c)
}

// TLSEnabled reports whether the server should serve HTTPS
func (c *Config) TLSEnabled() bool {
	return c.CertificatePath != "" && c.CertificateKeyPath != ""
}

// DispatchConfig returns the worker pool settings
func (c *Config) DispatchConfig() dispatch.Config {
	return dispatch.Config{
		MinWorkers: c.MinWorkers,
		MaxWorkers: c.MaxWorkers,
	}
}

// ClientConfig returns the client settings
func (c *Config) ClientConfig() client.Config {
	cc := client.DefaultConfig(c.Client.Endpoint)
	cc.FallbackWorkers = c.Client.FallbackWorkers
	cc.ConnectTimeout = time.Duration(c.Client.ConnectTimeout)
	cc.HeaderTimeout = time.Duration(c.Client.HeaderTimeout)
	cc.BodyTimeout = time.Duration(c.Client.BodyTimeout)
	return cc
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./scryptd.json"
	}

	// For Linux/macOS, use ~/.config/scryptd/config.json
	configDir := filepath.Join(homeDir, ".config", "scryptd")
	return filepath.Join(configDir, "config.json")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
