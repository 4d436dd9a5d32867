package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// TokenEnv is the environment variable holding the GitHub token
const TokenEnv = "GITHUB_TOKEN"

// Config represents the ghdeclare configuration
type Config struct {
	GitHub GitHubConfig `yaml:"github"`
}

// GitHubConfig represents GitHub-specific configuration
type GitHubConfig struct {
	Token string `yaml:"token,omitempty"`
	// URL overrides the API endpoint, e.g. for GitHub Enterprise Server.
	URL     string `yaml:"url,omitempty"`
	PerPage int    `yaml:"per_page,omitempty"`
}

// LoadConfig loads configuration from the default location
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFromPath(configPath)
}

// LoadConfigFromPath loads configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to the default location
func (c *Config) SaveConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveConfigToPath(configPath)
}

// SaveConfigToPath saves configuration to a specific path. The file may
// hold a token, so it is written owner-readable only.
func (c *Config) SaveConfigToPath(path string) error {
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".ghdeclare", "config.yaml"), nil
}

// ResolveToken picks the token to authenticate with. An explicit value wins,
// then GITHUB_TOKEN (a .env file in the working directory is loaded first),
// then the config file.
func (c *Config) ResolveToken(explicit string) string {
	if explicit != "" {
		return explicit
	}

	// A missing .env file is not an error.
	_ = godotenv.Load()
	if token := os.Getenv(TokenEnv); token != "" {
		return token
	}

	return c.GitHub.Token
}

// Validate checks the values read from the config file. Unset values are
// valid; the token is not required here because flags and the environment
// can supply it.
func (c *Config) Validate() error {
	if c.GitHub.PerPage < 0 || c.GitHub.PerPage > 100 {
		return fmt.Errorf("github.per_page must be between 1 and 100, got %d", c.GitHub.PerPage)
	}
	if c.GitHub.URL != "" {
		u, err := url.Parse(c.GitHub.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("github.url must be an http(s) URL, got %q", c.GitHub.URL)
		}
	}
	return nil
}
