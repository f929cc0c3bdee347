package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// envPattern matches $VAR or ${VAR}.
var envPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// Config represents the indexrank configuration
type Config struct {
	// Cluster connection
	Endpoint       string `json:"endpoint"`
	Scheme         string `json:"scheme"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	CatPath        string `json:"cat_path"`
	TimeoutSeconds int    `json:"timeout_seconds"`

	// Window and snapshot
	Days         int    `json:"days"`
	SnapshotPath string `json:"snapshot_path"`

	// Report
	TopN          int     `json:"top_n"`
	TargetShardGB float64 `json:"target_shard_gb"`
	Format        string  `json:"format"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scheme:         "https",
		CatPath:        "/_cat/indices",
		TimeoutSeconds: 30,
		Days:           7,
		SnapshotPath:   "testdata/input.json",
		TopN:           5,
		TargetShardGB:  30,
		Format:         "text",
	}
}

// DefaultPath returns the config file location inside dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, ".indexrank", "config.json")
}

// Manager handles configuration loading and saving
type Manager struct {
	configPath string
	config     *Config
}

// NewManager creates a configuration manager for the file at path
func NewManager(path string) *Manager {
	return &Manager{
		configPath: path,
		config:     DefaultConfig(),
	}
}

// Path returns the config file location.
func (m *Manager) Path() string {
	return m.configPath
}

// Load reads the configuration from disk. A missing file leaves the defaults
// in place; fields absent from the file keep their default values.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}

	m.expandEnvVars(config)
	m.config = config
	return nil
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold cluster credentials.
	if err := os.WriteFile(m.configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	return m.config
}

// Keys lists the names accepted by Set.
func Keys() []string {
	return []string{
		"endpoint", "scheme", "username", "password", "cat_path", "timeout_seconds",
		"days", "snapshot_path", "top_n", "target_shard_gb", "format",
	}
}

// Set updates a configuration value and saves
func (m *Manager) Set(key, value string) error {
	switch key {
	case "endpoint":
		m.config.Endpoint = value
	case "scheme":
		if value != "http" && value != "https" {
			return fmt.Errorf("scheme must be http or https, got %q", value)
		}
		m.config.Scheme = value
	case "username":
		m.config.Username = value
	case "password":
		m.config.Password = value
	case "cat_path":
		m.config.CatPath = value
	case "snapshot_path":
		m.config.SnapshotPath = value
	case "format":
		m.config.Format = value
	case "timeout_seconds":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		m.config.TimeoutSeconds = n
	case "days":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		m.config.Days = n
	case "top_n":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		m.config.TopN = n
	case "target_shard_gb":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%s must be a positive number, got %q", key, value)
		}
		m.config.TargetShardGB = f
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return m.Save()
}

func parsePositive(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return n, nil
}

// expandEnvVars expands environment variables in string config values
func (m *Manager) expandEnvVars(config *Config) {
	config.Endpoint = expandString(config.Endpoint)
	config.Username = expandString(config.Username)
	config.Password = expandString(config.Password)
	config.SnapshotPath = expandString(config.SnapshotPath)
}

// expandString expands environment variables in a string
// Supports $VAR and ${VAR} syntax
func expandString(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		// Leave unknown variables untouched
		return match
	})
}
