package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/WeSpitfire/flux-cli-sub002/pkg/filesystem"
)

const (
	// ApprovalInteractive asks the interaction surface before each commit.
	ApprovalInteractive = "interactive"
	// ApprovalAuto approves every change; used for batch/trusted execution.
	ApprovalAuto = "auto"
)

// Config holds the run-scoped settings for the mutation pipeline.
type Config struct {
	ApprovalMode      string `json:"approval_mode"`
	RetentionLimit    int    `json:"retention_limit"`     // max ledger entries kept per project scope
	MaxSyntaxAttempts int    `json:"max_syntax_attempts"` // retry ceiling for validation failures
	MaxIOAttempts     int    `json:"max_io_attempts"`     // retry ceiling for write/read failures
	JsonLogs          bool   `json:"json_logs"`
	DryRun            bool   `json:"-"` // command-scoped, never persisted
	SkipPrompt        bool   `json:"-"` // internal shortcut for --auto flags
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		ApprovalMode:      ApprovalInteractive,
		RetentionLimit:    20,
		MaxSyntaxAttempts: 3,
		MaxIOAttempts:     2,
	}
}

func localConfigPath(root string) string {
	return filepath.Join(root, ".flux", "config.json")
}

func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flux", "config.json")
}

// Load reads the project config, falling back to the home config and then
// to defaults. Missing files are not an error.
func Load(root string) (*Config, error) {
	for _, path := range []string{localConfigPath(root), homeConfigPath()} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		cfg := Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.normalize()
		return cfg, nil
	}
	return Default(), nil
}

// Save writes the config to the project-local path.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := filesystem.WriteFileWithDir(localConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	if c.ApprovalMode != ApprovalAuto {
		c.ApprovalMode = ApprovalInteractive
	}
	if c.RetentionLimit <= 0 {
		c.RetentionLimit = 20
	}
	if c.MaxSyntaxAttempts <= 0 {
		c.MaxSyntaxAttempts = 3
	}
	if c.MaxIOAttempts <= 0 {
		c.MaxIOAttempts = 2
	}
}
