package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for a context compilation run.
// Values are populated from .forge-context.yaml, FORGE_* env vars, and CLI flags.
type Config struct {
	ProjectDir    string `mapstructure:"project_dir"`
	ExtractModel  string `mapstructure:"extract_model"`
	ClaudePath    string `mapstructure:"claude_path"`
	Workers       int    `mapstructure:"workers"`
	CachePath     string `mapstructure:"cache_path"`
	TelemetryPath string `mapstructure:"telemetry_path"`
	Verbose       bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("project_dir", ".")
	viper.SetDefault("extract_model", "haiku")
	viper.SetDefault("claude_path", "claude")
	viper.SetDefault("workers", 4)
	viper.SetDefault("cache_path", filepath.Join(".forge", "context-cache.db"))
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

// Paths resolves the project-relative locations the compiler reads from and
// writes to. Every component receives Paths explicitly.
func (c Config) Paths() (Paths, error) {
	root, err := filepath.Abs(c.ProjectDir)
	if err != nil {
		return Paths{}, fmt.Errorf("config: resolve project dir %q: %w", c.ProjectDir, err)
	}
	return NewPaths(root), nil
}

// ResolveProjectPath anchors a possibly relative path (cache, telemetry) at
// the project root.
func (c Config) ResolveProjectPath(p Paths, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}

// credentialEnvVars lists the environment variables whose presence enables
// the LLM extraction pass.
var credentialEnvVars = []string{
	"ANTHROPIC_API_KEY",
	"OPENAI_API_KEY",
}

// HasExtractionCredential reports whether any extraction credential is set.
func HasExtractionCredential() bool {
	for _, key := range credentialEnvVars {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}
