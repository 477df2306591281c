package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tristendillon/realias/core/logger"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = "realias.yaml"

type Config struct {
	Extensions      []string          `yaml:"extensions"`
	NativeExt       string            `yaml:"native_ext"`
	PassThroughExts []string          `yaml:"passthrough_exts"`
	Exclude         []string          `yaml:"exclude"`
	Recursive       bool              `yaml:"recursive"`
	Aliases         map[string]string `yaml:"aliases"`
	Watch           Watch             `yaml:"watch"`
	Cache           Cache             `yaml:"cache"`
}

type Watch struct {
	DebounceMs int `yaml:"debounce_ms"`
}

type Cache struct {
	Enabled bool `yaml:"enabled"`
}

func Default() *Config {
	return &Config{
		Extensions:      []string{"js"},
		NativeExt:       ".js",
		PassThroughExts: []string{".json"},
		Exclude: []string{
			".git", "node_modules", "vendor", ".next",
			"build", "dist", "__pycache__", ".DS_Store",
		},
		Recursive: true,
		Watch:     Watch{DebounceMs: 500},
		Cache:     Cache{Enabled: true},
	}
}

// Load reads realias.yaml from the working directory. Keys absent from the
// file keep their Default() values; a missing file is not an error.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working dir: %w", err)
	}

	paths := []string{
		filepath.Join(wd, FileName),
	}

	var filePath string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			filePath = p
			break
		}
	}

	if filePath == "" {
		logger.Debug("No config file found, using default config")
		return Default(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	logger.Debug("Config file found: %s", filePath)
	logger.Debug("Config: %+v", cfg)

	return cfg, nil
}

// Save writes the config in YAML form, used by `realias init`.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// AliasPairs renders the configured aliases as raw "alias replacement"
// pairs, the same shape the --alias flag takes. Sorted so runs are
// deterministic regardless of map order.
func (c *Config) AliasPairs() []string {
	pairs := make([]string, 0, len(c.Aliases))
	for aliasName, replacement := range c.Aliases {
		pairs = append(pairs, aliasName+" "+replacement)
	}
	sort.Strings(pairs)
	return pairs
}
