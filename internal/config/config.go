// Package config loads lorcctl/lorcshell configuration from layered JSONC
// files, following the same precedence and hujson-standardization
// approach as the rest of this module's tooling.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/jerry-gk/lorckv/pkg/lorc"
)

// ConfigFileName is the default project-local config file name.
const ConfigFileName = ".lorc.json"

// Config holds the cache options a CLI tool constructs a [lorc.Cache]
// from.
type Config struct {
	CapacityBytes   int64  `json:"capacity_bytes"`   //nolint:tagliatelle
	Layout          string `json:"layout"`           // "vec" or "continuous"
	LogLevel        string `json:"log_level"`        //nolint:tagliatelle
	ReleaseQueueLen int    `json:"release_queue_len"` //nolint:tagliatelle
}

// Default returns the built-in defaults, used before any config file or
// CLI flag is applied.
func Default() Config {
	return Config{
		CapacityBytes:   64 << 20,
		Layout:          "vec",
		LogLevel:        "warn",
		ReleaseQueueLen: 16,
	}
}

// Sources records which config files contributed to the final Config, for
// diagnostic printing.
type Sources struct {
	Global  string
	Project string
}

// Load applies, in ascending precedence: built-in defaults, the global
// user config, the project config (or an explicit path override), and
// finally cliOverride's non-zero fields.
func Load(workDir, explicitPath string, cliOverride Config, env []string) (Config, Sources, error) {
	cfg := Default()

	var sources Sources

	globalCfg, globalPath, err := loadGlobal(env)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Global = globalPath
	cfg = merge(cfg, globalCfg)

	projectCfg, projectPath, err := loadProject(workDir, explicitPath)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Project = projectPath
	cfg = merge(cfg, projectCfg)
	cfg = merge(cfg, cliOverride)

	if err := validate(cfg); err != nil {
		return Config{}, Sources{}, err
	}

	return cfg, sources, nil
}

func loadGlobal(env []string) (Config, string, error) {
	path := globalConfigPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadFile(path)
	if err != nil || !loaded {
		return Config{}, "", err
	}

	return cfg, path, nil
}

func loadProject(workDir, explicitPath string) (Config, string, error) {
	path := explicitPath
	if path == "" {
		path = filepath.Join(workDir, ConfigFileName)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	cfg, loaded, err := loadFile(path)
	if err != nil {
		return Config{}, "", err
	}

	if explicitPath != "" && !loaded {
		return Config{}, "", fmt.Errorf("lorc: config file not found: %s", explicitPath)
	}

	if !loaded {
		return Config{}, "", nil
	}

	return cfg, path, nil
}

func loadFile(path string) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("lorc: read config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("lorc: invalid JSONC in %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("lorc: invalid JSON in %s: %w", path, err)
	}

	return cfg, true, nil
}

func globalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "lorcctl", "config.json")
		}
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lorcctl", "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "lorcctl", "config.json")
}

func merge(base, overlay Config) Config {
	if overlay.CapacityBytes != 0 {
		base.CapacityBytes = overlay.CapacityBytes
	}

	if overlay.Layout != "" {
		base.Layout = overlay.Layout
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	if overlay.ReleaseQueueLen != 0 {
		base.ReleaseQueueLen = overlay.ReleaseQueueLen
	}

	return base
}

func validate(cfg Config) error {
	switch cfg.Layout {
	case "vec", "continuous":
	default:
		return fmt.Errorf("lorc: invalid layout %q, want \"vec\" or \"continuous\"", cfg.Layout)
	}

	switch cfg.LogLevel {
	case "none", "error", "warn", "info", "debug":
	default:
		return fmt.Errorf("lorc: invalid log_level %q", cfg.LogLevel)
	}

	return nil
}

// Options converts the loaded Config into [lorc.Options].
func (c Config) Options() lorc.Options {
	layout := lorc.LayoutVec
	if c.Layout == "continuous" {
		layout = lorc.LayoutContinuous
	}

	levels := map[string]lorc.LogLevel{
		"none": lorc.LogLevelNone, "error": lorc.LogLevelError,
		"warn": lorc.LogLevelWarn, "info": lorc.LogLevelInfo, "debug": lorc.LogLevelDebug,
	}

	return lorc.Options{
		CapacityBytes:   c.CapacityBytes,
		Layout:          layout,
		LogLevel:        levels[c.LogLevel],
		ReleaseQueueLen: c.ReleaseQueueLen,
	}
}

// Format returns cfg as indented JSON, for a `print-config` style command.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("lorc: format config: %w", err)
	}

	return string(data), nil
}
