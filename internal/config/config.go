package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Config represents the vigil configuration.
type Config struct {
	OrganizationURL string        `json:"organizationUrl"`
	Project         string        `json:"project"`
	Repository      string        `json:"repository"`
	Format          string        `json:"format"`
	FailOn          string        `json:"failOn"`
	Include         []string      `json:"include"`
	Exclude         []string      `json:"exclude"`
	RulesFile       string        `json:"rulesFile,omitempty"`
	Server          ServerConfig  `json:"server"`
	HTTP            HTTPConfig    `json:"http"`
	Cache           CacheConfig   `json:"cache"`
	Privacy         PrivacyConfig `json:"privacy"`
	Log             LogConfig     `json:"log"`
}

// ServerConfig controls the webhook server. The shared secret itself is
// never stored here; it comes from the VIGIL_WEBHOOK_SECRET environment
// variable. AuthHeader names the request header the secret arrives in.
type ServerConfig struct {
	Addr       string `json:"addr"`
	AuthHeader string `json:"authHeader"`
}

// HTTPConfig controls the Azure DevOps HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int `json:"timeoutSeconds"`
}

// CacheConfig controls content caching behavior.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls privacy/redaction behavior.
type PrivacyConfig struct {
	RedactSecrets bool     `json:"redactSecrets"`
	RedactPaths   []string `json:"redactPaths,omitempty"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `json:"level"`
	JSON  bool   `json:"json"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Format:  "markdown",
		FailOn:  "none",
		Include: []string{"**/*"},
		Exclude: []string{"vendor/**", "node_modules/**", "**/*.min.js", "**/dist/**"},
		Server: ServerConfig{
			Addr:       ":8080",
			AuthHeader: "X-Vigil-Token",
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
		Log: LogConfig{
			Level: "info",
			JSON:  true,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for vigil.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vigil"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "vigil"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "vigil"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "vigil"), nil
	default:
		return filepath.Join(home, ".config", "vigil"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.OrganizationURL != "" {
		dst.OrganizationURL = src.OrganizationURL
	}
	if src.Project != "" {
		dst.Project = src.Project
	}
	if src.Repository != "" {
		dst.Repository = src.Repository
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.FailOn != "" {
		dst.FailOn = src.FailOn
	}
	if len(src.Include) > 0 {
		dst.Include = src.Include
	}
	if len(src.Exclude) > 0 {
		dst.Exclude = src.Exclude
	}
	if src.RulesFile != "" {
		dst.RulesFile = src.RulesFile
	}
	if src.Server.Addr != "" {
		dst.Server.Addr = src.Server.Addr
	}
	if src.Server.AuthHeader != "" {
		dst.Server.AuthHeader = src.Server.AuthHeader
	}
	if src.HTTP.TimeoutSeconds > 0 {
		dst.HTTP.TimeoutSeconds = src.HTTP.TimeoutSeconds
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	// Bool fields from file: only override if the file explicitly set them
	// Since JSON zero value for bool is false, we can't distinguish unset from false
	// in a simple merge. We'll trust the file value if the whole struct was loaded.
	dst.Cache.Enabled = src.Cache.Enabled || dst.Cache.Enabled
	if len(src.Privacy.RedactPaths) > 0 {
		dst.Privacy.RedactPaths = src.Privacy.RedactPaths
	}
	if src.Log.Level != "" {
		dst.Log.Level = src.Log.Level
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("VIGIL_ORG_URL"); v != "" {
		cfg.OrganizationURL = v
	}
	if v := os.Getenv("VIGIL_PROJECT"); v != "" {
		cfg.Project = v
	}
	if v := os.Getenv("VIGIL_REPO"); v != "" {
		cfg.Repository = v
	}
	if v := os.Getenv("VIGIL_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("VIGIL_FAIL_ON"); v != "" {
		cfg.FailOn = v
	}
	if v := os.Getenv("VIGIL_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("VIGIL_RULES_FILE"); v != "" {
		cfg.RulesFile = v
	}
	if v := os.Getenv("VIGIL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["organizationUrl"]; ok && v != "" {
		cfg.OrganizationURL = v
	}
	if v, ok := overrides["project"]; ok && v != "" {
		cfg.Project = v
	}
	if v, ok := overrides["repository"]; ok && v != "" {
		cfg.Repository = v
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["failOn"]; ok && v != "" {
		cfg.FailOn = v
	}
	if v, ok := overrides["rulesFile"]; ok && v != "" {
		cfg.RulesFile = v
	}
	if v, ok := overrides["addr"]; ok && v != "" {
		cfg.Server.Addr = v
	}
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "organizationUrl":
		cfg.OrganizationURL = value
	case "project":
		cfg.Project = value
	case "repository":
		cfg.Repository = value
	case "format":
		cfg.Format = value
	case "failOn":
		cfg.FailOn = value
	case "rulesFile":
		cfg.RulesFile = value
	case "server.addr":
		cfg.Server.Addr = value
	case "server.authHeader":
		cfg.Server.AuthHeader = value
	case "http.timeoutSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("http.timeoutSeconds must be an integer: %w", err)
		}
		cfg.HTTP.TimeoutSeconds = n
	case "cache.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cache.ttlSeconds must be an integer: %w", err)
		}
		cfg.Cache.TTLSeconds = n
	case "log.level":
		cfg.Log.Level = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
