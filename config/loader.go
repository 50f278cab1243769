package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root of a telnetd YAML configuration file.
type Config struct {
	LoadedFiles []string       `yaml:"-"`
	Include     []string       `yaml:"include"`
	Debug       bool           `yaml:"debug"`
	HotReload   bool           `yaml:"hotReload"`
	Loggers     []LoggerConfig `yaml:"loggers"`
	Listener    ListenerConfig `yaml:"listener"`
	Engine      EngineConfig   `yaml:"engine"`
}

// LoggerConfig is one slog/tint sink, handed straight to
// logging.SinkConfig once loaded.
type LoggerConfig struct {
	Stdout     bool   `yaml:"stdout,omitempty"`
	File       string `yaml:"file,omitempty"`
	Level      string `yaml:"level"`
	Source     bool   `yaml:"source"`
	HideTime   bool   `yaml:"hideTime,omitempty"`
	TimeFormat string `yaml:"timeFormat,omitempty"`
}

// ListenerConfig configures the socket telnetd binds. telnetd listens on
// plain TCP at Addr; it does not read TLS, CertPEM or KeyPEM.
type ListenerConfig struct {
	Addr    string `yaml:"addr"`
	TLS     bool   `yaml:"tls"`
	CertPEM string `yaml:"certPEM,omitempty"`
	KeyPEM  string `yaml:"keyPEM,omitempty"`
}

// EngineConfig maps onto telnet.Config, the negotiation-engine knobs.
type EngineConfig struct {
	Encoding       string        `yaml:"encoding"`
	ForceBinary    bool          `yaml:"forceBinary"`
	ConnectMinWait time.Duration `yaml:"connectMinWait"`
	ConnectMaxWait time.Duration `yaml:"connectMaxWait"`
	ConnectTimeout time.Duration `yaml:"connectTimeout"`
	Term           string        `yaml:"term"`
	Speed          string        `yaml:"speed"`
	SendEnviron    []string      `yaml:"sendEnviron,omitempty"`
	NeverSendGA    bool          `yaml:"neverSendGA"`
}

// Load reads filename and any files it includes, applying includes
// before the including file so the latter's values win, the same order
// internal/config/loader.go's loadRecursive uses.
func Load(filename string) (*Config, error) {
	cfg := &Config{LoadedFiles: []string{}}
	processed := make(map[string]bool)
	if err := loadRecursive(filename, cfg, processed); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadRecursive(filename string, cfg *Config, processed map[string]bool) error {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	if processed[absPath] {
		return nil
	}
	processed[absPath] = true
	cfg.LoadedFiles = append(cfg.LoadedFiles, absPath)

	data, err := os.ReadFile(absPath)
	if err != nil {
		return err
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	var includes struct {
		Include []string `yaml:"include"`
	}
	if err := yaml.Unmarshal(expanded, &includes); err != nil {
		return err
	}

	baseDir := filepath.Dir(absPath)
	for _, includePath := range includes.Include {
		fullPath := includePath
		if !filepath.IsAbs(includePath) {
			fullPath = filepath.Join(baseDir, includePath)
		}
		if err := loadRecursive(fullPath, cfg, processed); err != nil {
			return fmt.Errorf("failed to load included config %s: %w", fullPath, err)
		}
	}

	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return err
	}

	return nil
}

// Default returns the configuration telnetd falls back to when no
// file is found, mirroring telnet.DefaultConfig's documented defaults.
func Default() *Config {
	return &Config{
		Loggers: []LoggerConfig{{Stdout: true, Level: "info"}},
		Listener: ListenerConfig{
			Addr: ":2323",
		},
		Engine: EngineConfig{
			Encoding:       "UTF-8",
			ConnectMaxWait: 2 * time.Second,
			ConnectTimeout: 10 * time.Second,
			Term:           "ansi",
		},
	}
}
