// Package config resolves telnetkit's on-disk configuration directory
// and loads the YAML configuration cmd/telnetd reads at startup.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the telnetkit configuration directory.
// Respects XDG_CONFIG_HOME on Unix, APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "telnetkit")
}

// DefaultFile returns the path to the default telnetd.yml config file.
func DefaultFile() string {
	return filepath.Join(Dir(), "telnetd.yml")
}
