package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "HBNB_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "hbnb.yaml"
	// ConfigDirName is the directory under XDG and /etc
	ConfigDirName = "hbnb"
)

// searchPaths lists every place a config file may live, highest priority
// first. Unset environment variables contribute nothing.
func searchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		paths = append(paths, abs)
	} else {
		paths = append(paths, ConfigFileName)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing file from searchPaths, or ""
// when there is none
func FindConfigPath() string {
	for _, p := range searchPaths() {
		if isFile(p) {
			return p
		}
	}
	return ""
}

// EnsureConfigDir creates the parent directory of configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
