package config

import (
	"os"
	"path/filepath"
)

// homeDirName is the tool's directory under the user's home.
const homeDirName = ".kubeless-deploy"

// Paths contains standard filesystem paths.
type Paths struct {
	// ConfigFile is the path to the config file (~/.kubeless-deploy/config.yaml).
	ConfigFile string

	// HomeDir is the tool's home directory (~/.kubeless-deploy).
	HomeDir string
}

// DefaultPaths returns the default paths.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	home := filepath.Join(homeDir, homeDirName)

	return &Paths{
		ConfigFile: filepath.Join(home, "config.yaml"),
		HomeDir:    home,
	}, nil
}

// ExpandTilde expands a leading ~ or ~/ to the user's home directory.
// ~username forms are returned unchanged.
func ExpandTilde(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}
