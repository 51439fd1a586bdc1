package appconfig

import (
	"os"
	"path/filepath"
)

func ConfigBasePath() string {
	homedir, err := os.UserHomeDir()
	if err != nil {
		// no home on weird systems; fall back to a system-wide location
		homedir = "/usr/local/config/camship"
	}

	return filepath.Join(homedir, ".config", "camship")
}

func StateDBFile() string {
	return filepath.Join(ConfigBasePath(), "state.db")
}
