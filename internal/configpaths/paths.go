// Package configpaths resolves where padnav reads configuration and keeps
// state.
package configpaths

import (
	"os"
	"path/filepath"
	"strings"
)

const appDir = "padnav"

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDir), nil
}

// StateDir returns the directory for mutable state such as the persisted
// button snapshot.
func StateDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDir), nil
}

// ConfigCandidatePaths returns config file candidates per format, lowest
// priority first, plus the user-provided path slotted into the matching
// format list. Missing files are fine; kong skips them.
func ConfigCandidatePaths(userCfg string) (jsonPaths, yamlPaths, tomlPaths []string) {
	var dirs []string
	if cfgDir, err := DefaultConfigDir(); err == nil {
		dirs = append(dirs, cfgDir)
	}
	dirs = append(dirs, ".")

	for _, d := range dirs {
		jsonPaths = append(jsonPaths, filepath.Join(d, "padnav.json"))
		yamlPaths = append(yamlPaths, filepath.Join(d, "padnav.yaml"), filepath.Join(d, "padnav.yml"))
		tomlPaths = append(tomlPaths, filepath.Join(d, "padnav.toml"))
	}

	switch ext := strings.ToLower(filepath.Ext(userCfg)); {
	case userCfg == "":
	case ext == ".json":
		jsonPaths = append(jsonPaths, userCfg)
	case ext == ".toml":
		tomlPaths = append(tomlPaths, userCfg)
	default:
		yamlPaths = append(yamlPaths, userCfg)
	}
	return jsonPaths, yamlPaths, tomlPaths
}
