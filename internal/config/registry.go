package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "billwise"
	configFile = "config.yaml"

	// PathEnv overrides the config file location
	PathEnv = "BILLWISE_CONFIG"
)

// saveMu serializes writers inside this process; the rename keeps readers in
// other processes from seeing a partial file.
var saveMu sync.Mutex

// GetConfigDir returns the directory billwise keeps its config in:
// $XDG_CONFIG_HOME/billwise when set (Unix), else the OS user config dir
// (~/.config, ~/Library/Application Support, %AppData%) plus "billwise".
func GetConfigDir() (string, error) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// GetConfigPath returns the config file path. BILLWISE_CONFIG wins when set.
func GetConfigPath() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// LoadRegistry reads the registry from GetConfigPath.
func LoadRegistry() (*Registry, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadRegistryFrom(path)
}

// LoadRegistryFrom reads a registry from path. A missing file is not an
// error: the caller gets a default registry that Save will create.
func LoadRegistryFrom(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var r Registry
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	switch {
	case r.Version == 0:
		// hand-written file without a version line
		r.Version = CurrentVersion
	case r.Version > CurrentVersion:
		return nil, fmt.Errorf("unsupported config version: %d (this build reads up to %d)", r.Version, CurrentVersion)
	}

	r.fill()
	return &r, nil
}

// fill replaces absent sections with their defaults.
func (r *Registry) fill() {
	if r.Service == nil {
		r.Service = &Service{}
	}
	if r.Profiles == nil {
		r.Profiles = make(map[string]*Profile)
	}
	for name, p := range r.Profiles {
		switch {
		case p == nil:
			r.Profiles[name] = &Profile{Values: map[string]string{}}
		case p.Values == nil:
			p.Values = map[string]string{}
		}
	}
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}
}

// Save writes the registry to GetConfigPath.
func (r *Registry) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return r.SaveTo(path)
}

// SaveTo writes the registry to path through a temp file in the same
// directory, so a crash leaves either the old file or the new one.
func (r *Registry) SaveTo(path string) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	body, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data := append([]byte("# billwise configuration: prediction service, household profiles, preferences.\n"+
		"# Edited by `billwise profile` and `billwise discover --save`.\n\n"), body...)

	tmp, err := os.CreateTemp(dir, "."+configFile+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary config file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to flush temporary config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary config file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}
