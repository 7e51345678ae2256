package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/kuctl"
	projectConfigDir = ".kuctl"
	configFileName   = "config.yaml"
)

// LoadConfig loads the kuctl configuration by layering default, user, and project settings.
func LoadConfig() (KuctlConfig, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else if config, err = overlayIfExists(config, userConfigPath); err != nil {
		return KuctlConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else if config, err = overlayIfExists(config, projectConfigPath); err != nil {
		return KuctlConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
	}

	return config, nil
}

// LoadConfigFile layers a single explicit file over the defaults. Used by --config.
func LoadConfigFile(path string) (KuctlConfig, error) {
	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return KuctlConfig{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return mergeConfigs(GetDefaultConfig(), overlay), nil
}

func overlayIfExists(base KuctlConfig, path string) (KuctlConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return base, nil
	}
	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return base, err
	}
	return mergeConfigs(base, overlay), nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a KuctlConfig from a YAML file.
func loadConfigFromFile(filePath string) (KuctlConfig, error) {
	var config KuctlConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return KuctlConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return KuctlConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Zero values in
// the overlay keep the base value.
func mergeConfigs(base, overlay KuctlConfig) KuctlConfig {
	merged := base

	if overlay.Agent.URL != "" {
		merged.Agent.URL = overlay.Agent.URL
	}
	if overlay.Agent.ScreenDPI != 0 {
		merged.Agent.ScreenDPI = overlay.Agent.ScreenDPI
	}
	if overlay.Agent.RequestTimeout != 0 {
		merged.Agent.RequestTimeout = overlay.Agent.RequestTimeout
	}
	merged.Agent.Paths = mergePaths(merged.Agent.Paths, overlay.Agent.Paths)

	if overlay.Push.ReconnectInterval != 0 {
		merged.Push.ReconnectInterval = overlay.Push.ReconnectInterval
	}
	if overlay.Push.DedupeWindow != 0 {
		merged.Push.DedupeWindow = overlay.Push.DedupeWindow
	}

	if overlay.UI.FailurePolicy != "" {
		merged.UI.FailurePolicy = overlay.UI.FailurePolicy
	}
	if overlay.UI.StatusTimeout != 0 {
		merged.UI.StatusTimeout = overlay.UI.StatusTimeout
	}
	if overlay.UI.LogLevel != "" {
		merged.UI.LogLevel = overlay.UI.LogLevel
	}

	if overlay.Update.Repository != "" {
		merged.Update.Repository = overlay.Update.Repository
	}

	return merged
}

func mergePaths(base, overlay EndpointPaths) EndpointPaths {
	pick := func(b, o string) string {
		if o != "" {
			return o
		}
		return b
	}
	return EndpointPaths{
		Config:      pick(base.Config, overlay.Config),
		Auth:        pick(base.Auth, overlay.Auth),
		Instances:   pick(base.Instances, overlay.Instances),
		LibraryInfo: pick(base.LibraryInfo, overlay.LibraryInfo),
		Exit:        pick(base.Exit, overlay.Exit),
		Disconnect:  pick(base.Disconnect, overlay.Disconnect),
		Push:        pick(base.Push, overlay.Push),
	}
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
