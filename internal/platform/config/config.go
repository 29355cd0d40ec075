package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are the tunable knobs read from settings.yaml. Zero values fall
// back to the defaults below so a missing file is not an error.
type Settings struct {
	ShakeThreshold float64 `yaml:"shake_threshold"`
	LuxThreshold   float64 `yaml:"lux_threshold"`
	SensorPlugin   string  `yaml:"sensor_plugin"`
	SignalCommand  string  `yaml:"signal_command"`
}

const (
	DefaultShakeThreshold = 20.0
	DefaultLuxThreshold   = 150.0
)

type Config struct {
	HomePath   string
	DBPath     string
	SocketPath string
	Settings   Settings
}

func New(homePath string) (Config, error) {
	if homePath == "" {
		return Config{}, fmt.Errorf("home path is required")
	}
	cfg := Config{
		HomePath:   homePath,
		DBPath:     filepath.Join(homePath, "shakker.db"),
		SocketPath: filepath.Join(homePath, "shakker.sock"),
		Settings: Settings{
			ShakeThreshold: DefaultShakeThreshold,
			LuxThreshold:   DefaultLuxThreshold,
		},
	}
	if err := cfg.loadSettings(filepath.Join(homePath, "settings.yaml")); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadSettings(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read settings: %w", err)
	}
	loaded := Settings{}
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("unmarshal settings: %w", err)
	}
	if loaded.ShakeThreshold > 0 {
		c.Settings.ShakeThreshold = loaded.ShakeThreshold
	}
	if loaded.LuxThreshold > 0 {
		c.Settings.LuxThreshold = loaded.LuxThreshold
	}
	if loaded.SensorPlugin != "" {
		c.Settings.SensorPlugin = loaded.SensorPlugin
	}
	if loaded.SignalCommand != "" {
		c.Settings.SignalCommand = loaded.SignalCommand
	}
	return nil
}
