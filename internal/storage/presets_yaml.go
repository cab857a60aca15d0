package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"sandglass/internal/core/model"
)

const presetsFileName = "presets.yaml"

// DefaultPresetName is the preset used when none is requested.
const DefaultPresetName = "default"

type yamlPreset struct {
	DurationSeconds    float64 `yaml:"duration_seconds"`
	DelaySeconds       float64 `yaml:"delay_seconds"`
	PreElapsedSeconds  float64 `yaml:"pre_elapsed_seconds"`
	TickIntervalMillis float64 `yaml:"tick_interval_ms"`
	Countdown          bool    `yaml:"countdown"`
	Repeats            bool    `yaml:"repeats"`
}

// LoadPresets reads named timer presets from YAML. If the presets file
// does not exist, a single default preset is returned.
func LoadPresets(appName string) (map[string]model.TimerConfig, error) {
	presets := map[string]model.TimerConfig{
		DefaultPresetName: model.DefaultTimerConfig(),
	}

	presetsPath, err := resolvePresetsPath(appName)
	if err != nil {
		return presets, err
	}

	rawData, err := os.ReadFile(presetsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return presets, nil
		}
		return presets, fmt.Errorf("read presets file: %w", err)
	}

	var fileData map[string]yamlPreset
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return presets, fmt.Errorf("parse presets yaml: %w", err)
	}

	for name, preset := range fileData {
		presets[name] = model.TimerConfig{
			Duration:     model.DurationFromSeconds(preset.DurationSeconds),
			Delay:        model.DurationFromSeconds(preset.DelaySeconds),
			PreElapsed:   model.DurationFromSeconds(preset.PreElapsedSeconds),
			TickInterval: model.DurationFromMillis(preset.TickIntervalMillis),
			Countdown:    preset.Countdown,
			Repeats:      preset.Repeats,
		}.Normalized()
	}
	return presets, nil
}

// SavePresets writes named timer presets to YAML.
func SavePresets(appName string, presets map[string]model.TimerConfig) error {
	presetsPath, err := resolvePresetsPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(presetsPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := make(map[string]yamlPreset, len(presets))
	for name, config := range presets {
		fileData[name] = yamlPreset{
			DurationSeconds:    config.Duration.Seconds(),
			DelaySeconds:       config.Delay.Seconds(),
			PreElapsedSeconds:  config.PreElapsed.Seconds(),
			TickIntervalMillis: float64(config.TickInterval.Milliseconds()),
			Countdown:          config.Countdown,
			Repeats:            config.Repeats,
		}
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal presets yaml: %w", err)
	}

	if err := os.WriteFile(presetsPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write presets file: %w", err)
	}

	return nil
}

func resolvePresetsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, presetsFileName), nil
}
