/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the
// user scope. Environment variables are treated as read-only overrides at
// runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal, which keeps older binaries tolerant
// of newer files.

type DrawingConfig struct {
	// Units is the project length unit ("m", "mm", "ft"). Kernel geometry is
	// unit-agnostic; the value is carried into exported headers.
	Units string `yaml:"units"`
	// DefaultLayer is the layer assigned by entity factories when the caller
	// does not specify one.
	DefaultLayer string `yaml:"default_layer"`
	// HistoryDepth bounds the undo stack. Zero means the built-in default.
	HistoryDepth int `yaml:"history_depth"`
}

type SnapConfig struct {
	Endpoint      bool    `yaml:"endpoint"`
	Midpoint      bool    `yaml:"midpoint"`
	Center        bool    `yaml:"center"`
	Intersection  bool    `yaml:"intersection"`
	Perpendicular bool    `yaml:"perpendicular"`
	Tangent       bool    `yaml:"tangent"`
	Nearest       bool    `yaml:"nearest"`
	Radius        float64 `yaml:"radius"`
}

type CodecConfig struct {
	// Precision is the number of decimal places written for coordinates.
	Precision int `yaml:"precision"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Drawing       DrawingConfig `yaml:"drawing"`
	Snap          SnapConfig    `yaml:"snap"`
	Codec         CodecConfig   `yaml:"codec"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Drawing:       DrawingConfig{Units: "m", DefaultLayer: "0", HistoryDepth: 100},
		Snap: SnapConfig{
			Endpoint:     true,
			Midpoint:     true,
			Center:       true,
			Intersection: true,
			Nearest:      true,
			Radius:       10,
		},
		Codec:   CodecConfig{Precision: 6},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvUnits        = "CVD_UNITS"
	EnvHistoryDepth = "CVD_HISTORY_DEPTH"
	EnvSnapRadius   = "CVD_SNAP_RADIUS"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "CVD_LOG_LEVEL"
	EnvLogFormat = "CVD_LOG_FORMAT"
	EnvLogSource = "CVD_LOG_SOURCE"
	EnvLogFile   = "CVD_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "CivilDraft")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "CivilDraft")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "civildraft")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML atomically (temp file + rename).
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if strings.TrimSpace(src.Drawing.Units) != "" {
		dst.Drawing.Units = strings.TrimSpace(src.Drawing.Units)
	}
	if strings.TrimSpace(src.Drawing.DefaultLayer) != "" {
		dst.Drawing.DefaultLayer = strings.TrimSpace(src.Drawing.DefaultLayer)
	}
	if src.Drawing.HistoryDepth != 0 {
		dst.Drawing.HistoryDepth = src.Drawing.HistoryDepth
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Snap.Endpoint = src.Snap.Endpoint
	dst.Snap.Midpoint = src.Snap.Midpoint
	dst.Snap.Center = src.Snap.Center
	dst.Snap.Intersection = src.Snap.Intersection
	dst.Snap.Perpendicular = src.Snap.Perpendicular
	dst.Snap.Tangent = src.Snap.Tangent
	dst.Snap.Nearest = src.Snap.Nearest
	if src.Snap.Radius > 0 {
		dst.Snap.Radius = src.Snap.Radius
	}
	if src.Codec.Precision > 0 {
		dst.Codec.Precision = src.Codec.Precision
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvUnits)); v != "" {
		cfg.Drawing.Units = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvHistoryDepth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Drawing.HistoryDepth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnapRadius)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Snap.Radius = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}
