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
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal, so older binaries tolerate newer files.

// BackendConfig configures the optional Postgres mirror used for
// project-wide search. The DSN is not stored on disk; it lives in the OS
// keychain.
type BackendConfig struct {
	Enabled   bool `yaml:"enabled"`
	TimeoutMs int  `yaml:"timeout_ms"`
}

type GeneralConfig struct {
	TelemetryOptIn bool `yaml:"telemetry_opt_in"`
	// AutoSnapshot takes a text snapshot on every save.
	AutoSnapshot bool `yaml:"auto_snapshot"`
	// SnapshotKeep bounds the snapshot history per screenplay; 0 keeps all.
	SnapshotKeep int `yaml:"snapshot_keep"`
}

type ExportConfig struct {
	Paper string `yaml:"paper"` // "letter" | "a4"
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Backend       BackendConfig `yaml:"backend"`
	Export        ExportConfig  `yaml:"export"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, AutoSnapshot: true, SnapshotKeep: 50},
		Backend:       BackendConfig{Enabled: false, TimeoutMs: 15000},
		Export:        ExportConfig{Paper: "letter"},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvBackendEnabled   = "FTN_BACKEND_ENABLED"
	EnvBackendTimeoutMs = "FTN_BACKEND_TIMEOUT_MS"
	EnvBackendDSN       = "FTN_PG_DSN"
	EnvTelemetryOptIn   = "FTN_TELEMETRY_OPT_IN"
	EnvExportPaper      = "FTN_EXPORT_PAPER"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "FTN_LOG_LEVEL"
	EnvLogFormat = "FTN_LOG_FORMAT"
	EnvLogSource = "FTN_LOG_SOURCE"
	EnvLogFile   = "FTN_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService = "GoFountain"
	keyringDSN     = "postgres_dsn"
)

// SecretStore abstracts the keyring, so tests can stub it.
type SecretStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

var secretStore SecretStore = &osKeyring{}

// osKeyring implements SecretStore via github.com/zalando/go-keyring.
type osKeyring struct{}

func (k *osKeyring) Get(service, key string) (string, error) {
	return keyring.Get(service, key)
}
func (k *osKeyring) Set(service, key, value string) error {
	return keyring.Set(service, key, value)
}
func (k *osKeyring) Delete(service, key string) error {
	return keyring.Delete(service, key)
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoFountain")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoFountain")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "gofountain")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides. The Postgres DSN is returned separately: keychain
// first, FTN_PG_DSN wins when set.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	dsn, _ := secretStore.Get(keyringService, keyringDSN)
	if v := strings.TrimSpace(os.Getenv(EnvBackendDSN)); v != "" {
		dsn = v
	}
	return cfg, dsn, nil
}

// Save writes the user config YAML and persists the DSN into the OS keyring
// (if non-empty).
func Save(cfg AppConfig, dsn string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if dsn != "" {
		if err := secretStore.Set(keyringService, keyringDSN, dsn); err != nil {
			return err
		}
	}
	return nil
}

// ForgetDSN removes the stored Postgres DSN from the keyring.
func ForgetDSN() error {
	return secretStore.Delete(keyringService, keyringDSN)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	dst.General.AutoSnapshot = src.General.AutoSnapshot
	if src.General.SnapshotKeep != 0 {
		dst.General.SnapshotKeep = src.General.SnapshotKeep
	}
	dst.Backend.Enabled = src.Backend.Enabled
	if src.Backend.TimeoutMs != 0 {
		dst.Backend.TimeoutMs = src.Backend.TimeoutMs
	}
	if strings.TrimSpace(src.Export.Paper) != "" {
		dst.Export.Paper = strings.ToLower(strings.TrimSpace(src.Export.Paper))
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
	if v := strings.TrimSpace(os.Getenv(EnvBackendEnabled)); v != "" {
		cfg.Backend.Enabled = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backend.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportPaper)); v != "" {
		cfg.Export.Paper = strings.ToLower(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func isTruthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "backend.enabled":
		if os.Getenv(EnvBackendEnabled) != "" {
			return EnvBackendEnabled, true
		}
	case "backend.timeout_ms":
		if os.Getenv(EnvBackendTimeoutMs) != "" {
			return EnvBackendTimeoutMs, true
		}
	case "backend.dsn":
		if os.Getenv(EnvBackendDSN) != "" {
			return EnvBackendDSN, true
		}
	case "general.telemetry_opt_in":
		if os.Getenv(EnvTelemetryOptIn) != "" {
			return EnvTelemetryOptIn, true
		}
	case "export.paper":
		if os.Getenv(EnvExportPaper) != "" {
			return EnvExportPaper, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}
