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
	"testing"
)

// stubStore keeps secrets in memory so tests never touch the OS keychain.
type stubStore struct{ vals map[string]string }

func (s *stubStore) Get(service, key string) (string, error) {
	v, ok := s.vals[service+"/"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (s *stubStore) Set(service, key, value string) error {
	s.vals[service+"/"+key] = value
	return nil
}
func (s *stubStore) Delete(service, key string) error {
	delete(s.vals, service+"/"+key)
	return nil
}

func withStubStore(t *testing.T) *stubStore {
	t.Helper()
	old := secretStore
	s := &stubStore{vals: map[string]string{}}
	secretStore = s
	t.Cleanup(func() { secretStore = old })
	return s
}

func TestEnvOverridesDSN(t *testing.T) {
	withStubStore(t)
	old := os.Getenv(EnvBackendDSN)
	_ = os.Setenv(EnvBackendDSN, "postgres://user:pw@example.test:5432/ftn")
	t.Cleanup(func() { _ = os.Setenv(EnvBackendDSN, old) })
	_, dsn, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if want := "postgres://user:pw@example.test:5432/ftn"; dsn != want {
		t.Fatalf("dsn = %q, want %q", dsn, want)
	}
}

func TestDSNFromStore(t *testing.T) {
	s := withStubStore(t)
	s.vals[keyringService+"/"+keyringDSN] = "postgres://stored"
	old := os.Getenv(EnvBackendDSN)
	_ = os.Unsetenv(EnvBackendDSN)
	t.Cleanup(func() { _ = os.Setenv(EnvBackendDSN, old) })
	_, dsn, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if dsn != "postgres://stored" {
		t.Fatalf("dsn = %q, want stored value", dsn)
	}
}

func TestEnvOverridesTelemetry(t *testing.T) {
	withStubStore(t)
	old := os.Getenv(EnvTelemetryOptIn)
	_ = os.Setenv(EnvTelemetryOptIn, "true")
	t.Cleanup(func() { _ = os.Setenv(EnvTelemetryOptIn, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("General.TelemetryOptIn expected true from env override")
	}
}

func TestMergeIncludesBackend(t *testing.T) {
	// Given a file config that enables the backend, mergeInto should carry it through
	dst := Defaults()
	src := Defaults()
	src.Backend.Enabled = true
	src.Backend.TimeoutMs = 2500
	mergeInto(&dst, &src)
	if !dst.Backend.Enabled || dst.Backend.TimeoutMs != 2500 {
		t.Fatalf("backend fields not merged correctly: %#v", dst.Backend)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/ftn.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/ftn.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	withStubStore(t)
	oldLevel := os.Getenv(EnvLogLevel)
	oldFmt := os.Getenv(EnvLogFormat)
	oldSrc := os.Getenv(EnvLogSource)
	oldFile := os.Getenv(EnvLogFile)
	_ = os.Setenv(EnvLogLevel, "error")
	_ = os.Setenv(EnvLogFormat, "json")
	_ = os.Setenv(EnvLogSource, "1")
	_ = os.Setenv(EnvLogFile, "X:/ftn.log")
	t.Cleanup(func() {
		_ = os.Setenv(EnvLogLevel, oldLevel)
		_ = os.Setenv(EnvLogFormat, oldFmt)
		_ = os.Setenv(EnvLogSource, oldSrc)
		_ = os.Setenv(EnvLogFile, oldFile)
	})
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/ftn.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestExportPaperMergeAndEnv(t *testing.T) {
	withStubStore(t)
	dst := Defaults()
	src := Defaults()
	src.Export.Paper = "A4"
	mergeInto(&dst, &src)
	if dst.Export.Paper != "a4" {
		t.Fatalf("paper not normalized: %q", dst.Export.Paper)
	}
	old := os.Getenv(EnvExportPaper)
	_ = os.Setenv(EnvExportPaper, "LETTER")
	t.Cleanup(func() { _ = os.Setenv(EnvExportPaper, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Export.Paper != "letter" {
		t.Fatalf("env paper override: %q", cfg.Export.Paper)
	}
}
