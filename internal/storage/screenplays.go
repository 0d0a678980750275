/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

// ScreenplayFilePath resolves the on-disk path of a screenplay referenced by
// its manifest-relative path. Returns "" for a nil handle.
func ScreenplayFilePath(ph *ProjectHandle, relPath string) string {
	if ph == nil || relPath == "" {
		return ""
	}
	return filepath.Join(ph.Root, filepath.FromSlash(relPath))
}

// ReadScreenplay reads a screenplay's text. A missing file yields an empty
// string and no error, so a freshly referenced screenplay opens as a blank
// document.
func ReadScreenplay(ph *ProjectHandle, relPath string) (string, error) {
	p := ScreenplayFilePath(ph, relPath)
	if p == "" {
		return "", errors.New("invalid screenplay path")
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read screenplay: %w", err)
	}
	return string(b), nil
}

// WriteScreenplay writes a screenplay's text with transactional semantics:
// temp file in the same directory, fsync, then rename over the target.
func WriteScreenplay(ph *ProjectHandle, relPath, text string) error {
	p := ScreenplayFilePath(ph, relPath)
	if p == "" {
		return errors.New("invalid screenplay path")
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create screenplay dir: %w", err)
	}
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(p), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, []byte(text)); err != nil {
		return fmt.Errorf("write temp screenplay: %w", err)
	}
	if _, err := os.Stat(p); err == nil {
		_ = os.Remove(p)
	}
	if err := os.Rename(temp, p); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace screenplay: %w", err)
	}
	return nil
}

// AutosaveCrashSnapshot writes the in-memory manifest to a timestamped file
// in the backups folder. Used by the crash handler, so it must not panic and
// must not touch the canonical manifest.
func AutosaveCrashSnapshot(ph *ProjectHandle) (string, error) {
	if ph == nil {
		return "", errors.New("nil ProjectHandle")
	}
	if ph.Root == "" {
		return "", errors.New("invalid ProjectHandle: missing root")
	}
	bdir := filepath.Join(ph.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	data, err := json.MarshalIndent(ph.Project, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("autosave-%s.json", stamp))
	if err := writeFileSync(path, data); err != nil {
		return "", fmt.Errorf("write autosave: %w", err)
	}
	return path, nil
}
