/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package bundle packs a project into a single .zip for sharing and
// restores bundles into a project directory. A bundle holds the manifest
// plus the screenplays folder; derived data (index, exports, backups)
// stays out.
package bundle

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "gofountain/internal/log"
	"gofountain/internal/storage"
)

const manifestEntry = "bundle.manifest.txt"

// ExportProjectBundle zips the project's manifest and screenplays directory
// into a single .zip file. The archive preserves the directory structure
// and adds a small manifest file at the root for quick human inspection.
func ExportProjectBundle(projectRoot string, destZipPath string) error {
	l := applog.WithOperation(applog.WithComponent("bundle"), "export").With(slog.String("project", projectRoot))
	if strings.TrimSpace(projectRoot) == "" {
		return errors.New("projectRoot is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destZipPath is required")
	}

	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)
	defer func() { _ = zw.Close() }()

	manifest := fmt.Sprintf("GoFountain Project Bundle\nCreated: %s\nProject: %s\n\nContents: %s plus the %s/ directory.\n",
		time.Now().Format(time.RFC3339), projectRoot, storage.ManifestFileName, storage.ScreenplaysDirName)
	w, err := zw.Create(manifestEntry)
	if err != nil {
		return fmt.Errorf("add manifest: %w", err)
	}
	if _, err := w.Write([]byte(manifest)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	added := 0
	addFile := func(path string) error {
		rel, err := filepath.Rel(projectRoot, path)
		if err != nil {
			return err
		}
		fw, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if _, err := io.Copy(fw, f); err != nil {
			return err
		}
		added++
		return nil
	}

	// Project manifest first, then all screenplay sources.
	mpath := filepath.Join(projectRoot, storage.ManifestFileName)
	if _, err := os.Stat(mpath); err == nil {
		if err := addFile(mpath); err != nil {
			return fmt.Errorf("add project manifest: %w", err)
		}
	}
	spDir := filepath.Join(projectRoot, storage.ScreenplaysDirName)
	if _, err := os.Stat(spDir); err == nil {
		err = filepath.Walk(spDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			// Transactional-write temp files never belong in a bundle.
			if strings.HasPrefix(info.Name(), ".") {
				return nil
			}
			return addFile(path)
		})
		if err != nil {
			l.Error("zip build failed", slog.Any("err", err))
			return fmt.Errorf("build zip: %w", err)
		}
	}
	l.Info("project bundle exported", slog.Int("files", added), slog.String("zip", destZipPath))
	return nil
}

// ImportProjectBundle extracts a bundle into the given project directory.
// Existing files are not overwritten; if a file already exists, it is
// skipped. Returns the count of files restored.
func ImportProjectBundle(projectRoot string, bundleZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("bundle"), "import").With(slog.String("project", projectRoot))
	if strings.TrimSpace(projectRoot) == "" {
		return 0, errors.New("projectRoot is required")
	}
	if strings.TrimSpace(bundleZipPath) == "" {
		return 0, errors.New("bundleZipPath is required")
	}
	if err := os.MkdirAll(projectRoot, 0o755); err != nil {
		return 0, fmt.Errorf("ensure project dir: %w", err)
	}

	r, err := zip.OpenReader(bundleZipPath)
	if err != nil {
		return 0, fmt.Errorf("open bundle: %w", err)
	}
	defer func() { _ = r.Close() }()

	restored := 0
	for _, f := range r.File {
		name := f.Name
		if name == manifestEntry {
			continue
		}
		// Reject entries escaping the project directory.
		clean := filepath.Clean(filepath.FromSlash(name))
		if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
			l.Warn("skip unsafe entry", slog.String("name", name))
			continue
		}
		targetPath := filepath.Join(projectRoot, clean)
		if _, err := os.Stat(targetPath); err == nil {
			l.Warn("skip existing file", slog.String("path", targetPath))
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return restored, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return restored, err
		}
		rc, err := f.Open()
		if err != nil {
			return restored, err
		}
		out, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			_ = rc.Close()
			return restored, err
		}
		if _, err := io.Copy(out, rc); err != nil {
			_ = out.Close()
			_ = rc.Close()
			return restored, err
		}
		_ = out.Close()
		_ = rc.Close()
		restored++
	}
	l.Info("project bundle imported", slog.Int("files", restored))
	return restored, nil
}
