/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package bundle

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gofountain/internal/domain"
	"gofountain/internal/storage"
)

func newBundleProject(t *testing.T) *storage.ProjectHandle {
	t.Helper()
	root := filepath.Join(t.TempDir(), "proj")
	ph, err := storage.InitProject(root, domain.Project{
		Name:        "Bundle Test",
		Screenplays: []domain.ScreenplayRef{{Title: "Pilot", Path: "screenplays/pilot.fountain"}},
	})
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	if err := storage.WriteScreenplay(ph, "screenplays/pilot.fountain", "INT. LAB - DAY\n\nA beat.\n"); err != nil {
		t.Fatalf("WriteScreenplay: %v", err)
	}
	return ph
}

func TestExportProjectBundleContents(t *testing.T) {
	ph := newBundleProject(t)
	zipPath := filepath.Join(t.TempDir(), "out", "bundle.zip")
	if err := ExportProjectBundle(ph.Root, zipPath); err != nil {
		t.Fatalf("ExportProjectBundle: %v", err)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer func() { _ = r.Close() }()
	got := map[string]bool{}
	for _, f := range r.File {
		got[f.Name] = true
	}
	for _, want := range []string{manifestEntry, storage.ManifestFileName, "screenplays/pilot.fountain"} {
		if !got[want] {
			t.Fatalf("bundle missing entry %q, got %v", want, got)
		}
	}
	// Derived data must stay out of the bundle.
	for name := range got {
		if strings.HasPrefix(name, ".ftn") || strings.HasPrefix(name, "exports") {
			t.Fatalf("unexpected derived entry in bundle: %q", name)
		}
	}
}

func TestImportProjectBundleSkipsExisting(t *testing.T) {
	ph := newBundleProject(t)
	zipPath := filepath.Join(t.TempDir(), "bundle.zip")
	if err := ExportProjectBundle(ph.Root, zipPath); err != nil {
		t.Fatalf("ExportProjectBundle: %v", err)
	}

	// Fresh target: everything restores.
	target := filepath.Join(t.TempDir(), "restored")
	n, err := ImportProjectBundle(target, zipPath)
	if err != nil {
		t.Fatalf("ImportProjectBundle: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 restored files, got %d", n)
	}
	if _, err := os.Stat(filepath.Join(target, "screenplays", "pilot.fountain")); err != nil {
		t.Fatalf("restored screenplay missing: %v", err)
	}

	// Second import into the same target must not overwrite anything.
	marker := []byte("LOCAL EDIT\n")
	spPath := filepath.Join(target, "screenplays", "pilot.fountain")
	if err := os.WriteFile(spPath, marker, 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	n2, err := ImportProjectBundle(target, zipPath)
	if err != nil {
		t.Fatalf("second ImportProjectBundle: %v", err)
	}
	if n2 != 0 {
		t.Fatalf("expected 0 restored on re-import, got %d", n2)
	}
	data, err := os.ReadFile(spPath)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != string(marker) {
		t.Fatalf("local edit was overwritten: %q", string(data))
	}
}

func TestImportProjectBundleRejectsTraversal(t *testing.T) {
	// Build a zip with an escaping entry by hand.
	zipPath := filepath.Join(t.TempDir(), "evil.zip")
	zf, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(zf)
	w, err := zw.Create("../outside.txt")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte("nope")); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	if err := zf.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	target := filepath.Join(t.TempDir(), "proj")
	n, err := ImportProjectBundle(target, zipPath)
	if err != nil {
		t.Fatalf("ImportProjectBundle: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected traversal entry to be skipped, restored=%d", n)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(target), "outside.txt")); err == nil {
		t.Fatalf("traversal entry escaped the project directory")
	}
}
