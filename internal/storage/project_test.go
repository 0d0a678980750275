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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gofountain/internal/domain"
)

func sampleProject() domain.Project {
	return domain.Project{
		Name:     "Big Fish",
		Metadata: domain.Metadata{Author: "John August", Credit: "written by"},
		Screenplays: []domain.ScreenplayRef{
			{Title: "Big Fish", Path: "screenplays/big-fish.fountain"},
		},
	}
}

func TestInitProjectScaffoldsAndWritesManifest(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, sampleProject())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	for _, d := range []string{ScreenplaysDirName, "exports", SnapshotsDirName, BackupsDirName} {
		if st, err := os.Stat(filepath.Join(root, d)); err != nil || !st.IsDir() {
			t.Fatalf("expected subdir %s: %v", d, err)
		}
	}
	if _, err := os.Stat(ph.ManifestPath); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	if _, err := os.Stat(IndexPath(root)); err != nil {
		t.Fatalf("index missing: %v", err)
	}
}

func TestOpenRoundtrip(t *testing.T) {
	root := t.TempDir()
	if _, err := InitProject(root, sampleProject()); err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	ph, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if ph.Project.Name != "Big Fish" {
		t.Fatalf("project name mismatch: %q", ph.Project.Name)
	}
	if len(ph.Project.Screenplays) != 1 || ph.Project.Screenplays[0].Path != "screenplays/big-fish.fountain" {
		t.Fatalf("screenplay refs mismatch: %+v", ph.Project.Screenplays)
	}
}

func TestSaveCreatesTimestampedBackup(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, sampleProject())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	ph.Project.Name = "Bigger Fish"
	if err := Save(ph); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	found := false
	for _, e := range ents {
		if strings.HasPrefix(e.Name(), ManifestFileName+".") && strings.HasSuffix(e.Name(), ".bak") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a manifest backup after second save")
	}
}

func TestOpenFallsBackToBackupOnCorruptManifest(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, sampleProject())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	// Second save creates a backup of the good manifest.
	if err := Save(ph); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	// Corrupt the current manifest.
	if err := os.WriteFile(ph.ManifestPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}
	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open with backup fallback error: %v", err)
	}
	if got.Project.Name != "Big Fish" {
		t.Fatalf("expected backup content, got %q", got.Project.Name)
	}
}

func TestAutosaveCrashSnapshotWritesFile(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, sampleProject())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	path, err := AutosaveCrashSnapshot(ph)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read autosave: %v", err)
	}
	if !strings.Contains(string(b), "Big Fish") {
		t.Fatalf("autosave does not contain manifest content")
	}
}

func TestScreenplayFilePath_NilHandle(t *testing.T) {
	if p := ScreenplayFilePath(nil, "screenplays/x.fountain"); p != "" {
		t.Fatalf("expected empty path for nil handle, got %q", p)
	}
}

func TestReadScreenplay_MissingReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	ph := &ProjectHandle{Root: root, ManifestPath: filepath.Join(root, ManifestFileName)}
	s, err := ReadScreenplay(ph, "screenplays/missing.fountain")
	if err != nil {
		t.Fatalf("ReadScreenplay unexpected error for missing file: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string for missing screenplay, got %q", s)
	}
}

func TestWriteScreenplay_AndReadBack(t *testing.T) {
	root := t.TempDir()
	ph := &ProjectHandle{Root: root, ManifestPath: filepath.Join(root, ManifestFileName)}

	text := "INT. LAB - DAY\n\nThe experiment begins."
	rel := "screenplays/lab.fountain"
	if err := WriteScreenplay(ph, rel, text); err != nil {
		t.Fatalf("WriteScreenplay error: %v", err)
	}
	p := ScreenplayFilePath(ph, rel)
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("expected screenplay file to exist at %s: %v", p, err)
	}
	got, err := ReadScreenplay(ph, rel)
	if err != nil {
		t.Fatalf("ReadScreenplay error: %v", err)
	}
	if got != text {
		t.Fatalf("roundtrip mismatch: %q vs %q", got, text)
	}
}
