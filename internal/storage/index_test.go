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
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gofountain/internal/domain"

	_ "modernc.org/sqlite"
)

const sampleScript = `Title: Pilot

INT. LAB - DAY

The experiment begins. /* cut this aside */

JOHN
Hello world.

EXT. ROAD - NIGHT

MARY
Goodbye now.
`

// initIndexedProject writes a sample screenplay and builds the index.
func initIndexedProject(t *testing.T) (*ProjectHandle, string) {
	t.Helper()
	root := t.TempDir()
	rel := "screenplays/pilot.fountain"
	proj := domain.Project{
		Name:        "Pilot Project",
		Screenplays: []domain.ScreenplayRef{{Title: "Pilot", Path: rel}},
	}
	ph, err := InitProject(root, proj)
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	if err := WriteScreenplay(ph, rel, sampleScript); err != nil {
		t.Fatalf("WriteScreenplay error: %v", err)
	}
	if err := RebuildIndex(context.Background(), root, ph.Project); err != nil {
		t.Fatalf("RebuildIndex error: %v", err)
	}
	return ph, rel
}

func TestIndexInitCreatesWALAndMetaVersion(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var mode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode;").Scan(&mode); err != nil {
		t.Fatalf("read journal_mode: %v", err)
	}
	if !strings.EqualFold(mode, "wal") {
		t.Fatalf("expected WAL mode, got %s", mode)
	}
	var cnt int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('meta','version')").Scan(&cnt); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if cnt != 2 {
		t.Fatalf("expected 2 meta tables, got %d", cnt)
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('documents','fts_documents','cross_refs','scenes','script_snapshots')").Scan(&cnt); err != nil {
		t.Fatalf("query core tables: %v", err)
	}
	if cnt != 5 {
		t.Fatalf("expected 5 core tables, got %d", cnt)
	}
	// Insert a document with a high doc_id and verify FTS triggers populate the index
	if _, err := db.ExecContext(ctx, `INSERT INTO documents(doc_id, type, path, screenplay, line_no, character, text) VALUES(10001,'dialogue','screenplay:x:line:1','x',1,'JOHN','hello world');`); err != nil {
		t.Fatalf("insert document: %v", err)
	}
	var ftsCount int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fts_documents WHERE fts_documents MATCH 'hello' ").Scan(&ftsCount); err != nil {
		t.Fatalf("fts query: %v", err)
	}
	if ftsCount == 0 {
		t.Fatalf("expected FTS to find inserted document")
	}
}

func TestRebuildIndexFromScreenplay(t *testing.T) {
	ph, rel := initIndexedProject(t)
	ctx := context.Background()
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	defer db.Close()

	// Two scenes, in order.
	rows, err := db.QueryContext(ctx, "SELECT number, heading, start_line, end_line FROM scenes WHERE screenplay=? ORDER BY number", rel)
	if err != nil {
		t.Fatalf("scenes query: %v", err)
	}
	defer rows.Close()
	type scn struct {
		num, start, end int
		heading         string
	}
	var scenes []scn
	for rows.Next() {
		var s scn
		if err := rows.Scan(&s.num, &s.heading, &s.start, &s.end); err != nil {
			t.Fatalf("scan scene: %v", err)
		}
		scenes = append(scenes, s)
	}
	if len(scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d: %+v", len(scenes), scenes)
	}
	if scenes[0].heading != "INT. LAB - DAY" || scenes[1].heading != "EXT. ROAD - NIGHT" {
		t.Fatalf("scene headings: %+v", scenes)
	}
	if scenes[0].end >= scenes[1].start {
		t.Fatalf("first scene must close before second opens: %+v", scenes)
	}

	// Dialogue rows carry the normalized cue.
	var character string
	err = db.QueryRowContext(ctx, "SELECT character FROM documents WHERE type='dialogue' AND text='Hello world.'").Scan(&character)
	if err != nil {
		t.Fatalf("dialogue row: %v", err)
	}
	if character != "JOHN" {
		t.Fatalf("expected cue JOHN, got %q", character)
	}

	// Boneyard content must not be indexed.
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fts_documents WHERE fts_documents MATCH 'aside'").Scan(&n); err != nil {
		t.Fatalf("fts query: %v", err)
	}
	if n != 0 {
		t.Fatalf("boneyard text leaked into the index")
	}

	// Project metadata is indexed without a screenplay key.
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE type='project_name'").Scan(&n); err != nil {
		t.Fatalf("metadata query: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one project_name row, got %d", n)
	}
}

func TestBuildIndexIfEmptyIsIdempotent(t *testing.T) {
	ph, _ := initIndexedProject(t)
	ctx := context.Background()
	countDocs := func() int {
		db, err := InitOrOpenIndex(ph.Root)
		if err != nil {
			t.Fatalf("InitOrOpenIndex error: %v", err)
		}
		defer db.Close()
		var n int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
			t.Fatalf("count: %v", err)
		}
		return n
	}
	before := countDocs()
	if before == 0 {
		t.Fatalf("expected populated index")
	}
	if err := BuildIndexIfEmpty(ctx, ph.Root, ph.Project); err != nil {
		t.Fatalf("BuildIndexIfEmpty error: %v", err)
	}
	if after := countDocs(); after != before {
		t.Fatalf("BuildIndexIfEmpty must not rebuild a populated index: %d vs %d", before, after)
	}
}

func TestMigrationsUpgradeSchemaVersion(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	ctx := context.Background()
	// Force the recorded schema back to 1 and reopen.
	if _, err := db.ExecContext(ctx, "UPDATE version SET schema=1 WHERE id=1"); err != nil {
		t.Fatalf("downgrade version: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	db2, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()
	var cur int
	if err := db2.QueryRowContext(ctx, "SELECT schema FROM version WHERE id=1").Scan(&cur); err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if cur != schemaVersion {
		t.Fatalf("expected schema %d after migration, got %d", schemaVersion, cur)
	}
}

func TestDetectAndRebuildIndexOnCorruption(t *testing.T) {
	ph, _ := initIndexedProject(t)
	ctx := context.Background()
	// Clobber the database file with garbage.
	idx := IndexPath(ph.Root)
	if err := writeFileSync(idx, []byte("this is not a sqlite file")); err != nil {
		t.Fatalf("clobber index: %v", err)
	}
	rebuilt, err := DetectAndRebuildIndex(ctx, ph.Root, ph.Project)
	if err != nil {
		t.Fatalf("DetectAndRebuildIndex error: %v", err)
	}
	if !rebuilt {
		t.Fatalf("expected a rebuild for a corrupted index")
	}
	// A backup of the broken file is kept next to the index.
	bdir := filepath.Join(filepath.Dir(idx), "backups")
	ents, err := filepath.Glob(filepath.Join(bdir, fmt.Sprintf("%s.*.bak", IndexFileName)))
	if err != nil || len(ents) == 0 {
		t.Fatalf("expected index backup in %s (err %v)", bdir, err)
	}
	// And the rebuilt DB answers queries again.
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		t.Fatalf("reopen after rebuild: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		t.Fatalf("query rebuilt index: %v", err)
	}
	if n == 0 {
		t.Fatalf("rebuilt index is empty")
	}
}
