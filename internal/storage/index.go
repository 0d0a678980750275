/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gofountain/internal/domain"
	"gofountain/internal/fountain"
	applog "gofountain/internal/log"
	"gofountain/internal/version"
	"log/slog"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-project ephemeral/index data under the project root.
	IndexDirName  = ".ftn"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// IndexPath returns the full path to the project's embedded index database file.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-project SQLite index exists at .ftn/index.sqlite,
// opens the database, enables WAL mode, and ensures the meta/version tables exist.
// The returned *sql.DB is ready for use. Callers may close it when no longer needed.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if stringsTrim(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Join(projectRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .ftn dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .ftn dir: %w", err)
	}

	path := IndexPath(projectRoot)
	// Use a URI with shared cache and set busy timeout. Convert to forward slashes for SQLite URI.
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Set reasonable connection pool limits for embedded usage.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Ensure WAL mode is active.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	// Enforce foreign keys just in case future schema uses them.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	// Ensure core index schema exists (documents, FTS, scenes, cross-refs, snapshots)
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	// Run migrations to bring DB schema up to date
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	// Create tables if not exist
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	// Seed or update single-row version info
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	// Check if a version row exists
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Insert new row with current schemaVersion for a fresh DB
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Update app and timestamp only; keep existing schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Do not downgrade; just log and continue
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			// Add helpful lookup indexes and optimize FTS
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_documents_sp_line ON documents(screenplay, line_no);`,
				`CREATE INDEX IF NOT EXISTS idx_cross_refs_to ON cross_refs(to_id);`,
				`CREATE INDEX IF NOT EXISTS idx_cross_refs_from ON cross_refs(from_id);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
			// Best-effort FTS optimize (outside the tx)
			if _, err := db.ExecContext(ctx, `INSERT INTO fts_documents(fts_documents) VALUES('optimize')`); err != nil {
				// best-effort optimize; ignore errors
			}
		default:
			// Unknown future step; break
		}
		cur = next
	}
	return nil
}

// ensureIndexSchema creates core index tables and FTS structures if they do not exist.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// Core documents table: one row per visible screenplay line plus
		// project metadata rows.
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id     INTEGER PRIMARY KEY,
			type       TEXT    NOT NULL,
			path       TEXT    NOT NULL,
			screenplay TEXT,
			line_no    INTEGER,
			character  TEXT,
			text       TEXT
		);`,
		// Helpful indices for lookup
		`CREATE INDEX IF NOT EXISTS idx_documents_path ON documents(path);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_screenplay ON documents(screenplay);`,

		// Contentless FTS5 index fed from documents via triggers.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_documents USING fts5(
			text,
			content='',
			tokenize = 'unicode61'
		);`,

		// Scene catalog derived from the outline.
		`CREATE TABLE IF NOT EXISTS scenes (
			id         INTEGER PRIMARY KEY,
			screenplay TEXT    NOT NULL,
			number     INTEGER NOT NULL,
			heading    TEXT    NOT NULL,
			start_line INTEGER NOT NULL,
			end_line   INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scenes_sp ON scenes(screenplay, number);`,

		// Cross references between documents: line rows point at the scene
		// heading row they belong to.
		`CREATE TABLE IF NOT EXISTS cross_refs (
			from_id INTEGER NOT NULL,
			to_id   INTEGER NOT NULL,
			PRIMARY KEY(from_id, to_id),
			FOREIGN KEY(from_id) REFERENCES documents(doc_id) ON DELETE CASCADE,
			FOREIGN KEY(to_id)   REFERENCES documents(doc_id) ON DELETE CASCADE
		);`,

		// Script snapshots (history of screenplay text for change tracking)
		`CREATE TABLE IF NOT EXISTS script_snapshots (
			id         INTEGER PRIMARY KEY,
			screenplay TEXT    NOT NULL,
			ts         TEXT    NOT NULL,
			text       TEXT    NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_script_snapshots_sp_ts ON script_snapshots(screenplay, ts);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	// Triggers for contentless FTS synchronization with documents.text
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
			INSERT INTO fts_documents(rowid, text) VALUES (new.doc_id, new.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
			INSERT INTO fts_documents(fts_documents, rowid, text) VALUES ('delete', old.doc_id, old.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE OF text ON documents BEGIN
			INSERT INTO fts_documents(fts_documents, rowid, text) VALUES ('delete', old.doc_id, old.text);
			INSERT INTO fts_documents(rowid, text) VALUES (new.doc_id, new.text);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// DetectAndRebuildIndex checks for corruption or missing schema and rebuilds the index if needed.
// It returns true when a rebuild was performed.
func DetectAndRebuildIndex(ctx context.Context, projectRoot string, proj domain.Project) (bool, error) {
	path := IndexPath(projectRoot)
	// Try to open DB; if fails, attempt backup+delete+rebuild
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		backupIndexFile(path)
		_ = os.Remove(path)
		if rbErr := RebuildIndex(ctx, projectRoot, proj); rbErr != nil {
			return false, fmt.Errorf("rebuild after open failure: %w (open err: %v)", rbErr, err)
		}
		return true, nil
	}
	defer db.Close()
	needs := false
	// quick_check for corruption
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil || !strings.Contains(strings.ToLower(chk), "ok") {
		needs = true
	}
	// Probe core table
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM documents LIMIT 1;`); err != nil {
			needs = true
		}
	}
	if !needs {
		return false, nil
	}
	// Backup and remove existing DB file
	backupIndexFile(path)
	_ = os.Remove(path)
	// Rebuild
	if err := RebuildIndex(ctx, projectRoot, proj); err != nil {
		return false, err
	}
	return true, nil
}

// backupIndexFile copies the current index file into a timestamped backup in .ftn/backups.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), stamp))
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}

// stringsTrim is a tiny helper to avoid importing strings here just for TrimSpace.
func stringsTrim(s string) string {
	// manual trim of spaces and tabs
	i := 0
	j := len(s)
	for i < j {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		break
	}
	for i < j {
		c := s[j-1]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			j--
			continue
		}
		break
	}
	return s[i:j]
}

// BuildIndexIfEmpty performs a minimal background index build if the index has no user content.
// It ensures the DB exists and, if the documents table is empty, populates it from the given manifest and screenplay files.
func BuildIndexIfEmpty(ctx context.Context, projectRoot string, proj domain.Project) error {
	// Ensure the DB exists and is initialized
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	// Check if documents has any rows
	var cnt int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents;").Scan(&cnt); err != nil {
		return fmt.Errorf("check documents count: %w", err)
	}
	if cnt > 0 {
		return nil // already built
	}
	return rebuildDocumentsFromProject(ctx, db, projectRoot, proj)
}

// UpdateIndex updates the embedded index with changes from the project manifest.
// Minimal safe implementation: replace the documents content from the provided manifest.
func UpdateIndex(ctx context.Context, projectRoot string, proj domain.Project) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	return rebuildDocumentsFromProject(ctx, db, projectRoot, proj)
}

// RebuildIndex drops and recreates core index tables and rebuilds content from the manifest.
// It preserves meta/version tables. This is a safe operation; the index is derived from
// screenplay.json and the .fountain sources and is disposable by design.
func RebuildIndex(ctx context.Context, projectRoot string, proj domain.Project) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	// Drop core tables inside a transaction and recreate schema
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	drops := []string{
		"DROP TABLE IF EXISTS cross_refs;",
		"DROP TABLE IF EXISTS scenes;",
		"DROP TABLE IF EXISTS script_snapshots;",
		"DROP TRIGGER IF EXISTS documents_ai;",
		"DROP TRIGGER IF EXISTS documents_ad;",
		"DROP TRIGGER IF EXISTS documents_au;",
		"DROP TABLE IF EXISTS documents;",
		"DROP TABLE IF EXISTS fts_documents;",
	}
	for _, q := range drops {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("drop commit: %w", err)
	}
	// Recreate schema and populate
	if err := ensureIndexSchema(ctx, db); err != nil {
		return err
	}
	return rebuildDocumentsFromProject(ctx, db, projectRoot, proj)
}

// rebuildDocumentsFromProject replaces the documents, scenes and cross_refs
// content from the given project manifest and its screenplay files. Only the
// stripped (visible) view of each screenplay is indexed.
func rebuildDocumentsFromProject(ctx context.Context, db *sql.DB, projectRoot string, proj domain.Project) error {
	type row struct {
		docID      int64
		typeStr    string
		path       string
		screenplay sql.NullString
		lineNo     sql.NullInt64
		character  sql.NullString
		text       string
	}
	type sceneRow struct {
		screenplay string
		number     int
		heading    string
		startLine  int
		endLine    int
	}
	type ref struct{ from, to int64 }

	var rows []row
	var sceneRows []sceneRow
	var refs []ref
	nextID := int64(1)
	add := func(r row) int64 {
		r.docID = nextID
		nextID++
		rows = append(rows, r)
		return r.docID
	}

	// Project-level metadata
	if s := stringsTrim(proj.Name); s != "" {
		add(row{typeStr: "project_name", path: "project:name", text: s})
	}
	if s := stringsTrim(proj.Metadata.Author); s != "" {
		add(row{typeStr: "project_author", path: "project:author", text: s})
	}
	if s := stringsTrim(proj.Metadata.Credit); s != "" {
		add(row{typeStr: "project_credit", path: "project:credit", text: s})
	}
	if s := stringsTrim(proj.Metadata.Source); s != "" {
		add(row{typeStr: "project_source", path: "project:source", text: s})
	}
	if s := stringsTrim(proj.Metadata.Contact); s != "" {
		add(row{typeStr: "project_contact", path: "project:contact", text: s})
	}
	if s := stringsTrim(proj.Metadata.Notes); s != "" {
		add(row{typeStr: "project_notes", path: "project:notes", text: s})
	}

	for _, ref0 := range proj.Screenplays {
		text, err := os.ReadFile(filepath.Join(projectRoot, filepath.FromSlash(ref0.Path)))
		if err != nil {
			// Missing source files are skipped; the index stays rebuildable.
			continue
		}
		doc := domain.NewDocument(ref0.Title, string(text))

		spKey := ref0.Path
		currentSceneDoc := int64(0)
		sceneNo := 0
		currentCue := ""
		for i := range doc.Stripped {
			ln := &doc.Stripped[i]
			switch {
			case ln.Type == fountain.Empty:
				currentCue = ""
				continue
			case ln.IsAnyCharacter():
				currentCue = cueName(ln.Text)
			}

			r := row{
				typeStr:    strings.ToLower(ln.Type.String()),
				path:       fmt.Sprintf("screenplay:%s:line:%d", spKey, i),
				screenplay: sql.NullString{String: spKey, Valid: true},
				lineNo:     sql.NullInt64{Int64: int64(i), Valid: true},
				text:       ln.Text,
			}
			if currentCue != "" && (ln.IsAnyCharacter() || ln.IsDialogueElement() || ln.IsDualDialogueElement()) {
				r.character = sql.NullString{String: currentCue, Valid: true}
			}
			id := add(r)

			if ln.Type == fountain.Heading {
				// Close the previous scene and open a new one.
				if n := len(sceneRows); n > 0 && sceneRows[n-1].screenplay == spKey {
					sceneRows[n-1].endLine = i - 1
				}
				sceneNo++
				sceneRows = append(sceneRows, sceneRow{
					screenplay: spKey,
					number:     sceneNo,
					heading:    ln.Text,
					startLine:  i,
					endLine:    len(doc.Stripped) - 1,
				})
				currentSceneDoc = id
			} else if currentSceneDoc != 0 {
				refs = append(refs, ref{from: id, to: currentSceneDoc})
			}
		}
	}

	// Write in a transaction: clear derived tables and insert new rows.
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	for _, q := range []string{"DELETE FROM cross_refs;", "DELETE FROM scenes;", "DELETE FROM documents;"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("clear index tables: %w", err)
		}
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO documents(doc_id, type, path, screenplay, line_no, character, text) VALUES(?,?,?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for _, r := range rows {
		if _, err := ins.ExecContext(ctx, r.docID, r.typeStr, r.path, r.screenplay, r.lineNo, r.character, r.text); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert document: %w", err)
		}
	}
	insScene, err := tx.PrepareContext(ctx, "INSERT INTO scenes(screenplay, number, heading, start_line, end_line) VALUES(?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare scene insert: %w", err)
	}
	defer insScene.Close()
	for _, s := range sceneRows {
		if _, err := insScene.ExecContext(ctx, s.screenplay, s.number, s.heading, s.startLine, s.endLine); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert scene: %w", err)
		}
	}
	insRef, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO cross_refs(from_id, to_id) VALUES(?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare ref insert: %w", err)
	}
	defer insRef.Close()
	for _, x := range refs {
		if _, err := insRef.ExecContext(ctx, x.from, x.to); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert cross ref: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// cueName normalizes a character cue for indexing: forced '@' and the dual
// dialogue '^' are dropped, as is a parenthetical extension like "(V.O.)".
func cueName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "@")
	s = strings.TrimSuffix(s, "^")
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
