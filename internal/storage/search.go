/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SearchQuery describes the in-app search request.
// Text uses SQLite FTS5 syntax (simple terms, phrases in quotes, AND/OR/NOT).
// Filters are optional. Character matches the normalized cue of dialogue
// lines. Scene restricts hits to lines whose scene heading contains the
// given token. Types can restrict to kinds like: dialogue, action, heading,
// character, etc. LineFrom/To are inclusive; 0 means unset.
// Limit/Offset implement pagination; reasonable defaults applied if zero.
type SearchQuery struct {
	Text       string
	Screenplay string
	Character  string
	Scene      string
	Types      []string
	LineFrom   int
	LineTo     int
	Limit      int
	Offset     int
}

// SearchResult represents a single match row.
// Snippet is an optional highlighted excerpt using [ ] markers when FTS text is used.
// LineNo is -1 for project metadata rows.
// DocID can be used with SceneLines to list the enclosing scene.
type SearchResult struct {
	DocID      int64
	Type       string
	Path       string
	Screenplay string
	LineNo     int
	Character  string
	Snippet    string
}

// Search performs full-text search with optional filters over the embedded index.
// When q.Text is empty, it falls back to a non-FTS scan over documents with filters applied.
func Search(ctx context.Context, projectRoot string, q SearchQuery) ([]SearchResult, error) {
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	// Build dynamic SQL
	var args []any
	var sb strings.Builder
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		sb.WriteString("SELECT d.doc_id, d.type, d.path, COALESCE(d.screenplay,''), COALESCE(d.line_no,-1), COALESCE(d.character,''), snippet(fts_documents, 0, '[', ']', '…', 10)\n")
		sb.WriteString("FROM fts_documents JOIN documents d ON fts_documents.rowid = d.doc_id\n")
		sb.WriteString("WHERE fts_documents MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT d.doc_id, d.type, d.path, COALESCE(d.screenplay,''), COALESCE(d.line_no,-1), COALESCE(d.character,''), ''\n")
		sb.WriteString("FROM documents d\nWHERE 1=1\n")
	}
	// Filters
	if s := strings.TrimSpace(q.Screenplay); s != "" {
		sb.WriteString(" AND d.screenplay = ?\n")
		args = append(args, s)
	}
	// Types filter (IN list)
	if len(q.Types) > 0 {
		sb.WriteString(" AND d.type IN (" + placeholders(len(q.Types)) + ")\n")
		for _, t := range q.Types {
			args = append(args, strings.ToLower(strings.TrimSpace(t)))
		}
	}
	// Line range
	if q.LineFrom > 0 && q.LineTo > 0 && q.LineTo >= q.LineFrom {
		sb.WriteString(" AND d.line_no BETWEEN ? AND ?\n")
		args = append(args, q.LineFrom, q.LineTo)
	} else if q.LineFrom > 0 {
		sb.WriteString(" AND d.line_no >= ?\n")
		args = append(args, q.LineFrom)
	} else if q.LineTo > 0 {
		sb.WriteString(" AND d.line_no <= ?\n")
		args = append(args, q.LineTo)
	}
	// Character filter: exact normalized cue match
	if s := strings.TrimSpace(q.Character); s != "" {
		sb.WriteString(" AND d.character IS NOT NULL AND lower(d.character)=?\n")
		args = append(args, strings.ToLower(s))
	}
	// Scene filter: the line's scene heading contains the token
	if s := strings.TrimSpace(q.Scene); s != "" {
		sb.WriteString(` AND EXISTS (
			SELECT 1 FROM cross_refs x JOIN documents h ON h.doc_id = x.to_id
			WHERE x.from_id = d.doc_id AND lower(h.text) LIKE ?
		)` + "\n")
		args = append(args, likeContains(strings.ToLower(s)))
	}
	// Order and pagination
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	sb.WriteString("ORDER BY d.screenplay, d.line_no NULLS LAST, d.doc_id\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, q.Offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var line sql.NullInt64
		var sn sql.NullString
		if err := rows.Scan(&r.DocID, &r.Type, &r.Path, &r.Screenplay, &line, &r.Character, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.LineNo = -1
		if line.Valid {
			r.LineNo = int(line.Int64)
		}
		if sn.Valid {
			r.Snippet = sn.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SceneLines returns the line documents belonging to the scene whose heading
// document has the given ID, using cross_refs.
func SceneLines(ctx context.Context, projectRoot string, headingDocID int64, limit, offset int) ([]SearchResult, error) {
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	q := `SELECT d.doc_id, d.type, d.path, COALESCE(d.screenplay,''), COALESCE(d.line_no,-1), COALESCE(d.character,''), ''
		FROM cross_refs x
		JOIN documents d ON d.doc_id = x.from_id
		WHERE x.to_id = ?
		ORDER BY d.line_no, d.doc_id
		LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, q, headingDocID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("scene lines query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var line sql.NullInt64
		if err := rows.Scan(&r.DocID, &r.Type, &r.Path, &r.Screenplay, &line, &r.Character, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.LineNo = -1
		if line.Valid {
			r.LineNo = int(line.Int64)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SceneLinesByPath resolves a heading document by path then lists its scene's lines.
func SceneLinesByPath(ctx context.Context, projectRoot string, path string, limit, offset int) ([]SearchResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	var id int64
	err = db.QueryRowContext(ctx, "SELECT doc_id FROM documents WHERE path=?", path).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []SearchResult{}, nil
		}
		return nil, err
	}
	return SceneLines(ctx, projectRoot, id, limit, offset)
}

func likeContains(s string) string { return "%" + s + "%" }

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := strings.Builder{}
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("?")
	}
	return b.String()
}
