/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gofountain/internal/storage"
)

// SearchPG executes a search over the Postgres documents mirror using tsvector
// and the same filters as the embedded index, returning results mapped to
// storage.SearchResult to ease parity checks.
func SearchPG(ctx context.Context, db *sql.DB, projectID int64, q storage.SearchQuery) ([]storage.SearchResult, error) {
	var (
		args []any
		b    strings.Builder
	)
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		b.WriteString("SELECT d.id AS doc_id, d.doc_type AS type, COALESCE(d.external_ref,'') AS path, COALESCE(d.screenplay,'') AS screenplay, COALESCE(d.line_no,-1) AS line_no, COALESCE(d.character_name,'') AS character_name, ")
		b.WriteString("COALESCE(ts_headline('simple', COALESCE(d.raw_text,''), plainto_tsquery('simple', $1), 'StartSel=[, StopSel=], MaxFragments=1, MaxWords=12'), '') AS snippet ")
		b.WriteString("FROM documents d WHERE d.project_id = $2 AND d.search_vector @@ plainto_tsquery('simple', $1) ")
		args = append(args, q.Text, projectID)
	} else {
		b.WriteString("SELECT d.id AS doc_id, d.doc_type AS type, COALESCE(d.external_ref,'') AS path, COALESCE(d.screenplay,'') AS screenplay, COALESCE(d.line_no,-1) AS line_no, COALESCE(d.character_name,'') AS character_name, '' AS snippet ")
		b.WriteString("FROM documents d WHERE d.project_id = $1 ")
		args = append(args, projectID)
	}

	// Helper to add parameter and return placeholder like $n
	place := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	// Screenplay filter
	if s := strings.TrimSpace(q.Screenplay); s != "" {
		b.WriteString(" AND d.screenplay = " + place(s) + " ")
	}
	// Types filter
	if len(q.Types) > 0 {
		types := make([]string, 0, len(q.Types))
		for _, t := range q.Types {
			types = append(types, strings.ToLower(strings.TrimSpace(t)))
		}
		b.WriteString(" AND d.doc_type = ANY (" + place(types) + ") ")
	}
	// Line range
	if q.LineFrom > 0 && q.LineTo > 0 && q.LineTo >= q.LineFrom {
		b.WriteString(" AND d.line_no BETWEEN " + place(q.LineFrom) + " AND " + place(q.LineTo) + " ")
	} else if q.LineFrom > 0 {
		b.WriteString(" AND d.line_no >= " + place(q.LineFrom) + " ")
	} else if q.LineTo > 0 {
		b.WriteString(" AND d.line_no <= " + place(q.LineTo) + " ")
	}
	// Character filter: exact normalized cue match
	if s := strings.TrimSpace(q.Character); s != "" {
		b.WriteString(" AND d.character_name IS NOT NULL AND lower(d.character_name) = " + place(strings.ToLower(s)) + " ")
	}
	// Scene filter: the enclosing scene heading contains the token
	if s := strings.TrimSpace(q.Scene); s != "" {
		b.WriteString(" AND lower(COALESCE(d.scene_heading,'')) LIKE " + place("%"+strings.ToLower(s)+"%") + " ")
	}
	// Order and pagination
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	b.WriteString(" ORDER BY d.screenplay, d.line_no NULLS LAST, d.id ")
	b.WriteString(" LIMIT " + place(limit) + " OFFSET " + place(offset))

	rows, err := db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search pg query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []storage.SearchResult
	for rows.Next() {
		var r storage.SearchResult
		if err := rows.Scan(&r.DocID, &r.Type, &r.Path, &r.Screenplay, &r.LineNo, &r.Character, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
