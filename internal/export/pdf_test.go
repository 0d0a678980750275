/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gofountain/internal/domain"
	"gofountain/internal/fountain"
	"gofountain/internal/storage"
)

func testProject(t *testing.T, script string) (*storage.ProjectHandle, string) {
	t.Helper()
	root := t.TempDir()
	rel := "screenplays/test.fountain"
	ph, err := storage.InitProject(root, domain.Project{
		Name:        "Export Test",
		Metadata:    domain.Metadata{Author: "Jane Doe"},
		Screenplays: []domain.ScreenplayRef{{Title: "Test", Path: rel}},
	})
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	if err := storage.WriteScreenplay(ph, rel, script); err != nil {
		t.Fatalf("WriteScreenplay error: %v", err)
	}
	return ph, rel
}

const exportScript = `Title: Test
Author: Jane Doe

INT. LAB - DAY

The experiment begins. [[tighten this]]

JOHN
Hello world.

CUT TO:

EXT. ROAD - NIGHT

> THE END <
`

func TestExportScreenplayPDFWritesFile(t *testing.T) {
	ph, rel := testProject(t, exportScript)
	if err := ExportScreenplayPDF(ph, rel, "test.pdf", PDFOptions{TitlePage: true}); err != nil {
		t.Fatalf("ExportScreenplayPDF error: %v", err)
	}
	out := filepath.Join(ph.Root, "exports", "test.pdf")
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if len(b) < 8 || string(b[:5]) != "%PDF-" {
		t.Fatalf("output is not a PDF (len=%d)", len(b))
	}
}

func TestExportScreenplayPDFA4(t *testing.T) {
	ph, rel := testProject(t, exportScript)
	if err := ExportScreenplayPDF(ph, rel, "a4.pdf", PDFOptions{Paper: "a4"}); err != nil {
		t.Fatalf("ExportScreenplayPDF error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ph.Root, "exports", "a4.pdf")); err != nil {
		t.Fatalf("a4 output missing: %v", err)
	}
}

func TestPaginateInsertsMoreAndContd(t *testing.T) {
	// A long monologue that cannot fit one page.
	var b strings.Builder
	b.WriteString("INT. STAGE - NIGHT\n\nJOHN\n")
	for i := 0; i < 40; i++ {
		b.WriteString(fmt.Sprintf("Line %d of the speech keeps going.\n", i))
	}
	doc := domain.NewDocument("Mono", b.String())

	pages := paginate(doc, 20)
	if len(pages) < 2 {
		t.Fatalf("expected a page break, got %d pages", len(pages))
	}
	first := pages[0]
	last := first[len(first)-1]
	if last.typ != fountain.More || last.text != "(MORE)" {
		t.Fatalf("expected (MORE) at page bottom, got %+v", last)
	}
	next := pages[1][0]
	if next.typ != fountain.Character || next.text != "JOHN (CONT'D)" {
		t.Fatalf("expected repeated cue, got %+v", next)
	}
}

func TestPaginateForcedPageBreak(t *testing.T) {
	doc := domain.NewDocument("PB", "First part.\n\n===\n\nSecond part.")
	pages := paginate(doc, 50)
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[1][0].text != "Second part." {
		t.Fatalf("second page starts with %+v", pages[1][0])
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("the quick brown fox jumps over the lazy dog", 15)
	want := []string{"the quick brown", "fox jumps over", "the lazy dog"}
	if len(got) != len(want) {
		t.Fatalf("wrap count mismatch: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("wrap line %d: %q vs %q", i, got[i], want[i])
		}
	}
	for _, l := range got {
		if len(l) > 15 {
			t.Fatalf("line exceeds width: %q", l)
		}
	}
	// Oversized single word is hard-split.
	got = wrapText("abcdefghij", 4)
	if len(got) != 3 || got[0] != "abcd" {
		t.Fatalf("hard split mismatch: %v", got)
	}
}

func TestWrapTextMeasuresGraphemes(t *testing.T) {
	// Each word is five graphemes but far more bytes; a 11-cluster width
	// must still fit two words plus the joining space per line.
	got := wrapText("héllô wörld héllô wörld", 11)
	want := []string{"héllô wörld", "héllô wörld"}
	if len(got) != len(want) {
		t.Fatalf("wrap count mismatch: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("wrap line %d: %q vs %q", i, got[i], want[i])
		}
	}
	for _, l := range got {
		if n := fountain.GraphemeCount(l); n > 11 {
			t.Fatalf("line exceeds width in graphemes (%d): %q", n, l)
		}
	}
	// Hard split of an oversized non-ASCII word cuts on cluster boundaries.
	got = wrapText("éééééééé", 3)
	if len(got) != 3 || got[0] != "ééé" || got[2] != "éé" {
		t.Fatalf("grapheme hard split mismatch: %v", got)
	}
}

func TestDisplayCue(t *testing.T) {
	cases := map[string]string{
		"JOHN":           "JOHN",
		"@McAvoy":        "McAvoy",
		"JOHN (V.O.)":    "JOHN",
		"MARY ^":         "MARY",
		"  BOB (O.S.) ^": "BOB",
	}
	for in, want := range cases {
		if got := displayCue(in); got != want {
			t.Fatalf("displayCue(%q) = %q, want %q", in, got, want)
		}
	}
}
