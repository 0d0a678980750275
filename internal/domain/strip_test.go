/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"strings"
	"testing"

	"gofountain/internal/fountain"
)

func strippedTexts(d *Document) []string {
	out := make([]string, len(d.Stripped))
	for i, ln := range d.Stripped {
		out[i] = ln.Text
	}
	return out
}

func TestStripInlineNote(t *testing.T) {
	d := NewDocument("t", "He enters. [[too slow?]] She waves.")
	got := strippedTexts(d)
	if len(got) != 1 || got[0] != "He enters.  She waves." {
		t.Fatalf("stripped view: %q", got)
	}
	span, ok := d.RawSpanForStripped(0)
	if !ok || span.Start != 0 || span.End != 0 {
		t.Fatalf("span: %+v ok=%v", span, ok)
	}
}

func TestStripInlineBoneyardRepeats(t *testing.T) {
	d := NewDocument("t", "keep /* cut */ keep /* cut */ end")
	if got := strippedTexts(d); len(got) != 1 || got[0] != "keep  keep  end" {
		t.Fatalf("stripped view: %q", got)
	}
}

func TestStripMultilineMergesLines(t *testing.T) {
	text := strings.Join([]string{
		"Alpha [[begin",
		"all invisible",
		"end]] omega",
		"",
		"Next paragraph.",
	}, "\n")
	d := NewDocument("t", text)

	want := []string{"Alpha  omega", "", "Next paragraph."}
	got := strippedTexts(d)
	if len(got) != len(want) {
		t.Fatalf("expected %d stripped lines, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stripped line %d: got %q, want %q", i, got[i], want[i])
		}
	}

	span, ok := d.RawSpanForStripped(0)
	if !ok || span.Start != 0 || span.End != 2 {
		t.Fatalf("merged span: %+v ok=%v", span, ok)
	}
	span, ok = d.RawSpanForStripped(2)
	if !ok || span.Start != 4 || span.End != 4 {
		t.Fatalf("plain span: %+v ok=%v", span, ok)
	}

	// The interior raw line carries the invisible tag for its kind.
	if d.Lines[1].NotePartial != fountain.InvisibleOnly {
		t.Fatalf("interior line tag: %v", d.Lines[1].NotePartial)
	}
}

func TestStripInvisibleOnlyLineVanishes(t *testing.T) {
	text := strings.Join([]string{
		"Action stays.",
		"[[a lone note]]",
		"More action.",
	}, "\n")
	d := NewDocument("t", text)
	want := []string{"Action stays.", "More action."}
	got := strippedTexts(d)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("stripped view: %q", got)
	}
	// The surviving lines still map to their original indices.
	if span, _ := d.RawSpanForStripped(1); span.Start != 2 {
		t.Fatalf("second line span: %+v", span)
	}
}

func TestStripChainedRanges(t *testing.T) {
	text := strings.Join([]string{
		"head [[one",
		"mid]] gap [[two",
		"tail]] end",
	}, "\n")
	d := NewDocument("t", text)
	got := strippedTexts(d)
	if len(got) != 1 || got[0] != "head  gap  end" {
		t.Fatalf("stripped view: %q", got)
	}
	if span, _ := d.RawSpanForStripped(0); span.Start != 0 || span.End != 2 {
		t.Fatalf("span: %+v", span)
	}
}

func TestStripDanglingOpenStaysVisible(t *testing.T) {
	// An unfinished invisible block is plain text until its close exists.
	text := "typing a note [[not closed yet\nnext line"
	d := NewDocument("t", text)
	got := strippedTexts(d)
	if len(got) != 2 || got[0] != "typing a note [[not closed yet" {
		t.Fatalf("stripped view: %q", got)
	}
}

func TestStripReclassifies(t *testing.T) {
	// Once the boneyard between cue and speech is gone, the two visible
	// fragments fuse and the dialogue block is classified on the stripped
	// view.
	text := strings.Join([]string{
		"",
		"JOHN /* casting",
		"note to self",
		"pending */",
		"Hello there.",
	}, "\n")
	d := NewDocument("t", text)
	got := strippedTexts(d)
	if len(got) != 3 {
		t.Fatalf("stripped view: %q", got)
	}
	if d.Stripped[1].Type != fountain.Character {
		t.Fatalf("fused cue: %v", d.Stripped[1].Type)
	}
	if d.Stripped[2].Type != fountain.Dialogue {
		t.Fatalf("speech after fused cue: %v", d.Stripped[2].Type)
	}
}

func TestStripKindsDoNotNest(t *testing.T) {
	// A note open inside a boneyard span is swallowed by the boneyard.
	text := strings.Join([]string{
		"a /* x [[y",
		"z */ b",
	}, "\n")
	d := NewDocument("t", text)
	got := strippedTexts(d)
	if len(got) != 1 || got[0] != "a  b" {
		t.Fatalf("stripped view: %q", got)
	}
}

func TestOutline(t *testing.T) {
	text := strings.Join([]string{
		"# Act One",
		"",
		"INT. HOUSE - DAY",
		"",
		"He waits.",
		"",
		"## Sequence A",
		"",
		"EXT. ROAD - NIGHT",
	}, "\n")
	d := NewDocument("t", text)
	items := d.Outline()
	if len(items) != 4 {
		t.Fatalf("expected 4 outline items, got %d", len(items))
	}
	if items[0].Type != fountain.Section || items[0].Depth != 1 {
		t.Fatalf("item 0: %+v", items[0])
	}
	if items[1].Type != fountain.Heading || items[1].LineIndex != 2 {
		t.Fatalf("item 1: %+v", items[1])
	}
	if items[2].Depth != 2 {
		t.Fatalf("item 2 depth: %d", items[2].Depth)
	}
	if items[3].Text != "EXT. ROAD - NIGHT" {
		t.Fatalf("item 3 text: %q", items[3].Text)
	}
}
