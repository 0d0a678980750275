/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package domain defines the screenplay document model on top of the
// fountain package: the raw line arena, resolved invisible ranges, the
// stripped editing view with its span map back to raw lines, and the
// project manifest types persisted by storage.
package domain

import "gofountain/internal/fountain"

// Project represents a screenplay project and its metadata.
// It is intended to serialize to a human-readable JSON manifest.
type Project struct {
	Name        string          `json:"name"`
	Metadata    Metadata        `json:"metadata,omitempty"`
	Screenplays []ScreenplayRef `json:"screenplays"`
}

// Metadata contains optional descriptive metadata for a project.
type Metadata struct {
	Author  string `json:"author,omitempty"`
	Credit  string `json:"credit,omitempty"`
	Source  string `json:"source,omitempty"`
	Contact string `json:"contact,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// ScreenplayRef points at one screenplay file belonging to the project.
type ScreenplayRef struct {
	Title    string `json:"title"`
	Path     string `json:"path"`
	Revision string `json:"revision,omitempty"`
	Color    string `json:"color,omitempty"`
}

// RawSpan is the inclusive range of raw line indices one stripped line
// maps back to. Start equals End for lines untouched by multi-line
// invisibles.
type RawSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// OutlineItem is one entry of the document outline: a section heading or
// a scene heading, in document order.
type OutlineItem struct {
	LineIndex   int
	Type        fountain.LineType
	Text        string
	Depth       int
	SceneNumber string
}

// Document is the parsed form of one screenplay text.
//
// Lines is the raw line arena indexed by global line number: every
// physical line with its classification and per-kind partial tags, where
// lines fully interior to a resolved multi-line invisible carry the
// InvisibleOnly tag for that kind. Stripped is the editing view with all
// invisible text removed and reclassified; the span map connects the two
// views so edits on the stripped view can be located in the raw text.
type Document struct {
	Title   string
	RawText string

	Lines          []fountain.Line
	BoneyardRanges []fountain.MultilineRange
	NoteRanges     []fountain.MultilineRange

	Stripped []fountain.Line
	spans    map[int]RawSpan
}

// NewDocument parses text, resolves both invisible kinds and builds the
// stripped view.
func NewDocument(title, text string) *Document {
	d := &Document{Title: title, RawText: text}
	lines := fountain.Parse(text)
	lines = fountain.ApplyPartialTypes(lines, fountain.Boneyard)
	lines = fountain.ApplyPartialTypes(lines, fountain.Note)
	d.Lines = lines
	d.BoneyardRanges = fountain.ResolveMultilineRanges(lines, fountain.Boneyard)
	d.NoteRanges = fountain.ResolveMultilineRanges(lines, fountain.Note)
	d.buildStripped()
	return d
}

// RawSpanForStripped reports which raw lines the stripped line at index i
// covers.
func (d *Document) RawSpanForStripped(i int) (RawSpan, bool) {
	s, ok := d.spans[i]
	return s, ok
}

// Outline lists the document's sections and scene headings in order,
// taken from the raw arena so headings inside boneyards still appear
// where an editor would want to jump to them.
func (d *Document) Outline() []OutlineItem {
	var out []OutlineItem
	for i := range d.Lines {
		ln := &d.Lines[i]
		if !ln.IsOutlineElement() {
			continue
		}
		out = append(out, OutlineItem{
			LineIndex:   i,
			Type:        ln.Type,
			Text:        ln.Text,
			Depth:       ln.SectionDepth,
			SceneNumber: ln.SceneNumber,
		})
	}
	return out
}
