/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"sort"
	"strings"

	"gofountain/internal/fountain"
)

// buildStripped derives the editing view: boneyard and note text removed,
// lines merged across multi-line invisibles, the remainder reclassified as
// a document of its own. Every surviving stripped line records the raw
// line span it was cut from.
func (d *Document) buildStripped() {
	d.spans = make(map[int]RawSpan)

	accepted := acceptRanges(d.BoneyardRanges, d.NoteRanges)
	startAt := make(map[int]fountain.MultilineRange, len(accepted))
	for _, r := range accepted {
		startAt[r.StartLine] = r
		for j := r.StartLine + 1; j < r.EndLine; j++ {
			markInvisibleOnly(&d.Lines[j], r.Kind)
		}
	}

	var texts []string
	var spans []RawSpan

	i := 0
	for i < len(d.Lines) {
		r, ok := startAt[i]
		if !ok {
			vis := stripInline(d.Lines[i].Text)
			// Blank separator lines survive; lines that were pure
			// invisible text vanish.
			if d.Lines[i].RawText == "" || vis != "" {
				texts = append(texts, vis)
				spans = append(spans, RawSpan{Start: i, End: i})
			}
			i++
			continue
		}

		// A multi-line invisible starts on this line. The visible head,
		// any visible gaps on chained open-and-close lines, and the
		// visible tail of the final close line fuse into one stripped
		// line.
		var b strings.Builder
		b.WriteString(stripInline(fountain.GraphemeSlice(d.Lines[i].Text, 0, r.StartOffset)))
		cur := r
		for {
			endLn := d.Lines[cur.EndLine]
			from := cur.EndOffset + fountain.GraphemeCount(cur.Kind.Close)
			if next, chained := startAt[cur.EndLine]; chained && next.StartOffset >= from {
				b.WriteString(stripInline(fountain.GraphemeSlice(endLn.Text, from, next.StartOffset)))
				cur = next
				continue
			}
			b.WriteString(stripInline(fountain.GraphemeSlice(endLn.Text, from, endLn.Length)))
			break
		}
		if vis := b.String(); vis != "" {
			texts = append(texts, vis)
			spans = append(spans, RawSpan{Start: i, End: cur.EndLine})
		}
		i = cur.EndLine + 1
	}

	stripped := make([]fountain.Line, len(texts))
	pos := 0
	for idx, txt := range texts {
		n := fountain.GraphemeCount(txt)
		stripped[idx] = fountain.Line{
			Type:     fountain.Unparsed,
			Text:     txt,
			RawText:  txt,
			Position: pos,
			Length:   n,
		}
		pos += n + 1
	}
	d.Stripped = fountain.ParseLines(stripped)
	for idx, s := range spans {
		d.spans[idx] = s
	}
}

// acceptRanges merges both kinds into document order and drops any range
// whose opening delimiter falls inside an earlier accepted range.
func acceptRanges(bone, note []fountain.MultilineRange) []fountain.MultilineRange {
	all := make([]fountain.MultilineRange, 0, len(bone)+len(note))
	all = append(all, bone...)
	all = append(all, note...)
	sort.Slice(all, func(i, j int) bool {
		if all[i].StartLine != all[j].StartLine {
			return all[i].StartLine < all[j].StartLine
		}
		return all[i].StartOffset < all[j].StartOffset
	})

	var out []fountain.MultilineRange
	endLine, endOff := -1, 0
	for _, r := range all {
		if r.StartLine < endLine || (r.StartLine == endLine && r.StartOffset < endOff) {
			continue
		}
		out = append(out, r)
		endLine = r.EndLine
		endOff = r.EndOffset + fountain.GraphemeCount(r.Kind.Close)
	}
	return out
}

// stripInline removes every self-contained invisible span of both kinds
// from one line's text. Removal repeats until no complete pair remains, so
// a span revealed by a removal is removed too.
func stripInline(s string) string {
	s = deleteSpans(s, fountain.Boneyard)
	return deleteSpans(s, fountain.Note)
}

func deleteSpans(s string, kind fountain.RangedElementKind) string {
	for {
		o := strings.Index(s, kind.Open)
		if o < 0 {
			return s
		}
		rest := s[o+len(kind.Open):]
		c := strings.Index(rest, kind.Close)
		if c < 0 {
			return s
		}
		s = s[:o] + rest[c+len(kind.Close):]
	}
}

func markInvisibleOnly(ln *fountain.Line, kind fountain.RangedElementKind) {
	switch kind.Label {
	case fountain.Boneyard.Label:
		ln.BoneyardPartial = fountain.InvisibleOnly
	case fountain.Note.Label:
		ln.NotePartial = fountain.InvisibleOnly
	}
}
