/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"sort"
	"strings"
)

// LocalDelimiterOffsets returns the ordered local grapheme offsets of every
// open and close delimiter occurrence of kind within the line's raw text.
// Matches are found by plain substring search; delimiters do not nest, so an
// open inside a span is simply another occurrence.
func LocalDelimiterOffsets(line *Line, kind RangedElementKind) (opens, closes []int) {
	return delimiterOffsets(line.RawText, kind.Open), delimiterOffsets(line.RawText, kind.Close)
}

// delimiterOffsets finds non-overlapping occurrences of delim in raw and
// converts their byte positions to grapheme offsets.
func delimiterOffsets(raw, delim string) []int {
	if delim == "" {
		return nil
	}
	var out []int
	byteOff := 0
	graphemes := 0
	for {
		i := strings.Index(raw[byteOff:], delim)
		if i < 0 {
			return out
		}
		graphemes += graphemeCount(raw[byteOff : byteOff+i])
		out = append(out, graphemes)
		graphemes += graphemeCount(delim)
		byteOff += i + len(delim)
	}
}

// DelimiterIndex is the document-wide index of one ranged element kind: for
// every global line index containing at least one occurrence, the per-line
// local offset lists.
type DelimiterIndex struct {
	Opens  map[int][]int
	Closes map[int][]int
}

// IndexDelimiters scans all lines and records where kind's delimiters occur.
func IndexDelimiters(lines []Line, kind RangedElementKind) DelimiterIndex {
	idx := DelimiterIndex{Opens: map[int][]int{}, Closes: map[int][]int{}}
	for i := range lines {
		opens, closes := LocalDelimiterOffsets(&lines[i], kind)
		if len(opens) > 0 {
			idx.Opens[i] = opens
		}
		if len(closes) > 0 {
			idx.Closes[i] = closes
		}
	}
	return idx
}

// PartialTypeFor decides how a line relates to kind's delimiters given its
// local open/close offsets. It never fails: NotPartial is returned when the
// line carries no delimiter text at all.
func PartialTypeFor(line *Line, kind RangedElementKind, opens, closes []int) PartialLineType {
	hasOpens := len(opens) > 0
	hasCloses := len(closes) > 0

	switch {
	case !hasOpens && !hasCloses:
		return NotPartial
	case hasOpens && !hasCloses:
		return OrphanedOpen
	case !hasOpens && hasCloses:
		return OrphanedClose
	}

	// Both present: compare extremes for dangling delimiters.
	trailingOpen := opens[len(opens)-1] > closes[len(closes)-1]
	leadingClose := closes[0] < opens[0]
	switch {
	case trailingOpen && leadingClose:
		return OrphanedOpenAndClose
	case trailingOpen:
		return OrphanedOpen
	case leadingClose:
		return OrphanedClose
	}

	// Every open is matched within the line. Any text outside the
	// outermost delimiters means the line still prints something.
	if !strings.HasPrefix(line.RawText, kind.Open) || !strings.HasSuffix(line.RawText, kind.Close) {
		return SelfContained
	}

	// Delimiters hug both ends; look for an open after a close, which
	// marks a visible gap like "]] ... [[" in the middle of the line.
	for _, o := range opens {
		for _, c := range closes {
			if o > c {
				return SelfContained
			}
		}
	}
	return InvisibleOnly
}

// PartialLineMap classifies every delimiter-bearing line of the document for
// one kind and returns copies of those lines with the kind's partial tag
// populated, keyed by global index. Lines without occurrences are absent
// from the map. Kinds other than Note and Boneyard have no tag slot and
// yield an empty map.
func PartialLineMap(lines []Line, kind RangedElementKind) map[int]Line {
	out := make(map[int]Line)
	for i := range lines {
		opens, closes := LocalDelimiterOffsets(&lines[i], kind)
		pt := PartialTypeFor(&lines[i], kind, opens, closes)
		if pt == NotPartial {
			continue
		}
		ln := lines[i]
		if !ln.setPartial(kind, pt) {
			continue
		}
		out[i] = ln
	}
	return out
}

// ApplyPartialTypes returns a copy of lines with the kind's partial tag set
// on every delimiter-bearing line, leaving all other lines untouched.
func ApplyPartialTypes(lines []Line, kind RangedElementKind) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	for i, ln := range PartialLineMap(lines, kind) {
		out[i] = ln
	}
	return out
}

func sortedKeys(m map[int]Line) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
