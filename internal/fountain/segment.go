/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "strings"

// SegmentLines splits a raw document into an ordered sequence of untyped
// Line records. CRLF line breaks are normalized to LF before splitting;
// nothing else about the text is altered. An empty document yields an empty
// sequence, and a document without a trailing newline still yields its final
// partial line.
//
// The index of a record within the returned slice is the "global index"
// used throughout this package.
func SegmentLines(text string) []Line {
	fixed := strings.ReplaceAll(text, "\r\n", "\n")
	if fixed == "" {
		return nil
	}
	raw := strings.Split(fixed, "\n")
	// A trailing newline produces a final empty element that is not a line
	// of its own.
	if raw[len(raw)-1] == "" && strings.HasSuffix(fixed, "\n") {
		raw = raw[:len(raw)-1]
	}

	lines := make([]Line, 0, len(raw))
	position := 0
	for _, r := range raw {
		n := graphemeCount(r)
		lines = append(lines, Line{
			Type:     Unparsed,
			Text:     r,
			RawText:  r,
			Position: position,
			Length:   n,
		})
		position += n + 1 // +1 accounts for the removed newline
	}
	return lines
}
