/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "github.com/google/uuid"

// MultilineRange is a resolved invisible span crossing at least two lines.
// StartLine/StartOffset locate the opening delimiter, EndLine/EndOffset the
// matched closing delimiter; offsets are local grapheme positions. Ranges
// are immutable once assembled.
type MultilineRange struct {
	ID          uuid.UUID
	Kind        RangedElementKind
	StartLine   int
	StartOffset int
	EndLine     int
	EndOffset   int
}

// AssembleMultilineRanges pairs orphaned opens with orphaned closes across
// the document, walking the partial-tagged lines of one kind in ascending
// global order with a single pending-open pointer.
//
// A range is valid only when zero SelfContained or InvisibleOnly lines sit
// between the open and its close: such a line voids the pending open. An
// OrphanedOpen while another open is already pending is absorbed by the
// pending span and does not move the pointer. A dangling open with no close
// anywhere below simply yields no range, which is valid output for an
// unfinished invisible block. The alternative policy of pairing the first
// orphaned open with the last valid close in the document, swallowing
// everything between, is deliberately not implemented.
func AssembleMultilineRanges(partials map[int]Line, kind RangedElementKind) []MultilineRange {
	var ranges []MultilineRange

	pendingLine, pendingOffset := 0, 0
	pending := false

	for _, idx := range sortedKeys(partials) {
		ln := partials[idx]
		pt := ln.PartialFor(kind)

		if pending {
			switch pt {
			case OrphanedClose, OrphanedOpenAndClose:
				_, closes := LocalDelimiterOffsets(&ln, kind)
				ranges = append(ranges, MultilineRange{
					ID:          uuid.New(),
					Kind:        kind,
					StartLine:   pendingLine,
					StartOffset: pendingOffset,
					EndLine:     idx,
					EndOffset:   closes[0],
				})
				pending = false
			case SelfContained, InvisibleOnly:
				// An interruption disqualifies the pending open for good.
				pending = false
				continue
			default:
				continue
			}
		}

		if pt == OrphanedOpen || pt == OrphanedOpenAndClose {
			opens, _ := LocalDelimiterOffsets(&ln, kind)
			pendingLine = idx
			pendingOffset = opens[len(opens)-1]
			pending = true
		}
	}
	return ranges
}

// ResolveMultilineRanges is the composed form: it tags partial lines for
// kind and assembles their validated multi-line ranges in one call.
func ResolveMultilineRanges(lines []Line, kind RangedElementKind) []MultilineRange {
	return AssembleMultilineRanges(PartialLineMap(lines, kind), kind)
}
