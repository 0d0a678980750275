/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "strings"

// GraphemeSet records grapheme offsets within a line that carry a
// formatting mark.
type GraphemeSet map[int]struct{}

// Marks holds the per-range formatting mark sets of a line. The sets are
// carried as data; population by an inline-formatting pass happens outside
// the classifier.
type Marks struct {
	Bold              GraphemeSet
	Italic            GraphemeSet
	BoldItalic        GraphemeSet
	Underline         GraphemeSet
	Strikeout         GraphemeSet
	Note              GraphemeSet
	Omitted           GraphemeSet
	Escape            GraphemeSet
	RemovalSuggestion GraphemeSet
}

// Line is one physical line of a screenplay document.
//
// Text starts out identical to RawText; once invisible ranges have been
// stripped by a document-level pass, Text holds the visible remainder while
// RawText keeps the original bytes. Position is the grapheme offset of the
// line start from the beginning of the document, counting one grapheme per
// removed newline. Length is the grapheme count of Text.
type Line struct {
	Type     LineType
	Text     string
	RawText  string
	Position int
	Length   int

	// SectionDepth is the number of leading '#' markers for Section lines.
	SectionDepth int
	// SceneNumber is populated by a later outline pass, never here.
	SceneNumber string
	// Color is an optional outline color tag.
	Color string
	// Forced is true when a leading or trailing marker character drove the
	// classification.
	Forced bool

	// Partial tags are independent per ranged element kind: a line may be
	// orphaned with respect to notes and ordinary with respect to
	// boneyards. The zero value means "no delimiter of that kind here".
	NotePartial     PartialLineType
	BoneyardPartial PartialLineType

	Marks Marks
}

// PartialFor returns the line's partial tag for the given kind. Kinds other
// than Note and Boneyard carry no tag.
func (l *Line) PartialFor(kind RangedElementKind) PartialLineType {
	switch kind.Label {
	case Note.Label:
		return l.NotePartial
	case Boneyard.Label:
		return l.BoneyardPartial
	}
	return NotPartial
}

func (l *Line) setPartial(kind RangedElementKind, pt PartialLineType) bool {
	switch kind.Label {
	case Note.Label:
		l.NotePartial = pt
	case Boneyard.Label:
		l.BoneyardPartial = pt
	default:
		return false
	}
	return true
}

// IsTitlePage reports whether the line is a recognized title page element.
// TitlePageUnknown is deliberately excluded: an unknown key does not keep
// the title page open for following lines.
func (l *Line) IsTitlePage() bool {
	switch l.Type {
	case TitlePageTitle, TitlePageCredit, TitlePageAuthor,
		TitlePageDraftDate, TitlePageContact, TitlePageSource:
		return true
	}
	return false
}

// IsOutlineElement reports whether the line contributes to the outline.
func (l *Line) IsOutlineElement() bool {
	return l.Type == Heading || l.Type == Section
}

// IsInvisible reports whether the line is non-printing in the eyes of the
// parser: sections, synopses and title page elements.
func (l *Line) IsInvisible() bool {
	return l.Type == Section || l.Type == Synopsis || l.IsTitlePage()
}

// CanBeSplitParagraph reports whether the line may be split across pages.
func (l *Line) CanBeSplitParagraph() bool {
	return l.Type == Action || l.Type == Lyrics || l.Type == Centered
}

// IsDialogue reports whether the line belongs to a plain dialogue block,
// including the character cue.
func (l *Line) IsDialogue() bool {
	return l.Type == Character || l.Type == Parenthetical ||
		l.Type == Dialogue || l.Type == More
}

// IsDialogueElement reports dialogue block membership excluding the cue.
func (l *Line) IsDialogueElement() bool {
	return l.Type == Parenthetical || l.Type == Dialogue
}

// IsDualDialogue reports whether the line belongs to a dual dialogue block,
// including the character cue.
func (l *Line) IsDualDialogue() bool {
	return l.Type == DualDialogue || l.Type == DualDialogueCharacter ||
		l.Type == DualDialogueParenthetical || l.Type == DualDialogueMore
}

// IsDualDialogueElement reports dual dialogue membership excluding the cue.
func (l *Line) IsDualDialogueElement() bool {
	return l.Type == DualDialogueParenthetical || l.Type == DualDialogue ||
		l.Type == DualDialogueMore
}

// IsAnySortOfDialogue reports whether the line is dialogue of either column.
func (l *Line) IsAnySortOfDialogue() bool {
	return l.IsDialogue() || l.IsDualDialogue()
}

// IsAnyCharacter reports whether the line is a character cue of either column.
func (l *Line) IsAnyCharacter() bool {
	return l.Type == Character || l.Type == DualDialogueCharacter
}

// IsAnyParenthetical reports whether the line is a parenthetical of either column.
func (l *Line) IsAnyParenthetical() bool {
	return l.Type == Parenthetical || l.Type == DualDialogueParenthetical
}

// IsAnyDialogue reports whether the line is spoken text of either column.
func (l *Line) IsAnyDialogue() bool {
	return l.Type == Dialogue || l.Type == DualDialogue
}

// TitlePageKey extracts the lower-cased key before the first ':' of a title
// page candidate line. It returns "" for degenerate cases: no colon, colon
// at position 0, a leading space, or a prefix ending in " to" (which keeps
// transition lines like "CUT TO:" out of the title page).
func (l *Line) TitlePageKey() string {
	if len(l.Text) == 0 {
		return ""
	}
	i := strings.Index(l.Text, ":")
	if i < 0 {
		return ""
	}
	if i == 0 || strings.HasPrefix(l.Text, " ") ||
		strings.HasSuffix(strings.ToLower(l.Text[:i]), " to") {
		return ""
	}
	return strings.ToLower(l.Text[:i])
}
