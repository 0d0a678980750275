/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fountain parses plain-text screenplays written in the Fountain
// markup convention. It classifies every physical line of a document with a
// single forward pass, and separately resolves "invisible" ranged elements
// (notes and boneyards) that may span several lines.
//
// Classification is total: every input line receives a concrete type and no
// error paths exist. All positions and lengths are grapheme-cluster counts,
// not bytes or runes.
package fountain

// LineType is the semantic type of a single screenplay line.
// The set is closed; values are only produced by the classifier, with the
// exception of More and DualDialogueMore, which are never emitted during
// parsing and exist for the export layer to mark dialogue continuation
// across page breaks.
type LineType int

const (
	Empty LineType = iota
	Section
	Synopsis
	TitlePageTitle
	TitlePageAuthor
	TitlePageCredit
	TitlePageSource
	TitlePageContact
	TitlePageDraftDate
	TitlePageUnknown
	Heading
	Action
	Character
	Parenthetical
	Dialogue
	DualDialogueCharacter
	DualDialogueParenthetical
	DualDialogue
	TransitionLine
	Lyrics
	PageBreak
	Centered
	Shot
	More
	DualDialogueMore
	Unparsed
)

var lineTypeNames = map[LineType]string{
	Empty:                     "Empty",
	Section:                   "Section",
	Synopsis:                  "Synopsis",
	TitlePageTitle:            "TitlePageTitle",
	TitlePageAuthor:           "TitlePageAuthor",
	TitlePageCredit:           "TitlePageCredit",
	TitlePageSource:           "TitlePageSource",
	TitlePageContact:          "TitlePageContact",
	TitlePageDraftDate:        "TitlePageDraftDate",
	TitlePageUnknown:          "TitlePageUnknown",
	Heading:                   "Heading",
	Action:                    "Action",
	Character:                 "Character",
	Parenthetical:             "Parenthetical",
	Dialogue:                  "Dialogue",
	DualDialogueCharacter:     "DualDialogueCharacter",
	DualDialogueParenthetical: "DualDialogueParenthetical",
	DualDialogue:              "DualDialogue",
	TransitionLine:            "TransitionLine",
	Lyrics:                    "Lyrics",
	PageBreak:                 "PageBreak",
	Centered:                  "Centered",
	Shot:                      "Shot",
	More:                      "More",
	DualDialogueMore:          "DualDialogueMore",
	Unparsed:                  "Unparsed",
}

func (t LineType) String() string {
	if s, ok := lineTypeNames[t]; ok {
		return s
	}
	return "Unknown"
}

// PartialLineType describes how a line relates to the open/close delimiters
// of one ranged element kind. The zero value NotPartial means the line
// carries no delimiter of that kind; it is a normal outcome, not an error.
type PartialLineType int

const (
	// NotPartial is the absent tag: the line contains no open or close
	// delimiter occurrence for the kind in question.
	NotPartial PartialLineType = iota
	// SelfContained lines hold at least one complete invisible span plus
	// some visible text.
	SelfContained
	// OrphanedOpen lines contain an open delimiter with no matching close
	// on the same line.
	OrphanedOpen
	// OrphanedClose lines contain a close delimiter with no matching open
	// on the same line.
	OrphanedClose
	// OrphanedOpenAndClose lines close a prior span and open a new one
	// before the line ends.
	OrphanedOpenAndClose
	// InvisibleOnly lines are wholly consumed by invisible spans and carry
	// no visible text.
	InvisibleOnly
)

var partialTypeNames = map[PartialLineType]string{
	NotPartial:           "NotPartial",
	SelfContained:        "SelfContained",
	OrphanedOpen:         "OrphanedOpen",
	OrphanedClose:        "OrphanedClose",
	OrphanedOpenAndClose: "OrphanedOpenAndClose",
	InvisibleOnly:        "InvisibleOnly",
}

func (t PartialLineType) String() string {
	if s, ok := partialTypeNames[t]; ok {
		return s
	}
	return "Unknown"
}

// RangedElementKind names an invisible element family and owns its delimiter
// pair. The two kinds Fountain defines are Boneyard and Note; Other exists
// for future delimiter pairs and is carried through the locator unchanged,
// but lines never receive partial tags for it.
type RangedElementKind struct {
	Label string
	Open  string
	Close string
}

// Fixed delimiter constants; not configurable per instance.
var (
	Boneyard = RangedElementKind{Label: "boneyard", Open: "/*", Close: "*/"}
	Note     = RangedElementKind{Label: "note", Open: "[[", Close: "]]"}
)

// OtherKind builds a ranged element kind for a custom delimiter pair.
func OtherKind(open, close string) RangedElementKind {
	return RangedElementKind{Label: "other", Open: open, Close: close}
}
