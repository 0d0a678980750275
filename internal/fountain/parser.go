/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "strings"

// Parse segments a raw document and classifies every line.
func Parse(text string) []Line {
	return ParseLines(SegmentLines(text))
}

// ParseLines assigns a LineType to every line in a single forward pass.
//
// Classification of line i consults only line i's own text and the already
// finalized type of line i-1; look-ahead is never used. Character cues need
// a non-empty following line to remain valid, so the one place state flows
// backward is a retroactive fix-up: when a freshly classified line turns out
// Empty and the previous line was classified Character, the previous line is
// repaired to Action immediately, before the next line is examined.
func ParseLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)

	for i := range out {
		t, forced := classifyLine(out, i)
		out[i].Type = t
		out[i].Forced = forced
		if t == Section {
			out[i].SectionDepth = leadingCount(out[i].Text, "#")
		}

		if t == Empty && i > 0 && out[i-1].Type == Character {
			out[i-1].Type = Action
		}
	}
	return out
}

// classifyLine runs the rule chain for one line; first match wins. The
// returned bool reports whether a forced marker drove the classification.
func classifyLine(lines []Line, i int) (LineType, bool) {
	line := &lines[i]
	var prev *Line
	if i > 0 {
		prev = &lines[i-1]
	}
	// No previous line behaves like a previous Empty line.
	prevEmpty := prev == nil || prev.Type == Empty

	if len(line.Text) == 0 {
		return Empty, false
	}
	if t, forced, ok := checkForced(line, prevEmpty); ok {
		return t, forced
	}
	if t, ok := checkTitlePage(line, prev); ok {
		return t, false
	}
	if t, ok := checkTransition(line, prevEmpty); ok {
		return t, false
	}
	if t, ok := checkHeading(line, prevEmpty); ok {
		return t, false
	}
	if t, ok := checkDualDialogue(line, prev); ok {
		return t, false
	}
	if t, ok := checkCharacter(line, prev); ok {
		return t, false
	}
	if t, ok := checkDialogueOrParenthetical(line, prev); ok {
		return t, false
	}
	return Action, false
}

// checkForced handles whitespace-only lines and every leading/trailing
// marker override. Markers are mutually exclusive; the '.' marker appears
// twice because its meaning depends on the previous line.
func checkForced(line *Line, prevEmpty bool) (LineType, bool, bool) {
	first, ok1 := firstGrapheme(line.Text)
	last, ok2 := lastGrapheme(line.Text)
	if !ok1 || !ok2 {
		return Unparsed, false, false
	}

	// Whitespace-only text is Empty, except the "forced whitespace" form:
	// at least two characters with a space as both first and last grapheme,
	// which falls through to default Action classification.
	onlyWhitespace := strings.TrimSpace(line.Text) == ""
	forcedWhitespace := first == " " && last == " " && graphemeCount(line.Text) > 1
	if onlyWhitespace && !forcedWhitespace {
		return Empty, false, true
	}

	if line.Text == pageBreakMarker {
		return PageBreak, true, true
	}

	// '!' forces Action; '!!' forces a Shot.
	if first == "!" {
		if second, ok := graphemeAt(line.Text, 1); ok && second == "!" {
			return Shot, true, true
		}
		return Action, true, true
	}

	// '.' after a non-empty line forces a heading, unless the second
	// character is another '.'. Screenwriters start dialogue with "words"
	// like '.44', which must not become sluglines.
	if first == "." && !prevEmpty {
		if second, ok := graphemeAt(line.Text, 1); ok {
			if second != "." {
				return Heading, true, true
			}
			return Unparsed, false, false
		}
		return Heading, true, true
	}

	switch first {
	case ">":
		if last == "<" {
			return Centered, true, true
		}
		return TransitionLine, true, true
	case "~":
		return Lyrics, true, true
	case "=":
		return Synopsis, true, true
	case "#":
		return Section, true, true
	case "@":
		if last == "^" && prevEmpty {
			return DualDialogueCharacter, true, true
		}
		return Character, true, true
	case ".":
		if prevEmpty {
			return Heading, true, true
		}
	}
	return Unparsed, false, false
}

const pageBreakMarker = "==="

var titlePageKeys = map[string]LineType{
	"title":        TitlePageTitle,
	"author":       TitlePageAuthor,
	"authors":      TitlePageAuthor,
	"credit":       TitlePageCredit,
	"source":       TitlePageSource,
	"contact":      TitlePageContact,
	"contacts":     TitlePageContact,
	"contact info": TitlePageContact,
	"draft":        TitlePageDraftDate,
	"draft date":   TitlePageDraftDate,
}

// checkTitlePage classifies title page elements. The title page is only
// open at the very start of a document: either there is no previous line
// yet, or the previous line is itself a title page element. A keyless line
// continues the previous element when that element had a key or the line is
// indented with a tab or three spaces.
func checkTitlePage(line *Line, prev *Line) (LineType, bool) {
	if prev != nil && !prev.IsTitlePage() {
		return Unparsed, false
	}

	if key := line.TitlePageKey(); key != "" {
		if t, ok := titlePageKeys[key]; ok {
			return t, true
		}
		return TitlePageUnknown, true
	}

	if prev != nil {
		if prev.TitlePageKey() != "" || strings.HasPrefix(line.Text, "\t") ||
			strings.HasPrefix(line.Text, "   ") {
			return prev.Type, true
		}
	}
	return Unparsed, false
}

// checkTransition matches all-uppercase lines ending in ':' after an empty
// line, e.g. "CUT TO:".
func checkTransition(line *Line, prevEmpty bool) (LineType, bool) {
	if !prevEmpty || graphemeCount(line.Text) <= 2 {
		return Unparsed, false
	}
	if last, ok := lastGrapheme(line.Text); !ok || last != ":" {
		return Unparsed, false
	}
	if line.Text != strings.ToUpper(line.Text) {
		return Unparsed, false
	}
	return TransitionLine, true
}

// checkHeading matches sluglines like "INT. HOUSE - DAY". The grapheme at
// index 4 must be '.', ' ' or '/' so that words like "international" do not
// become headings.
func checkHeading(line *Line, prevEmpty bool) (LineType, bool) {
	if !prevEmpty || graphemeCount(line.Text) < 3 {
		return Unparsed, false
	}
	switch strings.ToLower(graphemePrefix(line.Text, 3)) {
	case "int", "ext", "est", "i/e":
	default:
		return Unparsed, false
	}
	if g, ok := graphemeAt(line.Text, 4); ok {
		switch g {
		case ".", " ", "/":
			return Heading, true
		}
	}
	return Unparsed, false
}

// checkDualDialogue continues a dual dialogue block opened by a cue with a
// trailing '^'.
func checkDualDialogue(line *Line, prev *Line) (LineType, bool) {
	if prev == nil || !prev.IsDualDialogue() {
		return Unparsed, false
	}
	if first, ok := firstGrapheme(line.Text); ok {
		if first == "(" {
			return DualDialogueParenthetical, true
		}
		return DualDialogue, true
	}
	return Unparsed, false
}

// checkCharacter matches character cues: all-uppercase text (up to an
// opening parenthesis) on a line following an empty line. All-caps text
// after a non-empty line is an emphasized Action line, not a cue.
func checkCharacter(line *Line, prev *Line) (LineType, bool) {
	if line.Text == "" || !uppercaseUntilParenthesis(line.Text) {
		return Unparsed, false
	}
	// Two leading spaces force dialogue, never a cue.
	if line.Text != strings.TrimSpace(line.Text) && strings.HasPrefix(line.Text, "  ") {
		return Unparsed, false
	}
	if last, ok := lastGrapheme(line.Text); ok && last == "^" {
		return DualDialogueCharacter, true
	}
	if prev != nil && prev.Type != Empty {
		return Action, true
	}
	return Character, true
}

// checkDialogueOrParenthetical continues a dialogue block: '(' opens a
// parenthetical, anything else is spoken text.
func checkDialogueOrParenthetical(line *Line, prev *Line) (LineType, bool) {
	if prev == nil {
		return Unparsed, false
	}
	if prev.IsDialogue() && len(prev.Text) > 0 {
		if first, ok := firstGrapheme(line.Text); ok && first == "(" {
			return Parenthetical, true
		}
		return Dialogue, true
	}
	if prev.Type == Parenthetical {
		return Dialogue, true
	}
	return Unparsed, false
}

// uppercaseUntilParenthesis reports whether the text before the first '('
// is non-empty and entirely uppercase.
func uppercaseUntilParenthesis(s string) bool {
	head, _, _ := strings.Cut(s, "(")
	return head != "" && head == strings.ToUpper(head)
}

func leadingCount(s, marker string) int {
	n := 0
	for strings.HasPrefix(s[n:], marker) {
		n += len(marker)
	}
	return n
}
