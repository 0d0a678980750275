/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package export

import "gofountain/internal/fountain"

// Legacy numeric codes for line types, used only at serialization
// boundaries (interchange files, external tools). The core classifier
// never sees these; keep the mapping here so the parser's type set stays
// free of wire concerns. Unparsed is 99 for historical reasons.
var lineTypeOrdinals = map[fountain.LineType]int{
	fountain.Empty:                     0,
	fountain.Section:                   1,
	fountain.Synopsis:                  2,
	fountain.TitlePageTitle:            3,
	fountain.TitlePageAuthor:           4,
	fountain.TitlePageCredit:           5,
	fountain.TitlePageSource:           6,
	fountain.TitlePageContact:          7,
	fountain.TitlePageDraftDate:        8,
	fountain.TitlePageUnknown:          9,
	fountain.Heading:                   10,
	fountain.Action:                    11,
	fountain.Character:                 12,
	fountain.Parenthetical:             13,
	fountain.Dialogue:                  14,
	fountain.DualDialogueCharacter:     15,
	fountain.DualDialogueParenthetical: 16,
	fountain.DualDialogue:              17,
	fountain.TransitionLine:            18,
	fountain.Lyrics:                    19,
	fountain.PageBreak:                 20,
	fountain.Centered:                  21,
	fountain.Shot:                      22,
	fountain.More:                      23,
	fountain.DualDialogueMore:          24,
	fountain.Unparsed:                  99,
}

var ordinalLineTypes = func() map[int]fountain.LineType {
	m := make(map[int]fountain.LineType, len(lineTypeOrdinals))
	for t, n := range lineTypeOrdinals {
		m[n] = t
	}
	return m
}()

// Ordinal returns the legacy numeric code for a line type. Unknown types
// map to the Unparsed code.
func Ordinal(t fountain.LineType) int {
	if n, ok := lineTypeOrdinals[t]; ok {
		return n
	}
	return lineTypeOrdinals[fountain.Unparsed]
}

// TypeForOrdinal resolves a legacy numeric code back to a line type.
func TypeForOrdinal(n int) (fountain.LineType, bool) {
	t, ok := ordinalLineTypes[n]
	return t, ok
}
