/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "github.com/rivo/uniseg"

// All offsets and lengths in this package are grapheme cluster counts. The
// helpers here wrap rivo/uniseg so the rest of the package never touches
// byte indices directly.

func graphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// GraphemeCount reports the number of grapheme clusters in s, the unit
// every Line offset and length is measured in.
func GraphemeCount(s string) int {
	return graphemeCount(s)
}

// GraphemeSlice returns the substring of s covering grapheme clusters
// [from, to). Out-of-range bounds clamp to the string. Callers that hold
// delimiter or range offsets use this to cut visible segments out of a
// raw line.
func GraphemeSlice(s string, from, to int) string {
	return graphemeSlice(s, from, to)
}

// graphemeAt returns the n-th (0-based) grapheme cluster of s.
func graphemeAt(s string, n int) (string, bool) {
	if n < 0 {
		return "", false
	}
	state := -1
	var cluster string
	for i := 0; len(s) > 0; i++ {
		cluster, s, _, state = uniseg.StepString(s, state)
		if i == n {
			return cluster, true
		}
	}
	return "", false
}

func firstGrapheme(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	cluster, _, _, _ := uniseg.StepString(s, -1)
	return cluster, true
}

func lastGrapheme(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	state := -1
	var cluster string
	for len(s) > 0 {
		cluster, s, _, state = uniseg.StepString(s, state)
	}
	return cluster, true
}

// graphemePrefix returns the first n grapheme clusters of s, or all of s if
// it is shorter.
func graphemePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	state := -1
	rest := s
	taken := 0
	for i := 0; i < n && len(rest) > 0; i++ {
		_, rest, _, state = uniseg.StepString(rest, state)
		taken = len(s) - len(rest)
	}
	return s[:taken]
}

// graphemeSlice returns the substring of s covering grapheme clusters
// [from, to). Out-of-range bounds clamp to the string.
func graphemeSlice(s string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to <= from {
		return ""
	}
	startByte := -1
	endByte := len(s)
	state := -1
	rest := s
	for i := 0; len(rest) > 0; i++ {
		if i == from {
			startByte = len(s) - len(rest)
		}
		if i == to {
			endByte = len(s) - len(rest)
			break
		}
		_, rest, _, state = uniseg.StepString(rest, state)
	}
	if startByte < 0 {
		if from == 0 {
			startByte = 0
		} else {
			return ""
		}
	}
	return s[startByte:endByte]
}
