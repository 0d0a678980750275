/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gofountain/internal/domain"
	"gofountain/internal/storage"
)

// VisibleText renders a document's stripped view back to plain text: notes
// and boneyards are gone, everything else keeps its original line breaks.
func VisibleText(doc *domain.Document) string {
	var b strings.Builder
	for i := range doc.Stripped {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(doc.Stripped[i].Text)
	}
	return b.String()
}

// ExportScreenplayText writes the visible text of one screenplay to outPath.
// A relative outPath lands under <project>/exports/.
func ExportScreenplayText(ph *storage.ProjectHandle, relPath, outPath string) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	text, err := storage.ReadScreenplay(ph, relPath)
	if err != nil {
		return err
	}
	doc := domain.NewDocument(screenplayTitle(ph, relPath), text)

	outPath = resolveOutPath(ph, outPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(VisibleText(doc)), 0o644); err != nil {
		return fmt.Errorf("write text export: %w", err)
	}
	return nil
}

// screenplayTitle finds the manifest title for a screenplay path, falling
// back to the file name.
func screenplayTitle(ph *storage.ProjectHandle, relPath string) string {
	for _, ref := range ph.Project.Screenplays {
		if ref.Path == relPath {
			return ref.Title
		}
	}
	return strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
}

func resolveOutPath(ph *storage.ProjectHandle, outPath string) string {
	if filepath.IsAbs(outPath) {
		return outPath
	}
	return filepath.Join(ph.Root, "exports", outPath)
}
