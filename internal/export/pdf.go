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

	"github.com/jung-kurt/gofpdf"
	"gofountain/internal/domain"
	"gofountain/internal/fountain"
	"gofountain/internal/storage"
)

// PDFOptions controls screenplay PDF export.
// Layout follows the classic typewriter format: Courier 12pt at six lines
// per inch, 1.5in left margin, per-type indents. Units are points.
type PDFOptions struct {
	Paper       string // "letter" (default) or "a4"
	TitlePage   bool   // render a separate title page when the document has one
	SceneNumber bool   // print scene numbers next to headings
}

const (
	pdfFontSize = 12.0
	pdfLineH    = 12.0 // 6 lines per inch
	pdfCharW    = 7.2  // Courier 12pt is 10 cpi

	marginTop    = 72.0
	marginBottom = 72.0
	marginLeft   = 108.0
	marginRight  = 72.0
)

// Per-type indent from the left margin and wrap width, both in characters.
type typeMetrics struct {
	indent int
	width  int
}

var pdfMetrics = map[fountain.LineType]typeMetrics{
	fountain.Heading:                   {0, 61},
	fountain.Action:                    {0, 61},
	fountain.Lyrics:                    {0, 61},
	fountain.Shot:                      {0, 61},
	fountain.Unparsed:                  {0, 61},
	fountain.Character:                 {22, 38},
	fountain.DualDialogueCharacter:     {22, 38},
	fountain.Parenthetical:             {16, 30},
	fountain.DualDialogueParenthetical: {16, 30},
	fountain.Dialogue:                  {10, 35},
	fountain.DualDialogue:              {10, 35},
	fountain.More:                      {22, 38},
	fountain.DualDialogueMore:          {22, 38},
}

// pdfLine is one laid-out output line; More/DualDialogueMore rows are
// synthesized during pagination and never come from the parser.
type pdfLine struct {
	typ  fountain.LineType
	text string
}

// ExportScreenplayPDF renders one screenplay to a paginated PDF at outPath.
// A relative outPath lands under <project>/exports/.
func ExportScreenplayPDF(ph *storage.ProjectHandle, relPath, outPath string, opt PDFOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	text, err := storage.ReadScreenplay(ph, relPath)
	if err != nil {
		return err
	}
	doc := domain.NewDocument(screenplayTitle(ph, relPath), text)

	paper := PaperByName(opt.Paper)
	linesPerPage := int((paper.Height - marginTop - marginBottom) / pdfLineH)
	pages := paginate(doc, linesPerPage)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: paper.Width, Ht: paper.Height},
	})
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(ph.Project.Metadata.Author, true)
	pdf.SetFont("Courier", "", pdfFontSize)
	pdf.SetAutoPageBreak(false, 0)

	if opt.TitlePage {
		renderTitlePage(pdf, doc, paper)
	}

	for pi, page := range pages {
		pdf.AddPage()
		// Page number top right, skipped on the first script page.
		if pi > 0 {
			num := fmt.Sprintf("%d.", pi+1)
			pdf.Text(paper.Width-marginRight-float64(len(num))*pdfCharW, marginTop-pdfLineH, num)
		}
		y := marginTop
		for _, ln := range page {
			x := marginLeft + float64(pdfMetrics[ln.typ].indent)*pdfCharW
			switch ln.typ {
			case fountain.TransitionLine:
				x = paper.Width - marginRight - float64(fountain.GraphemeCount(ln.text))*pdfCharW
			case fountain.Centered:
				x = (paper.Width - float64(fountain.GraphemeCount(ln.text))*pdfCharW) / 2
			}
			if ln.text != "" {
				pdf.Text(x, y, ln.text)
			}
			y += pdfLineH
		}
	}

	outPath = resolveOutPath(ph, outPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// renderTitlePage prints the title page key/value block centered in the
// upper half, contact lines bottom left.
func renderTitlePage(pdf *gofpdf.Fpdf, doc *domain.Document, paper PaperSize) {
	var center, lower []string
	for i := range doc.Stripped {
		ln := &doc.Stripped[i]
		if !ln.IsTitlePage() {
			continue
		}
		text := titlePageValue(ln.Text)
		if text == "" {
			continue
		}
		switch ln.Type {
		case fountain.TitlePageContact, fountain.TitlePageSource, fountain.TitlePageDraftDate:
			lower = append(lower, text)
		default:
			center = append(center, text, "")
		}
	}
	if len(center) == 0 && len(lower) == 0 {
		return
	}
	pdf.AddPage()
	y := paper.Height * 0.35
	for _, s := range center {
		x := (paper.Width - float64(fountain.GraphemeCount(s))*pdfCharW) / 2
		if s != "" {
			pdf.Text(x, y, s)
		}
		y += pdfLineH
	}
	y = paper.Height - marginBottom - float64(len(lower))*pdfLineH
	for _, s := range lower {
		pdf.Text(marginLeft, y, s)
		y += pdfLineH
	}
}

// titlePageValue drops the "Key:" prefix of an inline title page line.
func titlePageValue(s string) string {
	if i := strings.Index(s, ":"); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return strings.TrimSpace(s)
}

// paginate wraps and splits the stripped view into pages of at most
// linesPerPage rows. When a dialogue block crosses a page boundary the
// break is marked with a More row and the cue is repeated with (CONT'D),
// using DualDialogueMore for the right-hand dual dialogue speaker.
func paginate(doc *domain.Document, linesPerPage int) [][]pdfLine {
	if linesPerPage < 4 {
		linesPerPage = 4
	}
	var (
		pages [][]pdfLine
		cur   []pdfLine
		cue   string
		dual  bool
	)
	flush := func() {
		pages = append(pages, cur)
		cur = nil
	}
	for i := range doc.Stripped {
		ln := &doc.Stripped[i]
		if ln.IsTitlePage() || ln.Type == fountain.Section || ln.Type == fountain.Synopsis {
			continue
		}
		if ln.Type == fountain.PageBreak {
			if len(cur) > 0 {
				flush()
			}
			cue = ""
			continue
		}
		switch {
		case ln.Type == fountain.Empty:
			cue = ""
			if len(cur) >= linesPerPage {
				flush()
			} else if len(cur) > 0 {
				cur = append(cur, pdfLine{typ: fountain.Empty})
			}
			continue
		case ln.IsAnyCharacter():
			cue = displayCue(ln.Text)
			dual = ln.Type == fountain.DualDialogueCharacter
		}

		wrapped := wrapText(ln.Text, pdfMetrics[ln.Type].width)
		for _, w := range wrapped {
			if len(cur) >= linesPerPage {
				if cue != "" && ln.IsAnyDialogue() {
					// Replace the last row with (MORE) if it would orphan the
					// block, then reopen with the cue on the next page.
					moreTyp := fountain.More
					contTyp := fountain.Character
					if dual {
						moreTyp = fountain.DualDialogueMore
						contTyp = fountain.DualDialogueCharacter
					}
					cur = append(cur, pdfLine{typ: moreTyp, text: "(MORE)"})
					flush()
					cur = append(cur, pdfLine{typ: contTyp, text: cue + " (CONT'D)"})
				} else {
					flush()
				}
			}
			cur = append(cur, pdfLine{typ: ln.Type, text: w})
		}
	}
	if len(cur) > 0 {
		flush()
	}
	return pages
}

// displayCue strips forced-character and dual dialogue markers but keeps
// any extension like (V.O.) out of the repeated cue.
func displayCue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "@")
	s = strings.TrimSuffix(s, "^")
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// wrapText greedily wraps s to width grapheme clusters, the unit the whole
// layout is measured in. Words longer than the width are hard-split.
func wrapText(s string, width int) []string {
	if width <= 0 {
		width = 61
	}
	if fountain.GraphemeCount(s) <= width {
		return []string{s}
	}
	var out []string
	words := strings.Fields(s)
	line := ""
	lineLen := 0
	for _, w := range words {
		wLen := fountain.GraphemeCount(w)
		for wLen > width {
			if line != "" {
				out = append(out, line)
				line = ""
				lineLen = 0
			}
			out = append(out, fountain.GraphemeSlice(w, 0, width))
			w = fountain.GraphemeSlice(w, width, wLen)
			wLen -= width
		}
		switch {
		case line == "":
			line = w
			lineLen = wLen
		case lineLen+1+wLen <= width:
			line += " " + w
			lineLen += 1 + wLen
		default:
			out = append(out, line)
			line = w
			lineLen = wLen
		}
	}
	if line != "" {
		out = append(out, line)
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}
