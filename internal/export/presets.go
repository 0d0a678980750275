/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"gofountain/internal/storage"
)

// PaperSize is a page format in points.
type PaperSize struct {
	Name   string
	Width  float64
	Height float64
}

var (
	Letter = PaperSize{Name: "letter", Width: 612, Height: 792}
	A4     = PaperSize{Name: "a4", Width: 595.28, Height: 841.89}
)

// PaperByName resolves a paper preset, defaulting to letter. US screenplay
// format assumes letter; a4 keeps the same margins on the metric size.
func PaperByName(name string) PaperSize {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "a4":
		return A4
	default:
		return Letter
	}
}

// BatchOptions controls batch export across screenplays and formats.
//
// Path semantics:
//   - If OutDir is empty or relative, outputs land under <project>/exports/<OutDir>/.
//   - Per-format subfolders pdf/ and txt/ keep outputs grouped.
//   - Output names derive from the screenplay file name.
type BatchOptions struct {
	Formats     []string // allowed: pdf, txt; empty means both
	Screenplays []int    // zero-based manifest indices; empty means all
	Paper       string   // paper preset for PDF, empty means letter
	TitlePage   bool     // render title pages in PDF output
	OutDir      string
}

// BatchExport runs exports for the selected screenplays and formats.
func BatchExport(ph *storage.ProjectHandle, opt BatchOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	if len(ph.Project.Screenplays) == 0 {
		return fmt.Errorf("project has no screenplays")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = []string{"pdf", "txt"}
	}
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	baseOut := opt.OutDir
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(ph.Root, "exports", baseOut)
	}

	idxs := opt.Screenplays
	if len(idxs) == 0 {
		idxs = make([]int, len(ph.Project.Screenplays))
		for i := range idxs {
			idxs[i] = i
		}
	}

	for _, si := range idxs {
		if si < 0 || si >= len(ph.Project.Screenplays) {
			continue
		}
		ref := ph.Project.Screenplays[si]
		stem := strings.TrimSuffix(filepath.Base(ref.Path), filepath.Ext(ref.Path))
		for _, f := range formats {
			switch f {
			case "pdf":
				out := filepath.Join(baseOut, "pdf", stem+".pdf")
				po := PDFOptions{Paper: opt.Paper, TitlePage: opt.TitlePage}
				if err := ExportScreenplayPDF(ph, ref.Path, out, po); err != nil {
					return fmt.Errorf("pdf %s: %w", ref.Path, err)
				}
			case "txt":
				out := filepath.Join(baseOut, "txt", stem+".txt")
				if err := ExportScreenplayText(ph, ref.Path, out); err != nil {
					return fmt.Errorf("txt %s: %w", ref.Path, err)
				}
			default:
				return fmt.Errorf("unknown format: %s", f)
			}
		}
	}
	return nil
}
