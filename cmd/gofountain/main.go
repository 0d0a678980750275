/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gofountain/internal/bundle"
	"gofountain/internal/config"
	"gofountain/internal/crash"
	"gofountain/internal/domain"
	"gofountain/internal/export"
	applog "gofountain/internal/log"
	"gofountain/internal/storage"
	"gofountain/internal/version"
)

func usage() {
	fmt.Println("GoFountain — Fountain screenplay toolkit")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gofountain version|-v|--version             Show version")
	fmt.Println("  gofountain init <dir> <name>                Create a new project at <dir> with name <name>")
	fmt.Println("  gofountain open <dir>                       Open project at <dir> and print summary")
	fmt.Println("  gofountain save <dir>                       Save project at <dir> (creates backup)")
	fmt.Println("  gofountain parse <file.fountain>            Classify each line of a screenplay file")
	fmt.Println("  gofountain outline <file.fountain>          Print sections and scene headings")
	fmt.Println("  gofountain export <dir> [pdf|txt]           Export all screenplays of a project")
	fmt.Println("  gofountain index <dir>                      Rebuild the project search index")
	fmt.Println("  gofountain search <dir> <query>             Full-text search over the project index")
	fmt.Println("  gofountain bundle <dir> <out.zip>           Pack manifest and screenplays into a zip")
	fmt.Println("  gofountain unbundle <dir> <bundle.zip>      Restore a bundle (existing files kept)")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("GoFountain — Fountain screenplay toolkit")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			name := args[3]
			abs, _ := filepath.Abs(dir)
			l.Info("init project", slog.String("root", abs), slog.String("name", name))
			p := domain.Project{Name: name, Screenplays: []domain.ScreenplayRef{}}
			h, err := storage.InitProject(abs, p)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			fmt.Println("Created project at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open project", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := storage.BuildIndexIfEmpty(ctx, h.Root, h.Project); err != nil {
				l.Warn("background index build failed", slog.Any("err", err))
			}
			fmt.Printf("Opened project: %s\n", h.Project.Name)
			fmt.Printf("Screenplays: %d\n", len(h.Project.Screenplays))
			for _, ref := range h.Project.Screenplays {
				fmt.Printf("  %s (%s)\n", ref.Title, ref.Path)
			}
			fmt.Println("Root:", h.Root)
			return
		case "save":
			if len(args) < 3 {
				fmt.Println("save requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("save project", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Saved project and created a backup of previous manifest (if any).")
			return
		case "parse":
			if len(args) < 3 {
				fmt.Println("parse requires <file.fountain>")
				usage()
				os.Exit(2)
			}
			doc, err := readDocument(args[2])
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for i := range doc.Lines {
				ln := &doc.Lines[i]
				fmt.Printf("%4d  %-25s %s\n", i, ln.Type.String(), ln.Text)
			}
			return
		case "outline":
			if len(args) < 3 {
				fmt.Println("outline requires <file.fountain>")
				usage()
				os.Exit(2)
			}
			doc, err := readDocument(args[2])
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, item := range doc.Outline() {
				indent := ""
				for d := 0; d < item.Depth; d++ {
					indent += "  "
				}
				num := ""
				if item.SceneNumber != "" {
					num = " #" + item.SceneNumber + "#"
				}
				fmt.Printf("%4d  %s%s%s\n", item.LineIndex, indent, item.Text, num)
			}
			return
		case "export":
			if len(args) < 3 {
				fmt.Println("export requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.Open(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			var formats []string
			if len(args) > 3 {
				formats = args[3:]
			}
			cfg, _, err := config.Load()
			if err != nil {
				l.Warn("config load failed, using defaults", slog.Any("err", err))
				cfg = config.Defaults()
			}
			opt := export.BatchOptions{Formats: formats, Paper: cfg.Export.Paper, TitlePage: true}
			if err := export.BatchExport(h, opt); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported to", filepath.Join(abs, "exports"))
			return
		case "index":
			if len(args) < 3 {
				fmt.Println("index requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.Open(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			rebuilt, err := storage.DetectAndRebuildIndex(ctx, h.Root, h.Project)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if !rebuilt {
				if err := storage.RebuildIndex(ctx, h.Root, h.Project); err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
			}
			fmt.Println("Index rebuilt at", storage.IndexPath(h.Root))
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <query>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.Open(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := storage.BuildIndexIfEmpty(ctx, h.Root, h.Project); err != nil {
				l.Warn("index build failed", slog.Any("err", err))
			}
			res, err := storage.Search(ctx, h.Root, storage.SearchQuery{Text: args[3]})
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, r := range res {
				if r.LineNo >= 0 {
					fmt.Printf("%s:%d [%s] %s\n", r.Screenplay, r.LineNo, r.Type, r.Snippet)
				} else {
					fmt.Printf("%s [%s] %s\n", r.Path, r.Type, r.Snippet)
				}
			}
			if len(res) == 0 {
				fmt.Println("No matches.")
			}
			return
		case "bundle":
			if len(args) < 4 {
				fmt.Println("bundle requires <dir> and <out.zip>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			h, err := storage.Open(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ph = h
			out, _ := filepath.Abs(args[3])
			if err := bundle.ExportProjectBundle(h.Root, out); err != nil {
				l.Error("bundle export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Bundle written to", out)
			return
		case "unbundle":
			if len(args) < 4 {
				fmt.Println("unbundle requires <dir> and <bundle.zip>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			zp, _ := filepath.Abs(args[3])
			n, err := bundle.ImportProjectBundle(abs, zp)
			if err != nil {
				l.Error("bundle import failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Restored %d file(s) into %s\n", n, abs)
			return
		}
	}

	usage()
}

func readDocument(path string) (*domain.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	title := filepath.Base(path)
	return domain.NewDocument(title, string(b)), nil
}
