// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives the per-archive extraction sequence: unpack,
// read, clean, convert, normalize, persist. Archives are processed one at
// a time; a failure is contained to its archive and the run continues.
package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/tex2text/internal/archive"
	"github.com/pdiddy/tex2text/internal/normalize"
	"github.com/pdiddy/tex2text/internal/report"
	"github.com/pdiddy/tex2text/internal/source"
	"github.com/pdiddy/tex2text/internal/texclean"
	"github.com/pdiddy/tex2text/internal/texrender"
	"github.com/pdiddy/tex2text/pkg/types"
)

// Summary holds the outcome of a batch extraction run.
type Summary struct {
	Extracted int
	Skipped   int
	Failed    int
}

// Total returns the total number of archives processed.
func (s Summary) Total() int {
	return s.Extracted + s.Skipped + s.Failed
}

// HasFailures reports whether any archives failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Pipeline processes archives from the input folder into plain-text files
// and a statistics report.
type Pipeline struct {
	cfg      types.ExtractionConfig
	renderer texrender.Renderer
	store    report.Store
	out      io.Writer
	debug    io.Writer
}

// New creates a pipeline. Per-archive status lines go to out; verbose
// per-stage diagnostics go to out only when cfg.Debug is set.
func New(cfg types.ExtractionConfig, renderer texrender.Renderer, store report.Store, out io.Writer) *Pipeline {
	cfg.ApplyDefaults()
	debug := io.Writer(io.Discard)
	if cfg.Debug {
		debug = out
	}
	return &Pipeline{
		cfg:      cfg,
		renderer: renderer,
		store:    store,
		out:      out,
		debug:    debug,
	}
}

// Run discovers archives in the input folder and processes each in
// directory order, printing per-archive status and a batch summary. The
// report is flushed after all archives are attempted. Individual archive
// failures do not produce an error; only setup problems do.
func (p *Pipeline) Run() (Summary, error) {
	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output folder: %w", err)
	}

	archives, err := archive.Discover(p.cfg.InputDir, p.cfg.ArchiveExts)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	for _, in := range archives {
		switch p.ProcessArchive(in) {
		case types.StatusPersisted:
			summary.Extracted++
		case types.StatusSkipped:
			summary.Skipped++
		case types.StatusFailed:
			summary.Failed++
		}
	}

	fmt.Fprintf(p.out, "\nBatch summary: %d extracted, %d skipped, %d failed (total: %d)\n",
		summary.Extracted, summary.Skipped, summary.Failed, summary.Total())

	if err := p.store.Flush(); err != nil {
		return summary, fmt.Errorf("flushing report: %w", err)
	}
	fmt.Fprintf(p.out, "Extraction complete. Statistics saved to %s\n", p.cfg.ReportPath)
	return summary, nil
}

// ProcessArchive runs one archive through the pipeline and returns its
// terminal status. The scratch workspace is removed on every exit path.
func (p *Pipeline) ProcessArchive(in types.ArchiveInput) types.Status {
	outPath := filepath.Join(p.cfg.OutputDir, in.Name+".txt")

	if _, err := os.Stat(outPath); err == nil && !p.cfg.Force {
		fmt.Fprintf(p.out, "skipped: %s (already exists)\n", in.Name)
		return types.StatusSkipped
	}

	start := time.Now()

	status := types.StatusUnpacking
	fmt.Fprintf(p.debug, "%s: %s %s\n", in.Name, status, in.Path)
	scratch, err := archive.NewScratch(in.Name)
	if err != nil {
		return p.fail(in, status, err)
	}
	defer os.RemoveAll(scratch)

	if err := archive.Unpack(in.Path, scratch); err != nil {
		return p.fail(in, status, err)
	}

	status = types.StatusReading
	fmt.Fprintf(p.debug, "%s: %s\n", in.Name, status)
	docs, err := source.FindSources(scratch, p.cfg.SourceExt, p.cfg.Encodings, p.debug)
	if err != nil {
		return p.fail(in, status, err)
	}
	main := source.FindMain(docs)
	fmt.Fprintf(p.debug, "%s: main source %s (%s, %d source files)\n",
		in.Name, main.Name, main.Encoding, len(docs))

	status = types.StatusCleaning
	fmt.Fprintf(p.debug, "%s: %s\n", in.Name, status)
	cleaned := texclean.Strip(main.Content, p.debug)

	status = types.StatusConverting
	fmt.Fprintf(p.debug, "%s: %s\n", in.Name, status)
	rendered, err := p.renderer.Render(cleaned)
	if err != nil {
		return p.fail(in, status, err)
	}

	status = types.StatusNormalizing
	fmt.Fprintf(p.debug, "%s: %s\n", in.Name, status)
	text := normalize.Normalize(rendered)

	result := types.ExtractionResult{
		Name:       in.Name,
		Text:       text,
		Words:      normalize.CountWords(text),
		Paragraphs: normalize.CountParagraphs(text),
		Chars:      utf8.RuneCountInString(text),
		Elapsed:    time.Since(start),
	}

	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return p.fail(in, types.StatusPersisted, err)
	}

	if err := p.store.Upsert(types.StatsRecord{
		Name:       result.Name,
		Words:      result.Words,
		Paragraphs: result.Paragraphs,
		Chars:      result.Chars,
		Seconds:    result.Elapsed.Seconds(),
	}); err != nil {
		return p.fail(in, types.StatusPersisted, err)
	}

	if err := p.writeMetadata(buildMetadata(in, main, result, types.StatusPersisted)); err != nil {
		fmt.Fprintf(p.out, "  warning: metadata write failed: %v\n", err)
	}

	fmt.Fprintf(p.out, "extracted: %s (%d words, %d paragraphs, %.2fs)\n",
		in.Name, result.Words, result.Paragraphs, result.Elapsed.Seconds())
	return types.StatusPersisted
}

// fail reports an archive failure and records a failure sidecar. The run
// moves on to the next archive.
func (p *Pipeline) fail(in types.ArchiveInput, during types.Status, err error) types.Status {
	fmt.Fprintf(p.out, "failed:  %s (%v)\n", in.Name, err)
	fmt.Fprintf(p.debug, "%s: failed during %s: %v\n", in.Name, during, err)

	meta := types.ArchiveMetadata{
		Name:          in.Name,
		SourceArchive: in.Path,
		Status:        types.StatusFailed,
		ExtractedAt:   time.Now().UTC(),
	}
	if werr := p.writeMetadata(meta); werr != nil {
		fmt.Fprintf(p.debug, "%s: failure sidecar write failed: %v\n", in.Name, werr)
	}
	return types.StatusFailed
}

func buildMetadata(in types.ArchiveInput, main types.SourceDocument, result types.ExtractionResult, status types.Status) types.ArchiveMetadata {
	return types.ArchiveMetadata{
		Name:          in.Name,
		SourceArchive: in.Path,
		MainFile:      main.Name,
		Encoding:      main.Encoding,
		Status:        status,
		Words:         result.Words,
		Paragraphs:    result.Paragraphs,
		Chars:         result.Chars,
		Seconds:       result.Elapsed.Seconds(),
		ExtractedAt:   time.Now().UTC(),
	}
}
