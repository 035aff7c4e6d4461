// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the tex2text pipeline:
// archive inputs discovered on disk, decoded source documents, extraction
// results with their metrics, and the per-archive status machine.
package types

import "time"

// Status tracks an archive through the pipeline stages. Each archive moves
// strictly forward; Skipped and Failed are terminal.
type Status string

const (
	StatusDiscovered  Status = "discovered"
	StatusUnpacking   Status = "unpacking"
	StatusReading     Status = "reading"
	StatusCleaning    Status = "cleaning"
	StatusConverting  Status = "converting"
	StatusNormalizing Status = "normalizing"
	StatusPersisted   Status = "persisted"
	StatusSkipped     Status = "skipped"
	StatusFailed      Status = "failed"
)

// Terminal reports whether the status ends processing for the archive.
func (s Status) Terminal() bool {
	return s == StatusPersisted || s == StatusSkipped || s == StatusFailed
}

// ArchiveInput identifies one compressed source bundle on disk. Discovered
// by the input-folder scan and consumed exactly once per run.
type ArchiveInput struct {
	// Path is the filesystem path to the archive file.
	Path string `json:"path" yaml:"path"`

	// Name is the logical name derived from the filename with the archive
	// extension removed (e.g. "2301.07041" from "2301.07041.tar.gz").
	Name string `json:"name" yaml:"name"`
}

// SourceDocument holds the decoded text of one markup source file found
// inside an unpacked archive.
type SourceDocument struct {
	// Name is the file name relative to the scratch workspace.
	Name string `json:"name" yaml:"name"`

	// Content is the decoded text.
	Content string `json:"-" yaml:"-"`

	// Encoding names the character encoding that decoded the file
	// (e.g. "utf-8", "latin-1").
	Encoding string `json:"encoding" yaml:"encoding"`
}

// ExtractionResult is the final plain text for one archive plus its derived
// metrics. Written once at the end of the pipeline, immutable thereafter.
type ExtractionResult struct {
	// Name is the archive logical name.
	Name string `json:"name" yaml:"name"`

	// Text is the normalized plain-text content.
	Text string `json:"-" yaml:"-"`

	// Words is the number of whitespace-delimited words in Text.
	Words int `json:"words" yaml:"words"`

	// Paragraphs is the number of blank-line-separated paragraphs in Text.
	Paragraphs int `json:"paragraphs" yaml:"paragraphs"`

	// Chars is the number of Unicode code points in Text.
	Chars int `json:"chars" yaml:"chars"`

	// Elapsed is the wall-clock processing time for the archive.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// StatsRecord is one row of the output report, keyed by archive name.
// The report holds at most one record per name; reprocessing under force
// mode supersedes the prior record.
type StatsRecord struct {
	Name       string  `json:"name" yaml:"name"`
	Words      int     `json:"words" yaml:"words"`
	Paragraphs int     `json:"paragraphs" yaml:"paragraphs"`
	Chars      int     `json:"chars" yaml:"chars"`
	Seconds    float64 `json:"seconds" yaml:"seconds"`
}

// ArchiveMetadata is the per-archive sidecar record written next to the
// extracted text, recording provenance and outcome for later inspection.
type ArchiveMetadata struct {
	// Name is the archive logical name.
	Name string `json:"name" yaml:"name"`

	// SourceArchive is the path of the archive the text was extracted from.
	SourceArchive string `json:"source_archive" yaml:"source_archive"`

	// MainFile is the markup source file the text was rendered from.
	MainFile string `json:"main_file" yaml:"main_file"`

	// Encoding names the character encoding that decoded the main file.
	Encoding string `json:"encoding" yaml:"encoding"`

	// Status is the terminal pipeline status for the archive.
	Status Status `json:"status" yaml:"status"`

	// Words, Paragraphs and Chars mirror the StatsRecord metrics.
	Words      int `json:"words" yaml:"words"`
	Paragraphs int `json:"paragraphs" yaml:"paragraphs"`
	Chars      int `json:"chars" yaml:"chars"`

	// Seconds is the wall-clock extraction time in seconds.
	Seconds float64 `json:"seconds" yaml:"seconds"`

	// ExtractedAt is the UTC completion timestamp.
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}
