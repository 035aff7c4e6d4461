// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExtractionConfig holds settings for one extraction run.
type ExtractionConfig struct {
	// InputDir is the folder scanned for compressed source archives.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir is the destination for per-archive plain-text files.
	// Created if absent.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ReportPath is the statistics table file. A .db/.sqlite/.sqlite3
	// extension selects the SQLite backend; anything else is CSV.
	ReportPath string `json:"report_path" yaml:"report_path"`

	// Encodings is the ordered list of candidate character encodings tried
	// when decoding source files. First success wins.
	Encodings []string `json:"encodings" yaml:"encodings"`

	// ArchiveExts lists the recognized archive filename extensions.
	ArchiveExts []string `json:"archive_exts" yaml:"archive_exts"`

	// SourceExt is the markup source file extension to extract from.
	SourceExt string `json:"source_ext" yaml:"source_ext"`

	// Force reprocesses archives whose output text file already exists.
	Force bool `json:"force" yaml:"force"`

	// Debug enables verbose per-stage diagnostics. Diagnostics never alter
	// extraction results.
	Debug bool `json:"debug" yaml:"debug"`
}

// DefaultEncodings is the decode fallback chain used when none is configured:
// strict UTF-8 first, then the two common single-byte Western encodings.
var DefaultEncodings = []string{"utf-8", "latin-1", "windows-1252"}

// DefaultArchiveExts lists the archive extensions recognized by default.
var DefaultArchiveExts = []string{".tar.gz", ".tgz"}

// DefaultSourceExt is the markup source extension recognized by default.
const DefaultSourceExt = ".tex"

// ApplyDefaults fills zero-valued fields with the package defaults.
func (c *ExtractionConfig) ApplyDefaults() {
	if len(c.Encodings) == 0 {
		c.Encodings = DefaultEncodings
	}
	if len(c.ArchiveExts) == 0 {
		c.ArchiveExts = DefaultArchiveExts
	}
	if c.SourceExt == "" {
		c.SourceExt = DefaultSourceExt
	}
}
