// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source locates markup source files in an unpacked archive and
// decodes their bytes to text using an ordered encoding fallback chain.
package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/pdiddy/tex2text/pkg/types"
)

// ErrUndecodable indicates that no candidate encoding decoded a file.
var ErrUndecodable = errors.New("no candidate encoding decoded the file")

// ErrNoSources indicates that a directory contains no decodable source files.
var ErrNoSources = errors.New("no decodable source files found")

// Decode converts raw bytes to text by trying each named encoding in order.
// The first encoding that decodes without error wins. Returns the decoded
// text and the name of the winning encoding.
func Decode(data []byte, encodings []string) (string, string, error) {
	for _, name := range encodings {
		text, err := decodeWith(data, name)
		if err != nil {
			continue
		}
		return text, name, nil
	}
	return "", "", fmt.Errorf("%w (tried %s)", ErrUndecodable, strings.Join(encodings, ", "))
}

// decodeWith decodes data with one named encoding. UTF-8 is validated
// strictly; the single-byte charmaps decode via x/text.
func decodeWith(data []byte, name string) (string, error) {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("invalid UTF-8 byte sequence")
		}
		return string(data), nil
	case "latin-1", "latin1", "iso-8859-1":
		return decodeCharmap(data, charmap.ISO8859_1)
	case "windows-1252", "cp1252":
		return decodeCharmap(data, charmap.Windows1252)
	case "iso-8859-15":
		return decodeCharmap(data, charmap.ISO8859_15)
	default:
		return "", fmt.Errorf("unknown encoding %q", name)
	}
}

func decodeCharmap(data []byte, cm *charmap.Charmap) (string, error) {
	out, err := cm.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FindSources walks dir recursively and decodes every file with the given
// extension. A file that no encoding decodes is skipped and noted on the
// debug writer; it does not fail the directory. Results are ordered by path.
func FindSources(dir, ext string, encodings []string, debug io.Writer) ([]types.SourceDocument, error) {
	var docs []types.SourceDocument

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(debug, "skipping unreadable source %s: %v\n", path, err)
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = d.Name()
		}

		text, encName, err := Decode(data, encodings)
		if err != nil {
			fmt.Fprintf(debug, "skipping source %s: %v\n", rel, err)
			return nil
		}

		docs = append(docs, types.SourceDocument{
			Name:     rel,
			Content:  text,
			Encoding: encName,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSources, dir)
	}
	return docs, nil
}

// FindMain picks the document to extract from: the first one containing a
// \documentclass declaration, falling back to the first document found.
func FindMain(docs []types.SourceDocument) types.SourceDocument {
	for _, doc := range docs {
		if strings.Contains(doc.Content, `\documentclass`) {
			return doc
		}
	}
	return docs[0]
}
