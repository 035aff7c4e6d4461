// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tex2text/pkg/types"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		encodings    []string
		want         string
		wantEncoding string
		wantErr      error
	}{
		{
			name:         "valid utf-8 wins first",
			data:         []byte("résumé"),
			encodings:    []string{"utf-8", "latin-1"},
			want:         "résumé",
			wantEncoding: "utf-8",
		},
		{
			name:         "latin-1 fallback for accented bytes",
			data:         []byte{'c', 'a', 'f', 0xE9}, // "café" in ISO 8859-1
			encodings:    []string{"utf-8", "latin-1"},
			want:         "café",
			wantEncoding: "latin-1",
		},
		{
			name:         "windows-1252 decodes smart quotes",
			data:         []byte{0x93, 'h', 'i', 0x94}, // curly quotes in cp1252
			encodings:    []string{"utf-8", "windows-1252"},
			want:         "“hi”",
			wantEncoding: "windows-1252",
		},
		{
			name:      "all candidates fail",
			data:      []byte{0xFF, 0xFE, 0x00},
			encodings: []string{"utf-8"},
			wantErr:   ErrUndecodable,
		},
		{
			name:      "unknown encoding names are skipped",
			data:      []byte{0xFF},
			encodings: []string{"utf-16", "koi8-r"},
			wantErr:   ErrUndecodable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc, err := Decode(tt.data, tt.encodings)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantEncoding, enc)
		})
	}
}

func TestFindSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sections"), 0o755))
	writeFile(t, filepath.Join(dir, "main.tex"), []byte(`\documentclass{article}`))
	writeFile(t, filepath.Join(dir, "sections", "intro.tex"), []byte("Introduction text"))
	writeFile(t, filepath.Join(dir, "figure.eps"), []byte("not a source file"))

	docs, err := FindSources(dir, ".tex", []string{"utf-8"}, io.Discard)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "main.tex", docs[0].Name)
	assert.Equal(t, "utf-8", docs[0].Encoding)
	assert.Equal(t, filepath.Join("sections", "intro.tex"), docs[1].Name)
}

func TestFindSources_SkipsUndecodable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.tex"), []byte("plain text"))
	writeFile(t, filepath.Join(dir, "bad.tex"), []byte{0xFF, 0xFE})

	var debug bytes.Buffer
	// utf-8 only: bad.tex cannot decode, good.tex still comes through.
	docs, err := FindSources(dir, ".tex", []string{"utf-8"}, &debug)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "good.tex", docs[0].Name)
	assert.Contains(t, debug.String(), "bad.tex")
}

func TestFindSources_NoneDecodable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.tex"), []byte{0xFF, 0xFE})

	_, err := FindSources(dir, ".tex", []string{"utf-8"}, io.Discard)
	assert.True(t, errors.Is(err, ErrNoSources), "got %v", err)
}

func TestFindMain(t *testing.T) {
	docs := []types.SourceDocument{
		{Name: "appendix.tex", Content: "extra material"},
		{Name: "main.tex", Content: `\documentclass{article} body`},
	}
	assert.Equal(t, "main.tex", FindMain(docs).Name)

	// No \documentclass anywhere: first document wins.
	docs[1].Content = "also plain"
	assert.Equal(t, "appendix.tex", FindMain(docs).Name)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0o644))
}
