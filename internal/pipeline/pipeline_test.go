// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tex2text/internal/report"
	"github.com/pdiddy/tex2text/internal/texrender"
	"github.com/pdiddy/tex2text/pkg/types"
)

// failingRenderer mirrors the production Renderer but always errors.
type failingRenderer struct{}

func (failingRenderer) Render(string) (string, error) {
	return "", errors.New("renderer exploded")
}

// writeArchive builds a tar.gz fixture at dir/name from member files.
func writeArchive(t *testing.T, dir, name string, members map[string][]byte) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for member, content := range members {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     member,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}))
		_, err = tw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
}

// newTestPipeline wires a pipeline over temp folders with a CSV report.
func newTestPipeline(t *testing.T, cfg types.ExtractionConfig, out *bytes.Buffer) (*Pipeline, report.Store) {
	t.Helper()
	store, err := report.Open(cfg.ReportPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(cfg, texrender.NewLatexRenderer(), store, out), store
}

func testConfig(t *testing.T) types.ExtractionConfig {
	t.Helper()
	base := t.TempDir()
	cfg := types.ExtractionConfig{
		InputDir:   filepath.Join(base, "in"),
		OutputDir:  filepath.Join(base, "out"),
		ReportPath: filepath.Join(base, "stats.csv"),
	}
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))
	return cfg
}

const scenarioSource = `\documentclass{article}
\title{A Study of Things}
\begin{document}
\maketitle

First paragraph of prose.

Second paragraph with math $x^2+y^2=z^2$ inline.

\begin{table}
\begin{tabular}{ll}
a & b \\
\end{tabular}
\end{table}

\end{document}
`

func TestRun_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	writeArchive(t, cfg.InputDir, "2301.07041.tar.gz", map[string][]byte{
		"main.tex": []byte(scenarioSource),
	})

	var out bytes.Buffer
	p, store := newTestPipeline(t, cfg, &out)

	summary, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, Summary{Extracted: 1}, summary)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "2301.07041.txt"))
	require.NoError(t, err)
	text := string(data)

	want := "A Study of Things\n\nFirst paragraph of prose.\n\nSecond paragraph with math inline."
	assert.Equal(t, want, text)

	// No math or table fragments, and no delimiter tokens, survive.
	for _, banned := range []string{"$", "x^2", "tabular", "a & b", `\begin`, `\end`} {
		assert.NotContains(t, text, banned)
	}

	recs, err := store.Records()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, "2301.07041", rec.Name)
	assert.Equal(t, len(strings.Fields(want)), rec.Words)
	assert.Equal(t, 3, rec.Paragraphs)
	assert.Equal(t, utf8.RuneCountInString(want), rec.Chars)
	assert.GreaterOrEqual(t, rec.Seconds, 0.0)

	assert.Contains(t, out.String(), "extracted: 2301.07041")
	assert.Contains(t, out.String(), "Batch summary: 1 extracted, 0 skipped, 0 failed")

	// Report file is durable and carries exactly one row.
	reportData, err := os.ReadFile(cfg.ReportPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(reportData), "2301.07041"))
}

func TestRun_IdempotentWithoutForce(t *testing.T) {
	cfg := testConfig(t)
	writeArchive(t, cfg.InputDir, "paper.tar.gz", map[string][]byte{
		"paper.tex": []byte("Some prose here.\n"),
	})

	var out bytes.Buffer
	p, _ := newTestPipeline(t, cfg, &out)
	_, err := p.Run()
	require.NoError(t, err)

	outPath := filepath.Join(cfg.OutputDir, "paper.txt")
	first, err := os.ReadFile(outPath)
	require.NoError(t, err)
	firstReport, err := os.ReadFile(cfg.ReportPath)
	require.NoError(t, err)

	// Second run over the same folder: everything skipped, nothing changes.
	var out2 bytes.Buffer
	p2, _ := newTestPipeline(t, cfg, &out2)
	summary, err := p2.Run()
	require.NoError(t, err)
	assert.Equal(t, Summary{Skipped: 1}, summary)
	assert.Contains(t, out2.String(), "skipped: paper (already exists)")

	second, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	secondReport, err := os.ReadFile(cfg.ReportPath)
	require.NoError(t, err)
	assert.Equal(t, firstReport, secondReport)
}

func TestRun_ForceReprocessesAndReplacesRow(t *testing.T) {
	cfg := testConfig(t)
	writeArchive(t, cfg.InputDir, "paper.tar.gz", map[string][]byte{
		"paper.tex": []byte("Original words.\n"),
	})

	var out bytes.Buffer
	p, _ := newTestPipeline(t, cfg, &out)
	_, err := p.Run()
	require.NoError(t, err)

	// Replace the archive content, then force a rerun.
	writeArchive(t, cfg.InputDir, "paper.tar.gz", map[string][]byte{
		"paper.tex": []byte("Completely different and longer text now.\n"),
	})

	cfg.Force = true
	var out2 bytes.Buffer
	p2, store := newTestPipeline(t, cfg, &out2)
	summary, err := p2.Run()
	require.NoError(t, err)
	assert.Equal(t, Summary{Extracted: 1}, summary)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "paper.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Completely different and longer text now.", string(data))

	recs, err := store.Records()
	require.NoError(t, err)
	require.Len(t, recs, 1, "force must replace the row, not duplicate it")
	assert.Equal(t, 6, recs[0].Words)
}

func TestRun_EncodingFallback(t *testing.T) {
	cfg := testConfig(t)
	// "café" in ISO 8859-1: invalid as UTF-8, decodable via fallback.
	latin1 := append([]byte("The caf"), 0xE9)
	latin1 = append(latin1, []byte(" study.\n")...)
	writeArchive(t, cfg.InputDir, "latin.tar.gz", map[string][]byte{
		"latin.tex": latin1,
	})

	var out bytes.Buffer
	p, _ := newTestPipeline(t, cfg, &out)
	summary, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, Summary{Extracted: 1}, summary)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "latin.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "café")

	meta, err := readMetadata(cfg.OutputDir, "latin")
	require.NoError(t, err)
	assert.Equal(t, "latin-1", meta.Encoding)
	assert.Equal(t, types.StatusPersisted, meta.Status)
}

func TestRun_CorruptArchiveDoesNotAbortRun(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.InputDir, "aaa-broken.tar.gz"), []byte("not gzip at all"), 0o644))
	writeArchive(t, cfg.InputDir, "bbb-good.tar.gz", map[string][]byte{
		"good.tex": []byte("Recoverable prose.\n"),
	})

	var out bytes.Buffer
	p, _ := newTestPipeline(t, cfg, &out)
	summary, err := p.Run()
	require.NoError(t, err, "per-archive failures are not run errors")
	assert.Equal(t, Summary{Extracted: 1, Failed: 1}, summary)
	assert.Contains(t, out.String(), "failed:  aaa-broken")
	assert.Contains(t, out.String(), "extracted: bbb-good")

	meta, err := readMetadata(cfg.OutputDir, "aaa-broken")
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailed, meta.Status)
}

func TestRun_NoDecodableSourcesFails(t *testing.T) {
	cfg := testConfig(t)
	writeArchive(t, cfg.InputDir, "binary.tar.gz", map[string][]byte{
		"figure.eps": []byte("postscript, not a source"),
	})

	var out bytes.Buffer
	p, _ := newTestPipeline(t, cfg, &out)
	summary, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, Summary{Failed: 1}, summary)
}

func TestRun_MalformedMarkupStillExtracts(t *testing.T) {
	cfg := testConfig(t)
	// Unterminated table region: prose before it survives, region content
	// is dropped to end of file, pipeline does not crash.
	writeArchive(t, cfg.InputDir, "trunc.tar.gz", map[string][]byte{
		"trunc.tex": []byte("Good opening paragraph.\n\n\\begin{table}\na & b"),
	})
	writeArchive(t, cfg.InputDir, "zz-next.tar.gz", map[string][]byte{
		"next.tex": []byte("Later archive still processed.\n"),
	})

	var out bytes.Buffer
	p, _ := newTestPipeline(t, cfg, &out)
	summary, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, Summary{Extracted: 2}, summary)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "trunc.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Good opening paragraph.", string(data))
}

func TestProcessArchive_RendererFailure(t *testing.T) {
	cfg := testConfig(t)
	writeArchive(t, cfg.InputDir, "paper.tar.gz", map[string][]byte{
		"paper.tex": []byte("text"),
	})

	store, err := report.Open(cfg.ReportPath)
	require.NoError(t, err)
	defer store.Close()

	var out bytes.Buffer
	p := New(cfg, failingRenderer{}, store, &out)
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0o755))

	status := p.ProcessArchive(types.ArchiveInput{
		Path: filepath.Join(cfg.InputDir, "paper.tar.gz"),
		Name: "paper",
	})
	assert.Equal(t, types.StatusFailed, status)
	assert.Contains(t, out.String(), "renderer exploded")
}

func TestRun_DebugOutputDoesNotChangeResults(t *testing.T) {
	src := map[string][]byte{"p.tex": []byte("Prose $math$ here.\n")}

	cfg := testConfig(t)
	writeArchive(t, cfg.InputDir, "p.tar.gz", src)
	var quiet bytes.Buffer
	p, _ := newTestPipeline(t, cfg, &quiet)
	_, err := p.Run()
	require.NoError(t, err)
	plain, err := os.ReadFile(filepath.Join(cfg.OutputDir, "p.txt"))
	require.NoError(t, err)

	cfgDebug := testConfig(t)
	cfgDebug.Debug = true
	writeArchive(t, cfgDebug.InputDir, "p.tar.gz", src)
	var verbose bytes.Buffer
	pd, _ := newTestPipeline(t, cfgDebug, &verbose)
	_, err = pd.Run()
	require.NoError(t, err)
	debugOut, err := os.ReadFile(filepath.Join(cfgDebug.OutputDir, "p.txt"))
	require.NoError(t, err)

	assert.Equal(t, plain, debugOut)
	assert.Greater(t, verbose.Len(), quiet.Len(), "debug mode should say more")
	assert.Contains(t, verbose.String(), "stripped inline math region")
}
