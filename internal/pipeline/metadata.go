// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/tex2text/pkg/types"
)

// metadataDir is the subdirectory under the output folder for per-archive
// sidecar records.
const metadataDir = "metadata"

// writeMetadata writes the per-archive sidecar YAML next to the extracted
// text, recording provenance and outcome.
func (p *Pipeline) writeMetadata(meta types.ArchiveMetadata) error {
	dir := filepath.Join(p.cfg.OutputDir, metadataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}

	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, meta.Name+".yaml"), data, 0o644)
}

// readMetadata reads a sidecar record back. Used by tests and diagnostics.
func readMetadata(outputDir, name string) (*types.ArchiveMetadata, error) {
	data, err := os.ReadFile(filepath.Join(outputDir, metadataDir, name+".yaml"))
	if err != nil {
		return nil, err
	}
	var meta types.ArchiveMetadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
