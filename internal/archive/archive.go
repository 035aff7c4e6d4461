// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive discovers compressed source bundles in the input folder
// and unpacks them into per-archive scratch workspaces.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/tex2text/pkg/types"
)

// ErrNotArchive indicates a file that is not a readable gzip-compressed
// tar archive.
var ErrNotArchive = errors.New("not a recognized compressed archive")

// Discover scans inputDir (non-recursively) for files with one of the given
// archive extensions and returns them in directory order. The logical name
// of each archive is its filename with the extension removed.
func Discover(inputDir string, exts []string) ([]types.ArchiveInput, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input folder %s: %w", inputDir, err)
	}

	var archives []types.ArchiveInput
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		for _, ext := range exts {
			if strings.HasSuffix(name, ext) {
				archives = append(archives, types.ArchiveInput{
					Path: filepath.Join(inputDir, name),
					Name: strings.TrimSuffix(name, ext),
				})
				break
			}
		}
	}
	return archives, nil
}

// Unpack extracts all members of the gzip-compressed tar archive at tarPath
// into destDir. Member paths that would escape destDir are rejected. The
// caller owns destDir and is responsible for removing it.
func Unpack(tarPath, destDir string) error {
	f, err := os.Open(tarPath)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", tarPath, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotArchive, tarPath, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: reading %s: %v", ErrNotArchive, tarPath, err)
		}

		target, err := securePath(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeMember(target, tr); err != nil {
				return err
			}
		default:
			// Symlinks, devices and other member types are ignored.
		}
	}
}

// securePath joins member into destDir, rejecting absolute paths and
// parent-directory traversal.
func securePath(destDir, member string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(member))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive member escapes destination: %q", member)
	}
	return filepath.Join(destDir, cleaned), nil
}

// writeMember copies one regular archive member to target, creating parent
// directories as needed.
func writeMember(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", target, err)
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", target, err)
	}
	_, copyErr := io.Copy(out, r)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("writing %s: %w", target, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", target, closeErr)
	}
	return nil
}

// NewScratch creates an ephemeral workspace directory for unpacking one
// archive. The caller must remove it on every exit path.
func NewScratch(name string) (string, error) {
	dir, err := os.MkdirTemp("", "tex2text-"+name+"-*")
	if err != nil {
		return "", fmt.Errorf("creating scratch workspace: %w", err)
	}
	return dir, nil
}
