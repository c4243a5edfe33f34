package hufzip

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chronos-tachyon/hufzip/config"
)

// CompressedName returns the artifact name for an input file: the input name
// with the compressed suffix appended.
func CompressedName(path string, naming config.Naming) string {
	return path + naming.CompressedSuffix
}

// DecompressedName returns the output name for an artifact.  The compressed
// suffix is stripped and the uncompressed marker is inserted before the
// remaining extension, so "report.txt.huf" becomes "report_unc.txt" and
// "notes.huf" becomes "notes_unc".
//
// Returns ErrInvalidInput if path does not carry the compressed suffix.
//
func DecompressedName(path string, naming config.Naming) (string, error) {
	if naming.CompressedSuffix == "" || !strings.HasSuffix(path, naming.CompressedSuffix) {
		return "", fmt.Errorf("%w: %q does not end in %q", ErrInvalidInput, path, naming.CompressedSuffix)
	}
	stripped := strings.TrimSuffix(path, naming.CompressedSuffix)
	if stripped == "" || strings.HasSuffix(stripped, string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q has nothing before %q", ErrInvalidInput, path, naming.CompressedSuffix)
	}

	ext := filepath.Ext(stripped)
	if ext == filepath.Base(stripped) {
		// dotfile such as ".profile": the whole name is the stem
		ext = ""
	}
	stem := strings.TrimSuffix(stripped, ext)
	return stem + naming.UncompressedMarker + ext, nil
}
