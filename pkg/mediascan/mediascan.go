// Package mediascan finds media files the host application can ingest.
// Before importing an OTIO timeline, files that live next to it are
// pre-imported into the media pool so the host can link clips instead of
// marking them offline.
package mediascan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// defaultExtensions covers the video, audio, and still formats the host
// recognizes out of the box.
var defaultExtensions = []string{
	".mp4", ".mov", ".avi", ".mkv", ".mxf", ".r3d", ".braw",
	".wav", ".aiff", ".mp3", ".m4a", ".flac",
	".jpg", ".jpeg", ".png", ".tiff", ".tif", ".exr", ".dpx",
}

// Scanner matches media files by extension.
type Scanner struct {
	exts map[string]struct{}
}

// New returns a Scanner recognizing the default extension set plus any
// extra extensions (with or without a leading dot, case-insensitive).
func New(extra ...string) *Scanner {
	s := &Scanner{exts: make(map[string]struct{}, len(defaultExtensions)+len(extra))}
	for _, e := range defaultExtensions {
		s.exts[e] = struct{}{}
	}
	for _, e := range extra {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		s.exts[e] = struct{}{}
	}
	return s
}

// Recognizes reports whether the path has a known media extension.
func (s *Scanner) Recognizes(path string) bool {
	_, ok := s.exts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Scan lists media files directly inside dir (non-recursive), returning
// absolute paths in directory order.
func (s *Scanner) Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("mediascan: read dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !s.Recognizes(e.Name()) {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("mediascan: resolve path: %w", err)
		}
		files = append(files, abs)
	}

	return files, nil
}
