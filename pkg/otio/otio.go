// Package otio handles OTIO files on the client side. The host application
// owns the format: this package never edits or re-serializes a timeline, it
// only validates paths handed to the host and decodes enough of the JSON
// envelope to show a preview before an import.
package otio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the file extension the host accepts for OTIO timelines.
const Ext = ".otio"

// ValidatePath checks that path points at an existing file with the .otio
// extension (case-insensitive).
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("otio: file not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("otio: path is a directory: %s", path)
	}
	if !strings.EqualFold(filepath.Ext(path), Ext) {
		return fmt.Errorf("otio: file must have %s extension, found %q: %s", Ext, filepath.Ext(path), path)
	}
	return nil
}

// Normalize forces the .otio extension on an export path, replacing any
// other extension the caller supplied.
func Normalize(path string) string {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, Ext) {
		return path
	}
	return strings.TrimSuffix(path, ext) + Ext
}

// Stem returns the file name without directory or extension, used as the
// default timeline name on import.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TrackSummary describes one track in an OTIO timeline.
type TrackSummary struct {
	Name  string
	Kind  string // "Video" or "Audio" in OTIO terms.
	Clips int
}

// Summary is the decoded envelope of an OTIO file: enough to preview a
// timeline without understanding the full schema.
type Summary struct {
	Schema string
	Name   string
	Size   int64
	Tracks []TrackSummary
}

// otioNode is the minimal recursive shape of OTIO JSON. Unknown fields are
// ignored so schema evolution on the host side cannot break the preview.
type otioNode struct {
	Schema   string     `json:"OTIO_SCHEMA"`
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Tracks   *otioNode  `json:"tracks"`
	Children []otioNode `json:"children"`
}

// ReadSummary decodes the OTIO envelope of the file at path.
func ReadSummary(path string) (Summary, error) {
	if err := ValidatePath(path); err != nil {
		return Summary{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("otio: read %s: %w", path, err)
	}

	var root otioNode
	if err := json.Unmarshal(data, &root); err != nil {
		return Summary{}, fmt.Errorf("otio: parse %s: %w", path, err)
	}

	s := Summary{
		Schema: root.Schema,
		Name:   root.Name,
		Size:   int64(len(data)),
	}

	// Timelines wrap their tracks in a stack; SerializableCollections and
	// bare stacks put them directly in children.
	trackNodes := root.Children
	if root.Tracks != nil {
		trackNodes = root.Tracks.Children
	}

	for _, tr := range trackNodes {
		if !strings.HasPrefix(tr.Schema, "Track.") {
			continue
		}
		s.Tracks = append(s.Tracks, TrackSummary{
			Name:  tr.Name,
			Kind:  tr.Kind,
			Clips: countClips(tr.Children),
		})
	}

	return s, nil
}

// countClips counts clip nodes, descending into nested stacks.
func countClips(nodes []otioNode) int {
	n := 0
	for _, c := range nodes {
		switch {
		case strings.HasPrefix(c.Schema, "Clip."):
			n++
		case len(c.Children) > 0:
			n += countClips(c.Children)
		}
	}
	return n
}

// String renders the summary in the form shown before an import.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %d bytes)", s.Name, s.Schema, s.Size)
	for _, tr := range s.Tracks {
		fmt.Fprintf(&b, "\n  %s track %q: %d clips", tr.Kind, tr.Name, tr.Clips)
	}
	return b.String()
}
