package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/avtools/resolvectl/pkg/otio"
	"github.com/avtools/resolvectl/pkg/resolve"
)

// ImportReport describes what an OTIO import produced.
type ImportReport struct {
	TimelineName string
	Attempt      int // Which of the three option sets succeeded (1-3).
	PreImported  int // Media files pre-imported from the source directory.
	VideoTracks  int
	AudioTracks  int
	StartFrame   int
	EndFrame     int
	TotalItems   int
	MediaItems   int // Items backed by a media pool item.
	OfflineClips int
	Relinked     bool
	Warnings     []string // Non-fatal problems along the way.
}

// GeneratedItems returns the count of items with no backing media
// (generators, titles, effects).
func (r *ImportReport) GeneratedItems() int { return r.TotalItems - r.MediaItems }

func (r *ImportReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ImportTimeline imports an OTIO file as a new timeline named name (default:
// the file stem). The host's import call gives no reason when it fails, so
// the options are degraded over three attempts: full options with source
// clip import, then without source clip import, then no options at all.
// Media files next to the OTIO file are pre-imported first, and offline
// clips are relinked afterwards; both steps are non-fatal.
func (s *Session) ImportTimeline(ctx context.Context, otioPath, name string) (*ImportReport, error) {
	if err := otio.ValidatePath(otioPath); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(otioPath)
	if err != nil {
		return nil, fmt.Errorf("session: resolve import path: %w", err)
	}
	sourceDir := filepath.Dir(abs)

	if name == "" {
		name = otio.Stem(abs)
	}
	report := &ImportReport{TimelineName: name}

	mediaPool, err := s.project.GetMediaPool(ctx)
	if err != nil {
		return nil, err
	}

	s.preimportMedia(ctx, mediaPool, sourceDir, report)

	tl, attempt, err := s.importWithFallback(ctx, mediaPool, abs, name, sourceDir)
	if err != nil {
		return nil, err
	}
	report.Attempt = attempt

	if err := s.project.SetCurrentTimeline(ctx, tl); err != nil {
		report.warnf("imported timeline could not be made current: %v", err)
	}
	s.timeline = tl

	if err := s.collectImportStats(ctx, tl, report); err != nil {
		return nil, err
	}

	s.relinkOfflineClips(ctx, mediaPool, tl, sourceDir, report)

	return report, nil
}

// importWithFallback runs the three-attempt option ladder. Only a host that
// returns no timeline triggers the next attempt; transport and call errors
// are terminal.
func (s *Session) importWithFallback(ctx context.Context, mp *resolve.MediaPool, path, name, sourceDir string) (*resolve.Timeline, int, error) {
	attempts := []resolve.ImportOptions{
		{
			"timelineName":        name,
			"importSourceClips":   true,
			"sourceClipsPath":     sourceDir,
			"sourceClipsFolders":  []string{},
			"interlaceProcessing": false,
		},
		{
			"timelineName":        name,
			"importSourceClips":   false,
			"interlaceProcessing": false,
		},
		{},
	}

	for i, opts := range attempts {
		tl, err := mp.ImportTimelineFromFile(ctx, path, opts)
		if err != nil {
			return nil, 0, fmt.Errorf("session: import timeline: %w", err)
		}
		if tl != nil {
			return tl, i + 1, nil
		}
		s.log.Debug("import attempt failed", "attempt", i+1, "path", path)
	}

	return nil, 0, fmt.Errorf("session: all import attempts failed; the OTIO file may be corrupted or incompatible: %s", path)
}

// preimportMedia ingests recognized media files from the OTIO's directory
// into the media pool so the host can link clips during import.
func (s *Session) preimportMedia(ctx context.Context, mp *resolve.MediaPool, sourceDir string, report *ImportReport) {
	storage, err := s.root.GetMediaStorage(ctx)
	if err != nil || storage == nil {
		report.warnf("could not access media storage; skipping media pre-import")
		return
	}

	files, err := s.scanner.Scan(sourceDir)
	if err != nil {
		report.warnf("could not scan source directory: %v", err)
		return
	}
	if len(files) == 0 {
		return
	}

	items, err := mp.ImportMedia(ctx, files)
	if err != nil {
		report.warnf("media pre-import failed: %v", err)
		return
	}
	report.PreImported = len(items)
	if len(items) == 0 {
		report.warnf("media pre-import completed but none of %d files were imported", len(files))
	}
}

// collectImportStats walks the new timeline and fills track and item counts.
func (s *Session) collectImportStats(ctx context.Context, tl *resolve.Timeline, report *ImportReport) error {
	var err error
	if report.VideoTracks, err = tl.GetTrackCount(ctx, resolve.TrackVideo); err != nil {
		return err
	}
	if report.AudioTracks, err = tl.GetTrackCount(ctx, resolve.TrackAudio); err != nil {
		return err
	}
	if report.StartFrame, err = tl.GetStartFrame(ctx); err != nil {
		return err
	}
	if report.EndFrame, err = tl.GetEndFrame(ctx); err != nil {
		return err
	}

	count := func(trackType string, tracks int) error {
		for idx := 1; idx <= tracks; idx++ {
			items, err := tl.GetItemListInTrack(ctx, trackType, idx)
			if err != nil {
				return err
			}
			report.TotalItems += len(items)
			for _, item := range items {
				mpItem, err := item.GetMediaPoolItem(ctx)
				if err != nil {
					return err
				}
				if mpItem != nil {
					report.MediaItems++
				}
			}
		}
		return nil
	}

	if err := count(resolve.TrackVideo, report.VideoTracks); err != nil {
		return err
	}
	return count(resolve.TrackAudio, report.AudioTracks)
}

// relinkOfflineClips finds clips that look offline (name contains
// "Media Offline" or the file path property is empty) and asks the host to
// relink them against sourceDir, then attempts a best-effort reconform.
// Everything here is advisory: failures become warnings.
func (s *Session) relinkOfflineClips(ctx context.Context, mp *resolve.MediaPool, tl *resolve.Timeline, sourceDir string, report *ImportReport) {
	offline, err := s.findOfflineClips(ctx, tl)
	if err != nil {
		report.warnf("offline clip scan failed: %v", err)
		return
	}
	report.OfflineClips = len(offline)
	if len(offline) == 0 {
		return
	}

	ok, err := mp.RelinkClips(ctx, offline, sourceDir)
	if err != nil {
		report.warnf("relink failed: %v", err)
	} else {
		report.Relinked = ok
		if !ok {
			report.warnf("relink attempt completed; some clips may still be offline")
		}
	}

	// Reconform is not available on every host version.
	if _, err := tl.ImportIntoTimeline(ctx, "", resolve.ImportOptions{
		"autoImportSourceClipsIntoMediaPool": true,
		"sourceClipsPath":                    sourceDir,
	}); err != nil {
		report.warnf("timeline reconform not available: %v", err)
	}
}

// findOfflineClips collects media pool items behind timeline items that
// appear to be offline.
func (s *Session) findOfflineClips(ctx context.Context, tl *resolve.Timeline) ([]*resolve.MediaPoolItem, error) {
	var offline []*resolve.MediaPoolItem

	for _, trackType := range []string{resolve.TrackVideo, resolve.TrackAudio} {
		tracks, err := tl.GetTrackCount(ctx, trackType)
		if err != nil {
			return nil, err
		}
		for idx := 1; idx <= tracks; idx++ {
			items, err := tl.GetItemListInTrack(ctx, trackType, idx)
			if err != nil {
				return nil, err
			}
			for _, item := range items {
				mpItem, err := item.GetMediaPoolItem(ctx)
				if err != nil {
					return nil, err
				}
				if mpItem == nil {
					continue
				}

				name, err := mpItem.GetName(ctx)
				if err != nil {
					return nil, err
				}
				filePath, err := mpItem.GetClipProperty(ctx, "File Path")
				if err != nil {
					return nil, err
				}

				if strings.Contains(name, "Media Offline") || filePath == "" {
					offline = append(offline, mpItem)
				}
			}
		}
	}

	return offline, nil
}
