package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avtools/resolvectl/pkg/resolve"
	"github.com/avtools/resolvectl/pkg/session"
)

func TestPad(t *testing.T) {
	assert.Equal(t, "abc  ", pad("abc", 5))
	assert.Equal(t, "abcdef", pad("abcdef", 3))
	// Wide runes take two cells each.
	assert.Equal(t, "日本 ", pad("日本", 5))
}

func TestRenderStatus(t *testing.T) {
	out := renderStatus(session.Status{
		Version:     "20.0.1",
		ProjectName: "Documentary Cut",
		FPS:         24,
		Width:       "1920",
		Height:      "1080",
		Timeline: &session.TimelineStatus{
			Name:       "Main Edit",
			StartFrame: 86400,
			EndFrame:   86495,
		},
	})

	assert.Contains(t, out, "20.0.1")
	assert.Contains(t, out, "Documentary Cut")
	assert.Contains(t, out, "1920x1080")
	assert.Contains(t, out, "Main Edit")
	assert.Contains(t, out, "frames 86400-86495")
	assert.Contains(t, out, "duration 96")
}

func TestRenderStatusNoTimeline(t *testing.T) {
	out := renderStatus(session.Status{
		Version:     "20.0.1",
		ProjectName: "Empty Project",
	})

	assert.Contains(t, out, "No timeline is currently open")
	assert.NotContains(t, out, "frames")
}

func TestRenderInspect(t *testing.T) {
	report := &session.TimelineReport{
		Name: "Main Edit",
		FPS:  24,
		Tracks: []session.TrackInfo{
			{
				Type:  resolve.TrackVideo,
				Index: 1,
				Clips: []session.ClipInfo{
					{
						Name: "interview.mov", Start: 0, End: 47, Duration: 48,
						LeftOffset: 12, RightOffset: 60,
						StartTC: "00:00:00:00", EndTC: "00:00:01:23", DurationTC: "00:00:02:00",
					},
					{
						Name: "b-roll long name.mov", Start: 48, End: 71, Duration: 24,
						StartTC: "00:00:02:00", EndTC: "00:00:02:23", DurationTC: "00:00:01:00",
					},
				},
			},
			{Type: resolve.TrackAudio, Index: 1},
		},
		TotalClips: 2,
	}

	out := renderInspect(report)

	assert.Contains(t, out, `"Main Edit" @ 24 fps`)
	assert.Contains(t, out, "video track 1: 2 clips")
	assert.Contains(t, out, "audio track 1: 0 clips")
	assert.Contains(t, out, "00:00:00:00 - 00:00:01:23")
	assert.Contains(t, out, "12/60")
	assert.Contains(t, out, "Total clips: 2")

	// Names align to the widest entry.
	assert.Contains(t, out, "interview.mov       ")
}

func TestRenderImportReport(t *testing.T) {
	out := renderImportReport(&session.ImportReport{
		TimelineName: "cut_v3",
		Attempt:      1,
		PreImported:  2,
		VideoTracks:  1,
		AudioTracks:  2,
		StartFrame:   86400,
		EndFrame:     86543,
		TotalItems:   9,
		MediaItems:   7,
		OfflineClips: 0,
	})

	assert.Contains(t, out, `Imported timeline "cut_v3"`)
	assert.NotContains(t, out, "attempt")
	assert.Contains(t, out, "Pre-imported 2 media files")
	assert.Contains(t, out, "Tracks: 1 video, 2 audio")
	assert.Contains(t, out, "9 total, 7 media-backed, 2 generated")
	assert.Contains(t, out, "No offline clips detected")
}

func TestRenderImportReportFallbackAndWarnings(t *testing.T) {
	out := renderImportReport(&session.ImportReport{
		TimelineName: "cut_v3",
		Attempt:      3,
		OfflineClips: 4,
		Warnings:     []string{"4 clips could not be relinked and may still be offline"},
	})

	assert.Contains(t, out, "succeeded on import attempt 3")
	assert.Contains(t, out, "4 clips may still be offline")
	assert.Contains(t, out, "Warning: 4 clips could not be relinked")
}
