package main

import (
	"fmt"
	"strings"

	"github.com/avtools/resolvectl/cmd/resolvectl/internal/styles"
	"github.com/avtools/resolvectl/pkg/session"
	"github.com/avtools/resolvectl/pkg/timecode"
	"github.com/mattn/go-runewidth"
)

// pad right-pads s with spaces to display width w, accounting for wide
// runes in clip names.
func pad(s string, w int) string {
	gap := w - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// renderStatus formats the connection summary printed after connecting.
func renderStatus(st session.Status) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", styles.Heading.Render("DaVinci Resolve"), st.Version)
	fmt.Fprintf(&b, "Project: %s", styles.Bold.Render(st.ProjectName))
	if st.Width != "" && st.Height != "" {
		fmt.Fprintf(&b, " %s", styles.Dim.Render(fmt.Sprintf("(%.4g fps, %sx%s)", st.FPS, st.Width, st.Height)))
	}
	b.WriteString("\n")

	if st.Timeline != nil {
		fmt.Fprintf(&b, "Timeline: %s %s",
			styles.Bold.Render(st.Timeline.Name),
			styles.Dim.Render(fmt.Sprintf("(frames %d-%d, duration %d)",
				st.Timeline.StartFrame, st.Timeline.EndFrame, st.Timeline.Duration())))
	} else {
		b.WriteString(styles.Warning.Render("No timeline is currently open"))
	}

	return b.String()
}

// renderInspect formats the full clip listing as an aligned table per track.
func renderInspect(report *session.TimelineReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", styles.Heading.Render("Timeline"),
		fmt.Sprintf("%q @ %.4g fps", report.Name, report.FPS))

	for _, track := range report.Tracks {
		fmt.Fprintf(&b, "\n%s\n", styles.Bold.Render(
			fmt.Sprintf("%s track %d: %d clips", track.Type, track.Index, len(track.Clips))))

		if len(track.Clips) == 0 {
			continue
		}

		nameWidth := len("Name")
		for _, c := range track.Clips {
			if w := runewidth.StringWidth(c.Name); w > nameWidth {
				nameWidth = w
			}
		}

		fmt.Fprintf(&b, "  %s\n", styles.Dim.Render(fmt.Sprintf("%s  %-23s  %-23s  %s",
			pad("Name", nameWidth), "Position", "Duration", "Source In/Out")))

		for _, c := range track.Clips {
			position := fmt.Sprintf("%s - %s", c.StartTC, c.EndTC)
			fmt.Fprintf(&b, "  %s  %-23s  %-23s  %d/%d\n",
				pad(c.Name, nameWidth), position,
				timecode.Duration(c.Duration, report.FPS),
				c.LeftOffset, c.RightOffset)
		}
	}

	fmt.Fprintf(&b, "\nTotal clips: %d", report.TotalClips)

	return b.String()
}

// renderImportReport formats the outcome of an OTIO import.
func renderImportReport(r *session.ImportReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", styles.Success.Render(fmt.Sprintf("Imported timeline %q", r.TimelineName)))
	if r.Attempt > 1 {
		fmt.Fprintf(&b, "%s\n", styles.Dim.Render(fmt.Sprintf("(succeeded on import attempt %d)", r.Attempt)))
	}
	if r.PreImported > 0 {
		fmt.Fprintf(&b, "Pre-imported %d media files\n", r.PreImported)
	}
	fmt.Fprintf(&b, "Tracks: %d video, %d audio\n", r.VideoTracks, r.AudioTracks)
	fmt.Fprintf(&b, "Frame range: %d to %d\n", r.StartFrame, r.EndFrame)
	fmt.Fprintf(&b, "Items: %d total, %d media-backed, %d generated\n",
		r.TotalItems, r.MediaItems, r.GeneratedItems())

	switch {
	case r.OfflineClips == 0:
		fmt.Fprintf(&b, "%s", styles.Success.Render("No offline clips detected"))
	case r.Relinked:
		fmt.Fprintf(&b, "%s", styles.Success.Render(fmt.Sprintf("Relinked %d offline clips", r.OfflineClips)))
	default:
		fmt.Fprintf(&b, "%s", styles.Warning.Render(fmt.Sprintf("%d clips may still be offline", r.OfflineClips)))
	}

	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "\n%s", styles.Warning.Render("Warning: "+w))
	}

	return b.String()
}
