// Package timecode converts between frame counts and HH:MM:SS:FF timecode
// strings. The frame rate always comes from the host application, so a zero
// or nonsensical rate must degrade to a readable fallback instead of failing.
package timecode

import (
	"fmt"
	"math"
)

// FromFrames renders a frame count as an HH:MM:SS:FF timecode at the given
// frame rate. When fps is zero, negative, or not finite the conversion is
// impossible and the literal frame count is returned instead (e.g. "Frame 48").
func FromFrames(frames int, fps float64) string {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return fmt.Sprintf("Frame %d", frames)
	}

	totalSeconds := float64(frames) / fps
	hours := int(totalSeconds) / 3600
	minutes := (int(totalSeconds) % 3600) / 60
	seconds := int(totalSeconds) % 60
	remaining := int(math.Mod(float64(frames), fps))

	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, remaining)
}

// Duration renders a frame count as both frames and timecode, the form used
// in clip listings (e.g. "48 frames (00:00:02:00)").
func Duration(frames int, fps float64) string {
	return fmt.Sprintf("%d frames (%s)", frames, FromFrames(frames, fps))
}
