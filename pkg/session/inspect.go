package session

import (
	"context"

	"github.com/avtools/resolvectl/pkg/resolve"
	"github.com/avtools/resolvectl/pkg/timecode"
)

// ClipInfo is one clip on a timeline track, with display timecodes derived
// from the timeline frame rate.
type ClipInfo struct {
	Name        string
	Start       int
	End         int
	Duration    int
	LeftOffset  int // Source in point.
	RightOffset int // Source out point.
	StartTC     string
	EndTC       string
	DurationTC  string
}

// TrackInfo is one track and its clips.
type TrackInfo struct {
	Type  string // resolve.TrackVideo or resolve.TrackAudio.
	Index int    // 1-based.
	Clips []ClipInfo
}

// TimelineReport is the full clip listing of the current timeline.
type TimelineReport struct {
	Name       string
	FPS        float64
	Tracks     []TrackInfo
	TotalClips int
}

// InspectTimeline walks every video and audio track of the current timeline
// and returns names, positions, durations, and source in/out points for all
// clips.
func (s *Session) InspectTimeline(ctx context.Context) (*TimelineReport, error) {
	if err := s.EnsureTimeline(); err != nil {
		return nil, err
	}
	tl := s.timeline

	name, err := tl.GetName(ctx)
	if err != nil {
		return nil, err
	}

	report := &TimelineReport{
		Name: name,
		FPS:  s.timelineFPS(ctx, tl),
	}

	for _, trackType := range []string{resolve.TrackVideo, resolve.TrackAudio} {
		count, err := tl.GetTrackCount(ctx, trackType)
		if err != nil {
			return nil, err
		}
		for idx := 1; idx <= count; idx++ {
			track, err := s.inspectTrack(ctx, tl, trackType, idx, report.FPS)
			if err != nil {
				return nil, err
			}
			report.Tracks = append(report.Tracks, track)
			report.TotalClips += len(track.Clips)
		}
	}

	return report, nil
}

func (s *Session) inspectTrack(ctx context.Context, tl *resolve.Timeline, trackType string, index int, fps float64) (TrackInfo, error) {
	track := TrackInfo{Type: trackType, Index: index}

	items, err := tl.GetItemListInTrack(ctx, trackType, index)
	if err != nil {
		return TrackInfo{}, err
	}

	for _, item := range items {
		clip, err := inspectClip(ctx, item, fps)
		if err != nil {
			return TrackInfo{}, err
		}
		track.Clips = append(track.Clips, clip)
	}

	return track, nil
}

func inspectClip(ctx context.Context, item *resolve.TimelineItem, fps float64) (ClipInfo, error) {
	var c ClipInfo
	var err error

	if c.Name, err = item.GetName(ctx); err != nil {
		return ClipInfo{}, err
	}
	if c.Start, err = item.GetStart(ctx); err != nil {
		return ClipInfo{}, err
	}
	if c.End, err = item.GetEnd(ctx); err != nil {
		return ClipInfo{}, err
	}
	if c.Duration, err = item.GetDuration(ctx); err != nil {
		return ClipInfo{}, err
	}
	if c.LeftOffset, err = item.GetLeftOffset(ctx); err != nil {
		return ClipInfo{}, err
	}
	if c.RightOffset, err = item.GetRightOffset(ctx); err != nil {
		return ClipInfo{}, err
	}

	c.StartTC = timecode.FromFrames(c.Start, fps)
	c.EndTC = timecode.FromFrames(c.End, fps)
	c.DurationTC = timecode.FromFrames(c.Duration, fps)

	return c, nil
}
