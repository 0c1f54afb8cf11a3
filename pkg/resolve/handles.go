package resolve

import (
	"context"
	"fmt"
)

// Track types accepted by track-addressed timeline methods. Track indices
// are 1-based, as in the host API.
const (
	TrackVideo = "video"
	TrackAudio = "audio"
)

// Timeline export formats. Only the OTIO pair is used by this tool; the
// constants mirror the host's export enums.
const (
	ExportOTIO = "EXPORT_OTIO"
	ExportNone = "EXPORT_NONE"
)

// ImportOptions are passed verbatim to the host's timeline import call. The
// host defines the accepted keys (timelineName, importSourceClips,
// sourceClipsPath, sourceClipsFolders, interlaceProcessing).
type ImportOptions map[string]any

// Resolve is the application root handle.
type Resolve struct{ handle }

// GetVersionString returns the host application version.
func (r *Resolve) GetVersionString(ctx context.Context) (string, error) {
	return r.callString(ctx, "GetVersionString")
}

// GetProjectManager returns the project manager handle.
func (r *Resolve) GetProjectManager(ctx context.Context) (*ProjectManager, error) {
	h, ok, err := r.callHandle(ctx, "GetProjectManager")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("resolve: host returned no project manager")
	}
	return &ProjectManager{h}, nil
}

// GetMediaStorage returns the media storage handle, or nil when the host
// does not expose one.
func (r *Resolve) GetMediaStorage(ctx context.Context) (*MediaStorage, error) {
	h, ok, err := r.callHandle(ctx, "GetMediaStorage")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &MediaStorage{h}, nil
}

// ProjectManager manages host projects.
type ProjectManager struct{ handle }

// GetCurrentProject returns the open project. ErrNoProject when none is
// open.
func (pm *ProjectManager) GetCurrentProject(ctx context.Context) (*Project, error) {
	h, ok, err := pm.callHandle(ctx, "GetCurrentProject")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoProject
	}
	return &Project{h}, nil
}

// Project is an open host project.
type Project struct{ handle }

func (p *Project) GetName(ctx context.Context) (string, error) {
	return p.callString(ctx, "GetName")
}

// GetSetting reads a project setting. The host returns settings as strings
// (e.g. "timelineFrameRate", "timelineResolutionWidth").
func (p *Project) GetSetting(ctx context.Context, name string) (string, error) {
	return p.callString(ctx, "GetSetting", name)
}

func (p *Project) GetTimelineCount(ctx context.Context) (int, error) {
	return p.callInt(ctx, "GetTimelineCount")
}

// GetCurrentTimeline returns the open timeline, or nil when the project has
// none. Callers that require a timeline use Session.EnsureTimeline.
func (p *Project) GetCurrentTimeline(ctx context.Context) (*Timeline, error) {
	h, ok, err := p.callHandle(ctx, "GetCurrentTimeline")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &Timeline{h}, nil
}

// SetCurrentTimeline makes tl the project's current timeline.
func (p *Project) SetCurrentTimeline(ctx context.Context, tl *Timeline) error {
	ok, err := p.callBool(ctx, "SetCurrentTimeline", tl.ref())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("resolve: host refused to switch current timeline")
	}
	return nil
}

// GetMediaPool returns the project's media pool.
func (p *Project) GetMediaPool(ctx context.Context) (*MediaPool, error) {
	h, ok, err := p.callHandle(ctx, "GetMediaPool")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("resolve: failed to get media pool")
	}
	return &MediaPool{h}, nil
}

// Timeline is a host timeline.
type Timeline struct{ handle }

func (t *Timeline) GetName(ctx context.Context) (string, error) {
	return t.callString(ctx, "GetName")
}

// GetSetting reads a timeline setting (e.g. "timelineFrameRate").
func (t *Timeline) GetSetting(ctx context.Context, name string) (string, error) {
	return t.callString(ctx, "GetSetting", name)
}

func (t *Timeline) GetStartFrame(ctx context.Context) (int, error) {
	return t.callInt(ctx, "GetStartFrame")
}

func (t *Timeline) GetEndFrame(ctx context.Context) (int, error) {
	return t.callInt(ctx, "GetEndFrame")
}

// GetTrackCount returns the number of tracks of the given type.
func (t *Timeline) GetTrackCount(ctx context.Context, trackType string) (int, error) {
	return t.callInt(ctx, "GetTrackCount", trackType)
}

// GetItemListInTrack lists the items on one track. The index is 1-based.
func (t *Timeline) GetItemListInTrack(ctx context.Context, trackType string, index int) ([]*TimelineItem, error) {
	handles, err := t.callHandles(ctx, "GetItemListInTrack", trackType, index)
	if err != nil {
		return nil, err
	}
	items := make([]*TimelineItem, len(handles))
	for i, h := range handles {
		items[i] = &TimelineItem{h}
	}
	return items, nil
}

// Export writes the timeline to path in the given format. The host reports
// failure as a false return with no reason attached.
func (t *Timeline) Export(ctx context.Context, path, format, subtype string) error {
	ok, err := t.callBool(ctx, "Export", path, format, subtype)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("resolve: export operation failed")
	}
	return nil
}

// DeleteClips removes items from the timeline. With ripple=true the host
// closes the resulting gaps.
func (t *Timeline) DeleteClips(ctx context.Context, items []*TimelineItem, ripple bool) (bool, error) {
	return t.callBool(ctx, "DeleteClips", refs(items), ripple)
}

// ImportIntoTimeline asks the host to reconform the timeline against source
// media. Not available on every host version; callers treat failure as a
// warning.
func (t *Timeline) ImportIntoTimeline(ctx context.Context, path string, opts ImportOptions) (bool, error) {
	if opts == nil {
		opts = ImportOptions{}
	}
	return t.callBool(ctx, "ImportIntoTimeline", path, opts)
}

// MediaPool is the project's collection of ingested media.
type MediaPool struct{ handle }

// ImportTimelineFromFile creates a new timeline from a timeline file. The
// host signals failure by returning no timeline, without a reason; that maps
// to (nil, nil) so callers can run their fallback ladder.
func (mp *MediaPool) ImportTimelineFromFile(ctx context.Context, path string, opts ImportOptions) (*Timeline, error) {
	if opts == nil {
		opts = ImportOptions{}
	}
	h, ok, err := mp.callHandle(ctx, "ImportTimelineFromFile", path, opts)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &Timeline{h}, nil
}

// ImportMedia ingests the given files into the media pool and returns the
// created items. Files the host rejects are silently skipped by the host.
func (mp *MediaPool) ImportMedia(ctx context.Context, paths []string) ([]*MediaPoolItem, error) {
	handles, err := mp.callHandles(ctx, "ImportMedia", paths)
	if err != nil {
		return nil, err
	}
	items := make([]*MediaPoolItem, len(handles))
	for i, h := range handles {
		items[i] = &MediaPoolItem{h}
	}
	return items, nil
}

// RelinkClips points the given media pool items at media found under
// folderPath. The host returns false when some clips stayed offline.
func (mp *MediaPool) RelinkClips(ctx context.Context, items []*MediaPoolItem, folderPath string) (bool, error) {
	return mp.callBool(ctx, "RelinkClips", refs(items), folderPath)
}

// TimelineItem is a clip placed on a timeline track.
type TimelineItem struct{ handle }

func (ti *TimelineItem) GetName(ctx context.Context) (string, error) {
	return ti.callString(ctx, "GetName")
}

// GetStart returns the item's start position on the timeline, in frames.
func (ti *TimelineItem) GetStart(ctx context.Context) (int, error) {
	return ti.callInt(ctx, "GetStart")
}

func (ti *TimelineItem) GetEnd(ctx context.Context) (int, error) {
	return ti.callInt(ctx, "GetEnd")
}

func (ti *TimelineItem) GetDuration(ctx context.Context) (int, error) {
	return ti.callInt(ctx, "GetDuration")
}

// GetLeftOffset returns the source in point of the clip, in frames.
func (ti *TimelineItem) GetLeftOffset(ctx context.Context) (int, error) {
	return ti.callInt(ctx, "GetLeftOffset")
}

// GetRightOffset returns the source out point of the clip, in frames.
func (ti *TimelineItem) GetRightOffset(ctx context.Context) (int, error) {
	return ti.callInt(ctx, "GetRightOffset")
}

// GetMediaPoolItem returns the media pool item backing this timeline item,
// or nil for generated/effect items.
func (ti *TimelineItem) GetMediaPoolItem(ctx context.Context) (*MediaPoolItem, error) {
	h, ok, err := ti.callHandle(ctx, "GetMediaPoolItem")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &MediaPoolItem{h}, nil
}

// MediaPoolItem is an ingested media asset.
type MediaPoolItem struct{ handle }

func (mi *MediaPoolItem) GetName(ctx context.Context) (string, error) {
	return mi.callString(ctx, "GetName")
}

// GetClipProperty reads a clip property such as "File Path". Offline clips
// report an empty file path.
func (mi *MediaPoolItem) GetClipProperty(ctx context.Context, name string) (string, error) {
	return mi.callString(ctx, "GetClipProperty", name)
}

// MediaStorage is the host's view of mounted media volumes. Only its
// presence is checked before pre-importing media.
type MediaStorage struct{ handle }
