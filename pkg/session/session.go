// Package session drives a connected scripting host through complete
// workflows: connect and probe, timeline inspection, OTIO export, and OTIO
// import with media pre-import and offline-clip relinking. It owns the
// connect sequence and keeps the transient remote handles for the duration
// of a run.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/avtools/resolvectl/pkg/hostenv"
	"github.com/avtools/resolvectl/pkg/mediascan"
	"github.com/avtools/resolvectl/pkg/otio"
	"github.com/avtools/resolvectl/pkg/resolve"
	"github.com/hashicorp/go-hclog"
)

// Session holds the remote handles for one run against the host.
type Session struct {
	cfg     Config
	log     hclog.Logger
	scanner *mediascan.Scanner

	client   *resolve.Client
	root     *resolve.Resolve
	pm       *resolve.ProjectManager
	project  *resolve.Project
	timeline *resolve.Timeline
}

// Connect discovers the scripting environment, dials the gateway, and
// acquires the project and (if open) timeline handles. No project is a
// terminal error; no timeline is not, since import does not need one.
func Connect(ctx context.Context, cfg Config, log hclog.Logger) (*Session, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}

	paths, err := hostenv.Discover()
	if err != nil {
		return nil, err
	}
	log.Debug("scripting environment", "api", paths.API, "lib", paths.Lib)

	dialCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	client, root, err := resolve.Dial(dialCtx, cfg.GatewayURL, resolve.Options{Logger: log})
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:     cfg,
		log:     log,
		scanner: mediascan.New(cfg.ExtraMediaExtensions...),
		client:  client,
		root:    root,
	}

	if s.pm, err = root.GetProjectManager(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	if s.project, err = s.pm.GetCurrentProject(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	if s.timeline, err = s.project.GetCurrentTimeline(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the gateway connection. Handles held by the session are
// invalid afterwards.
func (s *Session) Close() error {
	return s.client.Close()
}

// HasTimeline reports whether a timeline was open when the session
// connected (or was created by an import since).
func (s *Session) HasTimeline() bool { return s.timeline != nil }

// EnsureTimeline returns ErrNoTimeline when no timeline is open.
func (s *Session) EnsureTimeline() error {
	if s.timeline == nil {
		return resolve.ErrNoTimeline
	}
	return nil
}

// TimelineStatus summarizes the open timeline.
type TimelineStatus struct {
	Name       string
	StartFrame int
	EndFrame   int
}

// Duration returns the timeline length in frames, inclusive of both ends.
func (ts TimelineStatus) Duration() int { return ts.EndFrame - ts.StartFrame + 1 }

// Status is the connection summary printed after connecting.
type Status struct {
	Version     string
	ProjectName string
	FPS         float64
	Width       string
	Height      string
	Timeline    *TimelineStatus // nil when no timeline is open.
}

// Status collects version, project, and timeline information from the host.
func (s *Session) Status(ctx context.Context) (Status, error) {
	var st Status
	var err error

	if st.Version, err = s.root.GetVersionString(ctx); err != nil {
		return Status{}, err
	}
	if st.ProjectName, err = s.project.GetName(ctx); err != nil {
		return Status{}, err
	}

	st.FPS = s.projectFPS(ctx)

	// Resolution settings are informational; failures leave them blank.
	st.Width, _ = s.project.GetSetting(ctx, "timelineResolutionWidth")
	st.Height, _ = s.project.GetSetting(ctx, "timelineResolutionHeight")

	if s.timeline != nil {
		ts := &TimelineStatus{}
		if ts.Name, err = s.timeline.GetName(ctx); err != nil {
			return Status{}, err
		}
		if ts.StartFrame, err = s.timeline.GetStartFrame(ctx); err != nil {
			return Status{}, err
		}
		if ts.EndFrame, err = s.timeline.GetEndFrame(ctx); err != nil {
			return Status{}, err
		}
		st.Timeline = ts
	}

	return st, nil
}

// projectFPS reads the project frame rate, returning 0 when unavailable so
// timecode rendering degrades to frame counts.
func (s *Session) projectFPS(ctx context.Context) float64 {
	raw, err := s.project.GetSetting(ctx, "timelineFrameRate")
	if err != nil {
		return 0
	}
	fps, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return fps
}

// timelineFPS reads the timeline frame rate, falling back to the project's.
func (s *Session) timelineFPS(ctx context.Context, tl *resolve.Timeline) float64 {
	raw, err := tl.GetSetting(ctx, "timelineFrameRate")
	if err == nil {
		if fps, perr := strconv.ParseFloat(raw, 64); perr == nil {
			return fps
		}
	}
	return s.projectFPS(ctx)
}

// DefaultExportPath builds the export path for the current timeline:
// <export_dir>/<timeline name>.otio.
func (s *Session) DefaultExportPath(ctx context.Context) (string, error) {
	if err := s.EnsureTimeline(); err != nil {
		return "", err
	}

	name, err := s.timeline.GetName(ctx)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("session: unable to get timeline name")
	}

	dir := s.cfg.ExportDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name+otio.Ext), nil
}

// ExportTimeline exports the current timeline to OTIO at outPath. The .otio
// extension is forced and parent directories are created. Returns the final
// path written.
func (s *Session) ExportTimeline(ctx context.Context, outPath string) (string, error) {
	if err := s.EnsureTimeline(); err != nil {
		return "", err
	}

	outPath = otio.Normalize(outPath)
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("session: create export directory: %w", err)
		}
	}

	abs, err := filepath.Abs(outPath)
	if err != nil {
		return "", fmt.Errorf("session: resolve export path: %w", err)
	}

	if err := s.timeline.Export(ctx, abs, resolve.ExportOTIO, resolve.ExportNone); err != nil {
		return "", fmt.Errorf("session: export timeline: %w", err)
	}

	return abs, nil
}
