package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/avtools/resolvectl/pkg/hostenv"
	"github.com/avtools/resolvectl/pkg/resolve"
	"github.com/avtools/resolvectl/pkg/resolve/resolvetest"
	"github.com/avtools/resolvectl/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHost wires a gateway with the standard object graph: application root
// "resolve", project manager "pm", project "proj", and (optionally) an open
// timeline "tl". Tests override individual methods afterwards.
func fakeHost(t *testing.T, withTimeline bool) *resolvetest.Gateway {
	t.Helper()

	g := resolvetest.New()
	t.Cleanup(g.Close)

	g.Register("resolve", resolvetest.Object{
		"GetVersionString":  resolvetest.Static("19.1.2"),
		"GetProjectManager": resolvetest.Static(resolvetest.Handle("pm")),
		"GetMediaStorage":   resolvetest.Static(resolvetest.Handle("storage")),
	})
	g.Register("pm", resolvetest.Object{
		"GetCurrentProject": resolvetest.Static(resolvetest.Handle("proj")),
	})

	currentTimeline := any(nil)
	if withTimeline {
		currentTimeline = resolvetest.Handle("tl")
	}
	g.Register("proj", resolvetest.Object{
		"GetName": resolvetest.Static("Demo Project"),
		"GetSetting": func(args []any) (any, error) {
			switch args[0] {
			case "timelineFrameRate":
				return "24", nil
			case "timelineResolutionWidth":
				return "1920", nil
			case "timelineResolutionHeight":
				return "1080", nil
			}
			return "", nil
		},
		"GetCurrentTimeline": resolvetest.Static(currentTimeline),
		"SetCurrentTimeline": resolvetest.Static(true),
		"GetMediaPool":       resolvetest.Static(resolvetest.Handle("pool")),
	})
	g.Register("storage", resolvetest.Object{})
	g.Register("pool", resolvetest.Object{
		"ImportMedia": resolvetest.Static(resolvetest.Handles()),
	})

	if withTimeline {
		g.Register("tl", resolvetest.Object{
			"GetName":       resolvetest.Static("Scene 12"),
			"GetSetting":    resolvetest.Static("24"),
			"GetStartFrame": resolvetest.Static(86400),
			"GetEndFrame":   resolvetest.Static(86519),
			"GetTrackCount": resolvetest.Static(0),
			"Export":        resolvetest.Static(true),
		})
	}

	return g
}

// connectFake points environment discovery at a temp scripting install and
// connects a session to the fake gateway.
func connectFake(t *testing.T, g *resolvetest.Gateway, cfg session.Config) *session.Session {
	t.Helper()

	apiDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(apiDir, "Modules"), 0o755))
	t.Setenv(hostenv.EnvScriptAPI, apiDir)

	cfg.GatewayURL = g.URL()
	if cfg.ConnectTimeout == "" {
		cfg.ConnectTimeout = "5s"
	}

	s, err := session.Connect(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestConnectAndStatus(t *testing.T) {
	g := fakeHost(t, true)
	s := connectFake(t, g, session.Config{})

	st, err := s.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "19.1.2", st.Version)
	assert.Equal(t, "Demo Project", st.ProjectName)
	assert.Equal(t, 24.0, st.FPS)
	assert.Equal(t, "1920", st.Width)
	require.NotNil(t, st.Timeline)
	assert.Equal(t, "Scene 12", st.Timeline.Name)
	assert.Equal(t, 120, st.Timeline.Duration())
}

func TestConnectNoTimeline(t *testing.T) {
	g := fakeHost(t, false)
	s := connectFake(t, g, session.Config{})

	assert.False(t, s.HasTimeline())
	assert.ErrorIs(t, s.EnsureTimeline(), resolve.ErrNoTimeline)

	st, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.Nil(t, st.Timeline)
}

func TestConnectNoProject(t *testing.T) {
	g := fakeHost(t, false)
	g.Register("pm", resolvetest.Object{
		"GetCurrentProject": resolvetest.Static(nil),
	})

	apiDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(apiDir, "Modules"), 0o755))
	t.Setenv(hostenv.EnvScriptAPI, apiDir)

	cfg := session.DefaultConfig()
	cfg.GatewayURL = g.URL()

	_, err := session.Connect(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, resolve.ErrNoProject)
}

func TestConnectMissingInstall(t *testing.T) {
	g := fakeHost(t, false)
	t.Setenv(hostenv.EnvScriptAPI, filepath.Join(t.TempDir(), "nowhere"))

	cfg := session.DefaultConfig()
	cfg.GatewayURL = g.URL()

	_, err := session.Connect(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modules path")
}

func TestExportTimeline(t *testing.T) {
	g := fakeHost(t, true)
	s := connectFake(t, g, session.Config{})

	outDir := filepath.Join(t.TempDir(), "nested", "exports")
	path, err := s.ExportTimeline(context.Background(), filepath.Join(outDir, "scene12.xml"))
	require.NoError(t, err)

	// Extension forced, directories created, absolute path sent to the host.
	assert.Equal(t, ".otio", filepath.Ext(path))
	assert.DirExists(t, outDir)

	calls := g.Calls("tl", "Export")
	require.Len(t, calls, 1)
	assert.Equal(t, path, calls[0].Args[0])
	assert.Equal(t, "EXPORT_OTIO", calls[0].Args[1])
	assert.Equal(t, "EXPORT_NONE", calls[0].Args[2])
}

func TestExportTimelineHostFailure(t *testing.T) {
	g := fakeHost(t, true)
	g.Register("tl", resolvetest.Object{
		"GetName":       resolvetest.Static("Scene 12"),
		"GetStartFrame": resolvetest.Static(0),
		"GetEndFrame":   resolvetest.Static(0),
		"Export":        resolvetest.Static(false),
	})
	s := connectFake(t, g, session.Config{})

	_, err := s.ExportTimeline(context.Background(), filepath.Join(t.TempDir(), "out.otio"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export operation failed")
}

func TestExportTimelineRequiresTimeline(t *testing.T) {
	g := fakeHost(t, false)
	s := connectFake(t, g, session.Config{})

	_, err := s.ExportTimeline(context.Background(), "out.otio")
	assert.ErrorIs(t, err, resolve.ErrNoTimeline)
}

func TestDefaultExportPath(t *testing.T) {
	g := fakeHost(t, true)
	s := connectFake(t, g, session.Config{ExportDir: "/tmp/otio"})

	path, err := s.DefaultExportPath(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/otio", "Scene 12.otio"), path)
}

func TestInspectTimeline(t *testing.T) {
	g := fakeHost(t, true)
	g.Register("tl", resolvetest.Object{
		"GetName":       resolvetest.Static("Scene 12"),
		"GetSetting":    resolvetest.Static("24"),
		"GetStartFrame": resolvetest.Static(0),
		"GetEndFrame":   resolvetest.Static(48),
		"GetTrackCount": func(args []any) (any, error) {
			if args[0] == resolve.TrackVideo {
				return 1, nil
			}
			return 0, nil
		},
		"GetItemListInTrack": resolvetest.Static(resolvetest.Handles("clip1")),
	})
	g.Register("clip1", resolvetest.Object{
		"GetName":        resolvetest.Static("interview.mov"),
		"GetStart":       resolvetest.Static(0),
		"GetEnd":         resolvetest.Static(48),
		"GetDuration":    resolvetest.Static(48),
		"GetLeftOffset":  resolvetest.Static(12),
		"GetRightOffset": resolvetest.Static(60),
	})
	s := connectFake(t, g, session.Config{})

	report, err := s.InspectTimeline(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Scene 12", report.Name)
	assert.Equal(t, 24.0, report.FPS)
	assert.Equal(t, 1, report.TotalClips)
	require.Len(t, report.Tracks, 1)

	clip := report.Tracks[0].Clips[0]
	assert.Equal(t, "interview.mov", clip.Name)
	assert.Equal(t, "00:00:02:00", clip.EndTC)
	assert.Equal(t, "00:00:02:00", clip.DurationTC)
	assert.Equal(t, 12, clip.LeftOffset)
	assert.Equal(t, 60, clip.RightOffset)
}
