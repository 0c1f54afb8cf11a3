// Package mcptools serves the session's workflows as MCP tools, so agents
// and editors that speak the protocol can inspect and drive host timelines
// through the same code paths as the interactive CLI.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/avtools/resolvectl/pkg/session"
	"github.com/avtools/resolvectl/pkg/timecode"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server exposes resolve_status, inspect_timeline, export_timeline, and
// import_timeline over MCP.
type Server struct {
	server *mcp.Server
	sess   *session.Session
}

// New builds a Server around a connected session.
func New(sess *session.Session, version string) *Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "resolvectl",
		Version: version,
	}, nil)

	s := &Server{server: srv, sess: sess}

	srv.AddTool(&mcp.Tool{
		Name:        "resolve_status",
		Description: "Report the host application version, open project, and current timeline.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
	}, s.handleStatus)

	srv.AddTool(&mcp.Tool{
		Name:        "inspect_timeline",
		Description: "List every clip on the current timeline with positions, durations, and source in/out points.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
	}, s.handleInspect)

	srv.AddTool(&mcp.Tool{
		Name:        "export_timeline",
		Description: "Export the current timeline to an OTIO file. Defaults to <export_dir>/<timeline name>.otio.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"Output path; .otio extension is enforced"}}}`),
	}, s.handleExport)

	srv.AddTool(&mcp.Tool{
		Name:        "import_timeline",
		Description: "Import an OTIO file as a new timeline and make it current.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"Path to the .otio file"},"name":{"type":"string","description":"Name for the new timeline; defaults to the file stem"}},"required":["path"]}`),
	}, s.handleImport)

	return s
}

// Serve reads MCP requests from in and writes responses to out, blocking
// until ctx is cancelled or the transport closes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	transport := &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	}
	return s.run(ctx, transport)
}

// run is split out so tests can drive the server over InMemoryTransport.
func (s *Server) run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}

func (s *Server) handleStatus(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.sess.Status(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "DaVinci Resolve %s\n", st.Version)
	fmt.Fprintf(&b, "Project: %s (%.4g fps, %sx%s)\n", st.ProjectName, st.FPS, st.Width, st.Height)
	if st.Timeline != nil {
		fmt.Fprintf(&b, "Timeline: %s (frames %d-%d, duration %d)",
			st.Timeline.Name, st.Timeline.StartFrame, st.Timeline.EndFrame, st.Timeline.Duration())
	} else {
		b.WriteString("No timeline is currently open")
	}

	return textResult(b.String()), nil
}

func (s *Server) handleInspect(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.sess.InspectTimeline(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Timeline %q @ %.4g fps, %d clips\n", report.Name, report.FPS, report.TotalClips)
	for _, track := range report.Tracks {
		fmt.Fprintf(&b, "%s track %d: %d clips\n", track.Type, track.Index, len(track.Clips))
		for i, clip := range track.Clips {
			fmt.Fprintf(&b, "  [%d] %q frames %d-%d (%s - %s), duration %s, source in/out %d/%d\n",
				i+1, clip.Name, clip.Start, clip.End, clip.StartTC, clip.EndTC,
				timecode.Duration(clip.Duration, report.FPS), clip.LeftOffset, clip.RightOffset)
		}
	}

	return textResult(strings.TrimRight(b.String(), "\n")), nil
}

type exportInput struct {
	Path string `json:"path"`
}

func (s *Server) handleExport(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in exportInput
	if err := unmarshalArgs(req, &in); err != nil {
		return errorResult(err), nil
	}

	if in.Path == "" {
		path, err := s.sess.DefaultExportPath(ctx)
		if err != nil {
			return errorResult(err), nil
		}
		in.Path = path
	}

	written, err := s.sess.ExportTimeline(ctx, in.Path)
	if err != nil {
		return errorResult(err), nil
	}

	return textResult("Exported timeline to " + written), nil
}

type importInput struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

func (s *Server) handleImport(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in importInput
	if err := unmarshalArgs(req, &in); err != nil {
		return errorResult(err), nil
	}
	if in.Path == "" {
		return errorResult(fmt.Errorf("mcptools: path is required")), nil
	}

	report, err := s.sess.ImportTimeline(ctx, in.Path, in.Name)
	if err != nil {
		return errorResult(err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Imported timeline %q (attempt %d)\n", report.TimelineName, report.Attempt)
	fmt.Fprintf(&b, "Tracks: %d video, %d audio; frames %d-%d\n",
		report.VideoTracks, report.AudioTracks, report.StartFrame, report.EndFrame)
	fmt.Fprintf(&b, "Items: %d total, %d media-backed, %d generated",
		report.TotalItems, report.MediaItems, report.GeneratedItems())
	if report.OfflineClips > 0 {
		fmt.Fprintf(&b, "\nOffline clips: %d (relinked: %v)", report.OfflineClips, report.Relinked)
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(&b, "\nWarning: %s", w)
	}

	return textResult(b.String()), nil
}

// unmarshalArgs decodes the request arguments, treating absent arguments as
// an empty object.
func unmarshalArgs(req *mcp.CallToolRequest, v any) error {
	args := req.Params.Arguments
	if args == nil {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("mcptools: invalid input: %w", err)
	}
	return nil
}

// nopWriteCloser wraps an io.Writer as an io.WriteCloser with a no-op Close.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
