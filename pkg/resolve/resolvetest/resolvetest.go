// Package resolvetest provides a scriptable in-memory scripting gateway for
// tests. Objects are registered as named handles with per-method handlers;
// the gateway records every invocation so tests can assert on call
// sequences such as the import fallback ladder.
package resolvetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Handle marks a result value as an object reference on the wire.
type Handle string

// MarshalJSON encodes the handle in the gateway's reference form.
func (h Handle) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"$handle": string(h)})
}

// Handler implements one remote method. Args arrive JSON-decoded: numbers
// as float64, option dicts as map[string]any, handle references as
// map[string]any with a "$handle" key (see HandleArg).
type Handler func(args []any) (any, error)

// Object is a set of methods on one handle.
type Object map[string]Handler

// Call records one invocation received by the gateway.
type Call struct {
	Target string
	Method string
	Args   []any
}

type request struct {
	ID     string `json:"id"`
	Target string `json:"target"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

type response struct {
	ID     string `json:"id"`
	Result any    `json:"result"`
	Error  string `json:"error,omitempty"`
}

// Gateway is a fake scripting gateway served over a real websocket.
type Gateway struct {
	mu      sync.Mutex
	objects map[string]Object
	calls   []Call
	down    bool

	srv *httptest.Server
}

// New starts a gateway with an application root registered under the handle
// "resolve". Call Close when done.
func New() *Gateway {
	g := &Gateway{objects: make(map[string]Object)}

	g.Register("", Object{
		"Scriptapp": func(args []any) (any, error) {
			if g.isDown() {
				return nil, nil
			}
			return Handle("resolve"), nil
		},
	})

	g.srv = httptest.NewServer(http.HandlerFunc(g.serve))
	return g
}

// URL returns the websocket URL clients should dial.
func (g *Gateway) URL() string {
	return "ws" + strings.TrimPrefix(g.srv.URL, "http")
}

// Close shuts the gateway down.
func (g *Gateway) Close() { g.srv.Close() }

// Register installs (or replaces) an object under the given handle id.
func (g *Gateway) Register(id string, obj Object) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.objects[id] = obj
}

// SetDown controls whether the application root answers. While down,
// Scriptapp returns null, simulating a gateway that is up but a host that
// is not running.
func (g *Gateway) SetDown(down bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.down = down
}

func (g *Gateway) isDown() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.down
}

// Calls returns recorded invocations of target.method, in order.
func (g *Gateway) Calls(target, method string) []Call {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []Call
	for _, c := range g.calls {
		if c.Target == target && c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (g *Gateway) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()
	for {
		var req request
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			return
		}

		resp := g.dispatch(req)
		if err := wsjson.Write(ctx, conn, resp); err != nil {
			return
		}
	}
}

func (g *Gateway) dispatch(req request) response {
	g.mu.Lock()
	g.calls = append(g.calls, Call{Target: req.Target, Method: req.Method, Args: req.Args})
	obj, ok := g.objects[req.Target]
	g.mu.Unlock()

	if !ok {
		return response{ID: req.ID, Error: "unknown handle: " + req.Target}
	}

	h, ok := obj[req.Method]
	if !ok {
		return response{ID: req.ID, Error: "unknown method: " + req.Method}
	}

	result, err := h(req.Args)
	if err != nil {
		return response{ID: req.ID, Error: err.Error()}
	}
	return response{ID: req.ID, Result: result}
}

// HandleArg extracts a handle id from a decoded argument, for handlers that
// receive object references (e.g. SetCurrentTimeline, RelinkClips).
func HandleArg(arg any) (string, bool) {
	m, ok := arg.(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := m["$handle"].(string)
	return id, ok
}

// HandleArgs extracts handle ids from a decoded list argument.
func HandleArgs(arg any) []string {
	list, ok := arg.([]any)
	if !ok {
		return nil
	}
	var ids []string
	for _, it := range list {
		if id, ok := HandleArg(it); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Handles builds a list-of-references result value.
func Handles(ids ...string) []Handle {
	out := make([]Handle, len(ids))
	for i, id := range ids {
		out[i] = Handle(id)
	}
	return out
}

// Static is a convenience Handler returning a fixed value.
func Static(v any) Handler {
	return func([]any) (any, error) { return v, nil }
}
