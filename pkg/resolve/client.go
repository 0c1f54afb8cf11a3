// Package resolve is a client for the DaVinci Resolve scripting gateway. It
// exposes the host's object model (application root, project manager,
// project, timeline, media pool, items) as typed remote handles. Every
// method is a synchronous, blocking remote call: the host owns all state and
// this package holds nothing but handle identifiers.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// DefaultGatewayURL is where the scripting gateway listens on a local
// install.
const DefaultGatewayURL = "ws://127.0.0.1:15250/api"

// request is one remote invocation. Target is the handle the method is
// invoked on; the empty target addresses the gateway itself.
type request struct {
	ID     string `json:"id"`
	Target string `json:"target,omitempty"`
	Method string `json:"method"`
	Args   []any  `json:"args,omitempty"`
}

type response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// handleRef is how object references travel on the wire, in both directions.
type handleRef struct {
	ID string `json:"$handle"`
}

// Options configures a Client.
type Options struct {
	// Logger receives a Debug line per remote call. Nil disables logging.
	Logger hclog.Logger
}

// Client is a connection to the scripting gateway. Calls are strictly
// sequential: one in-flight invocation at a time, matching the host's own
// single-threaded scripting model.
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
	log  hclog.Logger
}

// Dial connects to the scripting gateway and acquires the application root
// handle (the equivalent of scriptapp("Resolve")). A gateway that cannot be
// reached, or that answers with no application handle, maps to
// ErrHostUnavailable.
func Dial(ctx context.Context, url string, opts Options) (*Client, *Resolve, error) {
	log := opts.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: dial %s: %v", ErrHostUnavailable, url, err)
	}
	conn.SetReadLimit(1 << 20)

	c := &Client{conn: conn, log: log}

	raw, err := c.call(ctx, "", "Scriptapp", "Resolve")
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	id, ok := decodeHandle(raw)
	if !ok {
		_ = c.Close()
		return nil, nil, ErrHostUnavailable
	}

	return c, &Resolve{handle{c: c, id: id}}, nil
}

// Close shuts the gateway connection down. All handles obtained through
// this client are invalid afterwards.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

// call performs one blocking remote invocation.
func (c *Client) call(ctx context.Context, target, method string, args ...any) (json.RawMessage, error) {
	req := request{ID: uuid.NewString(), Target: target, Method: method, Args: args}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Debug("invoke", "target", target, "method", method, "args", len(args))

	if err := wsjson.Write(ctx, c.conn, req); err != nil {
		return nil, fmt.Errorf("resolve: %s.%s: write: %w", target, method, err)
	}

	var resp response
	if err := wsjson.Read(ctx, c.conn, &resp); err != nil {
		return nil, fmt.Errorf("resolve: %s.%s: read: %w", target, method, err)
	}

	if resp.ID != req.ID {
		return nil, fmt.Errorf("resolve: %s.%s: response id %q does not match request id %q", target, method, resp.ID, req.ID)
	}

	if resp.Error != "" {
		return nil, &CallError{Target: target, Method: method, Msg: resp.Error}
	}

	return resp.Result, nil
}

// handle is an opaque reference to host-side state, valid only for the
// lifetime of the client connection.
type handle struct {
	c  *Client
	id string
}

// ID returns the gateway identifier of the handle, for logging.
func (h handle) ID() string { return h.id }

func (h handle) ref() handleRef { return handleRef{ID: h.id} }

func (h handle) callString(ctx context.Context, method string, args ...any) (string, error) {
	raw, err := h.c.call(ctx, h.id, method, args...)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("resolve: %s.%s: decode string: %w", h.id, method, err)
	}
	return s, nil
}

func (h handle) callInt(ctx context.Context, method string, args ...any) (int, error) {
	raw, err := h.c.call(ctx, h.id, method, args...)
	if err != nil {
		return 0, err
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("resolve: %s.%s: decode number: %w", h.id, method, err)
	}
	return int(f), nil
}

func (h handle) callBool(ctx context.Context, method string, args ...any) (bool, error) {
	raw, err := h.c.call(ctx, h.id, method, args...)
	if err != nil {
		return false, err
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, fmt.Errorf("resolve: %s.%s: decode bool: %w", h.id, method, err)
	}
	return b, nil
}

// callHandle invokes a method returning an object reference. A null result
// means the host has nothing to return (no project, no timeline, no media
// pool item); that is reported as ok=false, not as an error.
func (h handle) callHandle(ctx context.Context, method string, args ...any) (handle, bool, error) {
	raw, err := h.c.call(ctx, h.id, method, args...)
	if err != nil {
		return handle{}, false, err
	}
	id, ok := decodeHandle(raw)
	if !ok {
		return handle{}, false, nil
	}
	return handle{c: h.c, id: id}, true, nil
}

func (h handle) callHandles(ctx context.Context, method string, args ...any) ([]handle, error) {
	raw, err := h.c.call(ctx, h.id, method, args...)
	if err != nil {
		return nil, err
	}

	var refs []handleRef
	if err := json.Unmarshal(raw, &refs); err != nil {
		return nil, fmt.Errorf("resolve: %s.%s: decode handle list: %w", h.id, method, err)
	}

	handles := make([]handle, len(refs))
	for i, r := range refs {
		handles[i] = handle{c: h.c, id: r.ID}
	}
	return handles, nil
}

// decodeHandle extracts a handle id from a raw result. Returns ok=false for
// null or for results that are not handle references.
func decodeHandle(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var ref handleRef
	if err := json.Unmarshal(raw, &ref); err != nil || ref.ID == "" {
		return "", false
	}
	return ref.ID, true
}

// refs converts a slice of typed handles into wire references.
func refs[T interface{ ref() handleRef }](items []T) []handleRef {
	out := make([]handleRef, len(items))
	for i, it := range items {
		out[i] = it.ref()
	}
	return out
}
