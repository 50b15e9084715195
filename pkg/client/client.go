package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dougsko/ft1000cat/pkg/hardware"
	"github.com/dougsko/ft1000cat/pkg/protocol"
)

// Info is the daemon and radio description
type Info struct {
	Version   string             `json:"version"`
	Radio     hardware.RadioInfo `json:"radio"`
	Connected bool               `json:"connected"`
}

// BothStatus is a both-VFO status snapshot, active VFO first
type BothStatus struct {
	Active   protocol.VFOStatus   `json:"active"`
	Inactive protocol.VFOStatus   `json:"inactive"`
	Flags    *protocol.RadioFlags `json:"flags,omitempty"`
	Time     time.Time            `json:"time"`
	Error    string               `json:"error,omitempty"`
}

// APIError is a non-2xx reply from the daemon
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("daemon returned %d: %s", e.Status, e.Message)
}

// Client talks to an ft1000catd daemon over its HTTP API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the daemon at baseURL, e.g.
// http://127.0.0.1:8073
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+"/api/v1"+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach daemon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var e struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	return nil
}

// Info gets the daemon and radio description
func (c *Client) Info() (*Info, error) {
	var info Info
	if err := c.do(http.MethodGet, "/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Status reads the active VFO
func (c *Client) Status() (*protocol.VFOStatus, error) {
	var st protocol.VFOStatus
	if err := c.do(http.MethodGet, "/status", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// BothStatus reads both VFOs
func (c *Client) BothStatus() (*BothStatus, error) {
	var st BothStatus
	if err := c.do(http.MethodGet, "/status/both", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Flags reads the status flags
func (c *Client) Flags() (*protocol.RadioFlags, error) {
	var flags protocol.RadioFlags
	if err := c.do(http.MethodGet, "/flags", nil, &flags); err != nil {
		return nil, err
	}
	return &flags, nil
}

// SetFrequency sets a VFO ("A" or "B") in Hz
func (c *Client) SetFrequency(vfo string, hz int) error {
	return c.do(http.MethodPut, "/vfo/"+url.PathEscape(vfo)+"/frequency", map[string]int{"frequency": hz}, nil)
}

// SetMode sets a VFO's mode by name
func (c *Client) SetMode(vfo, mode string) error {
	return c.do(http.MethodPut, "/vfo/"+url.PathEscape(vfo)+"/mode", map[string]string{"mode": mode}, nil)
}

// SelectVFO switches the active VFO
func (c *Client) SelectVFO(vfo string) error {
	return c.do(http.MethodPut, "/select-vfo", map[string]string{"vfo": vfo}, nil)
}

// CopyVFO copies VFO-A to VFO-B
func (c *Client) CopyVFO() error {
	return c.do(http.MethodPost, "/copy-vfo", nil, nil)
}

func (c *Client) toggle(path string, on bool) error {
	return c.do(http.MethodPut, path, map[string]bool{"on": on}, nil)
}

// SetSplit turns split on or off
func (c *Client) SetSplit(on bool) error { return c.toggle("/split", on) }

// SetClarifier turns the clarifier on or off
func (c *Client) SetClarifier(on bool) error { return c.toggle("/clarifier", on) }

// SetPTT keys or unkeys the transmitter
func (c *Client) SetPTT(on bool) error { return c.toggle("/ptt", on) }

// SetClarifierOffset sets the clarifier offset in Hz
func (c *Client) SetClarifierOffset(hz int) error {
	return c.do(http.MethodPut, "/clarifier/offset", map[string]int{"offset": hz}, nil)
}

// Memory runs a memory operation: recall, store or transfer
func (c *Client) Memory(op string, channel int) error {
	switch op {
	case "recall", "store", "transfer":
	default:
		return fmt.Errorf("unknown memory operation %q", op)
	}
	return c.do(http.MethodPost, fmt.Sprintf("/memory/%d/%s", channel, op), nil, nil)
}

// Ping tests the connection
func (c *Client) Ping() error {
	_, err := c.Info()
	return err
}

// Watch streams status snapshots to fn until ctx is done, the daemon
// closes the stream, or fn returns false.
func (c *Client) Watch(ctx context.Context, fn func(BothStatus) bool) error {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to open status stream: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var st BothStatus
		if err := conn.ReadJSON(&st); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return nil
			}
			return err
		}
		if !fn(st) {
			return nil
		}
	}
}
