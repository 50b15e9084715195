package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dougsko/ft1000cat/pkg/client"
	"github.com/dougsko/ft1000cat/pkg/protocol"
	"github.com/dougsko/ft1000cat/pkg/trace"
)

type call struct {
	method string
	path   string
	body   map[string]interface{}
}

func newDaemonStub(t *testing.T) (*client.Client, *[]call) {
	t.Helper()
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path}
		json.NewDecoder(r.Body).Decode(&c.body)
		calls = append(calls, c)

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/v1/status" {
			json.NewEncoder(w).Encode(map[string]interface{}{"frequency": 7074000, "mode": "USB"})
			return
		}
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	t.Cleanup(srv.Close)
	return client.NewClient(srv.URL), &calls
}

func TestRunDispatch(t *testing.T) {
	cases := []struct {
		args   []string
		method string
		path   string
		key    string
		value  interface{}
	}{
		{[]string{"freq", "A", "14074000"}, http.MethodPut, "/api/v1/vfo/A/frequency", "frequency", float64(14_074_000)},
		{[]string{"MODE", "b", "cw"}, http.MethodPut, "/api/v1/vfo/b/mode", "mode", "cw"},
		{[]string{"vfo", "B"}, http.MethodPut, "/api/v1/select-vfo", "vfo", "B"},
		{[]string{"copy"}, http.MethodPost, "/api/v1/copy-vfo", "", nil},
		{[]string{"split", "on"}, http.MethodPut, "/api/v1/split", "on", true},
		{[]string{"clar", "0"}, http.MethodPut, "/api/v1/clarifier", "on", false},
		{[]string{"ptt", "OFF"}, http.MethodPut, "/api/v1/ptt", "on", false},
		{[]string{"offset", "-500"}, http.MethodPut, "/api/v1/clarifier/offset", "offset", float64(-500)},
		{[]string{"recall", "7"}, http.MethodPost, "/api/v1/memory/7/recall", "", nil},
		{[]string{"store", "8"}, http.MethodPost, "/api/v1/memory/8/store", "", nil},
		{[]string{"transfer", "9"}, http.MethodPost, "/api/v1/memory/9/transfer", "", nil},
	}

	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			cl, calls := newDaemonStub(t)

			_, err := run(cl, c.args, &bytes.Buffer{})
			require.NoError(t, err)
			require.Len(t, *calls, 1)

			got := (*calls)[0]
			if got.method != c.method || got.path != c.path {
				t.Errorf("Expected %s %s, got %s %s", c.method, c.path, got.method, got.path)
			}
			if c.key != "" {
				assert.Equal(t, c.value, got.body[c.key])
			}
		})
	}
}

func TestRunQueries(t *testing.T) {
	cl, calls := newDaemonStub(t)

	result, err := run(cl, []string{"status"}, &bytes.Buffer{})
	require.NoError(t, err)
	st, ok := result.(*protocol.VFOStatus)
	require.True(t, ok, "Expected *protocol.VFOStatus, got %T", result)
	assert.Equal(t, 7_074_000, st.Frequency)

	result, err = run(cl, []string{"ping"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"ok": true}, result)
	assert.Len(t, *calls, 2)
}

func TestRunRejectsBadArguments(t *testing.T) {
	cases := [][]string{
		{"freq", "A"},
		{"freq", "A", "14.074"},
		{"mode", "A"},
		{"vfo"},
		{"split", "maybe"},
		{"ptt"},
		{"offset", "lots"},
		{"recall", "x"},
		{"store", "1", "2"},
		{"trace"},
		{"tune", "A"},
	}

	for _, args := range cases {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			cl, calls := newDaemonStub(t)
			if _, err := run(cl, args, &bytes.Buffer{}); err == nil {
				t.Errorf("Expected error for %v", args)
			}
			assert.Empty(t, *calls, "nothing is sent for bad arguments")
		})
	}
}

func TestParseOnOff(t *testing.T) {
	for _, s := range []string{"on", "ON", "1", "true"} {
		on, err := parseOnOff(s)
		require.NoError(t, err)
		assert.True(t, on, s)
	}
	for _, s := range []string{"off", "Off", "0", "false"} {
		on, err := parseOnOff(s)
		require.NoError(t, err)
		assert.False(t, on, s)
	}
	_, err := parseOnOff("yes")
	assert.Error(t, err)
}

func TestRunTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cat.trace")
	rec, err := trace.NewFileRecorder(path)
	require.NoError(t, err)

	ts := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
	rec.Record(trace.Event{
		Timestamp: ts,
		Session:   "0123456789abcdef",
		Direction: trace.DirectionTX,
		Opcode:    uint8(protocol.OpSetMode),
		Attempt:   1,
		Data:      []byte{0, 0, 0, 0x01, 0x0C},
		Outcome:   trace.OutcomeOK,
	})
	rec.Record(trace.Event{
		Timestamp: ts,
		Session:   "0123456789abcdef",
		Direction: trace.DirectionRX,
		Opcode:    uint8(protocol.OpReadFlags),
		Attempt:   6,
		Expected:  5,
		Outcome:   trace.OutcomeTimeout,
	})
	require.NoError(t, rec.Close())

	cl, calls := newDaemonStub(t)
	var out bytes.Buffer
	_, err = run(cl, []string{"trace", path}, &out)
	require.NoError(t, err)
	assert.Empty(t, *calls, "trace reads the file only")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "01234567 TX SET_MODE")
	assert.Contains(t, lines[0], "00 00 00 01 0C")
	assert.Contains(t, lines[1], "RX READ_FLAGS")
	assert.Contains(t, lines[1], "#6 timeout")

	_, err = run(cl, []string{"trace", filepath.Join(t.TempDir(), "missing")}, &out)
	assert.Error(t, err)
}
