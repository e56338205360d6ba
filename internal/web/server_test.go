package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysglance/internal/config"
	"sysglance/internal/logger"
	"sysglance/internal/sampler"
	"sysglance/internal/state"
	"sysglance/internal/theme"
)

func newTestServer(t *testing.T) (*Server, *state.Holder, *httptest.Server) {
	t.Helper()
	light, dark := theme.Pair(config.DefaultConfig().Themes)
	ctrl := theme.NewController(light, dark)
	holder := state.NewHolder(ctrl)

	s := New(":0", holder, ctrl, logger.Noop())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, holder, ts
}

func publishSample(holder *state.Holder) *sampler.Snapshot {
	snap := &sampler.Snapshot{
		Timestamp: time.Now(),
		Metrics:   sampler.MetricsSample{CPU: 33.3, Memory: 44.4, Disk: 55.5},
		Services: []sampler.ServiceState{
			{Name: "ssh.service", Activity: sampler.ActivityActive, State: "active"},
		},
		Logs: []sampler.LogEntry{
			{Timestamp: time.Now(), Severity: sampler.SeverityError, Level: "error", Message: "oops"},
		},
	}
	holder.Publish(snap)
	return snap
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp
}

func TestIndexServed(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestUnknownPathIs404(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSnapshotBeforeFirstSample(t *testing.T) {
	_, _, ts := newTestServer(t)

	var payload snapshotPayload
	getJSON(t, ts.URL+"/api/snapshot", &payload)

	assert.False(t, payload.Available)
	assert.Nil(t, payload.Snapshot)
	assert.Equal(t, theme.Dark, payload.Theme)
}

func TestSnapshotAfterPublish(t *testing.T) {
	_, holder, ts := newTestServer(t)
	publishSample(holder)

	var payload snapshotPayload
	getJSON(t, ts.URL+"/api/snapshot", &payload)

	require.True(t, payload.Available)
	require.NotNil(t, payload.Snapshot)
	assert.Equal(t, 33.3, payload.Snapshot.Metrics.CPU)
	require.Len(t, payload.Snapshot.Services, 1)
	assert.Equal(t, "active", payload.Snapshot.Services[0].State)
}

func TestHistoryEndpoint(t *testing.T) {
	_, holder, ts := newTestServer(t)
	publishSample(holder)
	publishSample(holder)

	var payload struct {
		Points []state.HistoryPoint `json:"points"`
	}
	getJSON(t, ts.URL+"/api/history", &payload)
	assert.Len(t, payload.Points, 2)
}

func TestThemeGetAndToggle(t *testing.T) {
	_, _, ts := newTestServer(t)

	var payload themePayload
	getJSON(t, ts.URL+"/api/theme", &payload)
	assert.Equal(t, theme.Dark, payload.Name)
	assert.NotEmpty(t, payload.Styles["header"])

	resp, err := http.Post(ts.URL+"/api/theme", "application/json", nil)
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	assert.Equal(t, theme.Light, payload.Name)

	getJSON(t, ts.URL+"/api/theme", &payload)
	assert.Equal(t, theme.Light, payload.Name)
}

func TestThemeRejectsOtherMethods(t *testing.T) {
	_, _, ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/theme", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func TestWebsocketReplaysCurrentSnapshot(t *testing.T) {
	s, holder, ts := newTestServer(t)
	s.attach()
	publishSample(holder)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()

	var payload snapshotPayload
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&payload))

	assert.True(t, payload.Available)
	require.NotNil(t, payload.Snapshot)
	assert.Equal(t, 33.3, payload.Snapshot.Metrics.CPU)
}

func TestWebsocketStreamsPublishes(t *testing.T) {
	s, holder, ts := newTestServer(t)
	s.attach()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()

	// First frame is the "no sample yet" replay.
	var payload snapshotPayload
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&payload))
	assert.False(t, payload.Available)

	publishSample(holder)
	require.NoError(t, conn.ReadJSON(&payload))
	assert.True(t, payload.Available)
	assert.Equal(t, 44.4, payload.Snapshot.Metrics.Memory)
}

func TestSlowWebsocketClientIsDropped(t *testing.T) {
	s, holder, ts := newTestServer(t)
	s.attach()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Never read; flood with frames big enough to fill the socket
	// buffer and then the send queue, so the hub gives up.
	bulk := strings.Repeat("x", 64*1024)
	for i := 0; i < 100 && s.hub.count() > 0; i++ {
		holder.Publish(&sampler.Snapshot{
			Timestamp: time.Now(),
			Logs:      []sampler.LogEntry{{Level: "info", Message: bulk}},
		})
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && s.hub.count() > 0 {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Zero(t, s.hub.count(), "unresponsive client should be evicted")
}

func TestCheckOrigin(t *testing.T) {
	mk := func(origin, host string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "http://"+host+"/ws", nil)
		r.Host = host
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.True(t, upgrader.CheckOrigin(mk("", "dash.local:8050")))
	assert.True(t, upgrader.CheckOrigin(mk("http://dash.local:8050", "dash.local:8050")))
	assert.False(t, upgrader.CheckOrigin(mk("http://evil.example", "dash.local:8050")))
	assert.False(t, upgrader.CheckOrigin(mk("::bad::", "dash.local:8050")))
}
