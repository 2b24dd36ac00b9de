package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/green-world/internal/audio"
	"github.com/talgya/green-world/internal/catalog"
	"github.com/talgya/green-world/internal/entropy"
	"github.com/talgya/green-world/internal/game"
	"github.com/talgya/green-world/internal/persistence"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	db, err := persistence.Open(filepath.Join(t.TempDir(), "save.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	session := game.NewSession(catalog.Default(), &entropy.Scripted{}, audio.LogSink{})
	session.OnTutorialDone = func() {
		require.NoError(t, db.SetTutorialCompleted())
	}
	srv := NewServer(session, db, 0)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(ts.URL+path, "application/json", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func getJSON(t *testing.T, ts *httptest.Server, path string) map[string]any {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

func TestNewGameAndState(t *testing.T) {
	_, ts := newTestServer(t)

	body := getJSON(t, ts, "/api/v1/state")
	assert.Equal(t, "WELCOME", body["phase"])

	resp, view := postJSON(t, ts, "/api/v1/new-game", map[string]any{"tutorial": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SELLER_VISIT", view["phase"])
	assert.Equal(t, float64(5000), view["money"])
	assert.Equal(t, true, view["tutorial"].(map[string]any)["active"])

	body = getJSON(t, ts, "/api/v1/state")
	state := body["state"].(map[string]any)
	assert.Equal(t, float64(1), state["day"])
	assert.Equal(t, float64(20), state["co2_level"])
}

func TestBuySeedEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	postJSON(t, ts, "/api/v1/new-game", map[string]any{"tutorial": true})

	resp, view := postJSON(t, ts, "/api/v1/buy-seed", map[string]any{"seller_id": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(4700), view["money"])

	// A sold offer is a game outcome, reported as a conflict.
	resp, view = postJSON(t, ts, "/api/v1/buy-seed", map[string]any{"seller_id": 0})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, view["error"], "already sold")

	// An unknown seller is a malformed request.
	resp, _ = postJSON(t, ts, "/api/v1/buy-seed", map[string]any{"seller_id": 42})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMalformedBodyRejected(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/buy-seed", "application/json", strings.NewReader("{nope"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMissionsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	postJSON(t, ts, "/api/v1/new-game", map[string]any{"tutorial": false})

	body := getJSON(t, ts, "/api/v1/missions")
	missions := body["missions"].([]any)
	require.Len(t, missions, 6)
	first := missions[0].(map[string]any)
	assert.Equal(t, "morning_glory_1", first["id"])
	assert.Equal(t, float64(0), first["progress"])
	assert.Equal(t, false, first["completed"])
}

func TestSellersAndCatalogEndpoints(t *testing.T) {
	_, ts := newTestServer(t)
	postJSON(t, ts, "/api/v1/new-game", map[string]any{"tutorial": true})

	body := getJSON(t, ts, "/api/v1/sellers")
	sellers := body["sellers"].([]any)
	require.Len(t, sellers, 3)
	assert.Equal(t, "morning_glory", sellers[0].(map[string]any)["kind"])

	cat := getJSON(t, ts, "/api/v1/catalog")
	assert.Len(t, cat["Plants"], 8)
}

func TestSaveEndpoint(t *testing.T) {
	srv, ts := newTestServer(t)
	postJSON(t, ts, "/api/v1/new-game", map[string]any{"tutorial": true})

	resp, view := postJSON(t, ts, "/api/v1/save", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "WELCOME", view["phase"])

	has, err := srv.DB.HasBundle(persistence.DefaultSlot)
	require.NoError(t, err)
	assert.True(t, has)

	// Quit keeps the state around, so a second save still succeeds.
	resp, _ = postJSON(t, ts, "/api/v1/save", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoadEndpointResumesSave(t *testing.T) {
	_, ts := newTestServer(t)
	postJSON(t, ts, "/api/v1/new-game", map[string]any{"tutorial": true})
	postJSON(t, ts, "/api/v1/buy-seed", map[string]any{"seller_id": 0})
	postJSON(t, ts, "/api/v1/save", nil)

	resp, view := postJSON(t, ts, "/api/v1/load", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(4700), view["money"])
	assert.Equal(t, "SELLER_VISIT", view["phase"])
}

func TestTutorialEndpoints(t *testing.T) {
	srv, ts := newTestServer(t)
	postJSON(t, ts, "/api/v1/new-game", map[string]any{"tutorial": true})

	_, view := postJSON(t, ts, "/api/v1/tutorial/next", nil)
	assert.Equal(t, float64(1), view["tutorial"].(map[string]any)["step"])

	_, view = postJSON(t, ts, "/api/v1/tutorial/skip", nil)
	assert.Equal(t, false, view["tutorial"].(map[string]any)["active"])
	assert.True(t, srv.DB.TutorialCompleted(), "skipping records completion")
}

func TestStreamPushesViews(t *testing.T) {
	_, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The current view arrives immediately on connect.
	var view map[string]any
	require.NoError(t, conn.ReadJSON(&view))
	assert.Equal(t, "WELCOME", view["phase"])

	postJSON(t, ts, "/api/v1/new-game", map[string]any{"tutorial": true})

	require.NoError(t, conn.ReadJSON(&view))
	assert.Equal(t, "SELLER_VISIT", view["phase"])
	assert.Equal(t, float64(5000), view["money"])
}
