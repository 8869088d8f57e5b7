package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beauBalthazarBruneau/draft-engine/internal/events"
	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
	"github.com/beauBalthazarBruneau/draft-engine/internal/recommend"
	"github.com/beauBalthazarBruneau/draft-engine/internal/session"
)

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu    sync.Mutex
	types []string
}

func (c *capturePublisher) Publish(eventType string, _ uuid.UUID, _ any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types = append(c.types, eventType)
	return nil
}

func (c *capturePublisher) Close() {}

func (c *capturePublisher) published() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.types))
	copy(out, c.types)
	return out
}

func newTestAPI(defaultPool models.Pool) (*API, *capturePublisher) {
	registry := session.NewRegistry(clockwork.NewFakeClock(), time.Hour)
	manager := NewConnectionManager(DefaultConnectionConfig())
	pub := &capturePublisher{}
	return NewAPI(registry, manager, pub, recommend.DefaultConfig(), defaultPool), pub
}

func newTestServer(t *testing.T) (*httptest.Server, *capturePublisher) {
	t.Helper()
	return newTestServerWithPool(t, nil)
}

func newTestServerWithPool(t *testing.T, defaultPool models.Pool) (*httptest.Server, *capturePublisher) {
	t.Helper()
	api, pub := newTestAPI(defaultPool)
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, pub
}

func playersJSON() string {
	return `[
		{"id": 1, "name": "Alpha Back", "position": "RB", "ppg": 20, "adp": 1},
		{"id": 2, "name": "Beta Wideout", "position": "WR", "ppg": 18, "adp": 2},
		{"id": 3, "name": "Gamma QB", "position": "QB", "ppg": 22, "adp": 3},
		{"id": 4, "name": "Delta End", "position": "TE", "ppg": 12, "adp": 4}
	]`
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	body := fmt.Sprintf(`{"num_teams": 2, "rounds": 2, "user_index": 0, "players": %s}`, playersJSON())
	resp, err := http.Post(srv.URL+"/api/sessions", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.SessionID)
	return out.SessionID
}

func TestCreateSessionFromDefaultPool(t *testing.T) {
	defaultPool := models.Pool{
		1: {ID: 1, Name: "Alpha Back", Position: models.PositionRB, PPG: 20},
		2: {ID: 2, Name: "Beta Wideout", Position: models.PositionWR, PPG: 18},
	}
	srv, _ := newTestServerWithPool(t, defaultPool)

	body := `{"num_teams": 2, "rounds": 1, "user_index": 0}`
	resp, err := http.Post(srv.URL+"/api/sessions", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCreateSessionWithoutPlayersOrDefaultPool(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"num_teams": 2, "rounds": 1, "user_index": 0}`
	resp, err := http.Post(srv.URL+"/api/sessions", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateSession(t *testing.T) {
	srv, pub := newTestServer(t)
	id := createSession(t, srv)

	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, []string{events.TypeDraftStarted}, pub.published())
}

func TestCreateSessionValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "BadBody", body: "{"},
		{name: "TooFewTeams", body: `{"num_teams": 1, "rounds": 2, "user_index": 0, "players": []}`},
		{name: "UserIndexOutOfRange", body: `{"num_teams": 2, "rounds": 2, "user_index": 5, "players": []}`},
		{name: "UnknownPosition", body: `{"num_teams": 2, "rounds": 2, "user_index": 0,
			"players": [{"id": 1, "name": "Kicker", "position": "K", "ppg": 8}]}`},
		{name: "DuplicatePlayer", body: `{"num_teams": 2, "rounds": 2, "user_index": 0,
			"players": [{"id": 1, "name": "A", "position": "RB", "ppg": 10},
			            {"id": 1, "name": "B", "position": "WR", "ppg": 9}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/sessions", "application/json", bytes.NewBufferString(tc.body))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestGetSession(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createSession(t, srv)

	resp, err := http.Get(srv.URL + "/api/sessions/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		SessionID string `json:"session_id"`
		Status    string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, id, out.SessionID)
	assert.Equal(t, "PRE_DRAFT", out.Status)
}

func TestGetSessionNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/sessions/" + uuid.New().String())
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/sessions/not-a-uuid")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func applyPick(t *testing.T, srv *httptest.Server, sessionID string, playerID int) *http.Response {
	t.Helper()
	body := fmt.Sprintf(`{"player_id": %d}`, playerID)
	resp, err := http.Post(srv.URL+"/api/sessions/"+sessionID+"/picks", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func TestApplyPick(t *testing.T) {
	srv, pub := newTestServer(t)
	id := createSession(t, srv)

	resp := applyPick(t, srv, id, 1)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		PlayerName  string `json:"player_name"`
		OverallPick int    `json:"overall_pick"`
		TeamIndex   int    `json:"team_index"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Alpha Back", result.PlayerName)
	assert.Equal(t, 1, result.OverallPick)
	assert.Equal(t, 0, result.TeamIndex)

	assert.Contains(t, pub.published(), events.TypePickMade)
}

func TestApplyPickFailureCodes(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createSession(t, srv)

	// Drafting the same player twice conflicts.
	resp := applyPick(t, srv, id, 1)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = applyPick(t, srv, id, 1)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp struct {
		Reason string `json:"reason"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "already-drafted", errResp.Reason)

	// Unknown player is a 404.
	resp = applyPick(t, srv, id, 999)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDraftCompletionPublishesEvent(t *testing.T) {
	srv, pub := newTestServer(t)
	id := createSession(t, srv)

	for _, playerID := range []int{1, 2, 3, 4} {
		resp := applyPick(t, srv, id, playerID)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Contains(t, pub.published(), events.TypeDraftCompleted)

	// Draft over; further picks conflict.
	resp := applyPick(t, srv, id, 1)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRecommendationsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createSession(t, srv)

	resp, err := http.Get(srv.URL + "/api/sessions/" + id + "/recommendations?top_n=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Recommendations []struct {
			Name  string  `json:"name"`
			Davar float64 `json:"davar"`
		} `json:"recommendations"`
		Horizon int `json:"horizon"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.LessOrEqual(t, len(out.Recommendations), 2)
	assert.NotEmpty(t, out.Recommendations)
	for i := 1; i < len(out.Recommendations); i++ {
		assert.GreaterOrEqual(t, out.Recommendations[i-1].Davar, out.Recommendations[i].Davar)
	}
}

func TestPredictionEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	id := createSession(t, srv)

	resp, err := http.Get(srv.URL + "/api/sessions/" + id + "/prediction")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pred struct {
		PlayerID    int     `json:"player_id"`
		Probability float64 `json:"probability"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pred))
	assert.NotZero(t, pred.PlayerID)
	assert.Greater(t, pred.Probability, 0.0)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ok", out.Status)
}
