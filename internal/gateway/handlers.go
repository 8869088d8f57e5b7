package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/beauBalthazarBruneau/draft-engine/internal/draft"
	"github.com/beauBalthazarBruneau/draft-engine/internal/events"
	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
	"github.com/beauBalthazarBruneau/draft-engine/internal/recommend"
	"github.com/beauBalthazarBruneau/draft-engine/internal/session"
)

// API serves the JSON endpoints around the engine.
type API struct {
	registry  *session.Registry
	manager   *ConnectionManager
	publisher events.Publisher
	defaults  recommend.Config

	// defaultPool backs sessions created without an inline player list.
	defaultPool models.Pool
}

// NewAPI wires the handler set. defaultPool may be nil when every
// session ships its own players.
func NewAPI(registry *session.Registry, manager *ConnectionManager, publisher events.Publisher, defaults recommend.Config, defaultPool models.Pool) *API {
	return &API{
		registry:    registry,
		manager:     manager,
		publisher:   publisher,
		defaults:    defaults,
		defaultPool: defaultPool,
	}
}

// RegisterRoutes attaches every route to the mux.
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sessions", a.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", a.handleGetSession)
	mux.HandleFunc("POST /api/sessions/{id}/picks", a.handleApplyPick)
	mux.HandleFunc("GET /api/sessions/{id}/recommendations", a.handleRecommendations)
	mux.HandleFunc("GET /api/sessions/{id}/prediction", a.handlePrediction)
	mux.HandleFunc("GET /ws/draft", a.handleWebSocket)
	mux.HandleFunc("GET /health", a.handleHealth)
}

type createSessionRequest struct {
	NumTeams  int              `json:"num_teams"`
	Rounds    int              `json:"rounds"`
	UserIndex int              `json:"user_index"`
	Players   []*models.Player `json:"players"`
}

type sessionResponse struct {
	SessionID string             `json:"session_id"`
	State     models.DraftState  `json:"state"`
	Status    models.DraftStatus `json:"status"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func (a *API) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if req.NumTeams < 2 || req.Rounds < 1 {
		writeError(w, http.StatusBadRequest, "num_teams must be >= 2 and rounds >= 1", "")
		return
	}
	if req.UserIndex < 0 || req.UserIndex >= req.NumTeams {
		writeError(w, http.StatusBadRequest, "user_index out of range", "")
		return
	}

	pool := a.defaultPool
	if len(req.Players) > 0 {
		pool = make(models.Pool, len(req.Players))
		for _, p := range req.Players {
			if !p.Position.Valid() {
				writeError(w, http.StatusBadRequest, "unknown position for player "+p.Name, "")
				return
			}
			if _, dup := pool[p.ID]; dup {
				writeError(w, http.StatusBadRequest, "duplicate player id "+strconv.Itoa(p.ID), "")
				return
			}
			pool[p.ID] = p
		}
	}
	if len(pool) == 0 {
		writeError(w, http.StatusBadRequest, "players are required: no default pool is configured", "")
		return
	}

	sess := a.registry.Create(pool, req.NumTeams, req.Rounds, req.UserIndex, a.defaults)

	if err := a.publisher.Publish(events.TypeDraftStarted, sess.ID, events.DraftStartedPayload{
		SessionID:   sess.ID.String(),
		NumTeams:    req.NumTeams,
		TotalRounds: req.Rounds,
		TotalPicks:  req.NumTeams * req.Rounds,
		StartedAt:   time.Now(),
	}); err != nil {
		log.Error().Err(err).Str("session_id", sess.ID.String()).Msg("failed to publish draft_started")
	}

	state := sess.Snapshot()
	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: sess.ID.String(),
		State:     state,
		Status:    state.Status(),
	})
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.lookup(w, r)
	if !ok {
		return
	}
	state := sess.Snapshot()
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID: sess.ID.String(),
		State:     state,
		Status:    state.Status(),
	})
}

type applyPickRequest struct {
	PlayerID int `json:"player_id"`
}

func (a *API) handleApplyPick(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.lookup(w, r)
	if !ok {
		return
	}

	var req applyPickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	result, err := sess.ApplyPick(req.PlayerID)
	if err != nil {
		status, reason := pickFailure(err)
		writeError(w, status, err.Error(), reason)
		return
	}

	payload := events.PickMadePayload{
		SessionID:   sess.ID.String(),
		PlayerID:    result.PlayerID,
		PlayerName:  result.PlayerName,
		Position:    result.Position,
		TeamIndex:   result.TeamIndex,
		Round:       result.Round,
		OverallPick: result.OverallPick,
		MadeAt:      time.Now(),
	}
	a.manager.Broadcast(sess.ID, FeedMessage{Type: events.TypePickMade, Payload: payload})
	if err := a.publisher.Publish(events.TypePickMade, sess.ID, payload); err != nil {
		log.Error().Err(err).Str("session_id", sess.ID.String()).Msg("failed to publish pick_made")
	}

	state := sess.Snapshot()
	if state.IsComplete() {
		done := events.DraftCompletedPayload{
			SessionID:   sess.ID.String(),
			TotalPicks:  state.TotalPicks(),
			CompletedAt: time.Now(),
		}
		a.manager.Broadcast(sess.ID, FeedMessage{Type: events.TypeDraftCompleted, Payload: done})
		if err := a.publisher.Publish(events.TypeDraftCompleted, sess.ID, done); err != nil {
			log.Error().Err(err).Str("session_id", sess.ID.String()).Msg("failed to publish draft_completed")
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.lookup(w, r)
	if !ok {
		return
	}

	cfg := sess.Config
	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("top_n")); err == nil && v > 0 {
		cfg.TopN = v
	}
	if v, err := strconv.Atoi(q.Get("candidate_pool")); err == nil && v > 0 {
		cfg.CandidatePoolSize = v
	}
	if v, err := strconv.ParseFloat(q.Get("alpha"), 64); err == nil {
		cfg.Weights.Alpha = v
	}
	if v, err := strconv.ParseFloat(q.Get("beta"), 64); err == nil {
		cfg.Weights.Beta = v
	}

	writeJSON(w, http.StatusOK, sess.Recommend(cfg))
}

func (a *API) handlePrediction(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.lookup(w, r)
	if !ok {
		return
	}
	pred := sess.Predict()
	if pred == nil {
		writeError(w, http.StatusNotFound, "no prediction available", "")
		return
	}
	writeJSON(w, http.StatusOK, pred)
}

func (a *API) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("session_id")
	if idStr == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid session_id format", http.StatusBadRequest)
		return
	}
	if _, err := a.registry.Get(id); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err := a.manager.Upgrade(w, r, id); err != nil {
		log.Error().Err(err).Str("session_id", id.String()).Msg("websocket upgrade failed")
	}
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	total, active := a.manager.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"sessions":    a.registry.Len(),
		"connections": total,
		"ws_sessions": active,
	})
}

func (a *API) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id", "")
		return nil, false
	}
	sess, err := a.registry.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found", "")
		return nil, false
	}
	return sess, true
}

// pickFailure maps state-machine sentinels to HTTP status + reason
// category.
func pickFailure(err error) (int, string) {
	switch {
	case errors.Is(err, draft.ErrPlayerNotFound):
		return http.StatusNotFound, "player-not-found"
	case errors.Is(err, draft.ErrAlreadyDrafted):
		return http.StatusConflict, "already-drafted"
	case errors.Is(err, draft.ErrInvalidPosition):
		return http.StatusUnprocessableEntity, "invalid-position"
	case errors.Is(err, draft.ErrRosterFull):
		return http.StatusConflict, "roster-full"
	case errors.Is(err, draft.ErrDraftComplete):
		return http.StatusConflict, "draft-complete"
	default:
		return http.StatusInternalServerError, ""
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg, reason string) {
	writeJSON(w, status, errorResponse{Error: msg, Reason: reason})
}
