// Package session holds live draft sessions in memory. The engine
// itself is stateless; the registry is the one place a DraftState lives
// between calls, guarded per session so ApplyPick stays atomic.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/beauBalthazarBruneau/draft-engine/internal/draft"
	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
	"github.com/beauBalthazarBruneau/draft-engine/internal/recommend"
)

// ErrNotFound is returned when no session exists for the given ID.
var ErrNotFound = errors.New("session not found")

// Session is one live draft: its immutable player pool, its mutable
// state, and the engine config it was created with.
type Session struct {
	ID        uuid.UUID
	Pool      models.Pool
	State     *models.DraftState
	Config    recommend.Config
	CreatedAt time.Time

	mu         sync.Mutex
	lastActive time.Time
}

// Registry maps session IDs to live sessions and expires idle ones.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	clock clockwork.Clock
	ttl   time.Duration
}

// NewRegistry creates a registry. ttl <= 0 disables expiry.
func NewRegistry(clock clockwork.Clock, ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		clock:    clock,
		ttl:      ttl,
	}
}

// Create registers a new session around the given pool and draft
// configuration and returns it.
func (r *Registry) Create(pool models.Pool, numTeams, rounds, userIndex int, cfg recommend.Config) *Session {
	now := r.clock.Now()
	sess := &Session{
		ID:         uuid.New(),
		Pool:       pool,
		State:      models.NewDraftState(numTeams, rounds, userIndex, cfg.Lineup),
		Config:     cfg,
		CreatedAt:  now,
		lastActive: now,
	}

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()

	log.Info().
		Str("session_id", sess.ID.String()).
		Int("num_teams", numTeams).
		Int("rounds", rounds).
		Int("pool_size", len(pool)).
		Msg("session created")

	return sess
}

// Get returns the session for id, marking it active.
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.touch(r.clock.Now())
	return sess, nil
}

// Remove drops a session.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RunJanitor sweeps idle sessions until ctx is cancelled. No-op when
// expiry is disabled.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 {
		return
	}
	ticker := r.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, sess := range r.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastActive)
		sess.mu.Unlock()
		if idle > r.ttl {
			delete(r.sessions, id)
			log.Info().
				Str("session_id", id.String()).
				Dur("idle", idle).
				Msg("expired idle session")
		}
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now
	s.mu.Unlock()
}

// ApplyPick serializes the pick against the session and delegates to
// the state machine. Validation failures leave the state untouched.
func (s *Session) ApplyPick(playerID int) (*models.PickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return draft.ApplyPick(s.Pool, s.State, playerID)
}

// Recommend runs the recommendation pipeline over the session under its
// lock, optionally overriding the stored config.
func (s *Session) Recommend(cfg recommend.Config) *recommend.Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	return recommend.Recommend(s.Pool, s.State, cfg)
}

// Predict returns the current-pick point prediction under the session
// lock.
func (s *Session) Predict() *recommend.PickPrediction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return recommend.PredictCurrentPick(s.Pool, s.State, s.Config.Hazard)
}

// Snapshot returns a deep copy of the draft state. The copy shares no
// maps or slices with the live state, so callers may read and marshal
// it after the lock is released.
func (s *Session) Snapshot() models.DraftState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.State.Clone()
}
