// Package pool loads player projections from disk into the session
// player collection.
package pool

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/beauBalthazarBruneau/draft-engine/internal/models"
)

// LoadFile reads a JSON array of player records and validates it into a
// Pool.
func LoadFile(path string) (models.Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read projections file: %w", err)
	}
	return Load(data)
}

// Load parses and validates raw projection bytes.
func Load(data []byte) (models.Pool, error) {
	var players []*models.Player
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, fmt.Errorf("parse projections: %w", err)
	}

	pool := make(models.Pool, len(players))
	for _, p := range players {
		if p.Name == "" {
			return nil, fmt.Errorf("player %d has no name", p.ID)
		}
		if !p.Position.Valid() {
			return nil, fmt.Errorf("player %s: unknown position %q", p.Name, p.Position)
		}
		if p.PPG < 0 {
			return nil, fmt.Errorf("player %s: negative ppg %.2f", p.Name, p.PPG)
		}
		if _, dup := pool[p.ID]; dup {
			return nil, fmt.Errorf("duplicate player id %d", p.ID)
		}
		pool[p.ID] = p
	}
	return pool, nil
}
