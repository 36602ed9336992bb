package service

import (
	"sync"
	"time"
)

// GameFactory builds the game for a newly seen device
type GameFactory func(deviceID string) *Game

type registryEntry struct {
	game     *Game
	lastSeen time.Time
}

// Registry holds one game per device
type Registry struct {
	mu      sync.Mutex
	games   map[string]*registryEntry
	factory GameFactory
	now     func() time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(factory GameFactory) *Registry {
	return &Registry{
		games:   make(map[string]*registryEntry),
		factory: factory,
		now:     time.Now,
	}
}

// Get returns the device's game, creating it on first use
func (r *Registry) Get(deviceID string) *Game {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.games[deviceID]
	if !ok {
		entry = &registryEntry{game: r.factory(deviceID)}
		r.games[deviceID] = entry
	}
	entry.lastSeen = r.now()
	return entry.game
}

// EvictIdle drops games not used for longer than ttl and returns how many
// were removed. Evicted games are returned to the menu so their timers stop.
func (r *Registry) EvictIdle(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	var evicted []*Game
	for id, entry := range r.games {
		if entry.lastSeen.Before(cutoff) {
			evicted = append(evicted, entry.game)
			delete(r.games, id)
		}
	}
	r.mu.Unlock()

	for _, g := range evicted {
		g.ReturnToMenu()
	}
	return len(evicted)
}

// Len returns the number of live games
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}
