package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/jokefinder/internal/joke"
)

// Snapshot is a point-in-time copy of the manager's data.
type Snapshot struct {
	Current             *joke.Joke
	Favorites           []joke.Joke
	LastFetched         time.Time
	LastError           error
	ConsecutiveFailures int    // fetch failures since the last success
	Version             uint64 // bumped on every favorites change
}

// IsOffline reports whether the joke endpoint has failed repeatedly.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store guards the current joke and the favorites collection.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetCurrent replaces the current joke after a successful fetch.
func (s *Store) SetCurrent(j joke.Joke) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dup := j.Clone()
	s.snapshot.Current = &dup
	s.snapshot.LastError = nil
	s.snapshot.LastFetched = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// RecordFetchError notes a failed fetch. The current joke is kept.
func (s *Store) RecordFetchError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastError = err
	s.snapshot.LastFetched = time.Now()
	s.snapshot.ConsecutiveFailures++
}

// SetFavorites replaces the favorites collection and returns the new version.
func (s *Store) SetFavorites(list []joke.Joke) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Favorites = cloneJokes(list)
	s.snapshot.Version++
	return s.snapshot.Version
}

// PrependFavorite puts the current joke at the front of the favorites. It
// returns false and changes nothing when there is no current joke.
func (s *Store) PrependFavorite() (joke.Joke, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Current == nil {
		return joke.Joke{}, false
	}
	added := s.snapshot.Current.Clone()
	next := make([]joke.Joke, 0, len(s.snapshot.Favorites)+1)
	next = append(next, added)
	next = append(next, s.snapshot.Favorites...)
	s.snapshot.Favorites = next
	s.snapshot.Version++
	return added, true
}

// RemoveFavorite drops every favorite with the given id and returns how many
// were removed. The version is bumped even when nothing matched.
func (s *Store) RemoveFavorite(id int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.snapshot.Favorites[:0:0]
	for _, j := range s.snapshot.Favorites {
		if j.ID != id {
			kept = append(kept, j)
		}
	}
	removed := len(s.snapshot.Favorites) - len(kept)
	s.snapshot.Favorites = kept
	s.snapshot.Version++
	return removed
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Favorites = cloneJokes(s.snapshot.Favorites)
	if s.snapshot.Current != nil {
		cur := s.snapshot.Current.Clone()
		snap.Current = &cur
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneJokes(items []joke.Joke) []joke.Joke {
	dup := make([]joke.Joke, len(items))
	for i, j := range items {
		dup[i] = j.Clone()
	}
	return dup
}
