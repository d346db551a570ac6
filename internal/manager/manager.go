package manager

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/five82/jokefinder/internal/joke"
	"github.com/five82/jokefinder/internal/jokeapi"
	"github.com/five82/jokefinder/internal/state"
)

// Fetcher retrieves one random joke.
type Fetcher interface {
	Fetch(ctx context.Context) (joke.Joke, error)
}

// FavoritesStore loads and rewrites the persisted favorites.
type FavoritesStore interface {
	Load() []joke.Joke
	Save(jokes []joke.Joke) error
}

// Manager owns the current joke and the favorites collection.
type Manager struct {
	fetcher   Fetcher
	favorites FavoritesStore
	state     *state.Store
	logger    zerolog.Logger
	onChange  func(state.Snapshot)

	persistMu sync.Mutex
	persisted uint64

	initial <-chan error
}

// Option configures a Manager.
type Option func(*Manager)

// WithSeed sets the current joke before the first fetch completes.
func WithSeed(j *joke.Joke) Option {
	return func(m *Manager) {
		if j != nil {
			m.state.SetCurrent(*j)
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = l.With().Str("component", "manager").Logger()
	}
}

// WithOnChange registers fn to receive a snapshot after every change. fn may
// be called from any goroutine and is never called with a manager lock held,
// so it may call back into the manager.
func WithOnChange(fn func(state.Snapshot)) Option {
	return func(m *Manager) {
		m.onChange = fn
	}
}

// New initializes a manager: it starts fetching a joke in the background and
// loads the favorites before returning. It never fails; fetch and load
// problems are logged.
func New(ctx context.Context, fetcher Fetcher, favorites FavoritesStore, opts ...Option) *Manager {
	m := &Manager{
		fetcher:   fetcher,
		favorites: favorites,
		state:     &state.Store{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.initial = m.RefreshJoke(ctx)
	m.loadFavorites()
	return m
}

// Initial delivers the outcome of the fetch started by New.
func (m *Manager) Initial() <-chan error {
	return m.initial
}

// RefreshJoke fetches a new joke on its own goroutine. The returned channel
// receives the fetch error (nil on success) and is then closed. Overlapping
// refreshes are allowed; whichever finishes last sets the current joke.
func (m *Manager) RefreshJoke(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- m.Refresh(ctx)
	}()
	return done
}

// Refresh fetches a new joke and blocks until it is applied. On failure the
// current joke is left untouched.
func (m *Manager) Refresh(ctx context.Context) error {
	j, err := m.fetcher.Fetch(ctx)
	if err != nil {
		m.state.RecordFetchError(err)
		ev := m.logger.Warn().Err(err)
		var fe *jokeapi.FetchError
		if errors.As(err, &fe) {
			ev = ev.Str("kind", fe.KindName())
		}
		ev.Msg("joke fetch failed")
		m.notify()
		return err
	}

	m.state.SetCurrent(j)
	m.logger.Debug().Int("joke_id", j.ID).Str("category", j.Category).Msg("joke fetched")
	m.notify()
	return nil
}

// SaveCurrentAsFavorite prepends the current joke to the favorites and
// persists them. It reports false, without touching anything, when there is
// no current joke. Duplicates are allowed.
func (m *Manager) SaveCurrentAsFavorite() bool {
	added, ok := m.state.PrependFavorite()
	if !ok {
		m.logger.Debug().Msg("no current joke to save")
		return false
	}
	m.logger.Info().Int("joke_id", added.ID).Msg("joke added to favorites")
	m.notify()
	m.persist()
	return true
}

// DeleteFavorite removes every favorite with the given id, persists the
// result and returns how many entries were removed. Unknown ids are not an
// error.
func (m *Manager) DeleteFavorite(id int) int {
	removed := m.state.RemoveFavorite(id)
	m.logger.Info().Int("joke_id", id).Int("removed", removed).Msg("favorite deleted")
	m.notify()
	m.persist()
	return removed
}

// ReloadFavorites replaces the in-memory favorites with the persisted ones.
func (m *Manager) ReloadFavorites() {
	m.loadFavorites()
}

// CurrentJoke returns a copy of the current joke, or nil before the first
// successful fetch.
func (m *Manager) CurrentJoke() *joke.Joke {
	return m.state.Snapshot().Current
}

// Favorites returns a copy of the favorites, newest first.
func (m *Manager) Favorites() []joke.Joke {
	return m.state.Snapshot().Favorites
}

// Snapshot returns a copy of everything the manager tracks.
func (m *Manager) Snapshot() state.Snapshot {
	return m.state.Snapshot()
}

func (m *Manager) loadFavorites() {
	m.persistMu.Lock()
	loaded := m.favorites.Load()
	m.persisted = m.state.SetFavorites(loaded)
	m.persistMu.Unlock()

	m.logger.Info().Int("favorites", len(loaded)).Msg("favorites loaded")
	m.notify()
}

// persist writes the newest favorites collection. Saves are serialized and a
// collection older than one already written is skipped, so the file always
// ends at the latest in-memory state.
func (m *Manager) persist() {
	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	snap := m.state.Snapshot()
	if snap.Version <= m.persisted {
		return
	}
	if err := m.favorites.Save(snap.Favorites); err != nil {
		m.logger.Error().Err(err).Int("favorites", len(snap.Favorites)).Msg("saving favorites failed")
		return
	}
	m.persisted = snap.Version
	m.logger.Info().Int("favorites", len(snap.Favorites)).Msg("favorites saved")
}

func (m *Manager) notify() {
	if m.onChange != nil {
		m.onChange(m.state.Snapshot())
	}
}
