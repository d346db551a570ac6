package manager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/jokefinder/internal/joke"
	"github.com/five82/jokefinder/internal/jokeapi"
	"github.com/five82/jokefinder/internal/state"
)

type fakeFetcher struct {
	calls atomic.Int32
	fn    func(ctx context.Context, call int) (joke.Joke, error)
}

func (f *fakeFetcher) Fetch(ctx context.Context) (joke.Joke, error) {
	call := int(f.calls.Add(1))
	return f.fn(ctx, call)
}

func sequence(results ...any) *fakeFetcher {
	return &fakeFetcher{fn: func(_ context.Context, call int) (joke.Joke, error) {
		if call > len(results) {
			return joke.Joke{}, errors.New("no more jokes")
		}
		switch r := results[call-1].(type) {
		case joke.Joke:
			return r, nil
		case error:
			return joke.Joke{}, r
		default:
			panic(fmt.Sprintf("unexpected result %T", r))
		}
	}}
}

type memStore struct {
	mu      sync.Mutex
	data    []joke.Joke
	saves   int
	saveErr error
}

func (s *memStore) Load() []joke.Joke {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]joke.Joke{}, s.data...)
}

func (s *memStore) Save(jokes []joke.Joke) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data = append([]joke.Joke{}, jokes...)
	s.saves++
	return nil
}

func (s *memStore) snapshot() ([]joke.Joke, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]joke.Joke{}, s.data...), s.saves
}

func waitInitial(t *testing.T, m *Manager) error {
	t.Helper()
	select {
	case err := <-m.Initial():
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("initial fetch did not finish")
		return nil
	}
}

func jk(id int) joke.Joke {
	return joke.Joke{ID: id, Category: "general", Setup: joke.String(fmt.Sprintf("setup %d", id)), Punchline: joke.String(fmt.Sprintf("punchline %d", id))}
}

func TestNew_ColdStart(t *testing.T) {
	store := &memStore{}
	m := New(context.Background(), sequence(errors.New("offline")), store)

	assert.Empty(t, m.Favorites())
	require.Error(t, waitInitial(t, m))
	assert.Nil(t, m.CurrentJoke())

	snap := m.Snapshot()
	assert.Equal(t, 1, snap.ConsecutiveFailures)
	assert.Error(t, snap.LastError)
}

func TestNew_LoadsFavoritesSynchronously(t *testing.T) {
	store := &memStore{data: []joke.Joke{jk(2), jk(1)}}
	release := make(chan struct{})
	fetcher := &fakeFetcher{fn: func(ctx context.Context, _ int) (joke.Joke, error) {
		<-release
		return jk(9), nil
	}}

	m := New(context.Background(), fetcher, store)
	assert.Equal(t, []joke.Joke{jk(2), jk(1)}, m.Favorites())
	assert.Nil(t, m.CurrentJoke(), "fetch is still blocked")

	close(release)
	require.NoError(t, waitInitial(t, m))
	require.NotNil(t, m.CurrentJoke())
	assert.Equal(t, 9, m.CurrentJoke().ID)
}

func TestNew_SeedSurvivesFailedFetch(t *testing.T) {
	seed := joke.Example()
	m := New(context.Background(), sequence(errors.New("offline")), &memStore{}, WithSeed(&seed))

	require.Error(t, waitInitial(t, m))
	require.NotNil(t, m.CurrentJoke())
	assert.Equal(t, 310, m.CurrentJoke().ID)
}

func TestRefresh_FailureKeepsCurrentJoke(t *testing.T) {
	m := New(context.Background(), sequence(jk(1), &jokeapi.FetchError{Kind: jokeapi.ErrTransport, Err: errors.New("dial")}), &memStore{})
	require.NoError(t, waitInitial(t, m))

	err := <-m.RefreshJoke(context.Background())
	require.ErrorIs(t, err, jokeapi.ErrTransport)

	require.NotNil(t, m.CurrentJoke())
	assert.Equal(t, 1, m.CurrentJoke().ID)
	assert.ErrorIs(t, m.Snapshot().LastError, jokeapi.ErrTransport)
}

func TestRefresh_SuccessReplacesCurrentJoke(t *testing.T) {
	m := New(context.Background(), sequence(jk(1), jk(2)), &memStore{})
	require.NoError(t, waitInitial(t, m))

	require.NoError(t, m.Refresh(context.Background()))
	assert.Equal(t, 2, m.CurrentJoke().ID)
	assert.Zero(t, m.Snapshot().ConsecutiveFailures)
}

func TestRefresh_LastFinishedWins(t *testing.T) {
	slowRelease := make(chan struct{})
	fetcher := &fakeFetcher{fn: func(_ context.Context, call int) (joke.Joke, error) {
		switch call {
		case 1:
			return jk(1), nil
		case 2:
			<-slowRelease
			return jk(2), nil
		default:
			return jk(3), nil
		}
	}}
	m := New(context.Background(), fetcher, &memStore{})
	require.NoError(t, waitInitial(t, m))

	slow := m.RefreshJoke(context.Background())
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, <-m.RefreshJoke(context.Background()))
	assert.Equal(t, 3, m.CurrentJoke().ID)

	close(slowRelease)
	require.NoError(t, <-slow)
	assert.Equal(t, 2, m.CurrentJoke().ID)
}

func TestSaveCurrentAsFavorite_NoCurrentJokeIsNoop(t *testing.T) {
	store := &memStore{}
	m := New(context.Background(), sequence(errors.New("offline")), store)
	waitInitial(t, m)

	assert.False(t, m.SaveCurrentAsFavorite())
	assert.Empty(t, m.Favorites())
	_, saves := store.snapshot()
	assert.Zero(t, saves)
}

func TestSaveCurrentAsFavorite_PrependsAndPersists(t *testing.T) {
	store := &memStore{}
	m := New(context.Background(), sequence(jk(1), jk(2)), store)
	require.NoError(t, waitInitial(t, m))

	require.True(t, m.SaveCurrentAsFavorite())
	require.NoError(t, m.Refresh(context.Background()))
	require.True(t, m.SaveCurrentAsFavorite())

	want := []joke.Joke{jk(2), jk(1)}
	assert.Equal(t, want, m.Favorites())
	persisted, saves := store.snapshot()
	assert.Equal(t, want, persisted)
	assert.Equal(t, 2, saves)
}

func TestSaveCurrentAsFavorite_AllowsDuplicates(t *testing.T) {
	m := New(context.Background(), sequence(jk(4)), &memStore{})
	require.NoError(t, waitInitial(t, m))

	m.SaveCurrentAsFavorite()
	m.SaveCurrentAsFavorite()
	assert.Equal(t, []joke.Joke{jk(4), jk(4)}, m.Favorites())
}

func TestDeleteFavorite_RemovesAllMatchesAndIsIdempotent(t *testing.T) {
	store := &memStore{data: []joke.Joke{jk(1), jk(2), jk(1), jk(3)}}
	m := New(context.Background(), sequence(jk(9)), store)
	waitInitial(t, m)

	assert.Equal(t, 2, m.DeleteFavorite(1))
	first := m.Favorites()
	assert.Equal(t, []joke.Joke{jk(2), jk(3)}, first)

	assert.Zero(t, m.DeleteFavorite(1))
	assert.Equal(t, first, m.Favorites())

	persisted, saves := store.snapshot()
	assert.Equal(t, first, persisted)
	assert.Equal(t, 2, saves, "unknown id still rewrites the file")
}

func TestSaveFailureIsLoggedNotReturned(t *testing.T) {
	var logs bytes.Buffer
	store := &memStore{saveErr: errors.New("disk full")}
	m := New(context.Background(), sequence(jk(1)), store, WithLogger(zerolog.New(&logs)))
	require.NoError(t, waitInitial(t, m))

	assert.True(t, m.SaveCurrentAsFavorite())
	assert.Equal(t, []joke.Joke{jk(1)}, m.Favorites())
	assert.Contains(t, logs.String(), "saving favorites failed")
	assert.Contains(t, logs.String(), "disk full")

	// The next successful save writes the full collection.
	store.mu.Lock()
	store.saveErr = nil
	store.mu.Unlock()
	m.SaveCurrentAsFavorite()
	persisted, _ := store.snapshot()
	assert.Equal(t, []joke.Joke{jk(1), jk(1)}, persisted)
}

func TestReloadFavorites(t *testing.T) {
	store := &memStore{}
	m := New(context.Background(), sequence(jk(1)), store)
	waitInitial(t, m)

	store.mu.Lock()
	store.data = []joke.Joke{jk(5)}
	store.mu.Unlock()

	m.ReloadFavorites()
	assert.Equal(t, []joke.Joke{jk(5)}, m.Favorites())
}

func TestConcurrentMutationsPersistNewestCollection(t *testing.T) {
	store := &memStore{}
	m := New(context.Background(), sequence(jk(1)), store)
	require.NoError(t, waitInitial(t, m))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%3 == 0 {
				m.DeleteFavorite(1)
				return
			}
			m.SaveCurrentAsFavorite()
		}(i)
	}
	wg.Wait()

	persisted, _ := store.snapshot()
	assert.Equal(t, m.Favorites(), persisted)
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	var mu sync.Mutex
	var seen []state.Snapshot
	onChange := func(s state.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s)
	}

	m := New(context.Background(), sequence(jk(1)), &memStore{}, WithOnChange(onChange))
	require.NoError(t, waitInitial(t, m))
	m.SaveCurrentAsFavorite()

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(seen), 3)
	last := seen[len(seen)-1]
	assert.Len(t, last.Favorites, 1)
}

func TestOnChangeMayCallBackIntoManager(t *testing.T) {
	store := &memStore{data: []joke.Joke{jk(5), jk(6)}}
	var mgr atomic.Pointer[Manager]
	var armed atomic.Bool
	onChange := func(state.Snapshot) {
		if m := mgr.Load(); m != nil && armed.CompareAndSwap(true, false) {
			m.DeleteFavorite(5)
		}
	}

	m := New(context.Background(), sequence(jk(1)), store, WithOnChange(onChange))
	require.NoError(t, waitInitial(t, m))
	mgr.Store(m)
	armed.Store(true)

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.ReloadFavorites()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ReloadFavorites deadlocked with a re-entrant change callback")
	}

	assert.Equal(t, []joke.Joke{jk(6)}, m.Favorites())
	persisted, _ := store.snapshot()
	assert.Equal(t, []joke.Joke{jk(6)}, persisted)
}
