// Package state holds the in-memory data shared between the joke manager and
// the terminal UI.
//
// # Overview
//
// Store keeps two things behind a single sync.RWMutex: the optional current
// joke and the ordered favorites collection. Every mutation takes the write
// lock, so concurrent refreshes, saves and deletes never interleave on the
// data itself.
//
// # Update Semantics
//
//	// Fetch succeeded: replace the current joke
//	store.SetCurrent(j)
//	→ snapshot.Current = j
//	→ snapshot.LastError = nil
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Fetch failed: keep the current joke, record the error
//	store.RecordFetchError(err)
//	→ snapshot.Current = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// Favorites mutations (SetFavorites, PrependFavorite, RemoveFavorite) bump
// Snapshot.Version. The manager uses the version to make sure an older
// collection never overwrites a newer one on disk.
//
// # Defensive Copying
//
// Snapshot deep-copies the favorites slice and the current joke, including
// the setup and punchline strings they point at. Callers may modify what
// they receive without affecting the store.
//
// # Testing Considerations
//
// The zero value is ready to use:
//
//	store := &state.Store{}
package state
