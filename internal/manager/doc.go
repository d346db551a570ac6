// Package manager coordinates joke retrieval and the favorites collection.
//
// A Manager is created once per process with New, which seeds the current
// joke (optional), starts an asynchronous fetch and synchronously loads the
// persisted favorites. The UI reads CurrentJoke, Favorites or Snapshot and
// calls RefreshJoke, SaveCurrentAsFavorite and DeleteFavorite.
//
// Fetch and storage failures never escape as errors from the favorites
// operations. They are logged and, for fetches, recorded in the snapshot so
// the UI can show them. Nothing is retried automatically.
//
// All state lives in a state.Store. Writes to the favorites file go through
// one mutex and carry the collection version, so concurrent saves and
// deletes always leave the newest collection on disk.
package manager
