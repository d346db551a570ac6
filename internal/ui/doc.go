// Package ui implements jokefinder's terminal interface with Bubble Tea.
//
// # Views
//
//   - Joke: the current joke in a card, or a spinner while none has arrived
//   - Favorites: saved jokes, newest first, with selection and delete
//   - Log: the tail of the application log file
//
// The header shows the view tabs, the favorites count and whether the joke
// endpoint is reachable. The footer shows short help and the last action's
// result.
//
// # Data Flow
//
// The model owns no joke data. It talks to a Controller (the joke manager)
// and renders the snapshots it returns. Snapshots are pulled on every tick
// and whenever the manager reports a change through a Notifier, which
// forwards changes into the running program.
//
// # Keys
//
// n fetches a new joke, s saves it, c copies setup and punchline to the
// clipboard, d deletes the selected favorite, r reloads favorites or the
// log, tab cycles views, T cycles the theme, ? shows help and q quits.
package ui
