// Package app is the composition root for jokefinder.
//
// # Overview
//
// Run loads configuration, opens the log file, builds the joke client, the
// favorites store and the manager, then hands control to the terminal UI
// until the user quits or the context is cancelled.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        TOML + .env + environment
//	       ├─────> logging.New()        zerolog to <data_dir>/jokefinder.log
//	       ├─────> Build()
//	       │        ├─> jokeapi.NewClient()
//	       │        ├─> favorites.New()
//	       │        └─> manager.New()   async fetch + sync favorites load
//	       ├─────> prefs.Load()         last theme and view
//	       └─────> ui.Run()             blocks until exit
//
// Manager changes reach the UI through a ui.Notifier registered with
// manager.WithOnChange.
//
// # Error Handling
//
// Run returns errors only for setup failures: an invalid config file or a
// log file that cannot be opened. Fetch and storage failures are handled
// inside the manager and never stop the program.
package app
