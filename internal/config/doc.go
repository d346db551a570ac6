// Package config loads jokefinder's settings.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. A .env file in the working directory is loaded into the environment
//     when present (existing variables win)
//  2. If a path is explicitly provided, use it
//  3. Otherwise, use ~/.config/jokefinder/config.toml
//  4. If the file doesn't exist, start from defaults
//  5. JOKEFINDER_* environment variables override file values
//
// # Default Values
//
//   - Endpoint: https://official-joke-api.appspot.com/random_joke
//   - Data directory: ~/.local/share/jokefinder
//   - Favorites: <data_dir>/FavoriteJokes
//   - Log file: <data_dir>/jokefinder.log
//   - Log level: info
//   - Theme: Nightfox
//
// # TOML Format
//
//	endpoint = "https://official-joke-api.appspot.com/random_joke"
//	data_dir = "~/.local/share/jokefinder"
//	favorites_file = "FavoriteJokes"
//	log_level = "info"
//	theme = "Nightfox"
//
// All fields are optional and blank values fall back to defaults. Tilde
// expansion is applied to data_dir. favorites_file is reduced to its base
// name so the document always sits directly in the data directory.
//
// # Environment Overrides
//
//   - JOKEFINDER_ENDPOINT
//   - JOKEFINDER_DATA_DIR
//   - JOKEFINDER_LOG_LEVEL
//   - JOKEFINDER_THEME
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable config files
// and invalid TOML. A missing config file is not an error.
package config
