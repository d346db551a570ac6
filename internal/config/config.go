package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything jokefinder reads at startup.
type Config struct {
	Endpoint      string
	DataDir       string
	FavoritesFile string
	LogLevel      string
	Theme         string
}

const (
	defaultConfigPath    = "~/.config/jokefinder/config.toml"
	defaultEndpoint      = "https://official-joke-api.appspot.com/random_joke"
	defaultDataDir       = "~/.local/share/jokefinder"
	defaultFavoritesFile = "FavoriteJokes"
	defaultLogLevel      = "info"
	defaultTheme         = "Nightfox"
	logFileName          = "jokefinder.log"
)

// Environment variables that override the config file.
const (
	EnvEndpoint = "JOKEFINDER_ENDPOINT"
	EnvDataDir  = "JOKEFINDER_DATA_DIR"
	EnvLogLevel = "JOKEFINDER_LOG_LEVEL"
	EnvTheme    = "JOKEFINDER_THEME"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Endpoint:      defaultEndpoint,
		DataDir:       mustExpand(defaultDataDir),
		FavoritesFile: defaultFavoritesFile,
		LogLevel:      defaultLogLevel,
		Theme:         defaultTheme,
	}
}

// Load reads the config file at path (or the default location), then applies
// environment overrides. A .env file in the working directory is loaded
// first if present. A missing config file is not an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
	} else {
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}

		var raw struct {
			Endpoint      string `toml:"endpoint"`
			DataDir       string `toml:"data_dir"`
			FavoritesFile string `toml:"favorites_file"`
			LogLevel      string `toml:"log_level"`
			Theme         string `toml:"theme"`
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		cfg.Endpoint = orDefault(raw.Endpoint, cfg.Endpoint)
		cfg.DataDir = orDefault(raw.DataDir, cfg.DataDir)
		cfg.FavoritesFile = orDefault(raw.FavoritesFile, cfg.FavoritesFile)
		cfg.LogLevel = orDefault(raw.LogLevel, cfg.LogLevel)
		cfg.Theme = orDefault(raw.Theme, cfg.Theme)
	}

	cfg.applyEnv()
	cfg.DataDir = mustExpand(cfg.DataDir)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	// The favorites file always lives directly inside the data dir.
	cfg.FavoritesFile = filepath.Base(cfg.FavoritesFile)

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Endpoint = orDefault(os.Getenv(EnvEndpoint), c.Endpoint)
	c.DataDir = orDefault(os.Getenv(EnvDataDir), c.DataDir)
	c.LogLevel = orDefault(os.Getenv(EnvLogLevel), c.LogLevel)
	c.Theme = orDefault(os.Getenv(EnvTheme), c.Theme)
}

// FavoritesPath returns the full path of the favorites document.
func (c Config) FavoritesPath() string {
	dir := c.DataDir
	if strings.TrimSpace(dir) == "" {
		dir = mustExpand(defaultDataDir)
	}
	name := c.FavoritesFile
	if strings.TrimSpace(name) == "" {
		name = defaultFavoritesFile
	}
	return filepath.Join(dir, name)
}

// LogPath returns the path of the application log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return filepath.Join(mustExpand(defaultDataDir), logFileName)
	}
	return filepath.Join(c.DataDir, logFileName)
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
