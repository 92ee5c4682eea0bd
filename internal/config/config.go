package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Transports for the repository metadata fetch
const (
	TransportREST    = "rest"
	TransportGraphQL = "graphql"
)

type Config struct {
	GitHub GitHubConfig `toml:"github"`
	Server ServerConfig `toml:"server"`
	UI     UIConfig     `toml:"ui"`
	Log    LogConfig    `toml:"log"`

	// Where this config was read from (not serialized)
	path string
}

type GitHubConfig struct {
	APIURL     string `toml:"api_url"`
	GraphQLURL string `toml:"graphql_url"`
	UserAgent  string `toml:"user_agent"`
	// Token overrides every other credential source when set
	Token string `toml:"token"`
	// Transport selects how repository metadata is fetched: "rest" or "graphql"
	Transport string `toml:"transport"`
	// CommitsPerPage is sent as per_page on the commits panel query (0 = server default)
	CommitsPerPage int `toml:"commits_per_page"`
}

type ServerConfig struct {
	Listen      string `toml:"listen"`
	OpenBrowser bool   `toml:"open_browser"`
}

type UIConfig struct {
	// IconTheme is a VS Code icon theme JSON file; empty uses the builtin theme
	IconTheme string `toml:"icon_theme"`
	Headless  bool   `toml:"headless"`
	Readme    bool   `toml:"readme"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// File receives logs while the terminal UI owns the screen
	File string `toml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIURL:     "https://api.github.com",
			GraphQLURL: "https://api.github.com/graphql",
			UserAgent:  "gitweb",
			Transport:  TransportREST,
		},
		Server: ServerConfig{
			Listen:      "127.0.0.1:0",
			OpenBrowser: true,
		},
		UI: UIConfig{
			Readme: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Path returns the default config file location
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gitweb.toml"), nil
}

// Load reads the default config file, writing defaults on first run.
// A .env file in the working directory is loaded into the environment first.
func Load() (*Config, error) {
	loadDotEnv()

	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}

	cfg, err := read(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = DefaultConfig()
		cfg.path = path
		_ = cfg.Save() // Best effort save
		return cfg, nil
	}
	return cfg, err
}

// LoadFrom reads an explicit config file; it must exist
func LoadFrom(path string) (*Config, error) {
	loadDotEnv()
	return read(path)
}

func read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv() {
	// Missing .env is the common case
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: ignoring .env: %v\n", err)
	}
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	c.GitHub.Transport = strings.ToLower(strings.TrimSpace(c.GitHub.Transport))
	switch c.GitHub.Transport {
	case "":
		c.GitHub.Transport = TransportREST
	case TransportREST, TransportGraphQL:
	default:
		return fmt.Errorf("invalid github.transport %q (want %q or %q)", c.GitHub.Transport, TransportREST, TransportGraphQL)
	}
	if c.GitHub.CommitsPerPage < 0 {
		return fmt.Errorf("invalid github.commits_per_page %d", c.GitHub.CommitsPerPage)
	}
	c.GitHub.APIURL = strings.TrimSuffix(c.GitHub.APIURL, "/")
	return nil
}

// Save writes the config to the file it was loaded from (or the default path)
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return err
		}
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// File returns where this config was read from (empty for pure defaults)
func (c *Config) File() string {
	return c.path
}

// IconThemePath returns the icon theme path with ~ expanded
func (c *Config) IconThemePath() string {
	return expandTilde(c.UI.IconTheme)
}

// LogFilePath returns the configured log file, or gitweb.log in the user cache dir
func (c *Config) LogFilePath() string {
	if c.Log.File != "" {
		return expandTilde(c.Log.File)
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "gitweb.log")
	}
	return filepath.Join(cacheDir, "gitweb", "gitweb.log")
}

// AssetDir is where icon theme assets are staged for the panel
func (c *Config) AssetDir() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "gitweb-assets")
	}
	return filepath.Join(cacheDir, "gitweb", "assets")
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
