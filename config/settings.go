package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server    ServerSettings   `json:"server"`
	Catalog   CatalogSettings  `json:"catalog"`
	Bookmarks BookmarkSettings `json:"bookmarks"`
	Log       LogConfig        `json:"log"`
}

type ServerSettings struct {
	Host                string `json:"host"`
	Port                int    `json:"port"`
	ReadTimeoutSeconds  int    `json:"readTimeoutSeconds"`
	WriteTimeoutSeconds int    `json:"writeTimeoutSeconds"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerSettings) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// CatalogSettings configures access to the TMDB catalog.
type CatalogSettings struct {
	APIKey           string `json:"apiKey"`
	BaseURL          string `json:"baseUrl"`
	Language         string `json:"language"`         // primary language, e.g. ja-JP
	FallbackLanguage string `json:"fallbackLanguage"` // used when a native-script search has no hits
	Region           string `json:"region"`           // watch provider region
	FreshnessSeconds int    `json:"freshnessSeconds"` // gateway cache window; negative disables
	GatewayCacheSize int    `json:"gatewayCacheSize"`
}

type BookmarkBackend string

const (
	BookmarkBackendFile   BookmarkBackend = "file"
	BookmarkBackendSQLite BookmarkBackend = "sqlite"
)

// BookmarkSettings selects where the watch later list is stored.
type BookmarkSettings struct {
	Backend      BookmarkBackend `json:"backend"`
	Directory    string          `json:"directory"`
	DatabasePath string          `json:"databasePath"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	File       string `json:"file"`
	Level      string `json:"level"`
	Format     string `json:"format"` // json | text
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

const (
	DefaultBaseURL          = "https://api.themoviedb.org/3"
	DefaultLanguage         = "ja-JP"
	DefaultFallbackLanguage = "en-US"
	DefaultRegion           = "JP"
	DefaultFreshnessSeconds = 300
)

// DefaultSettings returns sane defaults for a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Host: "0.0.0.0", Port: 7878, ReadTimeoutSeconds: 15, WriteTimeoutSeconds: 30},
		Catalog: CatalogSettings{
			APIKey:           "",
			BaseURL:          DefaultBaseURL,
			Language:         DefaultLanguage,
			FallbackLanguage: DefaultFallbackLanguage,
			Region:           DefaultRegion,
			FreshnessSeconds: DefaultFreshnessSeconds,
			GatewayCacheSize: 512,
		},
		Bookmarks: BookmarkSettings{
			Backend:      BookmarkBackendFile,
			Directory:    "cache/localstorage",
			DatabasePath: "cache/localstorage.db",
		},
		Log: LogConfig{
			File:       "cache/logs/moviescope.log",
			Level:      "info",
			Format:     "json",
			MaxSize:    50,   // 50 MB per file
			MaxBackups: 3,    // keep 3 old files
			MaxAge:     7,    // 7 days
			Compress:   true, // compress old files
		},
	}
}

// Validate reports configuration that cannot be served.
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Server),
		validation.Field(&s.Catalog),
		validation.Field(&s.Bookmarks),
		validation.Field(&s.Log),
	)
}

func (s ServerSettings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&s.ReadTimeoutSeconds, validation.Min(0)),
		validation.Field(&s.WriteTimeoutSeconds, validation.Min(0)),
	)
}

func (c CatalogSettings) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Language, validation.Required),
		validation.Field(&c.FallbackLanguage, validation.Required),
		validation.Field(&c.Region, validation.Required, validation.Length(2, 2)),
		validation.Field(&c.GatewayCacheSize, validation.Min(0)),
	)
}

func (b BookmarkSettings) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Backend, validation.Required, validation.In(BookmarkBackendFile, BookmarkBackendSQLite)),
		validation.Field(&b.Directory, validation.When(b.Backend == BookmarkBackendFile, validation.Required)),
		validation.Field(&b.DatabasePath, validation.When(b.Backend == BookmarkBackendSQLite, validation.Required)),
	)
}

func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("json", "text")),
	)
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	path   string
	getenv func(string) string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath, getenv: os.Getenv}
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// EnsureDir ensures parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads the settings file from disk or creates defaults if missing.
// Environment overrides are applied on top and never written back.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return m.applyEnv(defaults), nil
	}
	return m.read()
}

// LoadExisting is Load for read-only callers: a missing file is reported as
// an error wrapping fs.ErrNotExist and nothing is written.
func (m *Manager) LoadExisting() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	return m.read()
}

func (m *Manager) read() (Settings, error) {
	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	var s Settings
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Settings{}, err
	}

	backfill(&s)
	return m.applyEnv(s), nil
}

// backfill fills settings introduced after the file was written.
func backfill(s *Settings) {
	defaults := DefaultSettings()

	if strings.TrimSpace(s.Server.Host) == "" {
		s.Server.Host = defaults.Server.Host
	}
	if s.Server.Port == 0 {
		s.Server.Port = defaults.Server.Port
	}
	if s.Server.ReadTimeoutSeconds == 0 {
		s.Server.ReadTimeoutSeconds = defaults.Server.ReadTimeoutSeconds
	}
	if s.Server.WriteTimeoutSeconds == 0 {
		s.Server.WriteTimeoutSeconds = defaults.Server.WriteTimeoutSeconds
	}

	if strings.TrimSpace(s.Catalog.BaseURL) == "" {
		s.Catalog.BaseURL = defaults.Catalog.BaseURL
	}
	if strings.TrimSpace(s.Catalog.Language) == "" {
		s.Catalog.Language = defaults.Catalog.Language
	}
	if strings.TrimSpace(s.Catalog.FallbackLanguage) == "" {
		s.Catalog.FallbackLanguage = defaults.Catalog.FallbackLanguage
	}
	if strings.TrimSpace(s.Catalog.Region) == "" {
		s.Catalog.Region = defaults.Catalog.Region
	}
	if s.Catalog.FreshnessSeconds == 0 {
		s.Catalog.FreshnessSeconds = defaults.Catalog.FreshnessSeconds
	}
	if s.Catalog.GatewayCacheSize == 0 {
		s.Catalog.GatewayCacheSize = defaults.Catalog.GatewayCacheSize
	}

	if s.Bookmarks.Backend == "" {
		s.Bookmarks.Backend = defaults.Bookmarks.Backend
	}
	if strings.TrimSpace(s.Bookmarks.Directory) == "" {
		s.Bookmarks.Directory = defaults.Bookmarks.Directory
	}
	if strings.TrimSpace(s.Bookmarks.DatabasePath) == "" {
		s.Bookmarks.DatabasePath = defaults.Bookmarks.DatabasePath
	}

	if strings.TrimSpace(s.Log.Level) == "" {
		s.Log.Level = defaults.Log.Level
	}
	if strings.TrimSpace(s.Log.Format) == "" {
		s.Log.Format = defaults.Log.Format
	}
	if s.Log.MaxSize == 0 {
		s.Log.MaxSize = defaults.Log.MaxSize
	}
	if s.Log.MaxBackups == 0 {
		s.Log.MaxBackups = defaults.Log.MaxBackups
	}
	if s.Log.MaxAge == 0 {
		s.Log.MaxAge = defaults.Log.MaxAge
	}
}

// applyEnv lets deployments keep the catalog credential out of the settings file.
func (m *Manager) applyEnv(s Settings) Settings {
	getenv := m.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if key := strings.TrimSpace(getenv("TMDB_API_KEY")); key != "" {
		s.Catalog.APIKey = key
	}
	if base := strings.TrimSpace(getenv("TMDB_BASE_URL")); base != "" {
		s.Catalog.BaseURL = base
	}
	if port := strings.TrimSpace(getenv("MOVIESCOPE_PORT")); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			s.Server.Port = p
		}
	}
	s.Catalog.APIKey = strings.TrimSpace(s.Catalog.APIKey)
	s.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(s.Catalog.BaseURL), "/")
	return s
}

// Save writes settings atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}
