package pocat

import (
	"io/fs"
	"time"

	"github.com/rs/zerolog"
)

// Document is the YAML rendition of a catalog.
type Document struct {
	Language       string          `yaml:"language,omitempty"`
	PluralForms    string          `yaml:"plural_forms,omitempty"`
	Header         []HeaderField   `yaml:"header,omitempty"`
	HeaderComments []string        `yaml:"header_comments,omitempty"`
	HeaderFlags    []string        `yaml:"header_flags,omitempty"`
	Entries        []DocumentEntry `yaml:"entries"`
	Obsolete       []DocumentEntry `yaml:"obsolete,omitempty"`
}

type DocumentEntry struct {
	Context           string   `yaml:"context,omitempty"`
	ID                string   `yaml:"id"`
	IDPlural          string   `yaml:"id_plural,omitempty"`
	Translations      Variants `yaml:"translations"`
	Flags             []string `yaml:"flags,omitempty"`
	Comments          []string `yaml:"comments,omitempty"`
	ExtractedComments []string `yaml:"extracted_comments,omitempty"`
	References        []string `yaml:"references,omitempty"`
	Previous          []string `yaml:"previous,omitempty"`
}

// ContextKey is the type of the context key holding the requested
// language. A plain string key with the same value is accepted too.
type ContextKey string

type Config struct {
	// ResourcePath is the directory holding the catalogs, read unless FS
	// is set. Defaults to "./resources/locales".
	ResourcePath string
	FS           fs.FS
	// Domain is the file name used by the <lang>/LC_MESSAGES/<domain>.<ext>
	// layout. Defaults to "messages".
	Domain            string
	CtxLanguageKey    ContextKey
	DefaultLanguage   string
	FallbackLanguages []string
	Logger            *zerolog.Logger
	Observer          Observer
	ObserverBuffer    int
	StatsMaxKeys      int
	ReloadRetries     int
	ReloadRetryDelay  time.Duration
	NowFn             func() time.Time
}

type BundleStats struct {
	LanguageFallbacks map[string]int `json:"language_fallbacks" yaml:"language_fallbacks"`
	MissingLanguages  map[string]int `json:"missing_languages" yaml:"missing_languages"`
	MissingMessages   map[string]int `json:"missing_messages" yaml:"missing_messages"`
	DroppedEvents     map[string]int `json:"dropped_events" yaml:"dropped_events"`
	LastReloadAt      time.Time      `json:"last_reload_at" yaml:"last_reload_at"`
}
