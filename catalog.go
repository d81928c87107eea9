package pocat

import (
	"fmt"

	"github.com/loopcontext/pocat/formula"
	"github.com/loopcontext/pocat/internal/plural"
)

// ContextSeparator joins msgctxt and msgid in entry keys, as in gettext.
const ContextSeparator = "\x04"

// FlagFuzzy marks translations which need review. Fuzzy entries are kept
// but never returned by lookups.
const FlagFuzzy = "fuzzy"

// Entry is a single message of a catalog.
type Entry struct {
	Context  string
	ID       string
	IDPlural string
	// Translations holds one string for singular entries and one string
	// per plural form for plural entries.
	Translations      []string
	Comments          []string
	ExtractedComments []string
	References        []string
	Flags             []string
	// Previous holds the "#|" lines of a PO file: the msgid the
	// translation was made for, before the source changed.
	Previous []string
	Obsolete bool
}

// Key returns the unique key of the entry: msgctxt and msgid joined by
// ContextSeparator, or just msgid without a context.
func (e Entry) Key() string {
	return entryKey(e.Context, e.ID)
}

func entryKey(ctx, id string) string {
	if ctx == "" {
		return id
	}
	return ctx + ContextSeparator + id
}

// IsPlural reports whether the entry has a plural msgid.
func (e Entry) IsPlural() bool {
	return e.IDPlural != ""
}

// HasFlag reports whether the entry carries flag.
func (e Entry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// IsFuzzy reports whether the entry is marked fuzzy.
func (e Entry) IsFuzzy() bool {
	return e.HasFlag(FlagFuzzy)
}

// IsTranslated reports whether every translation is non empty.
func (e Entry) IsTranslated() bool {
	if len(e.Translations) == 0 {
		return false
	}
	for _, t := range e.Translations {
		if t == "" {
			return false
		}
	}
	return true
}

func (e Entry) clone() Entry {
	e.Translations = append([]string(nil), e.Translations...)
	e.Comments = append([]string(nil), e.Comments...)
	e.ExtractedComments = append([]string(nil), e.ExtractedComments...)
	e.References = append([]string(nil), e.References...)
	e.Flags = append([]string(nil), e.Flags...)
	e.Previous = append([]string(nil), e.Previous...)
	return e
}

// Catalog is the set of translated messages for one language. A Catalog
// is built with NewCatalog and Add; once shared it must not be modified
// and is then safe for concurrent use.
type Catalog struct {
	header   Header
	rule     *formula.Rule
	entries  []Entry
	index    map[string]int
	obsolete []Entry
}

// NewCatalog returns an empty catalog with the given header. The plural
// rule comes from the Plural-Forms field or, when absent, from the
// language's conventional rule. A malformed Plural-Forms makes the
// catalog corrupt.
func NewCatalog(h Header) (*Catalog, error) {
	forms := h.PluralForms()
	if forms == "" || isTemplateForms(forms) {
		forms = plural.DefaultForms(h.Language())
	}
	rule, err := formula.Make(forms)
	if err != nil {
		return nil, corruptf(err, "invalid %s", HeaderPluralForms)
	}
	return &Catalog{
		header: h.clone(),
		rule:   rule,
		index:  make(map[string]int),
	}, nil
}

// MustNewCatalog is like NewCatalog, but panics on error.
func MustNewCatalog(h Header) *Catalog {
	c, err := NewCatalog(h)
	if err != nil {
		panic(err)
	}
	return c
}

// Add appends e to the catalog. Obsolete entries are kept apart and never
// returned by lookups. Live entries must have a unique key, and plural
// entries must have exactly NPlurals translations.
func (c *Catalog) Add(e Entry) error {
	if e.ID == "" && e.Context == "" && !e.Obsolete {
		return corruptf(nil, "entry with empty msgid besides the header")
	}
	e = e.clone()
	if !e.IsPlural() {
		switch len(e.Translations) {
		case 0:
			e.Translations = []string{""}
		case 1:
		default:
			return corruptf(nil, "msgid %q has %d translations but no plural msgid", e.ID, len(e.Translations))
		}
	}
	if e.Obsolete {
		c.obsolete = append(c.obsolete, e)
		return nil
	}
	if e.IsPlural() && len(e.Translations) != c.rule.NPlurals() {
		return corruptf(nil, "msgid %q has %d plural translations, expecting %d", e.ID, len(e.Translations), c.rule.NPlurals())
	}
	key := e.Key()
	if _, found := c.index[key]; found {
		return fmt.Errorf("%w: %q", ErrDuplicateEntry, key)
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, e)
	return nil
}

// Header returns a copy of the catalog header.
func (c *Catalog) Header() Header {
	return c.header.clone()
}

// Lookup returns the entry for the given context and msgid.
func (c *Catalog) Lookup(ctx, id string) (Entry, bool) {
	idx, found := c.index[entryKey(ctx, id)]
	if !found {
		return Entry{}, false
	}
	return c.entries[idx].clone(), true
}

// Entries returns the live entries in insertion order.
func (c *Catalog) Entries() []Entry {
	entries := make([]Entry, len(c.entries))
	for ii, e := range c.entries {
		entries[ii] = e.clone()
	}
	return entries
}

// Obsolete returns the obsolete entries in insertion order.
func (c *Catalog) Obsolete() []Entry {
	entries := make([]Entry, len(c.obsolete))
	for ii, e := range c.obsolete {
		entries[ii] = e.clone()
	}
	return entries
}

// Len returns the number of live entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// translation returns the entry usable for lookups: present, not fuzzy.
func (c *Catalog) translation(ctx, id string) (*Entry, bool) {
	idx, found := c.index[entryKey(ctx, id)]
	if !found {
		return nil, false
	}
	e := &c.entries[idx]
	if e.IsFuzzy() {
		return nil, false
	}
	return e, true
}

// Gettext returns the translation of id, or id itself when it has none.
func (c *Catalog) Gettext(id string) string {
	return c.PGettext("", id)
}

// PGettext is like Gettext, for a message with a context.
func (c *Catalog) PGettext(ctx, id string) string {
	if e, ok := c.translation(ctx, id); ok && e.Translations[0] != "" {
		return e.Translations[0]
	}
	return id
}

// NGettext returns the translation of id for the count n. Without a
// translation, id is returned when n == 1 and pluralID otherwise.
func (c *Catalog) NGettext(id, pluralID string, n int) string {
	return c.NPGettext("", id, pluralID, n)
}

// NPGettext is like NGettext, for a message with a context.
func (c *Catalog) NPGettext(ctx, id, pluralID string, n int) string {
	if e, ok := c.translation(ctx, id); ok {
		idx := c.rule.Index(n)
		if idx >= len(e.Translations) {
			idx = 0
		}
		if s := e.Translations[idx]; s != "" {
			return s
		}
	}
	if n == 1 {
		return id
	}
	return pluralID
}

// PluralIndex returns the index of the translation used for n.
func (c *Catalog) PluralIndex(n int) int {
	return c.rule.Index(n)
}

// NPlurals returns the number of plural forms of the catalog language.
func (c *Catalog) NPlurals() int {
	return c.rule.NPlurals()
}

// PluralRule returns the compiled plural rule.
func (c *Catalog) PluralRule() *formula.Rule {
	return c.rule
}

// Language returns the Language header field.
func (c *Catalog) Language() string {
	return c.header.Language()
}

// Charset returns the charset declared by the header.
func (c *Catalog) Charset() string {
	return c.header.Charset()
}

// Generator returns the tool which produced the catalog.
func (c *Catalog) Generator() string {
	return c.header.Generator()
}

// Equal reports whether both catalogs hold the same header fields and the
// same mapping from keys to plural msgids and translations, regardless of
// entry order. Comments, references, flags and obsolete entries are not
// compared.
func (c *Catalog) Equal(o *Catalog) bool {
	if c == nil || o == nil {
		return c == o
	}
	if !c.header.Equal(o.header) || len(c.entries) != len(o.entries) {
		return false
	}
	for _, e := range c.entries {
		idx, found := o.index[e.Key()]
		if !found {
			return false
		}
		oe := o.entries[idx]
		if e.IDPlural != oe.IDPlural || len(e.Translations) != len(oe.Translations) {
			return false
		}
		for ii := range e.Translations {
			if e.Translations[ii] != oe.Translations[ii] {
				return false
			}
		}
	}
	return true
}

// Stats counts the live entries of a catalog by state.
type Stats struct {
	Translated   int `json:"translated" yaml:"translated"`
	Fuzzy        int `json:"fuzzy" yaml:"fuzzy"`
	Untranslated int `json:"untranslated" yaml:"untranslated"`
	Obsolete     int `json:"obsolete" yaml:"obsolete"`
}

// Stats returns translation progress counters, as msgfmt --statistics.
func (c *Catalog) Stats() Stats {
	var s Stats
	for _, e := range c.entries {
		switch {
		case e.IsFuzzy():
			s.Fuzzy++
		case e.IsTranslated():
			s.Translated++
		default:
			s.Untranslated++
		}
	}
	s.Obsolete = len(c.obsolete)
	return s
}
