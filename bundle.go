package pocat

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

const (
	defaultResourcePath = "./resources/locales"
	defaultDomain       = "messages"
)

// Bundle holds the catalogs of every language of an application and
// resolves the language to use for each request. It is safe for
// concurrent use.
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[string]*Catalog // by normalized language tag
	matcher  language.Matcher
	matchTag []language.Tag // tags given to matcher
	tags     []language.Tag

	cfg   Config
	fsys  fs.FS
	log   zerolog.Logger
	stats bundleStats

	observerMu   sync.RWMutex
	observerCh   chan observerEvent
	observerDone chan struct{}
}

var _ Translator = (*Bundle)(nil)

// NewBundle loads every catalog found in cfg.FS or cfg.ResourcePath.
// Files may be named <lang>.<ext> or <lang>/LC_MESSAGES/<domain>.<ext>,
// where ext is po, mo, yaml, yml or json, optionally followed by .gz or
// .zst. Templates (.pot) are skipped.
func NewBundle(cfg Config) (*Bundle, error) {
	if cfg.ResourcePath == "" {
		cfg.ResourcePath = defaultResourcePath
	}
	if cfg.Domain == "" {
		cfg.Domain = defaultDomain
	}
	if cfg.CtxLanguageKey == "" {
		cfg.CtxLanguageKey = "language"
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	if cfg.NowFn == nil {
		cfg.NowFn = time.Now
	}
	if cfg.ObserverBuffer <= 0 {
		cfg.ObserverBuffer = 1024
	}
	if cfg.StatsMaxKeys <= 0 {
		cfg.StatsMaxKeys = 512
	}
	if cfg.ReloadRetries < 0 {
		cfg.ReloadRetries = 0
	}
	if cfg.ReloadRetryDelay <= 0 {
		cfg.ReloadRetryDelay = 50 * time.Millisecond
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	b := &Bundle{
		cfg:   cfg,
		fsys:  cfg.FS,
		log:   logger.With().Str("sys", "pocat").Logger(),
		stats: newBundleStats(cfg.StatsMaxKeys),
	}
	if b.fsys == nil {
		b.fsys = os.DirFS(cfg.ResourcePath)
	}
	if err := b.load(); err != nil {
		return nil, err
	}
	b.startObserverWorker()
	return b, nil
}

type catalogFile struct {
	lang string
	name string
}

// findCatalogs lists the catalog files of the bundle, sorted by name.
func (b *Bundle) findCatalogs() ([]catalogFile, error) {
	entries, err := fs.ReadDir(b.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to find catalogs: %w", err)
	}
	var files []catalogFile
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !entry.IsDir() {
			if IsTemplate(name) {
				continue
			}
			_, _, lang, err := FileFormat(name)
			if err != nil {
				b.log.Debug().Str("file", name).Msg("Skipping file with unknown extension")
				continue
			}
			files = append(files, catalogFile{lang: lang, name: name})
			continue
		}
		dir := path.Join(name, "LC_MESSAGES")
		domainFiles, err := fs.ReadDir(b.fsys, dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find catalogs: %w", err)
		}
		for _, df := range domainFiles {
			if df.IsDir() || IsTemplate(df.Name()) {
				continue
			}
			if _, _, domain, err := FileFormat(df.Name()); err == nil && domain == b.cfg.Domain {
				files = append(files, catalogFile{lang: name, name: path.Join(dir, df.Name())})
			}
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

type loadedCatalogs struct {
	catalogs map[string]*Catalog
	tags     []language.Tag
}

func (b *Bundle) readCatalogs() (*loadedCatalogs, error) {
	files, err := b.findCatalogs()
	if err != nil {
		return nil, err
	}
	var tags []language.Tag
	valid := files[:0]
	for _, f := range files {
		tag, err := language.Parse(strings.ReplaceAll(f.lang, "_", "-"))
		if err != nil {
			b.log.Warn().Err(err).Str("file", f.name).Msg("Skipping invalid locale file")
			continue
		}
		tags = append(tags, tag)
		valid = append(valid, f)
	}
	files = valid

	catalogs := make([]*Catalog, len(files))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for ii, f := range files {
		ii, f := ii, f
		g.Go(func() error {
			c, err := LoadFile(b.fsys, f.name)
			if err != nil {
				return err
			}
			catalogs[ii] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	loaded := &loadedCatalogs{catalogs: make(map[string]*Catalog, len(files))}
	sources := make(map[string]string, len(files))
	for ii, f := range files {
		tag := tags[ii]
		lang := normalizeLangTag(tag.String())
		if prev, found := sources[lang]; found {
			return nil, fmt.Errorf("duplicate catalogs for language %s: %s and %s", lang, prev, f.name)
		}
		c := catalogs[ii]
		if hl := c.Language(); hl != "" && normalizeLangTag(hl) != lang {
			if ht, err := language.Parse(strings.ReplaceAll(hl, "_", "-")); err != nil || ht != tag {
				b.log.Warn().
					Str("file", f.name).
					Str("header_language", hl).
					Str("lang", lang).
					Msg("Catalog header language differs from file name, using file name")
			}
		}
		sources[lang] = f.name
		loaded.catalogs[lang] = c
		loaded.tags = append(loaded.tags, tag)
		b.log.Info().
			Str("lang", tag.String()).
			Str("file", f.name).
			Int("entries", c.Len()).
			Msg("Loaded catalog")
	}
	return loaded, nil
}

func (b *Bundle) readCatalogsWithRetry() (*loadedCatalogs, error) {
	var lastErr error
	for attempt := 0; attempt <= b.cfg.ReloadRetries; attempt++ {
		loaded, err := b.readCatalogs()
		if err == nil {
			return loaded, nil
		}
		lastErr = err
		if attempt < b.cfg.ReloadRetries {
			b.log.Warn().Err(err).Int("attempt", attempt+1).Msg("Loading catalogs failed, retrying")
			time.Sleep(b.cfg.ReloadRetryDelay)
		}
	}
	return nil, lastErr
}

func (b *Bundle) load() error {
	loaded, err := b.readCatalogsWithRetry()
	if err != nil {
		return err
	}
	var matcher language.Matcher
	var tags []language.Tag
	if len(loaded.tags) > 0 {
		tags = make([]language.Tag, 0, len(loaded.tags)+1)
		// the default language comes first so the matcher falls back to it
		def := normalizeLangTag(b.cfg.DefaultLanguage)
		for _, t := range loaded.tags {
			if normalizeLangTag(t.String()) == def {
				tags = append(tags, t)
			}
		}
		for _, t := range loaded.tags {
			if normalizeLangTag(t.String()) != def {
				tags = append(tags, t)
			}
		}
		matcher = language.NewMatcher(tags)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalogs = loaded.catalogs
	b.tags = loaded.tags
	b.matcher = matcher
	b.matchTag = tags
	b.stats.setLastReloadAt(b.cfg.NowFn())
	return nil
}

func normalizeLangTag(lang string) string {
	lang = strings.TrimSpace(strings.ToLower(lang))
	lang = strings.ReplaceAll(lang, "_", "-")
	return lang
}

func baseLangTag(lang string) string {
	if idx := strings.Index(lang, "-"); idx > 0 {
		return lang[:idx]
	}
	return lang
}

func appendLangIfMissing(target *[]string, seen map[string]struct{}, lang string) {
	if lang == "" {
		return
	}
	if _, exists := seen[lang]; exists {
		return
	}
	seen[lang] = struct{}{}
	*target = append(*target, lang)
}

func (b *Bundle) resolveRequestedLang(ctx context.Context) string {
	lang := normalizeLangTag(b.cfg.DefaultLanguage)
	if ctx == nil {
		return lang
	}
	if v := ctx.Value(b.cfg.CtxLanguageKey); v != nil {
		return normalizeLangTag(fmt.Sprintf("%v", v))
	}
	// plain string keys work too
	if v := ctx.Value(string(b.cfg.CtxLanguageKey)); v != nil {
		return normalizeLangTag(fmt.Sprintf("%v", v))
	}
	return lang
}

// resolveLanguage returns the loaded language serving requestedLang,
// whether one was found and whether it is a fallback.
func (b *Bundle) resolveLanguage(requestedLang string) (string, bool, bool) {
	normalizedRequested := normalizeLangTag(requestedLang)
	if normalizedRequested == "" {
		normalizedRequested = "en"
	}

	candidates := make([]string, 0, 6)
	seen := map[string]struct{}{}
	appendLangIfMissing(&candidates, seen, normalizedRequested)
	appendLangIfMissing(&candidates, seen, baseLangTag(normalizedRequested))
	for _, lang := range b.cfg.FallbackLanguages {
		appendLangIfMissing(&candidates, seen, normalizeLangTag(lang))
	}
	appendLangIfMissing(&candidates, seen, normalizeLangTag(b.cfg.DefaultLanguage))
	appendLangIfMissing(&candidates, seen, "en")

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, candidate := range candidates {
		if _, found := b.catalogs[candidate]; found {
			return candidate, true, candidate != normalizedRequested
		}
	}
	return normalizedRequested, false, false
}

// catalogFor returns the catalog serving ctx and its language, or nil
// when no candidate language is loaded.
func (b *Bundle) catalogFor(ctx context.Context) (*Catalog, string) {
	requested := b.resolveRequestedLang(ctx)
	lang, found, usedFallback := b.resolveLanguage(requested)
	if !found {
		b.onLanguageMissing(requested)
		return nil, requested
	}
	if usedFallback {
		b.onLanguageFallback(requested, lang)
	}
	b.mu.RLock()
	c := b.catalogs[lang]
	b.mu.RUnlock()
	if c == nil {
		// swapped out by a concurrent Reload
		b.onLanguageMissing(requested)
		return nil, requested
	}
	return c, lang
}

func (b *Bundle) lookup(ctx context.Context, msgctxt, id string) (*Catalog, string) {
	c, lang := b.catalogFor(ctx)
	if c == nil {
		return nil, lang
	}
	if e, ok := c.translation(msgctxt, id); !ok || !e.IsTranslated() {
		b.onMessageMissing(lang, entryKey(msgctxt, id))
	}
	return c, lang
}

// Gettext returns the translation of id in the language of ctx, or id
// itself when missing.
func (b *Bundle) Gettext(ctx context.Context, id string) string {
	return b.PGettext(ctx, "", id)
}

func (b *Bundle) PGettext(ctx context.Context, msgctxt string, id string) string {
	c, _ := b.lookup(ctx, msgctxt, id)
	if c == nil {
		return id
	}
	return c.PGettext(msgctxt, id)
}

// NGettext returns the plural form of id for n in the language of ctx.
func (b *Bundle) NGettext(ctx context.Context, id string, pluralID string, n int) string {
	return b.NPGettext(ctx, "", id, pluralID, n)
}

func (b *Bundle) NPGettext(ctx context.Context, msgctxt string, id string, pluralID string, n int) string {
	c, _ := b.lookup(ctx, msgctxt, id)
	if c == nil {
		if n == 1 {
			return id
		}
		return pluralID
	}
	return c.NPGettext(msgctxt, id, pluralID, n)
}

// Errorf returns an error whose message is format translated in the
// language of ctx and formatted with args. A %w verb wraps its argument.
func (b *Bundle) Errorf(ctx context.Context, format string, args ...interface{}) error {
	c, lang := b.lookup(ctx, "", format)
	translated := format
	if c != nil {
		translated = c.Gettext(format)
	}
	formatted := fmt.Errorf(translated, args...)
	return newCatalogError(format, lang, formatted.Error(), errors.Unwrap(formatted))
}

// WrapError is like Errorf, with err as the wrapped error.
func (b *Bundle) WrapError(ctx context.Context, err error, format string, args ...interface{}) error {
	c, lang := b.lookup(ctx, "", format)
	translated := format
	if c != nil {
		translated = c.Gettext(format)
	}
	return newCatalogError(format, lang, fmt.Sprintf(translated, args...), err)
}

// Catalog returns the catalog loaded for lang, without fallback.
func (b *Bundle) Catalog(lang string) (*Catalog, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, found := b.catalogs[normalizeLangTag(lang)]
	return c, found
}

// Languages returns the loaded language tags, sorted.
func (b *Bundle) Languages() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	langs := make([]string, 0, len(b.tags))
	for _, t := range b.tags {
		langs = append(langs, t.String())
	}
	sort.Strings(langs)
	return langs
}

// Match returns the loaded language best matching the preferences, given
// as language tags or Accept-Language header values. It returns the
// default language when nothing matches.
func (b *Bundle) Match(preferences ...string) string {
	var tags []language.Tag
	for _, p := range preferences {
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			b.log.Debug().Err(err).Str("value", p).Msg("Ignoring invalid language preference")
			continue
		}
		tags = append(tags, parsed...)
	}
	b.mu.RLock()
	matcher, matchTags := b.matcher, b.matchTag
	b.mu.RUnlock()
	if matcher == nil {
		return normalizeLangTag(b.cfg.DefaultLanguage)
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return normalizeLangTag(b.cfg.DefaultLanguage)
	}
	return normalizeLangTag(matchTags[idx].String())
}

// WithLanguage returns a copy of ctx requesting lang.
func (b *Bundle) WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, b.cfg.CtxLanguageKey, lang)
}

// Reload reads every catalog again and swaps them in at once. On error
// the loaded catalogs are kept.
func (b *Bundle) Reload() error {
	if err := b.load(); err != nil {
		b.log.Error().Err(err).Msg("Reloading catalogs failed")
		return err
	}
	return nil
}

func (b *Bundle) SnapshotStats() BundleStats {
	return b.stats.snapshot()
}

func (b *Bundle) ResetStats() {
	b.stats.reset()
}

// Close stops the observer worker after delivering pending events.
func (b *Bundle) Close() {
	b.observerMu.Lock()
	defer b.observerMu.Unlock()
	b.stopObserverWorker()
}
