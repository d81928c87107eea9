package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/loopcontext/pocat"
)

// mergeConfig holds flags for the merge command.
type mergeConfig struct {
	commonFlags
	in       string
	template string
	out      string
	lang     string
}

func usageMerge(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(os.Stderr, `usage: pocat merge [options] in.po

Merge updates a translation from a template. Translations of messages still
in the template are kept, new messages are added untranslated and messages
gone from the template are kept as obsolete entries. When in.po does not
exist a new catalog is started for -lang.

Flags:
`)
		fs.PrintDefaults()
	}
}

func runMergeArgs(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	fs.Usage = usageMerge(fs)
	var cfg mergeConfig
	cfg.register(fs)
	fs.StringVar(&cfg.template, "template", "", "Template (.pot) with the current messages. Required.")
	fs.StringVar(&cfg.out, "o", "", "Output file (default: overwrite in.po).")
	fs.StringVar(&cfg.lang, "lang", "", "Language of a new catalog (default: language from the config file).")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("merge: expecting exactly one input file")
	}
	cfg.in = fs.Arg(0)
	if err := cfg.setup(); err != nil {
		return err
	}
	return runMerge(&cfg)
}

func runMerge(cfg *mergeConfig) error {
	if cfg.template == "" {
		return fmt.Errorf("merge: -template is required")
	}
	tmpl, err := pocat.ReadFile(cfg.template)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	def, err := pocat.ReadFile(cfg.in)
	if errors.Is(err, fs.ErrNotExist) {
		lang := cfg.lang
		if lang == "" {
			lang = cfg.file.Language
		}
		if lang == "" {
			return fmt.Errorf("merge: %s does not exist, set -lang to start a new catalog", cfg.in)
		}
		cfg.log.Info().Str("lang", lang).Msg("starting new catalog")
		def, err = pocat.NewCatalog(pocat.NewHeader(lang))
	}
	if err != nil {
		return err
	}
	merged, err := mergeCatalogs(def, tmpl)
	if err != nil {
		return err
	}
	out := cfg.out
	if out == "" {
		out = cfg.in
	}
	if err := merged.WriteFile(out); err != nil {
		return err
	}
	s := merged.Stats()
	cfg.log.Info().
		Str("path", out).
		Int("translated", s.Translated).
		Int("fuzzy", s.Fuzzy).
		Int("untranslated", s.Untranslated).
		Int("obsolete", s.Obsolete).
		Msg("merged catalog")
	return nil
}

// mergeCatalogs returns def updated to the messages of tmpl, in template
// order.
func mergeCatalogs(def, tmpl *pocat.Catalog) (*pocat.Catalog, error) {
	h := def.Header()
	if created := tmpl.Header().Get(pocat.HeaderPOTCreationDate); created != "" {
		h.Set(pocat.HeaderPOTCreationDate, created)
	}
	merged, err := pocat.NewCatalog(h)
	if err != nil {
		return nil, err
	}
	nplurals := merged.NPlurals()

	previous := make(map[string]pocat.Entry)
	for _, e := range def.Obsolete() {
		previous[e.Key()] = e
	}
	used := make(map[string]struct{})
	for _, t := range tmpl.Entries() {
		e := pocat.Entry{
			Context:           t.Context,
			ID:                t.ID,
			IDPlural:          t.IDPlural,
			ExtractedComments: t.ExtractedComments,
			References:        t.References,
			Flags:             withoutFlag(t.Flags, pocat.FlagFuzzy),
		}
		old, found := def.Lookup(t.Context, t.ID)
		if !found {
			// revive an obsolete translation
			if old, found = previous[t.Key()]; found {
				old.Flags = append(old.Flags, pocat.FlagFuzzy)
			}
		}
		if found {
			used[t.Key()] = struct{}{}
			e.Comments = old.Comments
			e.Translations, e.Flags = carryTranslations(old, e, nplurals)
		} else if e.IsPlural() {
			e.Translations = make([]string, nplurals)
		}
		if err := merged.Add(e); err != nil {
			return nil, err
		}
	}
	for _, old := range def.Entries() {
		if _, ok := used[old.Key()]; ok || !old.IsTranslated() {
			continue
		}
		old.Obsolete = true
		old.References = nil
		if err := merged.Add(old); err != nil {
			return nil, err
		}
	}
	for _, old := range def.Obsolete() {
		if _, ok := used[old.Key()]; ok {
			continue
		}
		if err := merged.Add(old); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// carryTranslations moves the translations of old to the template entry
// e. A changed plural msgid makes the entry fuzzy.
func carryTranslations(old, e pocat.Entry, nplurals int) ([]string, []string) {
	flags := e.Flags
	if old.IsFuzzy() {
		flags = append(flags, pocat.FlagFuzzy)
	}
	if old.IDPlural == e.IDPlural {
		return old.Translations, flags
	}
	if !old.IsFuzzy() {
		flags = append(flags, pocat.FlagFuzzy)
	}
	first := ""
	if len(old.Translations) > 0 {
		first = old.Translations[0]
	}
	if !e.IsPlural() {
		return []string{first}, flags
	}
	translations := make([]string, nplurals)
	translations[0] = first
	return translations, flags
}

func withoutFlag(flags []string, flag string) []string {
	var out []string
	for _, f := range flags {
		if f != flag {
			out = append(out, f)
		}
	}
	return out
}
