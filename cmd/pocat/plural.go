package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/loopcontext/pocat"
	"github.com/loopcontext/pocat/formula"
	"github.com/loopcontext/pocat/internal/charset"
	"github.com/loopcontext/pocat/internal/plural"
	"github.com/loopcontext/pocat/mo"
)

// pluralConfig holds flags for the plural command.
type pluralConfig struct {
	commonFlags
	forms  string
	lang   string
	counts []int
}

func runPluralArgs(args []string) error {
	fs := flag.NewFlagSet("plural", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `usage: pocat plural [-forms rule | -lang tag] n...

Plural prints the plural form index selected for each count. With -lang
the CLDR category of the count is printed too.

Flags:
`)
		fs.PrintDefaults()
	}
	var cfg pluralConfig
	cfg.register(fs)
	fs.StringVar(&cfg.forms, "forms", "", `Plural-Forms rule, e.g. "nplurals=2; plural=(n != 1);".`)
	fs.StringVar(&cfg.lang, "lang", "", "Language whose conventional rule is used.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, arg := range fs.Args() {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("plural: invalid count %q", arg)
		}
		cfg.counts = append(cfg.counts, n)
	}
	if err := cfg.setup(); err != nil {
		return err
	}
	return runPlural(&cfg)
}

func runPlural(cfg *pluralConfig) error {
	forms := cfg.forms
	if forms == "" {
		if cfg.lang == "" {
			return fmt.Errorf("plural: -forms or -lang is required")
		}
		forms = plural.DefaultForms(cfg.lang)
	}
	rule, err := formula.Make(forms)
	if err != nil {
		return fmt.Errorf("plural: %w", err)
	}
	w := cfg.output()
	fmt.Fprintln(w, rule.String())
	for _, n := range cfg.counts {
		if cfg.lang == "" {
			fmt.Fprintf(w, "%d\t%d\n", n, rule.Index(n))
			continue
		}
		fmt.Fprintf(w, "%d\t%d\t%s\n", n, rule.Index(n), plural.Form(cfg.lang, n))
	}
	return nil
}

// lookupConfig holds flags for the lookup command.
type lookupConfig struct {
	commonFlags
	file     string
	ctx      string
	id       string
	pluralID string
	n        int
}

func runLookupArgs(args []string) error {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `usage: pocat lookup [options] catalog msgid [msgid_plural]

Lookup prints the translation of a message, or the message itself when the
catalog has no translation for it. MO files are searched through their
hash table.

Flags:
`)
		fs.PrintDefaults()
	}
	var cfg lookupConfig
	cfg.register(fs)
	fs.StringVar(&cfg.ctx, "ctx", "", "Message context (msgctxt).")
	fs.IntVar(&cfg.n, "n", 1, "Count selecting the plural form.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 || fs.NArg() > 3 {
		return fmt.Errorf("lookup: expecting a catalog, a msgid and an optional msgid_plural")
	}
	cfg.file, cfg.id, cfg.pluralID = fs.Arg(0), fs.Arg(1), fs.Arg(2)
	if err := cfg.setup(); err != nil {
		return err
	}
	return runLookup(&cfg)
}

func runLookup(cfg *lookupConfig) error {
	var (
		s     string
		found bool
		err   error
	)
	if strings.EqualFold(filepath.Ext(cfg.file), ".mo") {
		s, found, err = lookupMO(cfg)
	} else {
		s, found, err = lookupCatalog(cfg)
	}
	if err != nil {
		return err
	}
	if !found {
		cfg.log.Debug().Str("msgctxt", cfg.ctx).Str("msgid", cfg.id).Msg("message not translated")
		s = cfg.id
		if cfg.pluralID != "" && cfg.n != 1 {
			s = cfg.pluralID
		}
	}
	_, err = fmt.Fprintln(cfg.output(), s)
	return err
}

func lookupCatalog(cfg *lookupConfig) (string, bool, error) {
	c, err := pocat.ReadFile(cfg.file)
	if err != nil {
		return "", false, err
	}
	e, ok := c.Lookup(cfg.ctx, cfg.id)
	if !ok || e.IsFuzzy() || e.IDPlural != cfg.pluralID {
		return "", false, nil
	}
	idx := 0
	if e.IsPlural() {
		idx = c.PluralIndex(cfg.n)
	}
	if e.Translations[idx] == "" {
		return "", false, nil
	}
	return e.Translations[idx], true, nil
}

// lookupMO reads only the header entry and the message from the MO file,
// through its hash table, without decoding the other strings.
// Catalogs in other charsets than UTF-8 are loaded in full so they get
// transcoded.
func lookupMO(cfg *lookupConfig) (string, bool, error) {
	data, err := os.ReadFile(cfg.file)
	if err != nil {
		return "", false, fmt.Errorf("failed to read catalog file: %w", err)
	}
	hdr, ok, err := mo.Lookup(data, "")
	if err != nil {
		return "", false, &pocat.CorruptError{Source: cfg.file, Err: err}
	}
	h := pocat.Header{}
	if ok {
		h = pocat.ParseHeader(hdr.Str[0])
	}
	if !charset.IsUTF8(h.Charset()) {
		return lookupCatalog(cfg)
	}
	key := (&mo.Message{Context: cfg.ctx, ID: cfg.id, IDPlural: cfg.pluralID}).Key()
	m, ok, err := mo.Lookup(data, key)
	if err != nil {
		return "", false, &pocat.CorruptError{Source: cfg.file, Err: err}
	}
	if !ok {
		return "", false, nil
	}
	idx := 0
	if cfg.pluralID != "" {
		forms := h.PluralForms()
		if forms == "" || strings.Contains(forms, "INTEGER") {
			forms = plural.DefaultForms(h.Language())
		}
		rule, err := formula.Make(forms)
		if err != nil {
			return "", false, &pocat.CorruptError{Source: cfg.file, Reason: "invalid Plural-Forms", Err: err}
		}
		idx = rule.Index(cfg.n)
	}
	if idx >= len(m.Str) || m.Str[idx] == "" {
		return "", false, nil
	}
	return m.Str[idx], true, nil
}
