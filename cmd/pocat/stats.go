package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/loopcontext/pocat"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"
)

// statsConfig holds flags for the stats command.
type statsConfig struct {
	commonFlags
	files  []string
	format string
}

type fileStats struct {
	File     string `json:"file" yaml:"file"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	pocat.Stats `yaml:",inline"`
}

func runStatsArgs(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `usage: pocat stats [options] files...

Stats prints the number of translated, fuzzy, untranslated and obsolete
messages of each catalog.

Flags:
`)
		fs.PrintDefaults()
	}
	var cfg statsConfig
	cfg.register(fs)
	fs.StringVar(&cfg.format, "format", "text", "Output format: text, json or yaml.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.files = fs.Args()
	if err := cfg.setup(); err != nil {
		return err
	}
	return runStats(&cfg)
}

func runStats(cfg *statsConfig) error {
	if len(cfg.files) == 0 {
		return fmt.Errorf("stats: no input files")
	}
	results := make([]fileStats, len(cfg.files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for ii, name := range cfg.files {
		ii, name := ii, name
		g.Go(func() error {
			c, err := pocat.ReadFile(name)
			if err != nil {
				return err
			}
			results[ii] = fileStats{File: name, Language: c.Language(), Stats: c.Stats()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	w := cfg.output()
	switch cfg.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		data, err := yaml.Marshal(results)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "text", "":
		for _, r := range results {
			fmt.Fprintf(w, "%s: %s\n", r.File, statsLine(r.Stats))
		}
		return nil
	}
	return fmt.Errorf("stats: unknown format %q", cfg.format)
}

// statsLine formats s the way msgfmt --statistics does.
func statsLine(s pocat.Stats) string {
	line := fmt.Sprintf("%d translated %s", s.Translated, pluralize(s.Translated, "message", "messages"))
	if s.Fuzzy > 0 {
		line += fmt.Sprintf(", %d fuzzy %s", s.Fuzzy, pluralize(s.Fuzzy, "translation", "translations"))
	}
	if s.Untranslated > 0 {
		line += fmt.Sprintf(", %d untranslated %s", s.Untranslated, pluralize(s.Untranslated, "message", "messages"))
	}
	if s.Obsolete > 0 {
		line += fmt.Sprintf(", %d obsolete %s", s.Obsolete, pluralize(s.Obsolete, "message", "messages"))
	}
	return line + "."
}

func pluralize(n int, one, other string) string {
	if n == 1 {
		return one
	}
	return other
}
