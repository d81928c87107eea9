package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loopcontext/pocat"
)

// convertConfig holds flags for the compile, decompile and convert
// commands.
type convertConfig struct {
	commonFlags
	in       string
	out      string
	to       string
	useFuzzy bool
	noHash   bool
}

func newConvertFlags(name, help string, cfg *convertConfig) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, help)
		fs.PrintDefaults()
	}
	cfg.register(fs)
	fs.StringVar(&cfg.out, "o", "", "Output file. The format and compression follow its extension.")
	return fs
}

func parseInput(fs *flag.FlagSet, args []string, cfg *convertConfig) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%s: expecting exactly one input file", fs.Name())
	}
	cfg.in = fs.Arg(0)
	return cfg.setup()
}

func runCompileArgs(args []string) error {
	var cfg convertConfig
	fs := newConvertFlags("compile", `usage: pocat compile [options] in.po

Compile writes the binary MO form of a catalog. Fuzzy and untranslated
messages are left out unless -use-fuzzy is given. Without -o the file is
written to <output_dir>/<lang>/LC_MESSAGES/<domain>.mo.

Flags:
`, &cfg)
	fs.BoolVar(&cfg.useFuzzy, "use-fuzzy", false, "Include fuzzy messages.")
	fs.BoolVar(&cfg.noHash, "no-hash", false, "Do not write the hash table.")
	if err := parseInput(fs, args, &cfg); err != nil {
		return err
	}
	return runCompile(&cfg)
}

func runCompile(cfg *convertConfig) error {
	c, err := pocat.ReadFile(cfg.in)
	if err != nil {
		return err
	}
	out := cfg.out
	if out == "" {
		lang := c.Language()
		if lang == "" {
			lang = cfg.file.Language
		}
		if lang == "" {
			return fmt.Errorf("compile: %s has no Language header, use -o", cfg.in)
		}
		out = filepath.Join(cfg.file.OutputDir, lang, "LC_MESSAGES", cfg.domain()+".mo")
	}
	opts := []pocat.WriteOption{pocat.SkipUntranslated()}
	if !cfg.useFuzzy {
		opts = append(opts, pocat.SkipFuzzy())
	}
	if cfg.noHash {
		opts = append(opts, pocat.WithoutHashTable())
	}
	if err := writeCatalog(cfg, c, out, opts...); err != nil {
		return err
	}
	s := c.Stats()
	cfg.log.Debug().
		Int("translated", s.Translated).
		Int("fuzzy", s.Fuzzy).
		Int("untranslated", s.Untranslated).
		Msg("compiled catalog")
	return nil
}

func runDecompileArgs(args []string) error {
	var cfg convertConfig
	fs := newConvertFlags("decompile", `usage: pocat decompile [options] in.mo

Decompile writes a MO catalog in PO form, to stdout unless -o is given.

Flags:
`, &cfg)
	if err := parseInput(fs, args, &cfg); err != nil {
		return err
	}
	cfg.to = pocat.FormatPO.String()
	return runConvert(&cfg)
}

func runConvertArgs(args []string) error {
	var cfg convertConfig
	fs := newConvertFlags("convert", `usage: pocat convert [options] in

Convert rewrites a catalog in another format: po, mo, yaml or json.
Input and output may be compressed with .gz or .zst.

Flags:
`, &cfg)
	fs.StringVar(&cfg.to, "to", "", "Output format. Defaults to the extension of -o.")
	if err := parseInput(fs, args, &cfg); err != nil {
		return err
	}
	return runConvert(&cfg)
}

func runConvert(cfg *convertConfig) error {
	c, err := pocat.ReadFile(cfg.in)
	if err != nil {
		return err
	}
	if cfg.out != "" {
		f, _, _, err := pocat.FileFormat(cfg.out)
		if err != nil {
			return err
		}
		if cfg.to != "" {
			want, err := pocat.ParseFormat(cfg.to)
			if err != nil {
				return err
			}
			if want != f {
				return fmt.Errorf("convert: -to %s does not match output file %s", want, cfg.out)
			}
		}
		return writeCatalog(cfg, c, cfg.out)
	}
	if cfg.to == "" {
		return fmt.Errorf("convert: -to or -o is required")
	}
	f, err := pocat.ParseFormat(cfg.to)
	if err != nil {
		return err
	}
	data, err := c.Marshal(f)
	if err != nil {
		return err
	}
	_, err = cfg.output().Write(data)
	return err
}

func writeCatalog(cfg *convertConfig, c *pocat.Catalog, out string, opts ...pocat.WriteOption) error {
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := c.WriteFile(out, opts...); err != nil {
		return err
	}
	cfg.log.Info().Str("path", out).Int("messages", c.Len()).Msg("wrote catalog")
	return nil
}
