package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

// defaultConfigFile is read from the working directory when -config is
// not given.
const defaultConfigFile = ".pocat.yaml"

// fileConfig holds the defaults read from the YAML config file.
type fileConfig struct {
	// Language is used for new catalogs and for catalogs without a
	// Language header.
	Language string `yaml:"language"`
	// Domain names compiled catalogs: <output_dir>/<lang>/LC_MESSAGES/<domain>.mo
	Domain    string `yaml:"domain"`
	OutputDir string `yaml:"output_dir"`
	// Package is the import path extract looks for.
	Package string `yaml:"package"`
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configPath string
	verbose    bool

	file   fileConfig
	log    zerolog.Logger
	stdout io.Writer
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML config file (default "+defaultConfigFile+" when present).")
	fs.BoolVar(&c.verbose, "v", false, "Enable debug logging.")
}

// setup loads the config file and builds the logger. It runs after the
// command flags are parsed.
func (c *commonFlags) setup() error {
	c.log = newLogger(os.Stderr, c.verbose)
	c.stdout = os.Stdout
	file, err := loadFileConfig(c.configPath)
	if err != nil {
		return err
	}
	c.file = *file
	return nil
}

func (c *commonFlags) domain() string {
	if c.file.Domain != "" {
		return c.file.Domain
	}
	return "messages"
}

func (c *commonFlags) output() io.Writer {
	if c.stdout == nil {
		return os.Stdout
	}
	return c.stdout
}

func loadFileConfig(path string) (*fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &fileConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg fileConfig
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filepath.Base(path), err)
	}
	return &cfg, nil
}

// newLogger logs human readable lines to terminals and JSON otherwise.
func newLogger(f *os.File, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	var w io.Writer = f
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("sys", "pocat").Logger()
}
