package main

import (
	"fmt"
	"os"
)

type command struct {
	run   func(args []string) error
	usage string
}

var commands = map[string]command{
	"compile":   {runCompileArgs, "Compile a catalog to the binary MO form (msgfmt)."},
	"decompile": {runDecompileArgs, "Write a MO catalog back as PO (msgunfmt)."},
	"convert":   {runConvertArgs, "Convert a catalog between po, mo, yaml and json."},
	"merge":     {runMergeArgs, "Update a translation from a .pot template (msgmerge)."},
	"extract":   {runExtractArgs, "Write a .pot template from Gettext calls in Go code."},
	"stats":     {runStatsArgs, "Count translated, fuzzy and untranslated messages."},
	"plural":    {runPluralArgs, "Evaluate a plural rule for the given counts."},
	"lookup":    {runLookupArgs, "Translate a single message with a catalog."},
}

var commandOrder = []string{"compile", "decompile", "convert", "merge", "extract", "stats", "plural", "lookup"}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	sub := os.Args[1]
	args := os.Args[2:]
	switch sub {
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	}
	cmd, ok := commands[sub]
	if !ok {
		fmt.Fprintf(os.Stderr, "pocat: unknown subcommand %q\n", sub)
		usage()
		os.Exit(1)
	}
	if err := cmd.run(args); err != nil {
		fmt.Fprintf(os.Stderr, "pocat: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `pocat - gettext catalog tool

usage: pocat <command> [options] [args]

commands:
`)
	for _, name := range commandOrder {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", name, commands[name].usage)
	}
	fmt.Fprintf(os.Stderr, "\nUse 'pocat <command> -h' for command-specific flags.\n")
}
