// Package pocat reads, writes and serves gettext message catalogs.
//
// A Catalog holds the translations of one language and is read from PO,
// MO, YAML or gettext JSON files. A Bundle loads the catalogs of a
// directory and translates messages for the language requested in a
// context.Context, falling back to related languages.
package pocat
