// Package mo reads and writes compiled gettext catalogs (MO files).
//
// An MO file starts with a 28 byte header: magic, revision, number of
// strings N, offset of the originals table O, offset of the translations
// table T, hash table size S and hash table offset H. Both tables hold N
// (length, offset) pairs pointing into a pool of NUL terminated strings.
// Originals are sorted, which allows lookups by binary search when the
// hash table is missing.
package mo

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	// Magic is the first word of every MO file, in the file's byte order.
	Magic        uint32 = 0x950412de
	magicSwapped uint32 = 0xde120495
	headerSize          = 28

	// ContextSeparator joins msgctxt and msgid in original strings.
	ContextSeparator = "\x04"
	// PluralSeparator joins msgid and msgid_plural, and the plural
	// translations.
	PluralSeparator = "\x00"
)

// Message is a single entry of an MO file.
type Message struct {
	Context  string
	ID       string
	IDPlural string
	Str      []string
}

// Key returns the original string stored in the MO file for m.
func (m *Message) Key() string {
	key := m.ID
	if m.IDPlural != "" {
		key += PluralSeparator + m.IDPlural
	}
	if m.Context != "" {
		key = m.Context + ContextSeparator + key
	}
	return key
}

func (m *Message) value() string {
	return strings.Join(m.Str, PluralSeparator)
}

// File is a decoded MO file.
type File struct {
	ByteOrder binary.ByteOrder
	Revision  uint32
	// HashSize is the number of slots in the hash table, 0 when the file
	// has none.
	HashSize uint32
	Messages []*Message
}

// Header returns the translation of the empty msgid, which holds the
// catalog metadata.
func (f *File) Header() string {
	for _, m := range f.Messages {
		if m.Context == "" && m.ID == "" {
			if len(m.Str) > 0 {
				return m.Str[0]
			}
			return ""
		}
	}
	return ""
}

// FormatError is returned when decoding malformed data.
type FormatError struct {
	Offset int64
	Msg    string
}

func (e *FormatError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("mo: %s (offset %d)", e.Msg, e.Offset)
	}
	return "mo: " + e.Msg
}

func formatErr(off int64, format string, args ...interface{}) error {
	return &FormatError{Offset: off, Msg: fmt.Sprintf(format, args...)}
}
