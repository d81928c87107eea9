package pocat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/loopcontext/pocat/internal/charset"
	"github.com/loopcontext/pocat/mo"
)

type writeOptions struct {
	skipFuzzy        bool
	skipUntranslated bool
	mo               []mo.Option
}

// WriteOption configures WriteMO.
type WriteOption func(*writeOptions)

// SkipFuzzy leaves fuzzy entries out of the MO file, as msgfmt does
// without --use-fuzzy.
func SkipFuzzy() WriteOption {
	return func(o *writeOptions) {
		o.skipFuzzy = true
	}
}

// SkipUntranslated leaves entries with empty translations out of the MO
// file, as msgfmt does.
func SkipUntranslated() WriteOption {
	return func(o *writeOptions) {
		o.skipUntranslated = true
	}
}

// MOByteOrder sets the byte order of the MO file (little endian by default).
func MOByteOrder(order binary.ByteOrder) WriteOption {
	return func(o *writeOptions) {
		o.mo = append(o.mo, mo.WithByteOrder(order))
	}
}

// WithoutHashTable omits the MO hash table.
func WithoutHashTable() WriteOption {
	return func(o *writeOptions) {
		o.mo = append(o.mo, mo.WithoutHashTable())
	}
}

// ParseMO decodes a catalog in MO format. Strings in a charset other than
// UTF-8 are transcoded.
func ParseMO(data []byte) (*Catalog, error) {
	return parseMO(data, "")
}

func parseMO(data []byte, source string) (*Catalog, error) {
	f, err := mo.Decode(data)
	if err != nil {
		return nil, &CorruptError{Source: source, Reason: "invalid MO file", Err: err}
	}
	h := ParseHeader(f.Header())
	if name := h.Charset(); !charset.IsUTF8(name) {
		if err := transcodeMO(f, name); err != nil {
			return nil, &CorruptError{Source: source, Reason: "charset", Err: err}
		}
		h = ParseHeader(f.Header())
		setUTF8(&h)
	}
	c, err := NewCatalog(h)
	if err != nil {
		return nil, withSource(err, source)
	}
	for ii, m := range f.Messages {
		if m.Context == "" && m.ID == "" {
			continue
		}
		e := Entry{
			Context:      m.Context,
			ID:           m.ID,
			IDPlural:     m.IDPlural,
			Translations: m.Str,
		}
		if err := addEntry(c, e, fmt.Sprintf("string %d", ii)); err != nil {
			return nil, withSource(err, source)
		}
	}
	return c, nil
}

func transcodeMO(f *mo.File, name string) error {
	conv := func(s *string) error {
		out, err := charset.ToUTF8(name, []byte(*s))
		if err != nil {
			return err
		}
		*s = string(out)
		return nil
	}
	for _, m := range f.Messages {
		for _, s := range []*string{&m.Context, &m.ID, &m.IDPlural} {
			if err := conv(s); err != nil {
				return err
			}
		}
		for ii := range m.Str {
			if err := conv(&m.Str[ii]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Catalog) moFile(o *writeOptions) *mo.File {
	f := &mo.File{}
	if len(c.header.Fields) > 0 {
		f.Messages = append(f.Messages, &mo.Message{Str: []string{c.header.String()}})
	}
	for _, e := range c.entries {
		if o.skipFuzzy && e.IsFuzzy() {
			continue
		}
		if o.skipUntranslated && !e.IsTranslated() {
			continue
		}
		f.Messages = append(f.Messages, &mo.Message{
			Context:  e.Context,
			ID:       e.ID,
			IDPlural: e.IDPlural,
			Str:      e.Translations,
		})
	}
	return f
}

// WriteMO writes the catalog in MO format. By default every live entry is
// written, so reading the file back yields an Equal catalog.
func (c *Catalog) WriteMO(w io.Writer, opts ...WriteOption) error {
	o := &writeOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return mo.Encode(w, c.moFile(o), o.mo...)
}

// MarshalMO returns the catalog in MO format.
func (c *Catalog) MarshalMO(opts ...WriteOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.WriteMO(&buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
