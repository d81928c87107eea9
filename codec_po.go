package pocat

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/loopcontext/pocat/internal/charset"
	"github.com/loopcontext/pocat/po"
)

type namer interface {
	Name() string
}

func sourceName(r interface{}) string {
	if n, ok := r.(namer); ok {
		return n.Name()
	}
	return ""
}

// ParsePO reads a catalog in PO format. Catalogs declaring a charset other
// than UTF-8 are transcoded, and their Content-Type is updated to match.
func ParsePO(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading PO catalog: %w", err)
	}
	return parsePO(data, sourceName(r))
}

func parsePO(data []byte, source string) (*Catalog, error) {
	f, err := po.ParseBytes(data)
	if err != nil {
		return nil, &CorruptError{Source: source, Reason: "syntax error", Err: err}
	}
	from := headerCharset(f)
	if !charset.IsUTF8(from) {
		// the raw parse only served to read the header
		decoded, err := charset.ToUTF8(from, data)
		if err != nil {
			return nil, &CorruptError{Source: source, Reason: "charset", Err: err}
		}
		if f, err = po.ParseBytes(decoded); err != nil {
			return nil, &CorruptError{Source: source, Reason: "syntax error", Err: err}
		}
	}
	c, err := catalogFromPO(f, !charset.IsUTF8(from))
	if err != nil {
		return nil, withSource(err, source)
	}
	return c, nil
}

// headerCharset returns the charset declared by the Content-Type of the
// header entry. The field is ASCII in every charset gettext supports, so
// it can be read before transcoding.
func headerCharset(f *po.File) string {
	if f.Header == nil || len(f.Header.Str) == 0 {
		return ""
	}
	return ParseHeader(f.Header.Str[0]).Charset()
}

func setUTF8(h *Header) {
	h.Set(HeaderContentType, charset.SetContentType(h.Get(HeaderContentType), charset.UTF8))
}

func catalogFromPO(f *po.File, transcoded bool) (*Catalog, error) {
	var h Header
	if f.Header != nil {
		if len(f.Header.Str) > 0 {
			h = ParseHeader(f.Header.Str[0])
		}
		h.Comments = f.Header.Comments
		h.Flags = f.Header.Flags
	}
	if transcoded {
		setUTF8(&h)
	}
	c, err := NewCatalog(h)
	if err != nil {
		return nil, err
	}
	for _, m := range f.Messages {
		e := Entry{
			Context:           m.Context,
			ID:                m.ID,
			IDPlural:          m.IDPlural,
			Translations:      m.Str,
			Comments:          m.Comments,
			ExtractedComments: m.ExtractedComments,
			References:        m.References,
			Flags:             m.Flags,
			Previous:          m.Previous,
			Obsolete:          m.Obsolete,
		}
		if err := addEntry(c, e, fmt.Sprintf("line %d", m.Line)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// addEntry adds e while loading a file, where every failure means the
// file is corrupt.
func addEntry(c *Catalog, e Entry, where string) error {
	err := c.Add(e)
	if err == nil {
		return nil
	}
	var ce *CorruptError
	if errors.As(err, &ce) {
		ce.Reason = where + ": " + ce.Reason
		return ce
	}
	return corruptf(err, "%s", where)
}

func (c *Catalog) poFile() *po.File {
	f := &po.File{}
	if len(c.header.Fields) > 0 || len(c.header.Comments) > 0 {
		f.Header = &po.Message{
			Str:      []string{c.header.String()},
			Comments: c.header.Comments,
			Flags:    c.header.Flags,
		}
	}
	add := func(e Entry) {
		f.Messages = append(f.Messages, &po.Message{
			Context:           e.Context,
			ID:                e.ID,
			IDPlural:          e.IDPlural,
			Str:               e.Translations,
			Comments:          e.Comments,
			ExtractedComments: e.ExtractedComments,
			References:        e.References,
			Flags:             e.Flags,
			Previous:          e.Previous,
			Obsolete:          e.Obsolete,
		})
	}
	for _, e := range c.entries {
		add(e)
	}
	for _, e := range c.obsolete {
		add(e)
	}
	return f
}

// WritePO writes the catalog in PO format: header, live entries in
// insertion order, then obsolete entries.
func (c *Catalog) WritePO(w io.Writer) error {
	return po.Write(w, c.poFile())
}

// MarshalPO returns the catalog in PO format.
func (c *Catalog) MarshalPO() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.WritePO(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
