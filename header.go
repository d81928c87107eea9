package pocat

import (
	"strings"

	"github.com/loopcontext/pocat/internal/charset"
	"github.com/loopcontext/pocat/internal/plural"
)

// Well known header keys.
const (
	HeaderProjectID       = "Project-Id-Version"
	HeaderLanguage        = "Language"
	HeaderContentType     = "Content-Type"
	HeaderTransferEnc     = "Content-Transfer-Encoding"
	HeaderMIMEVersion     = "MIME-Version"
	HeaderPluralForms     = "Plural-Forms"
	HeaderGenerator       = "X-Generator"
	HeaderGeneratedBy     = "Generated-By"
	HeaderPORevisionDate  = "PO-Revision-Date"
	HeaderPOTCreationDate = "POT-Creation-Date"

	// Generator is the X-Generator value of catalogs created by this package.
	Generator = "pocat"
)

// HeaderField is a single "Key: Value" line of a catalog header.
type HeaderField struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// Header is the metadata stored as the translation of the empty msgid.
// Fields keep their order so catalogs can be written back unchanged.
// Comments and Flags are the PO comments attached to the header entry.
type Header struct {
	Fields   []HeaderField
	Comments []string
	Flags    []string
}

// NewHeader returns the header of a new UTF-8 catalog for lang, using the
// Plural-Forms gettext conventionally uses for that language.
func NewHeader(lang string) Header {
	h := Header{}
	h.Set(HeaderProjectID, "PACKAGE VERSION")
	h.Set(HeaderLanguage, lang)
	h.Set(HeaderMIMEVersion, "1.0")
	h.Set(HeaderContentType, "text/plain; charset="+charset.UTF8)
	h.Set(HeaderTransferEnc, "8bit")
	h.Set(HeaderPluralForms, plural.DefaultForms(lang))
	h.Set(HeaderGenerator, Generator)
	return h
}

// ParseHeader parses the translation of the empty msgid. Lines without a
// colon are ignored.
func ParseHeader(s string) Header {
	h := Header{}
	for _, line := range strings.Split(s, "\n") {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:colon])
		if key == "" {
			continue
		}
		h.Fields = append(h.Fields, HeaderField{Key: key, Value: strings.TrimSpace(line[colon+1:])})
	}
	return h
}

// String returns the header in its msgstr form, one "Key: Value\n" line
// per field.
func (h Header) String() string {
	var b strings.Builder
	for _, f := range h.Fields {
		b.WriteString(f.Key)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

func (h Header) index(key string) int {
	for ii, f := range h.Fields {
		if strings.EqualFold(f.Key, key) {
			return ii
		}
	}
	return -1
}

// Get returns the value for key, matched case insensitively.
func (h Header) Get(key string) string {
	if idx := h.index(key); idx >= 0 {
		return h.Fields[idx].Value
	}
	return ""
}

// Set replaces the value for key, appending a new field if missing.
func (h *Header) Set(key, value string) {
	if idx := h.index(key); idx >= 0 {
		h.Fields[idx].Value = value
		return
	}
	h.Fields = append(h.Fields, HeaderField{Key: key, Value: value})
}

// Del removes key from the header.
func (h *Header) Del(key string) {
	if idx := h.index(key); idx >= 0 {
		h.Fields = append(h.Fields[:idx:idx], h.Fields[idx+1:]...)
	}
}

// Language returns the Language field.
func (h Header) Language() string {
	return h.Get(HeaderLanguage)
}

// PluralForms returns the Plural-Forms field.
func (h Header) PluralForms() string {
	return h.Get(HeaderPluralForms)
}

// Charset returns the charset parameter of Content-Type.
func (h Header) Charset() string {
	return charset.FromContentType(h.Get(HeaderContentType))
}

// Generator returns the tool which produced the catalog, from
// X-Generator or, failing that, Generated-By.
func (h Header) Generator() string {
	if g := h.Get(HeaderGenerator); g != "" {
		return g
	}
	return h.Get(HeaderGeneratedBy)
}

// Equal reports whether both headers have the same fields in the same
// order. Comments and flags are not compared.
func (h Header) Equal(o Header) bool {
	if len(h.Fields) != len(o.Fields) {
		return false
	}
	for ii := range h.Fields {
		if h.Fields[ii] != o.Fields[ii] {
			return false
		}
	}
	return true
}

func (h Header) clone() Header {
	return Header{
		Fields:   append([]HeaderField(nil), h.Fields...),
		Comments: append([]string(nil), h.Comments...),
		Flags:    append([]string(nil), h.Flags...),
	}
}

// isTemplateForms reports whether s is the placeholder xgettext writes to
// templates ("nplurals=INTEGER; plural=EXPRESSION;").
func isTemplateForms(s string) bool {
	return strings.Contains(s, "INTEGER") || strings.Contains(s, "EXPRESSION")
}
