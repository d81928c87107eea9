package pocat

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// ParseYAML reads a catalog from its YAML rendition. The language and
// plural_forms fields fill the header when it lacks them.
func ParseYAML(data []byte) (*Catalog, error) {
	return parseYAML(data, "")
}

func parseYAML(data []byte, source string) (*Catalog, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Source: source, Reason: "invalid YAML", Err: err}
	}
	c, err := doc.Catalog()
	if err != nil {
		return nil, withSource(err, source)
	}
	return c, nil
}

// Catalog builds the catalog described by the document.
func (d *Document) Catalog() (*Catalog, error) {
	h := Header{
		Fields:   append([]HeaderField(nil), d.Header...),
		Comments: d.HeaderComments,
		Flags:    d.HeaderFlags,
	}
	if d.Language != "" && h.Get(HeaderLanguage) == "" {
		h.Set(HeaderLanguage, d.Language)
	}
	if d.PluralForms != "" && h.Get(HeaderPluralForms) == "" {
		h.Set(HeaderPluralForms, d.PluralForms)
	}
	c, err := NewCatalog(h)
	if err != nil {
		return nil, err
	}
	add := func(de DocumentEntry, where string, obsolete bool) error {
		return addEntry(c, Entry{
			Context:           de.Context,
			ID:                de.ID,
			IDPlural:          de.IDPlural,
			Translations:      de.Translations,
			Comments:          de.Comments,
			ExtractedComments: de.ExtractedComments,
			References:        de.References,
			Flags:             de.Flags,
			Previous:          de.Previous,
			Obsolete:          obsolete,
		}, where)
	}
	for ii, de := range d.Entries {
		if err := add(de, fmt.Sprintf("entry %d", ii), false); err != nil {
			return nil, err
		}
	}
	for ii, de := range d.Obsolete {
		if err := add(de, fmt.Sprintf("obsolete entry %d", ii), true); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func documentEntry(e Entry) DocumentEntry {
	return DocumentEntry{
		Context:           e.Context,
		ID:                e.ID,
		IDPlural:          e.IDPlural,
		Translations:      Variants(e.Translations),
		Flags:             e.Flags,
		Comments:          e.Comments,
		ExtractedComments: e.ExtractedComments,
		References:        e.References,
		Previous:          e.Previous,
	}
}

// Document returns the YAML rendition of the catalog.
func (c *Catalog) Document() *Document {
	h := c.Header()
	d := &Document{
		Language:       h.Language(),
		PluralForms:    h.PluralForms(),
		Header:         h.Fields,
		HeaderComments: h.Comments,
		HeaderFlags:    h.Flags,
		Entries:        make([]DocumentEntry, 0, len(c.entries)),
	}
	for _, e := range c.Entries() {
		d.Entries = append(d.Entries, documentEntry(e))
	}
	for _, e := range c.Obsolete() {
		d.Obsolete = append(d.Obsolete, documentEntry(e))
	}
	return d
}

// MarshalYAML implements yaml.Marshaler, so yaml.Marshal(c) writes the
// catalog's Document.
func (c *Catalog) MarshalYAML() (interface{}, error) {
	return c.Document(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler, replacing c with the decoded
// catalog.
func (c *Catalog) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var doc Document
	if err := unmarshal(&doc); err != nil {
		return err
	}
	decoded, err := doc.Catalog()
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}

func marshalYAML(c *Catalog) ([]byte, error) {
	data, err := yaml.Marshal(c.Document())
	if err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	return data, nil
}
