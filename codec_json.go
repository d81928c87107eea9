package pocat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// GettextJSON is the gettext JSON rendition of a catalog: the header
// comment lines, the header msgstr and one object per entry.
type GettextJSON struct {
	HeaderComment string         `json:"header_comment"`
	HeaderMeta    string         `json:"header_meta"`
	Entries       []GettextEntry `json:"entries"`
}

// GettextEntry is one entry of GettextJSON. Comments holds the PO comment
// lines of the entry ("#.", "#:", "#," and so on) without the fuzzy flag,
// which lives in Fuzzy.
type GettextEntry struct {
	MsgCtxt      string   `json:"msgctxt,omitempty"`
	MsgID        string   `json:"msgid"`
	MsgStr       string   `json:"msgstr"`
	MsgIDPlural  string   `json:"msgid_plural,omitempty"`
	MsgStrPlural []string `json:"msgstr_plural,omitempty"`
	Comments     []string `json:"comments,omitempty"`
	Fuzzy        bool     `json:"fuzzy"`
	Obsolete     bool     `json:"obsolete,omitempty"`
}

// ParseJSON reads a catalog in gettext JSON form.
func ParseJSON(data []byte) (*Catalog, error) {
	return parseJSON(data, "")
}

func parseJSON(data []byte, source string) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, &CorruptError{Source: source, Reason: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &CorruptError{Source: source, Reason: "gettext JSON must be an object"}
	}
	j := &GettextJSON{
		HeaderComment: root.Get("header_comment").String(),
		HeaderMeta:    root.Get("header_meta").String(),
	}
	entries := root.Get("entries")
	if entries.Exists() && !entries.IsArray() {
		return nil, &CorruptError{Source: source, Reason: "entries must be an array"}
	}
	for _, r := range entries.Array() {
		j.Entries = append(j.Entries, GettextEntry{
			MsgCtxt:      r.Get("msgctxt").String(),
			MsgID:        r.Get("msgid").String(),
			MsgStr:       r.Get("msgstr").String(),
			MsgIDPlural:  r.Get("msgid_plural").String(),
			MsgStrPlural: stringArray(r.Get("msgstr_plural")),
			Comments:     stringArray(r.Get("comments")),
			Fuzzy:        r.Get("fuzzy").Bool(),
			Obsolete:     r.Get("obsolete").Bool(),
		})
	}
	c, err := j.Catalog()
	if err != nil {
		return nil, withSource(err, source)
	}
	return c, nil
}

func stringArray(r gjson.Result) []string {
	if !r.Exists() {
		return nil
	}
	arr := r.Array()
	out := make([]string, len(arr))
	for ii, v := range arr {
		out[ii] = v.String()
	}
	return out
}

// Catalog builds the catalog described by j.
func (j *GettextJSON) Catalog() (*Catalog, error) {
	h := ParseHeader(j.HeaderMeta)
	var hc Entry
	for _, line := range strings.Split(strings.TrimSuffix(j.HeaderComment, "\n"), "\n") {
		if line != "" {
			parseCommentLine(&hc, line)
		}
	}
	h.Comments = hc.Comments
	h.Flags = hc.Flags
	c, err := NewCatalog(h)
	if err != nil {
		return nil, err
	}
	for ii, je := range j.Entries {
		e := Entry{
			Context:  je.MsgCtxt,
			ID:       je.MsgID,
			IDPlural: je.MsgIDPlural,
			Obsolete: je.Obsolete,
		}
		if je.MsgIDPlural != "" {
			e.Translations = je.MsgStrPlural
		} else {
			e.Translations = []string{je.MsgStr}
		}
		for _, line := range je.Comments {
			parseCommentLine(&e, strings.TrimRight(line, "\n"))
		}
		if je.Fuzzy && !e.IsFuzzy() {
			e.Flags = append([]string{FlagFuzzy}, e.Flags...)
		}
		if err := addEntry(c, e, fmt.Sprintf("entry %d", ii)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func parseCommentLine(e *Entry, line string) {
	if !strings.HasPrefix(line, "#") {
		e.Comments = append(e.Comments, line)
		return
	}
	kind := byte(' ')
	if len(line) > 1 {
		kind = line[1]
	}
	rest := ""
	if len(line) > 2 {
		rest = strings.TrimPrefix(line[2:], " ")
	}
	switch kind {
	case '.':
		e.ExtractedComments = append(e.ExtractedComments, rest)
	case ':':
		e.References = append(e.References, strings.Fields(rest)...)
	case ',':
		for _, flag := range strings.Split(rest, ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				e.Flags = append(e.Flags, flag)
			}
		}
	case '|':
		e.Previous = append(e.Previous, rest)
	default:
		e.Comments = append(e.Comments, strings.TrimPrefix(line[1:], " "))
	}
}

func commentLines(comments, extracted, refs, flags, previous []string) []string {
	var lines []string
	for _, c := range comments {
		lines = append(lines, strings.TrimRight("# "+c, " "))
	}
	for _, c := range extracted {
		lines = append(lines, "#. "+c)
	}
	if len(refs) > 0 {
		lines = append(lines, "#: "+strings.Join(refs, " "))
	}
	var kept []string
	for _, f := range flags {
		if f != FlagFuzzy {
			kept = append(kept, f)
		}
	}
	if len(kept) > 0 {
		lines = append(lines, "#, "+strings.Join(kept, ", "))
	}
	for _, p := range previous {
		lines = append(lines, "#| "+p)
	}
	return lines
}

// GettextJSON returns the gettext JSON rendition of the catalog.
func (c *Catalog) GettextJSON() *GettextJSON {
	h := c.Header()
	j := &GettextJSON{
		HeaderMeta: h.String(),
		Entries:    make([]GettextEntry, 0, len(c.entries)+len(c.obsolete)),
	}
	if lines := commentLines(h.Comments, nil, nil, h.Flags, nil); len(lines) > 0 {
		j.HeaderComment = strings.Join(lines, "\n") + "\n"
	}
	if hasFlag(h.Flags, FlagFuzzy) {
		j.HeaderComment += "#, " + FlagFuzzy + "\n"
	}
	add := func(e Entry) {
		je := GettextEntry{
			MsgCtxt:  e.Context,
			MsgID:    e.ID,
			Comments: commentLines(e.Comments, e.ExtractedComments, e.References, e.Flags, e.Previous),
			Fuzzy:    e.IsFuzzy(),
			Obsolete: e.Obsolete,
		}
		if e.IsPlural() {
			je.MsgIDPlural = e.IDPlural
			je.MsgStrPlural = e.Translations
		} else {
			je.MsgStr = e.Translations[0]
		}
		j.Entries = append(j.Entries, je)
	}
	for _, e := range c.entries {
		add(e)
	}
	for _, e := range c.obsolete {
		add(e)
	}
	return j
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}

// MarshalJSON implements json.Marshaler, writing the catalog in gettext
// JSON form.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c.GettextJSON()); err != nil {
		return nil, fmt.Errorf("encode gettext JSON: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON implements json.Unmarshaler, replacing c with the decoded
// catalog.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	decoded, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}
