// Package po reads and writes gettext PO files.
//
// The parser keeps everything a translator can see in a PO file: translator,
// extracted and previous comments, references, flags and obsolete (#~)
// entries. It does not interpret the header; the header entry is returned
// as a Message with an empty ID.
package po

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Message is a single PO entry.
type Message struct {
	Context           string
	ID                string
	IDPlural          string
	Str               []string
	Comments          []string
	ExtractedComments []string
	References        []string
	Flags             []string
	// Previous holds "#|" lines, without the marker.
	Previous []string
	Obsolete bool
	// Line is the line where the entry starts, 1 based.
	Line int
}

// HasFlag reports whether the message carries the given flag (e.g. "fuzzy").
func (m *Message) HasFlag(flag string) bool {
	for _, v := range m.Flags {
		if v == flag {
			return true
		}
	}
	return false
}

// IsHeader reports whether m is a header entry.
func (m *Message) IsHeader() bool {
	return m.ID == "" && m.Context == "" && !m.Obsolete
}

// File is a parsed PO file. Header is nil when the file has no header entry.
type File struct {
	Header   *Message
	Messages []*Message
}

// SyntaxError is returned for malformed input.
type SyntaxError struct {
	Name string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s:%d: %s", e.Name, e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

type namer interface {
	Name() string
}

type parser struct {
	name string
	line int
	f    *File
	cur  *Message
	// state of cur
	hasID     bool
	hasPlural bool
	hasStr    bool
	// target of continuation strings
	field *string
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Name: p.name, Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) message() *Message {
	if p.cur == nil {
		p.cur = &Message{Line: p.line}
	}
	return p.cur
}

func (p *parser) flush() error {
	if p.cur == nil {
		return nil
	}
	m := p.cur
	if !p.hasID {
		if m.Context != "" || len(m.Str) > 0 {
			return p.errorf("missing msgid")
		}
		// Trailing comments without an entry are dropped.
		p.reset()
		return nil
	}
	if !p.hasStr {
		return p.errorf("missing msgstr for msgid %q", m.ID)
	}
	if m.IsHeader() && p.f.Header == nil && len(p.f.Messages) == 0 {
		p.f.Header = m
	} else {
		p.f.Messages = append(p.f.Messages, m)
	}
	p.reset()
	return nil
}

func (p *parser) reset() {
	p.cur = nil
	p.hasID = false
	p.hasPlural = false
	p.hasStr = false
	p.field = nil
}

func (p *parser) parseLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		p.field = nil
		return nil
	}
	obsolete := false
	if strings.HasPrefix(line, "#~") {
		obsolete = true
		line = strings.TrimSpace(line[2:])
		if strings.HasPrefix(line, "|") {
			// #~| previous msgid of an obsolete entry
			return p.comment("#" + line)
		}
		if line == "" {
			return nil
		}
	}
	if line[0] == '#' {
		return p.comment(line)
	}
	if line[0] == '"' {
		if p.field == nil {
			return p.errorf("unexpected string %s", line)
		}
		s, err := Unquote(line)
		if err != nil {
			return p.errorf("%s", err)
		}
		*p.field += s
		return nil
	}
	keyword, rest := line, ""
	if idx := strings.IndexAny(line, " \t"); idx > 0 {
		keyword, rest = line[:idx], strings.TrimSpace(line[idx+1:])
	}
	value, err := Unquote(rest)
	if err != nil {
		return p.errorf("%s: %s", keyword, err)
	}
	if p.hasStr && (keyword == "msgctxt" || keyword == "msgid") {
		if err := p.flush(); err != nil {
			return err
		}
	}
	m := p.message()
	if obsolete {
		m.Obsolete = true
	}
	switch {
	case keyword == "msgctxt":
		if p.hasID {
			return p.errorf("unexpected msgctxt after msgid")
		}
		m.Context = value
		p.field = &m.Context
	case keyword == "msgid":
		if p.hasID {
			return p.errorf("duplicate msgid")
		}
		p.hasID = true
		m.ID = value
		p.field = &m.ID
	case keyword == "msgid_plural":
		if !p.hasID || p.hasStr || p.hasPlural {
			return p.errorf("unexpected msgid_plural")
		}
		p.hasPlural = true
		m.IDPlural = value
		p.field = &m.IDPlural
	case keyword == "msgstr":
		if !p.hasID || p.hasStr {
			return p.errorf("unexpected msgstr")
		}
		if p.hasPlural {
			return p.errorf("expecting msgstr[0] after msgid_plural")
		}
		p.hasStr = true
		m.Str = []string{value}
		p.field = &m.Str[0]
	case strings.HasPrefix(keyword, "msgstr["):
		if !p.hasID {
			return p.errorf("unexpected %s", keyword)
		}
		if !p.hasPlural {
			return p.errorf("%s without msgid_plural", keyword)
		}
		if !strings.HasSuffix(keyword, "]") {
			return p.errorf("invalid keyword %q", keyword)
		}
		idx, err := strconv.Atoi(keyword[len("msgstr[") : len(keyword)-1])
		if err != nil {
			return p.errorf("invalid plural index in %q", keyword)
		}
		if idx != len(m.Str) {
			return p.errorf("plural index %d out of sequence, expecting %d", idx, len(m.Str))
		}
		p.hasStr = true
		m.Str = append(m.Str, value)
		p.field = &m.Str[idx]
	default:
		return p.errorf("unknown keyword %q", keyword)
	}
	return nil
}

func (p *parser) comment(line string) error {
	if p.hasStr {
		if err := p.flush(); err != nil {
			return err
		}
	} else if p.hasID {
		return p.errorf("unexpected comment inside entry")
	}
	p.field = nil
	m := p.message()
	kind := byte(' ')
	if len(line) > 1 {
		kind = line[1]
	}
	switch kind {
	case '.':
		m.ExtractedComments = append(m.ExtractedComments, commentText(line[2:]))
	case ':':
		m.References = append(m.References, strings.Fields(line[2:])...)
	case ',':
		for _, flag := range strings.Split(line[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				m.Flags = append(m.Flags, flag)
			}
		}
	case '|':
		m.Previous = append(m.Previous, commentText(line[2:]))
	case ' ':
		m.Comments = append(m.Comments, commentText(line[1:]))
	default:
		// "#foo" is still a translator comment
		m.Comments = append(m.Comments, line[1:])
	}
	return nil
}

func commentText(s string) string {
	return strings.TrimPrefix(s, " ")
}

func parse(r io.Reader, name string) (*File, error) {
	p := &parser{name: name, f: &File{}}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for s.Scan() {
		p.line++
		line := s.Text()
		if p.line == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if err := p.parseLine(line); err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if err := p.flush(); err != nil {
		return nil, err
	}
	return p.f, nil
}

// Parse reads a PO file from r. If r has a Name method (e.g. *os.File),
// it's used in error messages.
func Parse(r io.Reader) (*File, error) {
	name := ""
	if n, ok := r.(namer); ok {
		name = n.Name()
	}
	return parse(r, name)
}

// ParseBytes parses a PO file held in memory.
func ParseBytes(data []byte) (*File, error) {
	return parse(bytes.NewReader(data), "")
}

// ParseFile opens and parses the given file.
func ParseFile(filename string) (*File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f, filename)
}
