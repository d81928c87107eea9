package po

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	maxLineLength = 79
)

// Write writes f to w using the layout produced by the gettext tools:
// the header first, then one blank line between entries. Strings which
// don't fit in a line, or which contain embedded newlines, are written
// as an empty string followed by one continuation line per segment.
func Write(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)
	first := true
	if f.Header != nil {
		writeMessage(bw, f.Header)
		first = false
	}
	for _, m := range f.Messages {
		if !first {
			bw.WriteByte('\n')
		}
		first = false
		writeMessage(bw, m)
	}
	return bw.Flush()
}

// bufio.Writer errors are sticky, Flush reports them.
func writeMessage(w *bufio.Writer, m *Message) {
	for _, c := range m.Comments {
		if c == "" {
			w.WriteString("#\n")
			continue
		}
		fmt.Fprintf(w, "# %s\n", c)
	}
	for _, c := range m.ExtractedComments {
		fmt.Fprintf(w, "#. %s\n", c)
	}
	writeReferences(w, m.References)
	if len(m.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(m.Flags, ", "))
	}
	prefix := ""
	previous := "#| "
	if m.Obsolete {
		prefix = "#~ "
		previous = "#~| "
	}
	for _, p := range m.Previous {
		fmt.Fprintf(w, "%s%s\n", previous, p)
	}
	if m.Context != "" {
		writeString(w, prefix, "msgctxt", m.Context)
	}
	writeString(w, prefix, "msgid", m.ID)
	if m.IDPlural != "" {
		writeString(w, prefix, "msgid_plural", m.IDPlural)
		n := len(m.Str)
		if n == 0 {
			n = 2
		}
		for ii := 0; ii < n; ii++ {
			str := ""
			if ii < len(m.Str) {
				str = m.Str[ii]
			}
			writeString(w, prefix, fmt.Sprintf("msgstr[%d]", ii), str)
		}
		return
	}
	str := ""
	if len(m.Str) > 0 {
		str = m.Str[0]
	}
	writeString(w, prefix, "msgstr", str)
}

func writeReferences(w *bufio.Writer, refs []string) {
	if len(refs) == 0 {
		return
	}
	line := "#:"
	for _, ref := range refs {
		if len(line) > 2 && len(line)+1+len(ref) > maxLineLength {
			w.WriteString(line)
			w.WriteByte('\n')
			line = "#:"
		}
		line += " " + ref
	}
	w.WriteString(line)
	w.WriteByte('\n')
}

func writeString(w *bufio.Writer, prefix, keyword, s string) {
	lines := splitLines(s)
	escaped := Escape(s)
	if len(lines) <= 1 && len(prefix)+len(keyword)+utf8.RuneCountInString(escaped)+3 <= maxLineLength {
		fmt.Fprintf(w, "%s%s \"%s\"\n", prefix, keyword, escaped)
		return
	}
	fmt.Fprintf(w, "%s%s \"\"\n", prefix, keyword)
	width := maxLineLength - len(prefix) - 2
	for _, line := range lines {
		for _, chunk := range wrap(Escape(line), width) {
			fmt.Fprintf(w, "%s\"%s\"\n", prefix, chunk)
		}
	}
}

// splitLines splits s after each newline. The result is empty for an
// empty string.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// wrap splits an escaped string into chunks of at most width runes,
// breaking after spaces. Words longer than width are kept whole.
func wrap(s string, width int) []string {
	var out []string
	for utf8.RuneCountInString(s) > width {
		limit := byteOffset(s, width)
		cut := strings.LastIndexByte(s[:limit], ' ')
		if cut < 0 {
			next := strings.IndexByte(s[limit:], ' ')
			if next < 0 {
				break
			}
			cut = limit + next
		}
		if cut == len(s)-1 {
			break
		}
		out = append(out, s[:cut+1])
		s = s[cut+1:]
	}
	if s != "" || len(out) == 0 {
		out = append(out, s)
	}
	return out
}

// byteOffset returns the offset of the n-th rune in s.
func byteOffset(s string, n int) int {
	for idx := range s {
		if n == 0 {
			return idx
		}
		n--
	}
	return len(s)
}
