package po

import (
	"errors"
	"fmt"
	"strings"
)

var errUnterminated = errors.New("unterminated string")

// Unquote decodes a double quoted PO string, including C escape sequences.
func Unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' {
		return "", fmt.Errorf("expecting a quoted string, got %q", s)
	}
	var b strings.Builder
	b.Grow(len(s))
	for ii := 1; ii < len(s); ii++ {
		c := s[ii]
		switch c {
		case '"':
			if rest := strings.TrimSpace(s[ii+1:]); rest != "" {
				return "", fmt.Errorf("unexpected %q after string", rest)
			}
			return b.String(), nil
		case '\\':
			ii++
			if ii >= len(s) {
				return "", errUnterminated
			}
			switch e := s[ii]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'a':
				b.WriteByte('\a')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'v':
				b.WriteByte('\v')
			case '"', '\\', '\'', '?':
				b.WriteByte(e)
			case '0', '1', '2', '3', '4', '5', '6', '7':
				v := 0
				jj := ii
				for ; jj < len(s) && jj < ii+3 && s[jj] >= '0' && s[jj] <= '7'; jj++ {
					v = v*8 + int(s[jj]-'0')
				}
				if v > 0xff {
					return "", fmt.Errorf("octal escape \\%s out of range", s[ii:jj])
				}
				b.WriteByte(byte(v))
				ii = jj - 1
			case 'x':
				v := 0
				jj := ii + 1
				for ; jj < len(s) && jj < ii+3 && isHex(s[jj]); jj++ {
					v = v*16 + unhex(s[jj])
				}
				if jj == ii+1 {
					return "", errors.New("\\x used with no following hex digits")
				}
				b.WriteByte(byte(v))
				ii = jj - 1
			default:
				return "", fmt.Errorf("invalid escape sequence \\%c", e)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", errUnterminated
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unhex(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	}
	return int(c-'A') + 10
}

// Escape encodes s for use between double quotes in a PO file. Non ASCII
// text is kept as is.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for ii := 0; ii < len(s); ii++ {
		switch c := s[ii]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, "\\%03o", c)
				continue
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Quote returns s escaped and wrapped in double quotes.
func Quote(s string) string {
	return `"` + Escape(s) + `"`
}
