// Package charset finds the charset declared by a catalog header and
// transcodes catalog bytes to UTF-8.
package charset

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// UTF8 is the canonical name written to catalog headers.
const UTF8 = "UTF-8"

var marker = []byte("charset=")

// Detect returns the charset named by the first "charset=" parameter in
// data, or "" when there is none. data may be in any ASCII compatible
// charset.
func Detect(data []byte) string {
	idx := bytes.Index(asciiLower(data), marker)
	if idx < 0 {
		return ""
	}
	rest := data[idx+len(marker):]
	end := bytes.IndexAny(rest, " ;\\\"\r\n\x00")
	if end >= 0 {
		rest = rest[:end]
	}
	return string(bytes.TrimSpace(rest))
}

// asciiLower lowers A-Z only, so offsets into the result are offsets into
// data whatever its encoding.
func asciiLower(data []byte) []byte {
	out := make([]byte, len(data))
	for ii, c := range data {
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[ii] = c
	}
	return out
}

// FromContentType extracts the charset parameter from a Content-Type value.
func FromContentType(ct string) string {
	return Detect([]byte(ct))
}

// IsUTF8 reports whether name needs no transcoding. gettext templates
// carry the literal placeholder "CHARSET", which is treated as UTF-8.
func IsUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "charset", "utf-8", "utf8", "us-ascii", "ascii":
		return true
	}
	return false
}

// Lookup returns the encoding for name.
func Lookup(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", name, err)
	}
	return enc, nil
}

// ToUTF8 transcodes data from the named charset to UTF-8. Data already in
// UTF-8 is returned unchanged.
func ToUTF8(name string, data []byte) ([]byte, error) {
	if IsUTF8(name) {
		return data, nil
	}
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return out, nil
}

// FromUTF8 transcodes UTF-8 data to the named charset.
func FromUTF8(name string, data []byte) ([]byte, error) {
	if IsUTF8(name) {
		return data, nil
	}
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	out, _, err := transform.Bytes(encoding.HTMLEscapeUnsupported(enc.NewEncoder()), data)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", name, err)
	}
	return out, nil
}

// SetContentType replaces the charset parameter of a Content-Type value,
// adding one when missing.
func SetContentType(ct, name string) string {
	lower := strings.ToLower(ct)
	idx := strings.Index(lower, "charset=")
	if idx < 0 {
		if strings.TrimSpace(ct) == "" {
			return "text/plain; charset=" + name
		}
		return strings.TrimRight(ct, "; ") + "; charset=" + name
	}
	rest := ct[idx+len("charset="):]
	end := strings.IndexAny(rest, " ;")
	if end < 0 {
		return ct[:idx] + "charset=" + name
	}
	return ct[:idx] + "charset=" + name + rest[end:]
}
