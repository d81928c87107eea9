package mo

import (
	"encoding/binary"
	"strings"
)

// Decode parses an MO file. Both byte orders and major revisions 0 and 1
// are accepted. Every table, string and the hash table must lie within
// data, strings must be NUL terminated and originals must be unique.
func Decode(data []byte) (*File, error) {
	d, err := newDecoder(data)
	if err != nil {
		return nil, err
	}
	f := &File{
		ByteOrder: d.order,
		Revision:  d.revision,
		HashSize:  d.hashSize,
		Messages:  make([]*Message, 0, d.n),
	}
	seen := make(map[string]struct{}, d.n)
	for ii := uint32(0); ii < d.n; ii++ {
		key, err := d.original(ii)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[key]; dup {
			return nil, formatErr(int64(d.origOff+8*ii), "duplicate original string %q", key)
		}
		seen[key] = struct{}{}
		m, err := d.message(ii, key)
		if err != nil {
			return nil, err
		}
		f.Messages = append(f.Messages, m)
	}
	return f, nil
}

type decoder struct {
	data     []byte
	order    binary.ByteOrder
	revision uint32
	n        uint32
	origOff  uint32
	transOff uint32
	hashSize uint32
	hashOff  uint32
}

// newDecoder checks the header and that both tables and the hash table
// lie within data. Strings are checked when read.
func newDecoder(data []byte) (*decoder, error) {
	if len(data) < headerSize {
		return nil, formatErr(-1, "file too short: %d bytes", len(data))
	}
	d := &decoder{data: data}
	switch binary.LittleEndian.Uint32(data) {
	case Magic:
		d.order = binary.LittleEndian
	case magicSwapped:
		d.order = binary.BigEndian
	default:
		return nil, formatErr(0, "bad magic number %#08x", binary.LittleEndian.Uint32(data))
	}
	d.revision = d.word(4)
	if major := d.revision >> 16; major > 1 {
		return nil, formatErr(4, "unsupported revision %d.%d", major, d.revision&0xffff)
	}
	d.n = d.word(8)
	d.origOff = d.word(12)
	d.transOff = d.word(16)
	d.hashSize = d.word(20)
	d.hashOff = d.word(24)

	size := uint64(len(data))
	if uint64(d.origOff)+8*uint64(d.n) > size {
		return nil, formatErr(12, "originals table out of range")
	}
	if uint64(d.transOff)+8*uint64(d.n) > size {
		return nil, formatErr(16, "translations table out of range")
	}
	if d.hashSize > 0 {
		if uint64(d.hashOff)+4*uint64(d.hashSize) > size {
			return nil, formatErr(24, "hash table out of range")
		}
		for ii := uint32(0); ii < d.hashSize; ii++ {
			off := d.hashOff + 4*ii
			if v := d.word(off); v > d.n {
				return nil, formatErr(int64(off), "hash entry %d points to string %d of %d", ii, v, d.n)
			}
		}
	}
	return d, nil
}

func (d *decoder) original(idx uint32) (string, error) {
	return d.str(d.origOff + 8*idx)
}

// message reads the translation of the idx-th original key.
func (d *decoder) message(idx uint32, key string) (*Message, error) {
	value, err := d.str(d.transOff + 8*idx)
	if err != nil {
		return nil, err
	}
	return splitMessage(key, value), nil
}

// word reads a uint32 at off. Callers check bounds.
func (d *decoder) word(off uint32) uint32 {
	return d.order.Uint32(d.data[off:])
}

// str reads the string described by the (length, offset) pair at desc.
func (d *decoder) str(desc uint32) (string, error) {
	length := uint64(d.word(desc))
	off := uint64(d.word(desc + 4))
	if off+length+1 > uint64(len(d.data)) {
		return "", formatErr(int64(desc), "string of %d bytes at %d out of range", length, off)
	}
	if d.data[off+length] != 0 {
		return "", formatErr(int64(off+length), "string at %d is not NUL terminated", off)
	}
	return string(d.data[off : off+length]), nil
}

func splitMessage(key, value string) *Message {
	m := &Message{}
	if idx := strings.Index(key, ContextSeparator); idx >= 0 {
		m.Context = key[:idx]
		key = key[idx+len(ContextSeparator):]
	}
	if idx := strings.Index(key, PluralSeparator); idx >= 0 {
		m.ID = key[:idx]
		m.IDPlural = key[idx+len(PluralSeparator):]
		m.Str = strings.Split(value, PluralSeparator)
		return m
	}
	m.ID = key
	m.Str = []string{value}
	return m
}
