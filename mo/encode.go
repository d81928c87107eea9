package mo

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
)

type options struct {
	order binary.ByteOrder
	hash  bool
}

// Option configures Encode.
type Option func(*options)

// WithByteOrder sets the byte order of the written file. The default is
// little endian.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithoutHashTable omits the hash table. Readers fall back to binary
// search over the sorted originals.
func WithoutHashTable() Option {
	return func(o *options) {
		o.hash = false
	}
}

type pair struct {
	key   string
	value string
}

// Encode writes messages as an MO file. Originals are sorted and must be
// unique. The ByteOrder, Revision and HashSize of f are ignored; use the
// options to control the layout.
func Encode(w io.Writer, f *File, opts ...Option) error {
	o := &options{order: binary.LittleEndian, hash: true}
	for _, opt := range opts {
		opt(o)
	}
	pairs := make([]pair, len(f.Messages))
	for ii, m := range f.Messages {
		pairs[ii] = pair{key: m.Key(), value: m.value()}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })
	for ii := 1; ii < len(pairs); ii++ {
		if pairs[ii].key == pairs[ii-1].key {
			return fmt.Errorf("mo: duplicate original string %q", pairs[ii].key)
		}
	}

	n := uint32(len(pairs))
	var hashSize uint32
	if o.hash {
		hashSize = tableSize(n)
	}
	origOff := uint32(headerSize)
	transOff := origOff + 8*n
	hashOff := transOff + 8*n
	strOff := hashOff + 4*hashSize

	bw := bufio.NewWriter(w)
	word := func(v uint32) {
		var b [4]byte
		o.order.PutUint32(b[:], v)
		bw.Write(b[:])
	}
	word(Magic)
	word(0)
	word(n)
	word(origOff)
	word(transOff)
	word(hashSize)
	word(hashOff)

	off := strOff
	for _, p := range pairs {
		word(uint32(len(p.key)))
		word(off)
		off += uint32(len(p.key)) + 1
	}
	for _, p := range pairs {
		word(uint32(len(p.value)))
		word(off)
		off += uint32(len(p.value)) + 1
	}
	if hashSize > 0 {
		for _, v := range hashTable(pairs, hashSize) {
			word(v)
		}
	}
	for _, p := range pairs {
		bw.WriteString(p.key)
		bw.WriteByte(0)
	}
	for _, p := range pairs {
		bw.WriteString(p.value)
		bw.WriteByte(0)
	}
	return bw.Flush()
}
