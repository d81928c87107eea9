package mo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *File {
	return &File{Messages: []*Message{
		{ID: "", Str: []string{"Language: ru\nContent-Type: text/plain; charset=UTF-8\nPlural-Forms: nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);\n"}},
		{ID: "Installing", Str: []string{"Установка"}},
		{ID: "Introduction", Str: []string{"Вступление"}},
		{Context: "menu", ID: "Open", Str: []string{"Открыть"}},
		{ID: "%d file", IDPlural: "%d files", Str: []string{"%d файл", "%d файла", "%d файлов"}},
	}}
}

func encode(t testing.TB, f *File, opts ...Option) []byte {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, f, opts...))
	return buf.Bytes()
}

func byKey(f *File) map[string]*Message {
	m := make(map[string]*Message, len(f.Messages))
	for _, v := range f.Messages {
		m[v.Key()] = v
	}
	return m
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		order binary.ByteOrder
		hash  bool
	}{
		{"little endian", nil, binary.LittleEndian, true},
		{"big endian", []Option{WithByteOrder(binary.BigEndian)}, binary.BigEndian, true},
		{"no hash table", []Option{WithoutHashTable()}, binary.LittleEndian, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := sample()
			data := encode(t, src, tt.opts...)
			f, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.order, f.ByteOrder)
			assert.Equal(t, tt.hash, f.HashSize > 0)
			assert.Equal(t, byKey(src), byKey(f))
			assert.Equal(t, src.Header(), f.Header())

			// Originals are sorted
			for ii := 1; ii < len(f.Messages); ii++ {
				assert.Less(t, f.Messages[ii-1].Key(), f.Messages[ii].Key())
			}
			// Encoding again yields the same bytes
			assert.Equal(t, data, encode(t, f, tt.opts...))

			for _, m := range src.Messages {
				found, ok, err := Lookup(data, m.Key())
				require.NoError(t, err)
				require.True(t, ok, m.Key())
				assert.Equal(t, m.Str, found.Str)
			}
			_, ok, err := Lookup(data, "missing")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestLayout(t *testing.T) {
	data := encode(t, &File{Messages: []*Message{{ID: "a", Str: []string{"b"}}}})
	words := func(off int) uint32 { return binary.LittleEndian.Uint32(data[off:]) }
	require.Len(t, data, 60)
	assert.Equal(t, Magic, words(0))
	assert.Equal(t, uint32(0), words(4))
	assert.Equal(t, uint32(1), words(8))
	assert.Equal(t, uint32(28), words(12))
	assert.Equal(t, uint32(36), words(16))
	assert.Equal(t, uint32(3), words(20))
	assert.Equal(t, uint32(44), words(24))
	// originals table
	assert.Equal(t, uint32(1), words(28))
	assert.Equal(t, uint32(56), words(32))
	// translations table
	assert.Equal(t, uint32(1), words(36))
	assert.Equal(t, uint32(58), words(40))
	// hash("a") % 3 == 1
	assert.Equal(t, []uint32{0, 1, 0}, []uint32{words(44), words(48), words(52)})
	assert.Equal(t, []byte("a\x00b\x00"), data[56:])
}

func TestTableSize(t *testing.T) {
	for n, want := range map[uint32]uint32{0: 3, 1: 3, 2: 3, 3: 5, 5: 7, 10: 13, 100: 137, 1000: 1361} {
		assert.Equal(t, want, tableSize(n), "n=%d", n)
	}
}

func TestHashString(t *testing.T) {
	assert.Equal(t, uint32(0), hashString(""))
	assert.Equal(t, uint32(97), hashString("a"))
	assert.Equal(t, uint32(97<<4+98), hashString("ab"))
	// plural originals hash as their msgid
	assert.Equal(t, hashString("%d file"), hashString("%d file\x00%d files"))
	// long keys fold the high nibble back in
	long := hashString("abcdefghijklmnopqrstuvwxyz")
	assert.Zero(t, long&0xf0000000)
}

func TestHashCollisions(t *testing.T) {
	f := &File{}
	for ii := 0; ii < 500; ii++ {
		f.Messages = append(f.Messages, &Message{ID: fmt.Sprintf("message %d", ii), Str: []string{fmt.Sprintf("сообщение %d", ii)}})
	}
	data := encode(t, f)
	for _, m := range f.Messages {
		found, ok, err := Lookup(data, m.Key())
		require.NoError(t, err)
		require.True(t, ok, m.Key())
		assert.Equal(t, m.Str, found.Str)
	}
}

// pluralSample has enough singular entries around the plural one for the
// hash of the full original and of its msgid to land in different slots.
func pluralSample() *File {
	f := sample()
	for ii := 0; ii < 40; ii++ {
		f.Messages = append(f.Messages, &Message{ID: fmt.Sprintf("step %d", ii), Str: []string{fmt.Sprintf("шаг %d", ii)}})
	}
	return f
}

// cHash is hashpjw over a NUL terminated C string.
func cHash(s string) uint32 {
	var hval uint32
	for ii := 0; ii < len(s); ii++ {
		c := s[ii]
		if c == 0 {
			break
		}
		hval = hval<<4 + uint32(c)
		if g := hval & 0xf0000000; g != 0 {
			hval ^= g >> 24
			hval ^= g
		}
	}
	return hval
}

// fullHash is hashpjw over every byte of s, NULs included.
func fullHash(s string) uint32 {
	var hval uint32
	for ii := 0; ii < len(s); ii++ {
		hval = hval<<4 + uint32(s[ii])
		if g := hval & 0xf0000000; g != 0 {
			hval ^= g >> 24
			hval ^= g
		}
	}
	return hval
}

// rehash returns a copy of the little endian MO data with its hash table
// rebuilt with hash, inserting originals in file order like msgfmt.
func rehash(t *testing.T, data []byte, hash func(string) uint32) []byte {
	t.Helper()
	le := binary.LittleEndian
	out := append([]byte(nil), data...)
	n, origOff := le.Uint32(out[8:]), le.Uint32(out[12:])
	size, hashOff := le.Uint32(out[20:]), le.Uint32(out[24:])
	require.NotZero(t, size)
	table := make([]uint32, size)
	for ii := uint32(0); ii < n; ii++ {
		length, off := le.Uint32(out[origOff+8*ii:]), le.Uint32(out[origOff+8*ii+4:])
		h := hash(string(out[off : off+length]))
		idx, incr := h%size, 1+h%(size-2)
		for table[idx] != 0 {
			idx = (idx + incr) % size
		}
		table[idx] = ii + 1
	}
	for ii, v := range table {
		le.PutUint32(out[hashOff+4*uint32(ii):], v)
	}
	return out
}

// libintlFind walks the hash table the way libintl does: the msgid is
// hashed and compared with each original up to its first NUL.
func libintlFind(data []byte, msgid string) (string, bool) {
	le := binary.LittleEndian
	origOff, transOff := le.Uint32(data[12:]), le.Uint32(data[16:])
	size, hashOff := le.Uint32(data[20:]), le.Uint32(data[24:])
	h := cHash(msgid)
	idx, incr := h%size, 1+h%(size-2)
	for {
		v := le.Uint32(data[hashOff+4*idx:])
		if v == 0 {
			return "", false
		}
		length, off := le.Uint32(data[origOff+8*(v-1):]), le.Uint32(data[origOff+8*(v-1)+4:])
		orig := string(data[off : off+length])
		if i := strings.IndexByte(orig, 0); i >= 0 {
			orig = orig[:i]
		}
		if orig == msgid {
			length, off = le.Uint32(data[transOff+8*(v-1):]), le.Uint32(data[transOff+8*(v-1)+4:])
			return string(data[off : off+length]), true
		}
		idx = (idx + incr) % size
	}
}

func TestHashTableMatchesGNULayout(t *testing.T) {
	f := pluralSample()
	data := encode(t, f)
	require.NotEqual(t, cHash("%d file\x00%d files")%tableSize(uint32(len(f.Messages))),
		fullHash("%d file\x00%d files")%tableSize(uint32(len(f.Messages))))

	assert.Equal(t, rehash(t, data, cHash), data)

	for _, m := range f.Messages {
		id := m.ID
		if m.Context != "" {
			id = m.Context + ContextSeparator + m.ID
		}
		got, ok := libintlFind(data, id)
		require.True(t, ok, id)
		assert.Equal(t, m.value(), got, id)
	}
}

func TestLookupPlural(t *testing.T) {
	f := pluralSample()
	key := (&Message{ID: "%d file", IDPlural: "%d files"}).Key()
	tests := []struct {
		name string
		data []byte
	}{
		{"gnu hash", rehash(t, encode(t, f), cHash)},
		{"full key hash", rehash(t, encode(t, f), fullHash)},
		{"no hash table", encode(t, f, WithoutHashTable())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok, err := Lookup(tt.data, key)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, []string{"%d файл", "%d файла", "%d файлов"}, m.Str)

			_, ok, err = Lookup(tt.data, "%d file")
			require.NoError(t, err)
			assert.False(t, ok, "a plural message is keyed by both ids")
		})
	}
}

func TestLookupReadsOnlyVisitedStrings(t *testing.T) {
	data := encode(t, sample())
	le := binary.LittleEndian
	f, err := Decode(data)
	require.NoError(t, err)
	// break the translation of the first original, the header
	require.Equal(t, "", f.Messages[0].Key())
	transOff := le.Uint32(data[16:])
	le.PutUint32(data[transOff+4:], uint32(len(data)))

	_, err = Decode(data)
	require.Error(t, err)
	m, ok, err := Lookup(data, "Introduction")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"Вступление"}, m.Str)

	_, _, err = Lookup(data, "")
	var fe *FormatError
	assert.True(t, errors.As(err, &fe), err)
}

func TestEncodeDuplicate(t *testing.T) {
	f := &File{Messages: []*Message{{ID: "a", Str: []string{"1"}}, {ID: "a", Str: []string{"2"}}}}
	assert.Error(t, Encode(&bytes.Buffer{}, f))
	// Same id with a context is a different original
	f.Messages[1].Context = "ctx"
	assert.NoError(t, Encode(&bytes.Buffer{}, f))
}

func TestDecodeErrors(t *testing.T) {
	valid := encode(t, sample())
	le := binary.LittleEndian
	corrupt := func(fn func(b []byte) []byte) []byte {
		b := append([]byte(nil), valid...)
		return fn(b)
	}
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", valid[:20]},
		{"bad magic", corrupt(func(b []byte) []byte { le.PutUint32(b, 0x12345678); return b })},
		{"revision", corrupt(func(b []byte) []byte { le.PutUint32(b[4:], 2<<16); return b })},
		{"too many strings", corrupt(func(b []byte) []byte { le.PutUint32(b[8:], 1<<20); return b })},
		{"originals offset", corrupt(func(b []byte) []byte { le.PutUint32(b[12:], uint32(len(b))); return b })},
		{"translations offset", corrupt(func(b []byte) []byte { le.PutUint32(b[16:], uint32(len(b)-4)); return b })},
		{"hash offset", corrupt(func(b []byte) []byte { le.PutUint32(b[24:], uint32(len(b))); return b })},
		{"hash entry", corrupt(func(b []byte) []byte { le.PutUint32(b[le.Uint32(b[24:]):], 99); return b })},
		{"string offset", corrupt(func(b []byte) []byte { le.PutUint32(b[32:], uint32(len(b))); return b })},
		{"string length", corrupt(func(b []byte) []byte { le.PutUint32(b[28:], 1<<30); return b })},
		{"not terminated", corrupt(func(b []byte) []byte { return b[:len(b)-1] })},
		{"truncated", valid[:len(valid)/2]},
		{"duplicate", corrupt(func(b []byte) []byte {
			// point the second original at the first one
			copy(b[36:44], b[28:36])
			return b
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.Error(t, err)
			var fe *FormatError
			assert.True(t, errors.As(err, &fe), err)
		})
	}
}

func TestDecodeRevision1(t *testing.T) {
	data := encode(t, sample())
	binary.LittleEndian.PutUint32(data[4:], 1)
	f, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), f.Revision)
}

func TestSplitMessage(t *testing.T) {
	m := splitMessage("ctx\x04one\x00many", "uno\x00muchos")
	assert.Equal(t, &Message{Context: "ctx", ID: "one", IDPlural: "many", Str: []string{"uno", "muchos"}}, m)
	m = splitMessage("plain", "simple")
	assert.Equal(t, &Message{ID: "plain", Str: []string{"simple"}}, m)
}

func BenchmarkLookup(b *testing.B) {
	data := encode(b, sample())
	b.ResetTimer()
	for ii := 0; ii < b.N; ii++ {
		if _, ok, _ := Lookup(data, "Introduction"); !ok {
			b.Fatal("not found")
		}
	}
}
