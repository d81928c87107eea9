package mo

import "sort"

// hashString is the hashpjw function used by GNU gettext for MO hash
// tables. Like the C version it stops at the first NUL, so a plural
// original hashes as its msgid.
func hashString(s string) uint32 {
	var hval uint32
	for ii := 0; ii < len(s) && s[ii] != 0; ii++ {
		hval <<= 4
		hval += uint32(s[ii])
		if g := hval & (0xf << 28); g != 0 {
			hval ^= g >> 24
			hval ^= g
		}
	}
	return hval
}

// tableSize returns the number of hash slots msgfmt uses for n strings.
func tableSize(n uint32) uint32 {
	size := nextPrime(n * 4 / 3)
	if size < 3 {
		size = 3
	}
	return size
}

func nextPrime(seed uint32) uint32 {
	seed |= 1
	for !isPrime(seed) {
		seed += 2
	}
	return seed
}

func isPrime(candidate uint32) bool {
	// candidate is odd
	if candidate < 3 {
		return false
	}
	for div := uint32(3); div*div <= candidate; div += 2 {
		if candidate%div == 0 {
			return false
		}
	}
	return true
}

// hashTable builds the open addressing table, storing the 1 based
// index of each original. 0 marks an empty slot.
func hashTable(pairs []pair, size uint32) []uint32 {
	table := make([]uint32, size)
	for ii, p := range pairs {
		h := hashString(p.key)
		idx := h % size
		incr := 1 + h%(size-2)
		for table[idx] != 0 {
			if idx >= size-incr {
				idx -= size - incr
			} else {
				idx += incr
			}
		}
		table[idx] = uint32(ii) + 1
	}
	return table
}

// lookup finds key through the hash table, the way the gettext runtime
// does. It returns the 0 based string index.
func (d *decoder) lookup(key string) (uint32, bool, error) {
	size := d.hashSize
	h := hashString(key)
	idx := h % size
	incr := 1 + h%(size-2)
	for probes := uint32(0); probes < size; probes++ {
		v := d.word(d.hashOff + 4*idx)
		if v == 0 {
			return 0, false, nil
		}
		s, err := d.original(v - 1)
		if err != nil {
			return 0, false, err
		}
		if s == key {
			return v - 1, true, nil
		}
		if idx >= size-incr {
			idx -= size - incr
		} else {
			idx += incr
		}
	}
	return 0, false, nil
}

// search finds key by binary search over the sorted originals.
func (d *decoder) search(key string) (uint32, bool, error) {
	var err error
	idx := sort.Search(int(d.n), func(i int) bool {
		s, serr := d.original(uint32(i))
		if serr != nil {
			err = serr
			return true
		}
		return s >= key
	})
	if err != nil {
		return 0, false, err
	}
	if idx >= int(d.n) {
		return 0, false, nil
	}
	s, err := d.original(uint32(idx))
	if err != nil || s != key {
		return 0, false, err
	}
	return uint32(idx), true, nil
}

// Lookup returns the message whose original string is key (see
// Message.Key) without decoding the whole file: only the header and the
// tables are validated, and the strings visited are read from data. The
// hash table is used when present. Files whose table was built with
// another hash are still served by a binary search over the originals.
func Lookup(data []byte, key string) (*Message, bool, error) {
	d, err := newDecoder(data)
	if err != nil {
		return nil, false, err
	}
	var (
		idx   uint32
		found bool
	)
	if d.hashSize >= 3 {
		if idx, found, err = d.lookup(key); err != nil {
			return nil, false, err
		}
	}
	if !found {
		if idx, found, err = d.search(key); err != nil || !found {
			return nil, false, err
		}
	}
	m, err := d.message(idx, key)
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}
