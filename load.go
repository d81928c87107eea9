package pocat

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Format identifies a catalog file format.
type Format int

const (
	FormatPO Format = iota + 1
	FormatMO
	FormatYAML
	FormatJSON
)

var formatNames = map[Format]string{
	FormatPO:   "po",
	FormatMO:   "mo",
	FormatYAML: "yaml",
	FormatJSON: "json",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext returns the file extension of the format, including the dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// ParseFormat returns the format named by s, which may also be a file
// extension with or without the leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "po", "pot":
		return FormatPO, nil
	case "mo", "gmo":
		return FormatMO, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Compression is the compression applied to a catalog file.
type Compression int

const (
	NoCompression Compression = iota
	Gzip
	Zstd
)

// FileFormat returns the format and compression of a file from its
// name, e.g. "ru.po.gz" is (FormatPO, Gzip). base is the name without
// the format and compression extensions.
func FileFormat(name string) (f Format, comp Compression, base string, err error) {
	base = path.Base(strings.ReplaceAll(name, "\\", "/"))
	switch path.Ext(base) {
	case ".gz":
		comp = Gzip
	case ".zst":
		comp = Zstd
	}
	if comp != NoCompression {
		base = strings.TrimSuffix(base, path.Ext(base))
	}
	ext := path.Ext(base)
	if ext == "" {
		return 0, comp, base, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	if f, err = ParseFormat(ext); err != nil {
		return 0, comp, base, err
	}
	return f, comp, strings.TrimSuffix(base, ext), nil
}

// IsTemplate reports whether name is a PO template (.pot).
func IsTemplate(name string) bool {
	base := strings.TrimSuffix(strings.TrimSuffix(name, ".gz"), ".zst")
	return strings.EqualFold(path.Ext(base), ".pot")
}

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
	zstdErr  error
)

func zstdCodec() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		// nil writer and reader: only EncodeAll and DecodeAll are used
		if zstdEnc, zstdErr = zstd.NewWriter(nil); zstdErr != nil {
			return
		}
		zstdDec, zstdErr = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
	return zstdEnc, zstdDec, zstdErr
}

// Decompress returns data decompressed with comp.
func Decompress(data []byte, comp Compression) ([]byte, error) {
	switch comp {
	case Gzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case Zstd:
		_, dec, err := zstdCodec()
		if err != nil {
			return nil, err
		}
		return dec.DecodeAll(data, nil)
	}
	return data, nil
}

// Compress returns data compressed with comp.
func Compress(data []byte, comp Compression) ([]byte, error) {
	switch comp {
	case Gzip:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case Zstd:
		enc, _, err := zstdCodec()
		if err != nil {
			return nil, err
		}
		return enc.EncodeAll(data, nil), nil
	}
	return data, nil
}

// Parse decodes a catalog in format f. Errors caused by malformed data
// match ErrCorruptCatalog.
func Parse(data []byte, f Format) (*Catalog, error) {
	return parse(data, f, "")
}

func parse(data []byte, f Format, source string) (*Catalog, error) {
	switch f {
	case FormatPO:
		return parsePO(data, source)
	case FormatMO:
		return parseMO(data, source)
	case FormatYAML:
		return parseYAML(data, source)
	case FormatJSON:
		return parseJSON(data, source)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
}

// Marshal encodes the catalog in format f. Options only apply to MO.
func (c *Catalog) Marshal(f Format, opts ...WriteOption) ([]byte, error) {
	switch f {
	case FormatPO:
		return c.MarshalPO()
	case FormatMO:
		return c.MarshalMO(opts...)
	case FormatYAML:
		return marshalYAML(c)
	case FormatJSON:
		return c.MarshalJSON()
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
}

// LoadFile reads the catalog name from fsys, choosing the codec from the
// file extension. Files ending in .gz or .zst are decompressed first.
func LoadFile(fsys fs.FS, name string) (*Catalog, error) {
	f, comp, _, err := FileFormat(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	if data, err = Decompress(data, comp); err != nil {
		return nil, &CorruptError{Source: name, Reason: "decompressing", Err: err}
	}
	return parse(data, f, name)
}

// ReadFile is like LoadFile, for a path of the local file system.
func ReadFile(name string) (*Catalog, error) {
	dir, file := path.Split(strings.ReplaceAll(name, "\\", "/"))
	if dir == "" {
		dir = "."
	}
	c, err := LoadFile(os.DirFS(dir), file)
	if err != nil {
		return nil, withSource(err, name)
	}
	return c, nil
}

// WriteFile writes the catalog to name in the format and compression
// given by its extensions.
func (c *Catalog) WriteFile(name string, opts ...WriteOption) error {
	f, comp, _, err := FileFormat(name)
	if err != nil {
		return err
	}
	data, err := c.Marshal(f, opts...)
	if err != nil {
		return err
	}
	if data, err = Compress(data, comp); err != nil {
		return err
	}
	return os.WriteFile(name, data, 0o644)
}
