package pocat_test

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/leonelquinteros/gotext"
	"github.com/loopcontext/pocat"
	"github.com/loopcontext/pocat/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v2"
)

func TestPORoundTrip(t *testing.T) {
	c := russianCatalog(t)
	data, err := c.MarshalPO()
	require.NoError(t, err)
	again, err := pocat.ParsePO(bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, c.Equal(again))
	assert.Equal(t, c.Stats(), again.Stats())
	assert.Equal(t, c.Header().Comments, again.Header().Comments)

	e, ok := again.Lookup("", "Installing")
	require.True(t, ok)
	assert.Equal(t, []string{"../../source/install.rst:2"}, e.References)

	// writing is stable
	data2, err := again.MarshalPO()
	require.NoError(t, err)
	assert.Equal(t, string(data), string(data2))
}

func TestMORoundTrip(t *testing.T) {
	c := russianCatalog(t)
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		data, err := c.MarshalMO(pocat.MOByteOrder(order))
		require.NoError(t, err)
		fromMO, err := pocat.ParseMO(data)
		require.NoError(t, err)
		assert.True(t, c.Equal(fromMO), "%v", order)
		assert.Equal(t, "Установка", fromMO.Gettext("Installing"))
		assert.Equal(t, "%d файла", fromMO.NGettext("%d file", "%d files", 3))

		// MO to PO and back
		po, err := fromMO.MarshalPO()
		require.NoError(t, err)
		fromPO, err := pocat.ParsePO(bytes.NewReader(po))
		require.NoError(t, err)
		assert.True(t, c.Equal(fromPO))

		// MO to MO
		data2, err := fromMO.MarshalMO(pocat.MOByteOrder(order))
		require.NoError(t, err)
		assert.Equal(t, data, data2)
	}
}

func TestMOSkipOptions(t *testing.T) {
	c := russianCatalog(t)
	data, err := c.MarshalMO(pocat.SkipFuzzy(), pocat.SkipUntranslated(), pocat.WithoutHashTable())
	require.NoError(t, err)
	fromMO, err := pocat.ParseMO(data)
	require.NoError(t, err)
	assert.Equal(t, 4, fromMO.Len())
	_, ok := fromMO.Lookup("", "Uninstalling")
	assert.False(t, ok)
	_, ok = fromMO.Lookup("", "Not translated yet")
	assert.False(t, ok)
}

func TestYAMLRoundTrip(t *testing.T) {
	c := russianCatalog(t)
	data, err := yaml.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), "language: ru\n")
	assert.Contains(t, string(data), "translations: Установка\n")

	again, err := pocat.ParseYAML(data)
	require.NoError(t, err)
	assert.True(t, c.Equal(again))
	assert.Equal(t, c.Stats(), again.Stats())

	var decoded pocat.Catalog
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.True(t, c.Equal(&decoded))
}

func TestParseYAML(t *testing.T) {
	c, err := pocat.ParseYAML([]byte(`
language: ru
entries:
  - id: Installing
    translations: Установка
  - id: "%d file"
    id_plural: "%d files"
    translations: ["%d файл", "%d файла", "%d файлов"]
  - context: menu
    id: Open
    translations: Открыть
    flags: [fuzzy]
`))
	require.NoError(t, err)
	assert.Equal(t, "ru", c.Language())
	assert.Equal(t, 3, c.NPlurals())
	assert.Equal(t, "Установка", c.Gettext("Installing"))
	assert.Equal(t, "%d файлов", c.NGettext("%d file", "%d files", 5))
	assert.Equal(t, "Open", c.PGettext("menu", "Open"))
}

func TestJSONRoundTrip(t *testing.T) {
	c := russianCatalog(t)
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msgid":"Installing","msgstr":"Установка"`)

	again, err := pocat.ParseJSON(data)
	require.NoError(t, err)
	assert.True(t, c.Equal(again))
	assert.Equal(t, c.Stats(), again.Stats())
	assert.Equal(t, c.Header().Comments, again.Header().Comments)

	e, ok := again.Lookup("", "Installing")
	require.True(t, ok)
	assert.Equal(t, []string{"../../source/install.rst:2"}, e.References)

	var decoded pocat.Catalog
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, c.Equal(&decoded))
}

func TestGotextInterop(t *testing.T) {
	c := russianCatalog(t)

	data, err := c.MarshalMO(pocat.SkipFuzzy())
	require.NoError(t, err)
	mo := gotext.NewMo()
	mo.Parse(data)

	po, err := c.Gotext()
	require.NoError(t, err)

	for _, tr := range []gotext.Translator{mo, po} {
		assert.Equal(t, "Установка", tr.Get("Installing"))
		assert.Equal(t, "Вступление", tr.Get("Introduction"))
		assert.Equal(t, "Открыть", tr.GetC("Open", "menu"))
		for _, n := range []int{1, 2, 5, 21} {
			assert.Equal(t, c.NGettext("%d file", "%d files", n), tr.GetN("%d file", "%d files", n), "n=%d", n)
		}
	}

	loc, err := c.GotextLocale("guide")
	require.NoError(t, err)
	assert.Equal(t, "Установка", loc.GetD("guide", "Installing"))
}

func TestCorruptCatalogs(t *testing.T) {
	valid, err := russianCatalog(t).MarshalMO()
	require.NoError(t, err)

	outOfRange := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(outOfRange[32:], 0xffffff00)

	badMagic := append([]byte(nil), valid...)
	copy(badMagic, []byte{0, 0, 0, 0})

	badRevision := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badRevision[4:], 2<<16)

	mos := map[string][]byte{
		"empty":          nil,
		"short":          {0xde, 0x12, 0x04, 0x95},
		"bad magic":      badMagic,
		"bad revision":   badRevision,
		"truncated":      valid[:len(valid)-8],
		"header only":    valid[:28],
		"offset too big": outOfRange,
	}
	for name, data := range mos {
		_, err := pocat.ParseMO(data)
		assert.True(t, errors.Is(err, pocat.ErrCorruptCatalog), "%s: %v", name, err)
		var ce *pocat.CorruptError
		assert.True(t, errors.As(err, &ce), name)
	}

	header := "msgid \"\"\nmsgstr \"Language: ru\\n\"\n\n"
	pos := map[string]string{
		"syntax":       "msgid \"unterminated\n",
		"plural forms": "msgid \"\"\nmsgstr \"Plural-Forms: nplurals=3; plural=(n%10==;\\n\"\n",
		"plural count": header + "msgid \"a\"\nmsgid_plural \"b\"\nmsgstr[0] \"x\"\nmsgstr[1] \"y\"\n",
		"duplicate":    header + "msgid \"a\"\nmsgstr \"x\"\n\nmsgid \"a\"\nmsgstr \"y\"\n",
		"charset":      "msgid \"\"\nmsgstr \"Content-Type: text/plain; charset=no-such-charset\\n\"\n",
	}
	for name, data := range pos {
		_, err := pocat.ParsePO(strings.NewReader(data))
		assert.True(t, errors.Is(err, pocat.ErrCorruptCatalog), "%s: %v", name, err)
	}
	_, err = pocat.ParsePO(strings.NewReader(pos["duplicate"]))
	assert.True(t, errors.Is(err, pocat.ErrDuplicateEntry))

	_, err = pocat.ParseYAML([]byte("entries: ["))
	assert.True(t, errors.Is(err, pocat.ErrCorruptCatalog))
	_, err = pocat.ParseYAML([]byte("language: ru\nentries:\n  - id: a\n    id_plural: b\n    translations: [x]\n"))
	assert.True(t, errors.Is(err, pocat.ErrCorruptCatalog))
	_, err = pocat.ParseJSON([]byte("{"))
	assert.True(t, errors.Is(err, pocat.ErrCorruptCatalog))
	_, err = pocat.ParseJSON([]byte(`{"entries": 1}`))
	assert.True(t, errors.Is(err, pocat.ErrCorruptCatalog))
}

func TestNonUTF8Charset(t *testing.T) {
	src := strings.Replace(test.RussianPO, "charset=UTF-8", "charset=KOI8-R", 1)
	encoded, err := charmap.KOI8R.NewEncoder().String(src)
	require.NoError(t, err)

	c, err := pocat.ParsePO(strings.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", c.Charset())
	assert.Equal(t, "Установка", c.Gettext("Installing"))

	// MO files are transcoded too
	h := c.Header()
	h.Set(pocat.HeaderContentType, "text/plain; charset=KOI8-R")
	koi := pocat.MustNewCatalog(h)
	for _, e := range c.Entries() {
		for ii, s := range e.Translations {
			e.Translations[ii], err = charmap.KOI8R.NewEncoder().String(s)
			require.NoError(t, err)
		}
		require.NoError(t, koi.Add(e))
	}
	data, err := koi.MarshalMO()
	require.NoError(t, err)
	fromMO, err := pocat.ParseMO(data)
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", fromMO.Charset())
	assert.Equal(t, "Вступление", fromMO.Gettext("Introduction"))
}

func TestNonUTF8CharsetWithTranslator(t *testing.T) {
	encodings := map[string]*charmap.Charmap{
		"KOI8-R":       charmap.KOI8R,
		"windows-1251": charmap.Windows1251,
	}
	for name, enc := range encodings {
		src := strings.Replace(test.RussianPO, "\"Language: ru\\n\"",
			"\"Last-Translator: Иван Петров <ivan@example.com>\\n\"\n\"Language: ru\\n\"", 1)
		src = strings.Replace(src, "charset=UTF-8", "charset="+name, 1)
		encoded, err := enc.NewEncoder().String(src)
		require.NoError(t, err, name)

		c, err := pocat.ParsePO(strings.NewReader(encoded))
		require.NoError(t, err, name)
		assert.Equal(t, "UTF-8", c.Charset(), name)
		assert.Equal(t, "Иван Петров <ivan@example.com>", c.Header().Get("Last-Translator"), name)
		assert.Equal(t, "Вступление", c.Gettext("Introduction"), name)
	}
}

func TestCharsetOnlyFromHeader(t *testing.T) {
	src := strings.Replace(test.RussianPO, "\"Content-Type: text/plain; charset=UTF-8\\n\"\n", "", 1)
	src = strings.Replace(src, "msgid \"Installing\"",
		"#. the page sets charset=windows-1251 for old browsers\nmsgid \"Installing\"", 1)
	require.NotContains(t, src, "Content-Type")

	c, err := pocat.ParsePO(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "Установка", c.Gettext("Installing"))
	assert.Equal(t, "Вступление", c.Gettext("Introduction"))
	assert.Empty(t, c.Header().Get(pocat.HeaderContentType))
}

func TestLoadFile(t *testing.T) {
	c := russianCatalog(t)
	po, err := c.MarshalPO()
	require.NoError(t, err)
	mo, err := c.MarshalMO()
	require.NoError(t, err)
	js, err := c.MarshalJSON()
	require.NoError(t, err)
	ym, err := yaml.Marshal(c)
	require.NoError(t, err)
	gz, err := pocat.Compress(po, pocat.Gzip)
	require.NoError(t, err)
	zst, err := pocat.Compress(mo, pocat.Zstd)
	require.NoError(t, err)

	fsys := fstest.MapFS{
		"ru.po":                         {Data: po},
		"ru.pot":                        {Data: po},
		"ru/LC_MESSAGES/guide.mo":       {Data: mo},
		"ru.json":                       {Data: js},
		"ru.yml":                        {Data: ym},
		"ru.po.gz":                      {Data: gz},
		"ru.mo.zst":                     {Data: zst},
		"broken.mo.gz":                  {Data: mo},
		"notes.txt":                     {Data: []byte("hello")},
		"ru/LC_MESSAGES/guide.mo.extra": {Data: mo},
	}
	for _, name := range []string{"ru.po", "ru.pot", "ru/LC_MESSAGES/guide.mo", "ru.json", "ru.yml", "ru.po.gz", "ru.mo.zst"} {
		loaded, err := pocat.LoadFile(fsys, name)
		require.NoError(t, err, name)
		assert.True(t, c.Equal(loaded), name)
	}

	_, err = pocat.LoadFile(fsys, "broken.mo.gz")
	assert.True(t, errors.Is(err, pocat.ErrCorruptCatalog))
	_, err = pocat.LoadFile(fsys, "notes.txt")
	assert.True(t, errors.Is(err, pocat.ErrUnknownFormat))
	_, err = pocat.LoadFile(fsys, "ru/LC_MESSAGES/guide.mo.extra")
	assert.True(t, errors.Is(err, pocat.ErrUnknownFormat))
	_, err = pocat.LoadFile(fsys, "missing.po")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, pocat.ErrCorruptCatalog))
}

func TestWriteFile(t *testing.T) {
	c := russianCatalog(t)
	dir := t.TempDir()
	for _, name := range []string{"ru.po", "ru.mo", "ru.yaml", "ru.json", "ru.mo.gz", "ru.po.zst"} {
		p := dir + "/" + name
		require.NoError(t, c.WriteFile(p), name)
		loaded, err := pocat.ReadFile(p)
		require.NoError(t, err, name)
		assert.True(t, c.Equal(loaded), name)
	}
	assert.True(t, errors.Is(c.WriteFile(dir+"/ru.txt"), pocat.ErrUnknownFormat))
}

func TestFileFormat(t *testing.T) {
	tests := []struct {
		name   string
		format pocat.Format
		comp   pocat.Compression
		base   string
	}{
		{"ru.po", pocat.FormatPO, pocat.NoCompression, "ru"},
		{"messages.pot", pocat.FormatPO, pocat.NoCompression, "messages"},
		{"dir/pt_BR.mo.gz", pocat.FormatMO, pocat.Gzip, "pt_BR"},
		{"es.yml.zst", pocat.FormatYAML, pocat.Zstd, "es"},
		{"en.json", pocat.FormatJSON, pocat.NoCompression, "en"},
	}
	for _, tt := range tests {
		f, comp, base, err := pocat.FileFormat(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.format, f, tt.name)
		assert.Equal(t, tt.comp, comp, tt.name)
		assert.Equal(t, tt.base, base, tt.name)
	}
	assert.True(t, pocat.IsTemplate("messages.pot.gz"))
	assert.False(t, pocat.IsTemplate("ru.po"))
	_, err := pocat.ParseFormat("xliff")
	assert.True(t, errors.Is(err, pocat.ErrUnknownFormat))
}
