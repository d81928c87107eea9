package test

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

type MockContext struct {
	Ctx context.Context
}

func (ctx *MockContext) Context() context.Context {
	return ctx.Ctx
}

func (ctx *MockContext) SetValue(key interface{}, value interface{}) {
	ctx.Ctx = context.WithValue(ctx.Ctx, key, value)
}

func (ctx *MockContext) Deadline() (time.Time, bool) {
	return ctx.Ctx.Deadline()
}

func (ctx *MockContext) Done() <-chan struct{} {
	return ctx.Ctx.Done()
}

func (ctx *MockContext) Err() error {
	return ctx.Ctx.Err()
}

func (ctx *MockContext) Value(key interface{}) interface{} {
	return ctx.Ctx.Value(key)
}

// RussianPO is a small Russian catalog with a three form plural rule.
const RussianPO = `# Russian translation of the installation guide.
msgid ""
msgstr ""
"Project-Id-Version: guide 1.0\n"
"Language: ru\n"
"MIME-Version: 1.0\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Content-Transfer-Encoding: 8bit\n"
"Plural-Forms: nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && "
"n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);\n"
"Generated-By: Babel 2.9.1\n"

#: ../../source/install.rst:2
msgid "Installing"
msgstr "Установка"

#: ../../source/index.rst:5
msgid "Introduction"
msgstr "Вступление"

msgctxt "menu"
msgid "Open"
msgstr "Открыть"

msgid "%d file"
msgid_plural "%d files"
msgstr[0] "%d файл"
msgstr[1] "%d файла"
msgstr[2] "%d файлов"

#, fuzzy
msgid "Uninstalling"
msgstr "Удаление"

msgid "Not translated yet"
msgstr ""

#~ msgid "Removed"
#~ msgstr "Удалено"
`

// SpanishPO uses the Plural-Forms gettext assumes for Spanish.
const SpanishPO = `msgid ""
msgstr ""
"Language: es\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=(n != 1);\n"

msgid "Installing"
msgstr "Instalando"

msgid "Introduction"
msgstr "Introducción"

msgid "%d file"
msgid_plural "%d files"
msgstr[0] "%d archivo"
msgstr[1] "%d archivos"

msgid "file %s not found: %w"
msgstr "archivo %s no encontrado: %w"

msgid "cannot open %s"
msgstr "no se puede abrir %s"
`

// EnglishPO has no Plural-Forms, so the English default applies.
const EnglishPO = `msgid ""
msgstr ""
"Language: en\n"
"Content-Type: text/plain; charset=UTF-8\n"

msgid "Installing"
msgstr "Installing"

msgid "Introduction"
msgstr "Introduction"
`

// Locales maps file names to the fixture catalogs.
var Locales = map[string]string{
	"ru.po": RussianPO,
	"es.po": SpanishPO,
	"en.po": EnglishPO,
}

// WriteLocales writes files (name to content) under dir, creating
// directories as needed.
func WriteLocales(dir string, files map[string]string) error {
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			return err
		}
	}
	return nil
}
