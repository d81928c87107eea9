package test_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/loopcontext/pocat"
	"github.com/loopcontext/pocat/test"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type mockObserver struct {
	mu           sync.Mutex
	fallbacks    []string
	missingLangs []string
	missingKeys  []string
}

func (o *mockObserver) OnLanguageFallback(requestedLang string, resolvedLang string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks = append(o.fallbacks, requestedLang+"->"+resolvedLang)
}

func (o *mockObserver) OnLanguageMissing(lang string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.missingLangs = append(o.missingLangs, lang)
}

func (o *mockObserver) OnMessageMissing(lang string, msgKey string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.missingKeys = append(o.missingKeys, fmt.Sprintf("%s:%s", lang, msgKey))
}

var _ = Describe("Bundle", func() {
	var bundle *pocat.Bundle
	var ctx *test.MockContext

	BeforeEach(func() {
		var err error
		ctx = &test.MockContext{Ctx: context.Background()}
		bundle, err = pocat.NewBundle(pocat.Config{})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		bundle.Close()
	})

	It("should skip templates", func() {
		Expect(bundle.Languages()).To(Equal([]string{"en", "es", "ru"}))
	})

	It("should use the default language without a requested one", func() {
		Expect(bundle.Gettext(ctx, "Installing")).To(Equal("Installing"))
		Expect(bundle.NGettext(ctx, "%d file", "%d files", 1)).To(Equal("%d file"))
	})

	It("should return message in correct language", func() {
		ctx.SetValue("language", "ru")
		Expect(bundle.Gettext(ctx, "Installing")).To(Equal("Установка"))
		Expect(bundle.Gettext(ctx, "Introduction")).To(Equal("Вступление"))
	})

	It("should read language with typed context key", func() {
		ctx.SetValue(pocat.ContextKey("language"), "es")
		Expect(bundle.Gettext(ctx, "Introduction")).To(Equal("Introducción"))
	})

	It("should fallback from regional language to base language", func() {
		ctx.SetValue("language", "es-AR")
		Expect(bundle.Gettext(ctx, "Installing")).To(Equal("Instalando"))
	})

	It("should select plural forms with the catalog rule", func() {
		ctx.SetValue("language", "ru")
		Expect(bundle.NGettext(ctx, "%d file", "%d files", 1)).To(Equal("%d файл"))
		Expect(bundle.NGettext(ctx, "%d file", "%d files", 3)).To(Equal("%d файла"))
		Expect(bundle.NGettext(ctx, "%d file", "%d files", 11)).To(Equal("%d файлов"))
		Expect(bundle.NGettext(ctx, "%d file", "%d files", 21)).To(Equal("%d файл"))

		ctx.SetValue("language", "es")
		Expect(bundle.NGettext(ctx, "%d file", "%d files", 0)).To(Equal("%d archivos"))
	})

	It("should use the context of a message", func() {
		ctx.SetValue("language", "ru")
		Expect(bundle.PGettext(ctx, "menu", "Open")).To(Equal("Открыть"))
		Expect(bundle.Gettext(ctx, "Open")).To(Equal("Open"))
	})

	It("should ignore fuzzy translations", func() {
		ctx.SetValue("language", "ru")
		Expect(bundle.Gettext(ctx, "Uninstalling")).To(Equal("Uninstalling"))
	})

	It("should return error with translated message", func() {
		ctx.SetValue("language", "es")
		err := bundle.Errorf(ctx, "file %s not found: %w", "a.txt", os.ErrNotExist)
		Expect(err.Error()).To(Equal("archivo a.txt no encontrado: file does not exist"))
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())

		castedError := err.(pocat.Error)
		Expect(castedError.MessageID()).To(Equal("file %s not found: %w"))
		Expect(castedError.Language()).To(Equal("es"))
	})

	It("should wrap error", func() {
		err := errors.New("original error")
		ctErr := bundle.WrapError(ctx, err, "cannot open %s", "x")
		Expect(errors.Is(ctErr, err)).To(BeTrue())
		Expect(errors.Unwrap(ctErr)).To(Equal(err))
	})

	It("should reload catalog changes", func() {
		tmpDir, err := os.MkdirTemp("", "pocat-reload-*")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(tmpDir)

		Expect(test.WriteLocales(tmpDir, map[string]string{"en.po": test.EnglishPO})).To(Succeed())
		custom, err := pocat.NewBundle(pocat.Config{ResourcePath: tmpDir})
		Expect(err).NotTo(HaveOccurred())
		defer custom.Close()

		updated := strings.Replace(test.EnglishPO, `msgstr "Installing"`, `msgstr "Setting up"`, 1)
		Expect(test.WriteLocales(tmpDir, map[string]string{"en.po": updated})).To(Succeed())
		Expect(custom.Gettext(ctx, "Installing")).To(Equal("Installing"))

		Expect(pocat.Reload(custom)).To(Succeed())
		Expect(custom.Gettext(ctx, "Installing")).To(Equal("Setting up"))
	})

	It("should load the LC_MESSAGES layout", func() {
		tmpDir, err := os.MkdirTemp("", "pocat-layout-*")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(tmpDir)

		ru, err := pocat.ParsePO(strings.NewReader(test.RussianPO))
		Expect(err).NotTo(HaveOccurred())
		Expect(os.MkdirAll(filepath.Join(tmpDir, "ru", "LC_MESSAGES"), 0o755)).To(Succeed())
		Expect(ru.WriteFile(filepath.Join(tmpDir, "ru", "LC_MESSAGES", "guide.mo"))).To(Succeed())

		custom, err := pocat.NewBundle(pocat.Config{ResourcePath: tmpDir, Domain: "guide"})
		Expect(err).NotTo(HaveOccurred())
		defer custom.Close()

		ctx.SetValue("language", "ru")
		Expect(custom.Gettext(ctx, "Installing")).To(Equal("Установка"))
	})

	It("should fail on corrupt catalogs", func() {
		tmpDir, err := os.MkdirTemp("", "pocat-corrupt-*")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(tmpDir)

		Expect(test.WriteLocales(tmpDir, map[string]string{"ru.mo": "\xde\x12\x04\x95garbage"})).To(Succeed())
		_, err = pocat.NewBundle(pocat.Config{ResourcePath: tmpDir})
		Expect(errors.Is(err, pocat.ErrCorruptCatalog)).To(BeTrue())
	})

	It("should expose observability counters for fallback and misses", func() {
		observer := &mockObserver{}
		observed, err := pocat.NewBundle(pocat.Config{
			DefaultLanguage:   "en",
			FallbackLanguages: []string{"es"},
			Observer:          observer,
		})
		Expect(err).NotTo(HaveOccurred())

		ctx.SetValue("language", "es-MX")
		Expect(observed.Gettext(ctx, "Installing")).To(Equal("Instalando"))

		ctx.SetValue("language", "pt-BR")
		Expect(observed.Gettext(ctx, "Unknown message")).To(Equal("Unknown message"))

		stats, err := pocat.SnapshotStats(observed)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.LanguageFallbacks).To(HaveKeyWithValue("es-mx->es", 1))
		Expect(stats.MissingMessages).To(HaveKeyWithValue("es:Unknown message", 1))

		observed.Close()
		observer.mu.Lock()
		defer observer.mu.Unlock()
		Expect(strings.Join(observer.fallbacks, ",")).To(ContainSubstring("es-mx->es"))
		Expect(observer.missingKeys).To(ContainElement("es:Unknown message"))
	})

	It("should be safe under concurrent reads and reloads", func() {
		const (
			readers     = 12
			readerIters = 200
			reloads     = 10
		)

		errCh := make(chan error, readers+reloads)
		var wg sync.WaitGroup

		for i := 0; i < readers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c := context.WithValue(context.Background(), "language", "ru")
				for j := 0; j < readerIters; j++ {
					if got := bundle.Gettext(c, "Installing"); got != "Установка" {
						errCh <- fmt.Errorf("unexpected translation %q", got)
						return
					}
				}
			}()
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < reloads; i++ {
				if err := bundle.Reload(); err != nil {
					errCh <- err
					return
				}
			}
		}()

		wg.Wait()
		close(errCh)

		for err := range errCh {
			Expect(err).NotTo(HaveOccurred())
		}
	})
})
