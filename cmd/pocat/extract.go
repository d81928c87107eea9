package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/loopcontext/pocat"
)

const defaultPackage = "github.com/loopcontext/pocat"

// extractConfig holds flags for the extract command.
type extractConfig struct {
	commonFlags
	paths        []string
	out          string
	pkg          string
	includeTests bool
	excludeDirs  string
	now          func() time.Time
}

func usageExtract(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(os.Stderr, `usage: pocat extract [options] [paths]

Extract writes a .pot template with the messages passed as literals to
Gettext, PGettext, NGettext, NPGettext, Errorf and WrapError in Go files
importing the pocat package. Comments starting with "///" on the line
before a call are kept as extracted comments for translators.

If no paths are provided, scans the current directory.

Flags:
`)
		fs.PrintDefaults()
	}
}

func runExtractArgs(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	fs.Usage = usageExtract(fs)
	var cfg extractConfig
	cfg.register(fs)
	fs.StringVar(&cfg.out, "o", "", "Output template (default stdout).")
	fs.StringVar(&cfg.pkg, "pkg", "", "Import path of the translation package (default "+defaultPackage+").")
	fs.BoolVar(&cfg.includeTests, "include-tests", false, "Include _test.go files.")
	fs.StringVar(&cfg.excludeDirs, "exclude", "vendor,testdata", "Comma-separated dir names to skip.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.paths = fs.Args()
	if len(cfg.paths) == 0 {
		cfg.paths = []string{"."}
	}
	if err := cfg.setup(); err != nil {
		return err
	}
	if cfg.pkg == "" {
		cfg.pkg = cfg.file.Package
	}
	return runExtract(&cfg)
}

// callSpec describes where the message arguments of a translation call
// are. Calls with one argument fewer than the full form are the Catalog
// methods, which take no context.Context.
type callSpec struct {
	args     int // arguments after the context, variadic calls excluded
	start    int // position of the first message argument of the full form
	context  bool
	plural   bool
	variadic bool
}

var callSpecs = map[string]callSpec{
	"Gettext":   {args: 1, start: 1},
	"PGettext":  {args: 2, start: 1, context: true},
	"NGettext":  {args: 3, start: 1, plural: true},
	"NPGettext": {args: 4, start: 1, context: true, plural: true},
	"Errorf":    {start: 1, variadic: true},
	"WrapError": {start: 2, variadic: true},
}

// messageExtractor collects messages from Go files via AST.
type messageExtractor struct {
	pkgImport string
	pkgName   string // local name in current file (e.g. "pocat")
	fset      *token.FileSet
	file      *ast.File
	entries   []*pocat.Entry
	index     map[string]*pocat.Entry
	warn      func(pos token.Position, msg string)
}

func newMessageExtractor(pkgImport string) *messageExtractor {
	if pkgImport == "" {
		pkgImport = defaultPackage
	}
	return &messageExtractor{
		pkgImport: pkgImport,
		index:     make(map[string]*pocat.Entry),
		warn:      func(token.Position, string) {},
	}
}

func (e *messageExtractor) extractFromFile(path string, src []byte) error {
	e.fset = token.NewFileSet()
	f, err := parser.ParseFile(e.fset, path, src, parser.ParseComments)
	if err != nil {
		return err
	}
	e.pkgName = e.pkgImportName(f)
	if e.pkgName == "" {
		return nil
	}
	e.file = f
	ast.Walk(e, f)
	return nil
}

func (e *messageExtractor) pkgImportName(file *ast.File) string {
	for _, imp := range file.Imports {
		if imp.Path == nil {
			continue
		}
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || path != e.pkgImport {
			continue
		}
		if imp.Name != nil {
			return imp.Name.Name
		}
		return filepath.Base(path)
	}
	return ""
}

func (e *messageExtractor) Visit(node ast.Node) ast.Visitor {
	call, ok := node.(*ast.CallExpr)
	if !ok {
		return e
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return e
	}
	spec, ok := callSpecs[sel.Sel.Name]
	if !ok {
		return e
	}
	start := spec.start
	if !spec.variadic {
		switch len(call.Args) {
		case spec.args + 1:
		case spec.args:
			start--
		default:
			return e
		}
	}
	if len(call.Args) <= start {
		return e
	}
	msg := pocat.Entry{}
	args := call.Args[start:]
	if spec.context {
		ctx, ok := e.stringArg(args[0])
		if !ok {
			return e
		}
		msg.Context = ctx
		args = args[1:]
	}
	id, ok := e.stringArg(args[0])
	if !ok || id == "" {
		return e
	}
	msg.ID = id
	if spec.plural {
		if msg.IDPlural, ok = e.stringArg(args[1]); !ok {
			return e
		}
	}
	e.add(msg, e.fset.Position(call.Pos()))
	return e
}

func (e *messageExtractor) stringArg(expr ast.Expr) (string, bool) {
	s, ok := extractString(expr)
	if !ok {
		e.warn(e.fset.Position(expr.Pos()), "skipping message which is not a string literal")
	}
	return s, ok
}

// extractString evaluates string literals and their concatenations.
func extractString(expr ast.Expr) (string, bool) {
	switch t := expr.(type) {
	case *ast.BasicLit:
		if t.Kind == token.STRING {
			s, err := strconv.Unquote(t.Value)
			return s, err == nil
		}
	case *ast.BinaryExpr:
		if t.Op == token.ADD {
			x, ok := extractString(t.X)
			if !ok {
				return "", false
			}
			y, ok := extractString(t.Y)
			return x + y, ok
		}
	case *ast.ParenExpr:
		return extractString(t.X)
	}
	return "", false
}

func (e *messageExtractor) add(msg pocat.Entry, pos token.Position) {
	ref := fmt.Sprintf("%s:%d", filepath.ToSlash(pos.Filename), pos.Line)
	comments := e.comments(pos)
	if prev, ok := e.index[msg.Key()]; ok {
		if prev.IDPlural != msg.IDPlural {
			e.warn(pos, fmt.Sprintf("plural %q differs from %q, keeping the first", msg.IDPlural, prev.IDPlural))
		}
		prev.References = append(prev.References, ref)
		prev.ExtractedComments = append(prev.ExtractedComments, comments...)
		return
	}
	msg.References = []string{ref}
	msg.ExtractedComments = comments
	if strings.Contains(msg.ID, "%") {
		msg.Flags = []string{"c-format"}
	}
	e.entries = append(e.entries, &msg)
	e.index[msg.Key()] = &msg
}

// comments returns the "///" comment lines ending on the line before pos.
func (e *messageExtractor) comments(pos token.Position) []string {
	for _, group := range e.file.Comments {
		end := e.fset.Position(group.End())
		if end.Line != pos.Line-1 && end.Line != pos.Line {
			continue
		}
		var lines []string
		for _, c := range group.List {
			if text := strings.TrimPrefix(c.Text, "///"); text != c.Text {
				lines = append(lines, strings.TrimSpace(text))
			}
		}
		if len(lines) > 0 {
			return lines
		}
	}
	return nil
}

// template returns the extracted messages as a .pot catalog.
func (e *messageExtractor) template(now time.Time) (*pocat.Catalog, error) {
	h := pocat.Header{Flags: []string{pocat.FlagFuzzy}}
	h.Set(pocat.HeaderProjectID, "PACKAGE VERSION")
	h.Set(pocat.HeaderPOTCreationDate, now.Format("2006-01-02 15:04-0700"))
	h.Set(pocat.HeaderPORevisionDate, "YEAR-MO-DA HO:MI+ZONE")
	h.Set(pocat.HeaderLanguage, "")
	h.Set(pocat.HeaderMIMEVersion, "1.0")
	h.Set(pocat.HeaderContentType, "text/plain; charset=UTF-8")
	h.Set(pocat.HeaderTransferEnc, "8bit")
	h.Set(pocat.HeaderPluralForms, "nplurals=INTEGER; plural=EXPRESSION;")
	c, err := pocat.NewCatalog(h)
	if err != nil {
		return nil, err
	}
	for _, msg := range e.entries {
		m := *msg
		if m.IsPlural() {
			m.Translations = make([]string, c.NPlurals())
		}
		if err := c.Add(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func runExtract(cfg *extractConfig) error {
	excludeSet := make(map[string]struct{})
	for _, d := range strings.Split(cfg.excludeDirs, ",") {
		d = strings.TrimSpace(d)
		if d != "" {
			excludeSet[d] = struct{}{}
		}
	}
	ext := newMessageExtractor(cfg.pkg)
	ext.warn = func(pos token.Position, msg string) {
		cfg.log.Debug().Str("pos", pos.String()).Msg(msg)
	}
	extractPath := func(p string) error {
		if filepath.Ext(p) != ".go" {
			return nil
		}
		if !cfg.includeTests && strings.HasSuffix(p, "_test.go") {
			return nil
		}
		src, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return ext.extractFromFile(p, src)
	}
	for _, path := range cfg.paths {
		path = filepath.Clean(path)
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if err := extractPath(path); err != nil {
				return err
			}
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if _, skip := excludeSet[info.Name()]; skip && p != path {
					return filepath.SkipDir
				}
				return nil
			}
			return extractPath(p)
		})
		if err != nil {
			return err
		}
	}
	now := time.Now
	if cfg.now != nil {
		now = cfg.now
	}
	tmpl, err := ext.template(now())
	if err != nil {
		return err
	}
	cfg.log.Info().Int("messages", tmpl.Len()).Msg("extracted messages")
	if cfg.out == "" {
		data, err := tmpl.MarshalPO()
		if err != nil {
			return err
		}
		_, err = cfg.output().Write(data)
		return err
	}
	return tmpl.WriteFile(cfg.out)
}
