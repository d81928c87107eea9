package formula

import (
	"strings"
	"testing"
)

type Test struct {
	Expr  string
	N     int
	Tests map[int]int
}

var formulas = []*Test{
	// Asian
	{"0", 1, map[int]int{0: 0, 1: 0, 2: 0, 100: 0}},
	// Romanic
	{"n != 1", 2, map[int]int{0: 1, 1: 0, 2: 1, 100: 1}},
	// Brazilian Portuguese
	{"n > 1", 2, map[int]int{0: 0, 1: 0, 2: 1, 100: 1}},
	// Latvian
	{"n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2", 3, map[int]int{1: 0, 21: 0, 11: 1, 0: 2}},
	// Irish
	{"n==1 ? 0 : n==2 ? 1 : 2", 3, map[int]int{1: 0, 2: 1, 3: 2, 4: 2, 300: 2}},
	// Romanian
	{"n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2", 3, map[int]int{1: 0, 0: 1, 10: 1, 20: 2, 30: 2}},
	// Lithuanian
	{"n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2", 3, map[int]int{0: 2, 1: 0, 2: 1, 3: 1, 11: 2, 12: 2, 15: 2, 22: 1}},
	// Russian
	{"n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2", 3, map[int]int{1: 0, 11: 2, 14: 2, 34: 1}},
	// Czech
	{"(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2", 3, map[int]int{1: 0, 2: 1, 3: 1, 4: 1, 10: 2, 5: 2}},
	// Polish
	{"n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2", 3, map[int]int{1: 0, 0: 2, 5: 2, 8: 2, 12: 2, 15: 2, 22: 1, 103: 1}},
	// Slovenian
	{"n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3", 4, map[int]int{0: 3, 1: 0, 101: 0, 2: 1, 3: 2, 4: 2, 204: 2}},
	// Arabic
	{"n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5", 6, map[int]int{0: 0, 1: 1, 2: 2, 5: 3, 111: 4, 100: 5, 102: 5}},
	// Some made up formulas
	{"n + 7 < 10 ? 1 : 0", 2, map[int]int{0: 1, 2: 1, 3: 0}},
	{"n - 5 > 0", 2, map[int]int{0: 0, 5: 0, 6: 1}},
	{"n / 10 > 0 ? 1 : 0", 2, map[int]int{0: 0, 9: 0, 10: 1}},
	{"n * 3 >= 9", 2, map[int]int{0: 0, 2: 0, 3: 1, 4: 1}},
	{"!(n == 1)", 2, map[int]int{0: 1, 1: 0, 2: 1}},
	{"-n + 2 > 0", 2, map[int]int{0: 1, 1: 1, 2: 0}},
	{"n % 0", 2, map[int]int{0: 0, 7: 0}},
}

func TestCompile(t *testing.T) {
	for _, v := range formulas {
		p, err := Compile(v.Expr)
		if err != nil {
			t.Error(err)
			continue
		}
		for k, val := range v.Tests {
			if x := p.Eval(k); x != val {
				t.Errorf("Bad result for %q with value %d. Want %d, got %d.", v.Expr, k, val, x)
			}
			if x := p.Formula()(k); x != val {
				t.Errorf("Bad formula result for %q with value %d. Want %d, got %d.", v.Expr, k, val, x)
			}
		}
	}
}

func TestNativeFormulasMatchInterpreter(t *testing.T) {
	for expr, fn := range formulasTable {
		p, err := Compile(expr)
		if err != nil {
			t.Fatalf("table formula %q does not compile: %s", expr, err)
		}
		for n := 0; n <= 1000; n++ {
			if want, got := p.Eval(n), fn(n); want != got {
				t.Fatalf("formula %q with value %d: interpreted %d, native %d", expr, n, want, got)
			}
		}
	}
}

func TestCompileErrors(t *testing.T) {
	bad := []string{
		"",
		"n ==",
		"n ? 1",
		"(n == 1",
		"n == 1)",
		"x == 1",
		"nn",
		"n == 1 ; 0",
		"n = 1",
		"n & 1",
	}
	for _, v := range bad {
		if _, err := Compile(v); err == nil {
			t.Errorf("expecting an error compiling %q", v)
		}
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		text     string
		formula  string
		nplurals int
	}{
		{"nplurals=2; plural=n == 1 ? 0 : 1;", "n == 1 ? 0 : 1", 2},
		{"nplurals=2; plural=(n != 1);", "n != 1", 2},
		{" NPLURALS = 1 ; PLURAL = 0 ", "0", 1},
		{"nplurals=3; plural=(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2;", "(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2", 3},
		{"nplurals=2;\\\n plural=(n > 1);", "n > 1", 2},
		{"plural=((n%10==1));nplurals=2", "n%10==1", 2},
	}
	for _, tt := range tests {
		formula, nplurals, err := Extract(tt.text)
		if err != nil {
			t.Errorf("Extract(%q): %s", tt.text, err)
			continue
		}
		if formula != tt.formula || nplurals != tt.nplurals {
			t.Errorf("Extract(%q) = %q, %d; want %q, %d", tt.text, formula, nplurals, tt.formula, tt.nplurals)
		}
	}
	for _, text := range []string{"", "plural=n!=1;", "nplurals=two; plural=n!=1;", "nplurals=0; plural=0;", "nplurals=2;", "nplurals=2; foo=1; plural=0;"} {
		if _, _, err := Extract(text); err == nil {
			t.Errorf("expecting an error extracting %q", text)
		}
	}
}

func TestRuleIndex(t *testing.T) {
	r := MustMake("nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);")
	if r.NPlurals() != 3 {
		t.Fatalf("NPlurals() = %d, want 3", r.NPlurals())
	}
	want := map[int]int{0: 2, 1: 0, 2: 1, 4: 1, 5: 2, 11: 2, 12: 2, 21: 0, 22: 1, 25: 2, 101: 0, 111: 2, -1: 0, -22: 1}
	for n, idx := range want {
		if got := r.Index(n); got != idx {
			t.Errorf("Index(%d) = %d, want %d", n, got, idx)
		}
	}
	// out of range results select the first form
	r = MustMake("nplurals=2; plural=n;")
	if got := r.Index(7); got != 0 {
		t.Errorf("Index(7) = %d, want 0", got)
	}
	if !strings.HasPrefix(r.String(), "nplurals=2; plural=(n)") {
		t.Errorf("String() = %q", r.String())
	}
}

func TestRuleStringRoundTrip(t *testing.T) {
	for _, v := range formulas {
		r, err := Make("nplurals=" + string(rune('0'+v.N)) + "; plural=" + v.Expr + ";")
		if err != nil {
			t.Fatal(err)
		}
		r2, err := Make(r.String())
		if err != nil {
			t.Fatalf("reparsing %q: %s", r.String(), err)
		}
		for n := 0; n < 200; n++ {
			if r.Index(n) != r2.Index(n) {
				t.Fatalf("%q and %q disagree for %d", r, r2, n)
			}
		}
	}
}

func BenchmarkInterpreted(b *testing.B) {
	p, err := Compile("n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2")
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for ii := 0; ii < b.N; ii++ {
		p.Eval(ii)
	}
}

func BenchmarkNative(b *testing.B) {
	for ii := 0; ii < b.N; ii++ {
		russianFormula(ii)
	}
}
