// Package plural provides CLDR plural form selection for a given language and count,
// and the Plural-Forms headers gettext conventionally uses for each language.
// Form names: "zero", "one", "two", "few", "many", "other".
package plural

import "strings"

// CLDR category names.
const (
	Zero  = "zero"
	One   = "one"
	Two   = "two"
	Few   = "few"
	Many  = "many"
	Other = "other"
)

// Fallback is the Plural-Forms used for languages missing from the table.
const Fallback = "nplurals=2; plural=(n != 1);"

// Base normalizes a language tag to its base ("en-US" -> "en", "pt_BR" -> "pt").
func Base(lang string) string {
	base := strings.ToLower(strings.TrimSpace(lang))
	if idx := strings.IndexAny(base, "-_"); idx > 0 {
		base = base[:idx]
	}
	return base
}

// Form returns the CLDR plural form for the given language tag and count.
// Language tag is normalized to base (e.g. "en-US" -> "en"). Unknown languages default to "other".
func Form(lang string, count int) string {
	n := count
	if n < 0 {
		n = -n
	}
	switch Base(lang) {
	case "ar":
		return formArabic(n)
	case "ru", "uk", "be", "sr", "hr", "bs", "sh":
		return formRussian(n)
	case "pl":
		return formPolish(n)
	case "cs", "sk":
		return formCzech(n)
	case "cy":
		return formWelsh(n)
	case "ga":
		return formIrish(n)
	case "he", "iw":
		return formHebrew(n)
	case "fr":
		return formFrench(n)
	case "ja", "ko", "zh", "th", "vi", "id":
		return Other
	case "en", "es", "de", "it", "pt", "nl", "no", "nb", "nn", "sv", "da", "fi", "tr", "el", "hi", "bg", "et", "hu", "eo", "fo":
		return formOneOther(n)
	default:
		return Other
	}
}

// Categories returns the CLDR categories a language distinguishes for
// integer counts, in CLDR order.
func Categories(lang string) []string {
	switch Base(lang) {
	case "ar":
		return []string{Zero, One, Two, Few, Many, Other}
	case "ru", "uk", "be", "sr", "hr", "bs", "sh", "pl":
		return []string{One, Few, Many}
	case "cs", "sk":
		return []string{One, Few, Other}
	case "cy":
		return []string{Zero, One, Two, Few, Many, Other}
	case "ga":
		return []string{One, Two, Few, Many, Other}
	case "fr":
		return []string{One, Other}
	case "he", "iw":
		return []string{One, Two, Other}
	case "ja", "ko", "zh", "th", "vi", "id":
		return []string{Other}
	default:
		return []string{One, Other}
	}
}

// DefaultForms returns the Plural-Forms header conventionally used for lang.
// Regional entries ("pt_BR") take precedence over the base language.
func DefaultForms(lang string) string {
	key := strings.ReplaceAll(strings.TrimSpace(lang), "-", "_")
	if v, ok := forms[key]; ok {
		return v
	}
	if idx := strings.IndexByte(key, '_'); idx > 0 {
		key = key[:idx] + "_" + strings.ToUpper(key[idx+1:])
		if v, ok := forms[key]; ok {
			return v
		}
	}
	if v, ok := forms[Base(lang)]; ok {
		return v
	}
	return Fallback
}

const (
	oneForm      = "nplurals=1; plural=0;"
	germanicForm = "nplurals=2; plural=(n != 1);"
	frenchForm   = "nplurals=2; plural=(n > 1);"
	slavicForm   = "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
	czechForm    = "nplurals=3; plural=(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2;"
)

// See gettext-tools/src/plural-table.c.
var forms = map[string]string{
	"ja":    oneForm,
	"vi":    oneForm,
	"ko":    oneForm,
	"zh":    oneForm,
	"th":    oneForm,
	"id":    oneForm,
	"en":    germanicForm,
	"de":    germanicForm,
	"nl":    germanicForm,
	"sv":    germanicForm,
	"da":    germanicForm,
	"no":    germanicForm,
	"nb":    germanicForm,
	"nn":    germanicForm,
	"fo":    germanicForm,
	"es":    germanicForm,
	"pt":    germanicForm,
	"it":    germanicForm,
	"bg":    germanicForm,
	"el":    germanicForm,
	"fi":    germanicForm,
	"et":    germanicForm,
	"he":    germanicForm,
	"eo":    germanicForm,
	"hu":    germanicForm,
	"tr":    germanicForm,
	"hi":    germanicForm,
	"pt_BR": frenchForm,
	"fr":    frenchForm,
	"lv":    "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2);",
	"ga":    "nplurals=3; plural=n==1 ? 0 : n==2 ? 1 : 2;",
	"ro":    "nplurals=3; plural=n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2;",
	"lt":    "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"ru":    slavicForm,
	"uk":    slavicForm,
	"be":    slavicForm,
	"sr":    slavicForm,
	"hr":    slavicForm,
	"bs":    slavicForm,
	"cs":    czechForm,
	"sk":    czechForm,
	"pl":    "nplurals=3; plural=(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"sl":    "nplurals=4; plural=(n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3);",
	"ar":    "nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5);",
	"cy":    "nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n==3 ? 3 : n==6 ? 4 : 5);",
}

func formOneOther(n int) string {
	if n == 1 {
		return One
	}
	return Other
}

func formFrench(n int) string {
	if n == 0 || n == 1 {
		return One
	}
	return Other
}

func formCzech(n int) string {
	if n == 1 {
		return One
	}
	if n >= 2 && n <= 4 {
		return Few
	}
	return Other
}

func formArabic(n int) string {
	if n == 0 {
		return Zero
	}
	if n == 1 {
		return One
	}
	if n == 2 {
		return Two
	}
	n100 := n % 100
	if n100 >= 3 && n100 <= 10 {
		return Few
	}
	if n100 >= 11 && n100 <= 99 {
		return Many
	}
	return Other
}

func formRussian(n int) string {
	n10 := n % 10
	n100 := n % 100
	if n10 == 1 && n100 != 11 {
		return One
	}
	if n10 >= 2 && n10 <= 4 && (n100 < 12 || n100 > 14) {
		return Few
	}
	return Many
}

func formPolish(n int) string {
	if n == 1 {
		return One
	}
	n10 := n % 10
	n100 := n % 100
	if n10 >= 2 && n10 <= 4 && (n100 < 12 || n100 > 14) {
		return Few
	}
	return Many
}

func formWelsh(n int) string {
	switch n {
	case 0:
		return Zero
	case 1:
		return One
	case 2:
		return Two
	case 3:
		return Few
	case 6:
		return Many
	}
	return Other
}

func formIrish(n int) string {
	switch {
	case n == 1:
		return One
	case n == 2:
		return Two
	case n >= 3 && n <= 6:
		return Few
	case n >= 7 && n <= 10:
		return Many
	}
	return Other
}

func formHebrew(n int) string {
	if n == 1 {
		return One
	}
	if n == 2 {
		return Two
	}
	return Other
}
