// Package locale renders calculator output for the user's language: the
// fixed error text shown in place of a result and grouped number display.
package locale

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
)

const errorKey = "Error"

var supported = []language.Tag{
	language.English,
	language.French,
	language.German,
	language.Spanish,
	language.Hindi,
}

var errorTexts = map[language.Tag]string{
	language.English: "Error",
	language.French:  "Erreur",
	language.German:  "Fehler",
	language.Spanish: "Error",
	language.Hindi:   "त्रुटि",
}

var matcher = language.NewMatcher(supported)

// Localizer formats calculator output for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for the closest supported match of tag.
// Unknown or malformed tags fall back to English.
func New(tag string) *Localizer {
	want, err := language.Parse(tag)
	if err != nil {
		want = language.English
	}

	_, idx, _ := matcher.Match(want)
	t := supported[idx]

	return &Localizer{
		tag:     t,
		printer: message.NewPrinter(t, message.Catalog(newCatalog())),
	}
}

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, text := range errorTexts {
		// SetString only fails on malformed messages.
		_ = b.SetString(tag, errorKey, text)
	}
	return b
}

// Tag returns the language the Localizer formats for.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// ErrorText is the fixed string shown in place of a result after a failed
// evaluation.
func (l *Localizer) ErrorText() string {
	return l.printer.Sprintf(errorKey)
}

// IsErrorText reports whether s is the error text of any supported language.
func IsErrorText(s string) bool {
	for _, text := range errorTexts {
		if s == text {
			return true
		}
	}
	return false
}

// FormatNumber renders a canonical result string with locale grouping and
// decimal separator. Exponent forms and unparsable input are returned as is.
func (l *Localizer) FormatNumber(result string) string {
	if strings.ContainsAny(result, "eE") {
		return result
	}

	v, err := strconv.ParseFloat(result, 64)
	if err != nil {
		return result
	}

	frac := 0
	if i := strings.IndexByte(result, '.'); i >= 0 {
		frac = len(result) - i - 1
	}

	return l.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(frac)))
}
