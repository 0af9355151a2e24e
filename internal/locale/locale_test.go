package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestNewFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, language.English, New("xx-invalid-").Tag())
	assert.Equal(t, language.English, New("ja").Tag())
	assert.Equal(t, language.German, New("de-AT").Tag())
}

func TestErrorText(t *testing.T) {
	tests := map[string]string{
		"en": "Error",
		"fr": "Erreur",
		"de": "Fehler",
		"hi": "त्रुटि",
	}

	for tag, want := range tests {
		t.Run(tag, func(t *testing.T) {
			got := New(tag).ErrorText()
			assert.Equal(t, want, got)
			assert.True(t, IsErrorText(got))
		})
	}

	assert.False(t, IsErrorText("4"))
}

func TestFormatNumber(t *testing.T) {
	en := New("en")
	assert.Equal(t, "1,234,567.25", en.FormatNumber("1234567.25"))
	assert.Equal(t, "4", en.FormatNumber("4"))
	assert.Equal(t, "-0.5", en.FormatNumber("-0.5"))
	assert.Equal(t, "1.5e+20", en.FormatNumber("1.5e+20"))
	assert.Equal(t, "abc", en.FormatNumber("abc"))

	de := New("de")
	assert.Equal(t, "1.234.567,25", de.FormatNumber("1234567.25"))
}
