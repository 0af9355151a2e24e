package calculator

import (
	"strconv"
	"strings"
)

const (
	maxResultLen      = 15
	significantDigits = 10
)

// FormatResult renders v as the shortest decimal string. When that is
// longer than 15 characters, ignoring the sign, v is rounded to 10
// significant digits and rendered again, in exponent form if the plain
// form is still too long.
func FormatResult(v float64) string {
	if v == 0 {
		return "0"
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if len(strings.TrimPrefix(s, "-")) <= maxResultLen {
		return s
	}

	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'g', significantDigits, 64), 64)

	s = strconv.FormatFloat(rounded, 'f', -1, 64)
	if len(strings.TrimPrefix(s, "-")) <= maxResultLen {
		return s
	}

	return strconv.FormatFloat(rounded, 'g', -1, 64)
}
