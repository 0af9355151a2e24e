package expr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// glyphs maps display symbols onto their evaluable spelling so that
// expressions copied from the visual buffer still parse.
var glyphs = map[rune]string{
	'×': "*",
	'÷': "/",
	'−': "-",
	'π': "pi",
	'√': "sqrt",
}

func tokenize(src string) ([]token, error) {
	var toks []token

	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])

		switch {
		case unicode.IsSpace(r):
			i += size

		case r >= '0' && r <= '9' || r == '.':
			n, err := scanNumber(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:n], pos: i})
			i = n

		case r == '_' || unicode.IsLetter(r) && r < utf8.RuneSelf:
			j := i
			for j < len(src) {
				c := src[j]
				if c != '_' && !isASCIILetter(c) && !(c >= '0' && c <= '9') {
					break
				}
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:j], pos: i})
			i = j

		case strings.ContainsRune("+-*/^%", r):
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i += size

		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i += size

		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i += size

		default:
			alias, ok := glyphs[r]
			if !ok {
				return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, r, i)
			}
			kind := tokOp
			if isASCIILetter(alias[0]) {
				kind = tokIdent
			}
			toks = append(toks, token{kind: kind, text: alias, pos: i})
			i += size
		}
	}

	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

// scanNumber returns the end offset of the numeric literal starting at i.
// An exponent is only consumed when digits follow it, so "2e" stays a
// number followed by the identifier e.
func scanNumber(src string, i int) (int, error) {
	j := i
	digits := 0
	dots := 0

	for j < len(src) {
		c := src[j]
		if c == '.' {
			dots++
			if dots > 1 {
				return 0, fmt.Errorf("%w: malformed number at offset %d", ErrSyntax, i)
			}
		} else if c >= '0' && c <= '9' {
			digits++
		} else {
			break
		}
		j++
	}

	if digits == 0 {
		return 0, fmt.Errorf("%w: malformed number at offset %d", ErrSyntax, i)
	}

	if j < len(src) && (src[j] == 'e' || src[j] == 'E') {
		k := j + 1
		if k < len(src) && (src[k] == '+' || src[k] == '-') {
			k++
		}
		start := k
		for k < len(src) && src[k] >= '0' && src[k] <= '9' {
			k++
		}
		if k > start {
			j = k
		}
	}

	return j, nil
}

func isASCIILetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
