package calculator

import "strings"

type fragmentKind int

const (
	fragNumber fragmentKind = iota
	fragOperator
	fragOpen
	fragClose
	fragConstant
	fragPostfix
	fragValue
)

// fragment is the effect of one key press on both buffers. Keeping the
// buffers as a fragment list makes lockstep structural: every edit adds,
// replaces or removes whole fragments.
type fragment struct {
	visual   string
	internal string
	kind     fragmentKind
}

// endsValue reports whether an operand ends with this fragment, so that a
// following operand needs an implicit multiplication.
func (f fragment) endsValue() bool {
	switch f.kind {
	case fragNumber, fragClose, fragConstant, fragPostfix, fragValue:
		return true
	}
	return false
}

// accumulator holds the visual and internal expression buffers.
type accumulator struct {
	frags []fragment
}

func (a *accumulator) Visual() string {
	var b strings.Builder
	for _, f := range a.frags {
		b.WriteString(f.visual)
	}
	return b.String()
}

func (a *accumulator) Internal() string {
	var b strings.Builder
	for _, f := range a.frags {
		b.WriteString(f.internal)
	}
	return b.String()
}

func (a *accumulator) Empty() bool {
	return len(a.frags) == 0
}

func (a *accumulator) Reset() {
	a.frags = nil
}

func (a *accumulator) last() (fragment, bool) {
	if len(a.frags) == 0 {
		return fragment{}, false
	}
	return a.frags[len(a.frags)-1], true
}

func (a *accumulator) push(f fragment) {
	a.frags = append(a.frags, f)
}

// implicitMul returns "*" when the buffer ends with an operand.
func (a *accumulator) implicitMul() string {
	if f, ok := a.last(); ok && f.endsValue() {
		return "*"
	}
	return ""
}

// SetValue replaces both buffers with a single computed value. Negative
// values are parenthesised internally so that "-5" followed by "^2" is 25.
func (a *accumulator) SetValue(v string) {
	internal := v
	if strings.HasPrefix(v, "-") {
		internal = "(" + v + ")"
	}
	a.frags = []fragment{{visual: v, internal: internal, kind: fragValue}}
}

// segmentHasDecimal reports whether the trailing numeric segment already
// contains a decimal point.
func (a *accumulator) segmentHasDecimal() (has bool, empty bool) {
	empty = true
	for i := len(a.frags) - 1; i >= 0 && a.frags[i].kind == fragNumber; i-- {
		empty = false
		if strings.Contains(a.frags[i].internal, ".") {
			return true, false
		}
	}
	return false, empty
}

// AppendDigit appends a digit or the decimal point. A second decimal point
// in the same number is ignored and reported as false.
func (a *accumulator) AppendDigit(d string) bool {
	mul := ""
	if f, ok := a.last(); ok && f.kind != fragNumber {
		mul = a.implicitMul()
	}

	if d == "." {
		has, empty := a.segmentHasDecimal()
		if has {
			return false
		}
		if empty {
			a.push(fragment{visual: "0.", internal: mul + "0.", kind: fragNumber})
			return true
		}
	}

	a.push(fragment{visual: d, internal: mul + d, kind: fragNumber})
	return true
}

// AppendOperator handles binary operators, parentheses and postfix %.
// A binary operator directly after another replaces it.
func (a *accumulator) AppendOperator(b Button) bool {
	switch b.Internal {
	case "(":
		a.push(fragment{visual: "(", internal: a.implicitMul() + "(", kind: fragOpen})
		return true

	case ")":
		f, ok := a.last()
		if !ok || !f.endsValue() || a.OpenParens() == 0 {
			return false
		}
		a.push(fragment{visual: ")", internal: ")", kind: fragClose})
		return true

	case "%":
		f, ok := a.last()
		if !ok || !f.endsValue() {
			return false
		}
		a.push(fragment{visual: b.Display, internal: b.Internal, kind: fragPostfix})
		return true
	}

	if f, ok := a.last(); ok && f.kind == fragOperator {
		a.frags = a.frags[:len(a.frags)-1]
	}

	// Only minus can start an operand.
	if f, ok := a.last(); (!ok || f.kind == fragOpen) && b.Internal != "-" {
		return false
	}

	a.push(fragment{visual: b.Display, internal: b.Internal, kind: fragOperator})
	return true
}

// AppendFunction appends the function glyph and its call prefix, both
// followed by an opening parenthesis.
func (a *accumulator) AppendFunction(b Button) {
	a.push(fragment{visual: b.Display + "(", internal: a.implicitMul() + b.Internal + "(", kind: fragOpen})
}

func (a *accumulator) AppendConstant(b Button) {
	a.push(fragment{visual: b.Display, internal: a.implicitMul() + b.Internal, kind: fragConstant})
}

// Backspace removes the most recent fragment from both buffers.
func (a *accumulator) Backspace() {
	if len(a.frags) > 0 {
		a.frags = a.frags[:len(a.frags)-1]
	}
}

// OpenParens counts parentheses opened and not yet closed.
func (a *accumulator) OpenParens() int {
	n := 0
	for _, f := range a.frags {
		switch f.kind {
		case fragOpen:
			n++
		case fragClose:
			n--
		}
	}
	return n
}

// Closed returns both buffers with any open parentheses closed.
func (a *accumulator) Closed() (visual, internal string) {
	tail := strings.Repeat(")", max(a.OpenParens(), 0))
	return a.Visual() + tail, a.Internal() + tail
}
