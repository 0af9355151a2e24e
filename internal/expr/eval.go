package expr

import (
	"fmt"
	"math"
	"strings"
)

// AngleMode selects how trigonometric arguments are interpreted.
type AngleMode int

const (
	Radians AngleMode = iota
	Degrees
)

// trigEpsilon is the magnitude below which trig results are reported as 0,
// so that cos(90°) and sin(π) read as zero.
const trigEpsilon = 1e-15

func (m AngleMode) String() string {
	if m == Degrees {
		return "deg"
	}
	return "rad"
}

// ParseAngleMode accepts deg/degrees and rad/radians in any case.
func ParseAngleMode(s string) (AngleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deg", "degree", "degrees":
		return Degrees, nil
	case "rad", "radian", "radians":
		return Radians, nil
	default:
		return Radians, fmt.Errorf("unknown angle mode %q", s)
	}
}

func (m AngleMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *AngleMode) UnmarshalText(b []byte) error {
	v, err := ParseAngleMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Eval parses and evaluates src. A NaN or infinite value anywhere in the
// computation is reported as ErrNonFinite.
func Eval(src string, mode AngleMode) (float64, error) {
	n, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return Evaluate(n, mode)
}

// Evaluate computes the value of a parsed tree.
func Evaluate(n Node, mode AngleMode) (float64, error) {
	return n.eval(mode)
}

func finite(v float64, what string) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s", ErrNonFinite, what)
	}
	return v, nil
}

func (n numberNode) eval(AngleMode) (float64, error) {
	return finite(n.value, "number out of range")
}

func (n constNode) eval(AngleMode) (float64, error) {
	return n.value, nil
}

func (n unaryNode) eval(mode AngleMode) (float64, error) {
	v, err := n.operand.eval(mode)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

func (n percentNode) eval(mode AngleMode) (float64, error) {
	v, err := n.operand.eval(mode)
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}

func (n binaryNode) eval(mode AngleMode) (float64, error) {
	a, err := n.left.eval(mode)
	if err != nil {
		return 0, err
	}
	b, err := n.right.eval(mode)
	if err != nil {
		return 0, err
	}

	var v float64
	switch n.op {
	case '+':
		v = a + b
	case '-':
		v = a - b
	case '*':
		v = a * b
	case '/':
		if b == 0 {
			return 0, fmt.Errorf("%w: division by zero", ErrNonFinite)
		}
		v = a / b
	case '^':
		v = math.Pow(a, b)
	default:
		return 0, fmt.Errorf("%w: operator %q", ErrSyntax, n.op)
	}

	return finite(v, fmt.Sprintf("%g %c %g", a, n.op, b))
}

func (n callNode) eval(mode AngleMode) (float64, error) {
	arg, err := n.arg.eval(mode)
	if err != nil {
		return 0, err
	}

	if n.fn.kind == fnTrig && mode == Degrees {
		arg = arg * math.Pi / 180
	}

	v := n.fn.apply(arg)

	switch n.fn.kind {
	case fnTrig:
		if math.Abs(v) < trigEpsilon {
			v = 0
		}
	case fnInverseTrig:
		if mode == Degrees {
			v = v * 180 / math.Pi
		}
	}

	return finite(v, fmt.Sprintf("%s(%g)", n.fn.name, arg))
}
