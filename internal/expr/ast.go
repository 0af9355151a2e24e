package expr

import (
	"strconv"
	"strings"
)

// Node is a parsed expression.
type Node interface {
	eval(mode AngleMode) (float64, error)
	String() string
}

type numberNode struct {
	value float64
}

func (n numberNode) String() string {
	return strconv.FormatFloat(n.value, 'g', -1, 64)
}

type constNode struct {
	name  string
	value float64
}

func (n constNode) String() string { return n.name }

type unaryNode struct {
	op      byte
	operand Node
}

func (n unaryNode) String() string {
	return "(" + string(n.op) + n.operand.String() + ")"
}

type binaryNode struct {
	op          byte
	left, right Node
}

func (n binaryNode) String() string {
	return "(" + n.left.String() + " " + string(n.op) + " " + n.right.String() + ")"
}

type percentNode struct {
	operand Node
}

func (n percentNode) String() string { return n.operand.String() + "%" }

type callNode struct {
	fn  *function
	arg Node
}

func (n callNode) String() string {
	var b strings.Builder
	b.WriteString(n.fn.name)
	b.WriteByte('(')
	b.WriteString(n.arg.String())
	b.WriteByte(')')
	return b.String()
}
