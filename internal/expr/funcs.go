package expr

import (
	"math"
	"sort"
)

type fnKind int

const (
	fnPlain fnKind = iota
	// fnTrig takes an angle argument.
	fnTrig
	// fnInverseTrig returns an angle.
	fnInverseTrig
)

type function struct {
	name  string
	kind  fnKind
	apply func(float64) float64
}

var functions = map[string]*function{
	"sin":   {name: "sin", kind: fnTrig, apply: math.Sin},
	"cos":   {name: "cos", kind: fnTrig, apply: math.Cos},
	"tan":   {name: "tan", kind: fnTrig, apply: math.Tan},
	"asin":  {name: "asin", kind: fnInverseTrig, apply: math.Asin},
	"acos":  {name: "acos", kind: fnInverseTrig, apply: math.Acos},
	"atan":  {name: "atan", kind: fnInverseTrig, apply: math.Atan},
	"sqrt":  {name: "sqrt", apply: math.Sqrt},
	"cbrt":  {name: "cbrt", apply: math.Cbrt},
	"log10": {name: "log10", apply: math.Log10},
	"ln":    {name: "ln", apply: math.Log},
	"exp":   {name: "exp", apply: math.Exp},
	"abs":   {name: "abs", apply: math.Abs},
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// Functions lists the callable function names in sorted order.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Constants lists the constant names in sorted order.
func Constants() []string {
	names := make([]string, 0, len(constants))
	for name := range constants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsFunction reports whether name is a known function.
func IsFunction(name string) bool {
	_, ok := functions[name]
	return ok
}

// IsConstant reports whether name is a known constant.
func IsConstant(name string) bool {
	_, ok := constants[name]
	return ok
}
