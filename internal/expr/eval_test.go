package expr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"2+2", 4},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"10/4", 2.5},
		{"-3+5", 2},
		{"--3", 3},
		{"2^3^2", 512},
		{"-2^2", -4},
		{"2^-1", 0.5},
		{"50%", 0.5},
		{"200*10%", 20},
		{"1.5e3+1", 1501},
		{"1e-3*1000", 1},
		{" 7 - 2 - 1 ", 4},
		{"3×4÷2−1", 5},
	}

	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			got, err := Eval(tc.src, Radians)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestEvalFunctionsAndConstants(t *testing.T) {
	tests := []struct {
		src  string
		mode AngleMode
		want float64
	}{
		{"sin(90)", Degrees, 1},
		{"sin(pi/2)", Radians, 1},
		{"cos(90)", Degrees, 0},
		{"sin(pi)", Radians, 0},
		{"tan(45)", Degrees, 1},
		{"asin(1)", Degrees, 90},
		{"asin(1)", Radians, math.Pi / 2},
		{"sin(asin(0.5))", Degrees, 0.5},
		{"sqrt(16)", Radians, 4},
		{"√(9)", Radians, 3},
		{"cbrt(27)", Radians, 3},
		{"log10(1000)", Radians, 3},
		{"ln(e)", Radians, 1},
		{"exp(0)", Radians, 1},
		{"abs(-2.5)", Radians, 2.5},
		{"2*π", Radians, 2 * math.Pi},
		{"sin(cos(0)*90)", Degrees, 1},
	}

	for _, tc := range tests {
		t.Run(tc.mode.String()+"/"+tc.src, func(t *testing.T) {
			got, err := Eval(tc.src, tc.mode)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"", ErrEmpty},
		{"   ", ErrEmpty},
		{"10/0", ErrNonFinite},
		{"0/0", ErrNonFinite},
		{"sqrt(-1)", ErrNonFinite},
		{"ln(0)", ErrNonFinite},
		{"10^400", ErrNonFinite},
		{"5+*3", ErrSyntax},
		{"(2+3", ErrSyntax},
		{"2+3)", ErrSyntax},
		{"1.2.3", ErrSyntax},
		{"sin 30", ErrSyntax},
		{"2$3", ErrSyntax},
		{"foo(2)", ErrUnknownIdentifier},
		{"alert", ErrUnknownIdentifier},
	}

	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			_, err := Eval(tc.src, Radians)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNumberExponentDoesNotSwallowConstant(t *testing.T) {
	_, err := Eval("2e", Radians)
	assert.ErrorIs(t, err, ErrSyntax)

	got, err := Eval("2*e", Radians)
	require.NoError(t, err)
	assert.InDelta(t, 2*math.E, got, 1e-12)
}

func TestParseString(t *testing.T) {
	n, err := Parse("1+2*sin(x1)")
	assert.Nil(t, n)
	assert.ErrorIs(t, err, ErrUnknownIdentifier)

	n, err = Parse("1+2*sin(pi)")
	require.NoError(t, err)
	assert.Equal(t, "(1 + (2 * sin(pi)))", n.String())
}

func TestParseAngleMode(t *testing.T) {
	for _, s := range []string{"deg", "DEG", "degrees"} {
		m, err := ParseAngleMode(s)
		require.NoError(t, err)
		assert.Equal(t, Degrees, m)
	}

	m, err := ParseAngleMode("radians")
	require.NoError(t, err)
	assert.Equal(t, Radians, m)

	_, err = ParseAngleMode("grad")
	assert.Error(t, err)
}

func TestAngleModeText(t *testing.T) {
	var m AngleMode
	require.NoError(t, m.UnmarshalText([]byte("deg")))
	assert.Equal(t, Degrees, m)

	b, err := m.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "deg", string(b))
}

func TestFunctionAndConstantTables(t *testing.T) {
	assert.Contains(t, Functions(), "log10")
	assert.Equal(t, []string{"e", "pi"}, Constants())
	assert.True(t, IsFunction("sin"))
	assert.False(t, IsFunction("eval"))
	assert.True(t, IsConstant("pi"))
}
