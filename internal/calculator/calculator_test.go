package calculator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnmint-calculator/internal/expr"
	"learnmint-calculator/internal/history"
	"learnmint-calculator/internal/locale"
)

func newCalculator(t *testing.T, mode expr.AngleMode) *Calculator {
	t.Helper()
	ledger, err := history.Open(context.Background(), history.NewMemoryStore(), history.DefaultKey, nil)
	require.NoError(t, err)
	return New(ledger, locale.New("en"), nil, mode)
}

func press(t *testing.T, c *Calculator, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, c.PressKey(context.Background(), k), "key %q", k)
	}
}

func TestEvaluateAddition(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "2", "+", "2", "=")

	assert.Equal(t, StateJustEvaluated, c.State())
	assert.Equal(t, "4", c.Result())
	assert.Equal(t, "4", c.Display())
	assert.Equal(t, []history.Entry{{Expression: "2+2", Result: "4"}}, c.History())
}

func TestDivisionByZeroIsErrorState(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "1", "0", "÷", "0", "=")

	assert.Equal(t, StateError, c.State())
	assert.Equal(t, "Error", c.Display())
	assert.ErrorIs(t, c.Err(), expr.ErrNonFinite)
	assert.Empty(t, c.History())

	// Equals again does nothing until the user starts over.
	press(t, c, "=")
	assert.Equal(t, StateError, c.State())

	press(t, c, "5")
	assert.Equal(t, StateEntering, c.State())
	assert.Equal(t, "5", c.Display())
	assert.NoError(t, c.Err())
}

func TestErrorThenOperatorResetsBuffers(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "1", "÷", "0", "=", "−")

	assert.Equal(t, StateEntering, c.State())
	assert.Equal(t, "-", c.Snapshot().Internal)

	press(t, c, "1", "÷", "0", "=", "×")
	assert.Equal(t, "", c.Snapshot().Internal)
	assert.Equal(t, "0", c.Display())
}

func TestLocalizedErrorText(t *testing.T) {
	ledger, err := history.Open(context.Background(), history.NewMemoryStore(), history.DefaultKey, nil)
	require.NoError(t, err)
	c := New(ledger, locale.New("fr"), nil, expr.Radians)

	press(t, c, "√", "−", "1", "=")
	assert.Equal(t, StateError, c.State())
	assert.Equal(t, "Erreur", c.Display())
	assert.True(t, locale.IsErrorText(c.Result()))
}

func TestTrigonometryAngleModes(t *testing.T) {
	deg := newCalculator(t, expr.Degrees)
	press(t, deg, "sin", "9", "0", ")", "=")
	assert.Equal(t, "1", deg.Result())

	rad := newCalculator(t, expr.Radians)
	press(t, rad, "sin", "π", "÷", "2", "=")
	assert.Equal(t, "1", rad.Result())
	assert.Equal(t, []history.Entry{{Expression: "sin(π÷2)", Result: "1"}}, rad.History())

	press(t, rad, "DEG/RAD", "cos", "9", "0", "=")
	assert.Equal(t, expr.Degrees, rad.Mode())
	assert.Equal(t, "0", rad.Result())
}

func TestEvaluateClosesOpenParentheses(t *testing.T) {
	c := newCalculator(t, expr.Degrees)
	press(t, c, "(", "2", "+", "sin", "3", "0", "=")

	assert.Equal(t, "2.5", c.Result())
	assert.Equal(t, "(2+sin(30))", c.History()[0].Expression)
}

func TestOneDecimalPointPerSegment(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "1", ".", "2", ".", "3")
	assert.Equal(t, "1.23", c.Snapshot().Internal)

	press(t, c, "+", ".", "5", ".", "5")
	snap := c.Snapshot()
	assert.Equal(t, "1.23+0.55", snap.Internal)
	assert.Equal(t, "1.23+0.55", snap.Visual)

	for _, segment := range strings.FieldsFunc(snap.Internal, func(r rune) bool { return strings.ContainsRune("+-*/^()", r) }) {
		assert.LessOrEqual(t, strings.Count(segment, "."), 1, segment)
	}
}

func TestOperatorReplacesPreviousOperator(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "5", "+", "×")

	snap := c.Snapshot()
	assert.Equal(t, "5*", snap.Internal)
	assert.Equal(t, "5×", snap.Visual)

	press(t, c, "3", "=")
	assert.Equal(t, "15", c.Result())
}

func TestLeadingOperators(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "×")
	assert.Equal(t, "", c.Snapshot().Internal)

	press(t, c, "−", "4", "×", "(", "+", "−", "2", "=")
	assert.Equal(t, "8", c.Result())
	assert.Equal(t, "−4×(−2)", c.History()[0].Expression)
}

func TestChainingAfterEvaluation(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "5", "=", "+", "3", "=")

	assert.Equal(t, "8", c.Result())
	assert.Equal(t, history.Entry{Expression: "5+3", Result: "8"}, c.History()[0])
}

func TestDigitAfterEvaluationStartsFresh(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "2", "+", "2", "=", "7")

	assert.Equal(t, StateEntering, c.State())
	assert.Equal(t, "7", c.Snapshot().Internal)

	press(t, c, "=", "π")
	assert.Equal(t, "pi", c.Snapshot().Internal)
}

func TestNegativeResultChainsAsOneOperand(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "0", "−", "5", "=", "^", "2", "=")

	assert.Equal(t, "25", c.Result())
	assert.Equal(t, "-5^2", c.History()[0].Expression)
}

func TestImplicitMultiplication(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "2", "π")

	snap := c.Snapshot()
	assert.Equal(t, "2π", snap.Visual)
	assert.Equal(t, "2*pi", snap.Internal)

	press(t, c, "=")
	assert.Equal(t, "6.283185307", c.Result())

	press(t, c, "3", "(", "1", "+", "1", ")", "√", "4", "=")
	assert.Equal(t, "12", c.Result())
}

func TestBackspaceRemovesWholeKey(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "2", "×", "sin")
	assert.Equal(t, "2*sin(", c.Snapshot().Internal)

	press(t, c, "⌫")
	snap := c.Snapshot()
	assert.Equal(t, "2*", snap.Internal)
	assert.Equal(t, "2×", snap.Visual)

	press(t, c, "⌫", "⌫", "⌫")
	assert.Equal(t, "0", c.Display())
}

func TestClearKey(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "9", "+", "AC")

	assert.Equal(t, StateEntering, c.State())
	assert.Equal(t, "", c.Snapshot().Visual)
	assert.Equal(t, "0", c.Display())
}

func TestEqualsOnEmptyBufferIsNoop(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "=")

	assert.Equal(t, StateEntering, c.State())
	assert.Empty(t, c.History())
}

func TestHistoryKeepsFiveMostRecent(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	for _, d := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		press(t, c, d, "+", "0", "=")
	}

	got := c.History()
	require.Len(t, got, history.MaxEntries)
	assert.Equal(t, "7", got[0].Result)
	assert.Equal(t, "3", got[4].Result)
}

func TestReuseHistoryChains(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "1", "0", "×", "4", "=")
	press(t, c, "2", "+", "2", "=")

	require.NoError(t, c.ReuseHistory(1))
	assert.Equal(t, "40", c.Display())
	assert.Equal(t, StateJustEvaluated, c.State())

	press(t, c, "+", "3", "=")
	assert.Equal(t, "43", c.Result())
	assert.Equal(t, "40+3", c.History()[0].Expression)

	assert.ErrorIs(t, c.ReuseHistory(9), history.ErrIndexOutOfRange)
}

func TestDeleteAndClearHistory(t *testing.T) {
	ctx := context.Background()
	c := newCalculator(t, expr.Radians)
	press(t, c, "1", "=", "2", "=", "3", "=")

	require.NoError(t, c.DeleteHistory(ctx, 1))
	assert.Equal(t, []history.Entry{{Expression: "3", Result: "3"}, {Expression: "1", Result: "1"}}, c.History())

	require.NoError(t, c.ClearHistory(ctx))
	assert.Empty(t, c.History())
}

func TestDisplayUsesLocaleGrouping(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	press(t, c, "1", "0", "0", "0", "×", "1", "0", "0", "0", "=")

	assert.Equal(t, "1000000", c.Result())
	assert.Equal(t, "1,000,000", c.Display())
}

func TestCorruptStoredHistoryStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := history.NewMemoryStore()
	require.NoError(t, store.Save(ctx, history.DefaultKey, []byte("][")))

	ledger, err := history.Open(ctx, store, history.DefaultKey, nil)
	require.NoError(t, err)

	c := New(ledger, nil, nil, expr.Radians)
	assert.Empty(t, c.History())

	press(t, c, "1", "+", "1", "=")
	assert.Len(t, c.History(), 1)
}

func TestUnknownKey(t *testing.T) {
	c := newCalculator(t, expr.Radians)
	assert.ErrorIs(t, c.PressKey(context.Background(), "eval"), ErrUnknownKey)
}
