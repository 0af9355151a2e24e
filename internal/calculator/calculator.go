// Package calculator implements the scientific calculator: the keypad, the
// paired visual/internal expression buffers, evaluation with angle modes,
// the recent-calculation ledger and the HTTP API that drives sessions.
package calculator

import (
	"context"
	"fmt"

	"learnmint-calculator/internal/expr"
	"learnmint-calculator/internal/history"
	"learnmint-calculator/internal/locale"

	"go.uber.org/zap"
)

// State is the calculator's position in its input cycle.
type State string

const (
	StateEntering      State = "entering"
	StateJustEvaluated State = "evaluated"
	StateError         State = "error"
)

// Snapshot is what a client needs to render the calculator.
type Snapshot struct {
	Visual   string          `json:"visual"`
	Internal string          `json:"internal"`
	Display  string          `json:"display"`
	Result   string          `json:"result,omitempty"`
	State    State           `json:"state"`
	Mode     expr.AngleMode  `json:"mode"`
	History  []history.Entry `json:"history"`
}

// Calculator is a single user's calculator. It is not safe for concurrent
// use; the session layer serialises access.
type Calculator struct {
	acc     accumulator
	mode    expr.AngleMode
	state   State
	result  string
	evalErr error

	ledger *history.Ledger
	loc    *locale.Localizer
	logger *zap.Logger
}

// New returns a calculator in the Entering state with empty buffers. A nil
// ledger is replaced by one that only lives in memory.
func New(ledger *history.Ledger, loc *locale.Localizer, logger *zap.Logger, mode expr.AngleMode) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = locale.New("en")
	}
	if ledger == nil {
		// Opening an empty memory store cannot fail.
		ledger, _ = history.Open(context.Background(), history.NewMemoryStore(), history.DefaultKey, logger)
	}

	return &Calculator{
		mode:   mode,
		state:  StateEntering,
		ledger: ledger,
		loc:    loc,
		logger: logger,
	}
}

// PressKey looks key up on the keypad and presses it.
func (c *Calculator) PressKey(ctx context.Context, key string) error {
	b, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return c.Press(ctx, b)
}

// Press applies one button. The returned error only reports a failure to
// persist history; evaluation failures move the calculator to StateError.
func (c *Calculator) Press(ctx context.Context, b Button) error {
	switch b.Category {
	case CategoryDigit, CategoryDecimal:
		c.startFresh()
		c.acc.AppendDigit(b.Internal)

	case CategoryOperator:
		switch c.state {
		case StateError:
			c.Clear()
		case StateJustEvaluated:
			c.state = StateEntering
			c.result = ""
		}
		c.acc.AppendOperator(b)

	case CategoryFunction:
		c.startFresh()
		c.acc.AppendFunction(b)

	case CategoryConstant:
		c.startFresh()
		c.acc.AppendConstant(b)

	case CategoryAction:
		switch b.Action {
		case ActionClear:
			c.Clear()
		case ActionBackspace:
			c.Backspace()
		case ActionToggleMode:
			c.ToggleMode()
		default:
			return fmt.Errorf("%w: action %q", ErrUnknownKey, b.Action)
		}

	case CategoryEquals:
		return c.Evaluate(ctx)

	default:
		return fmt.Errorf("%w: category %q", ErrUnknownKey, b.Category)
	}

	return nil
}

// startFresh clears the buffers when the previous expression is finished.
func (c *Calculator) startFresh() {
	if c.state != StateEntering {
		c.Clear()
	}
}

// Evaluate computes the internal buffer, closing any open parentheses.
// On success the visual expression and result are recorded in the ledger
// and both buffers hold the result.
func (c *Calculator) Evaluate(ctx context.Context) error {
	if c.acc.Empty() || c.state != StateEntering {
		return nil
	}

	visual, internal := c.acc.Closed()

	v, err := expr.Eval(internal, c.mode)
	if err != nil {
		c.state = StateError
		c.result = c.loc.ErrorText()
		c.evalErr = err
		c.logger.Debug("evaluation failed",
			zap.String("expression", internal),
			zap.Stringer("mode", c.mode),
			zap.Error(err),
		)
		return nil
	}

	result := FormatResult(v)
	c.acc.SetValue(result)
	c.state = StateJustEvaluated
	c.result = result
	c.evalErr = nil

	return c.ledger.Record(ctx, history.Entry{Expression: visual, Result: result})
}

// Clear empties both buffers and returns to Entering.
func (c *Calculator) Clear() {
	c.acc.Reset()
	c.state = StateEntering
	c.result = ""
	c.evalErr = nil
}

// Backspace removes the last key's effect. After an error it clears.
func (c *Calculator) Backspace() {
	if c.state == StateError {
		c.Clear()
		return
	}
	c.acc.Backspace()
	c.state = StateEntering
	c.result = ""
}

func (c *Calculator) ToggleMode() {
	if c.mode == expr.Degrees {
		c.mode = expr.Radians
	} else {
		c.mode = expr.Degrees
	}
}

func (c *Calculator) SetMode(m expr.AngleMode) {
	c.mode = m
}

func (c *Calculator) Mode() expr.AngleMode {
	return c.mode
}

func (c *Calculator) State() State {
	return c.state
}

// Result is the last result, the error text in StateError, or empty while
// entering.
func (c *Calculator) Result() string {
	return c.result
}

// Err is the evaluation error behind StateError.
func (c *Calculator) Err() error {
	return c.evalErr
}

// ReuseHistory loads the result of entry i into both buffers as if it had
// just been evaluated, so a following operator chains from it.
func (c *Calculator) ReuseHistory(i int) error {
	e, err := c.ledger.Get(i)
	if err != nil {
		return err
	}

	c.acc.SetValue(e.Result)
	c.state = StateJustEvaluated
	c.result = e.Result
	c.evalErr = nil
	return nil
}

func (c *Calculator) DeleteHistory(ctx context.Context, i int) error {
	return c.ledger.Delete(ctx, i)
}

func (c *Calculator) ClearHistory(ctx context.Context) error {
	return c.ledger.Clear(ctx)
}

func (c *Calculator) History() []history.Entry {
	return c.ledger.Entries()
}

// Display is what the calculator screen shows.
func (c *Calculator) Display() string {
	switch c.state {
	case StateError:
		return c.result
	case StateJustEvaluated:
		return c.loc.FormatNumber(c.result)
	}

	if c.acc.Empty() {
		return "0"
	}
	return c.acc.Visual()
}

func (c *Calculator) Snapshot() Snapshot {
	return Snapshot{
		Visual:   c.acc.Visual(),
		Internal: c.acc.Internal(),
		Display:  c.Display(),
		Result:   c.result,
		State:    c.state,
		Mode:     c.mode,
		History:  c.History(),
	}
}
