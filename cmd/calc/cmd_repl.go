package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"learnmint-calculator/internal/calculator"
	"learnmint-calculator/internal/expr"
	"learnmint-calculator/internal/history"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const replHelp = `Enter an expression to evaluate it. A line starting with an operator
continues from the previous result.

  :history        list recent calculations
  :reuse N        continue from the result of entry N
  :delete N       delete entry N
  :clear          delete all entries
  :mode deg|rad   switch the angle mode
  :quit           leave`

func newReplCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive calculator prompt with line editing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			return runRepl(cmd.Context(), &repl{s: s, out: cmd.OutOrStdout()})
		},
	}
}

func runRepl(ctx context.Context, r *repl) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completeIdent)

	historyFile := replHistoryFile()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0o700); err != nil {
			return
		}
		if f, err := os.OpenFile(historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(r.out, "calc (%s), :help for commands\n", r.s.mode)

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		quit, err := r.handle(ctx, input)
		if err != nil {
			fmt.Fprintln(r.out, err)
		}
		if quit {
			return nil
		}
	}
}

func replHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "learnmint_repl_history")
	}
	return filepath.Join(home, ".learnmint", "repl_history")
}

// completeIdent completes the trailing function or constant name.
func completeIdent(line string) []string {
	i := len(line)
	for i > 0 && isIdentByte(line[i-1]) {
		i--
	}
	prefix := line[i:]
	if prefix == "" {
		return nil
	}

	var out []string
	for _, name := range expr.Functions() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, line[:i]+name+"(")
		}
	}
	for _, name := range expr.Constants() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, line[:i]+name)
		}
	}
	return out
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// repl evaluates one input line at a time against a session's ledger.
type repl struct {
	s    *session
	out  io.Writer
	last string
}

// handle processes one line. Errors are user-facing and do not end the
// loop; quit reports that the user asked to leave.
func (r *repl) handle(ctx context.Context, input string) (quit bool, err error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return false, nil
	}

	if strings.HasPrefix(input, ":") {
		return r.command(ctx, strings.Fields(input[1:]))
	}

	src := input
	if r.last != "" && strings.ContainsRune("+-*/^×÷−%", []rune(input)[0]) {
		prev := r.last
		if strings.HasPrefix(prev, "-") {
			prev = "(" + prev + ")"
		}
		src = prev + input
	}

	v, err := expr.Eval(src, r.s.mode)
	if err != nil {
		r.s.logger.Debug("evaluation failed", zap.String("expression", src), zap.Error(err))
		fmt.Fprintln(r.out, r.s.loc.ErrorText())
		r.last = ""
		return false, nil
	}

	result := calculator.FormatResult(v)
	r.last = result
	fmt.Fprintln(r.out, r.s.loc.FormatNumber(result))

	return false, r.s.ledger.Record(ctx, history.Entry{Expression: src, Result: result})
}

func (r *repl) command(ctx context.Context, fields []string) (bool, error) {
	if len(fields) == 0 {
		return false, errors.New("empty command, try :help")
	}

	index := func() (int, error) {
		if len(fields) != 2 {
			return 0, fmt.Errorf(":%s needs an index", fields[0])
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, fmt.Errorf("invalid index %q", fields[1])
		}
		return n, nil
	}

	switch fields[0] {
	case "q", "quit", "exit":
		return true, nil

	case "help":
		fmt.Fprintln(r.out, replHelp)

	case "history":
		for i, e := range r.s.ledger.Entries() {
			fmt.Fprintf(r.out, "%d. %s = %s\n", i, e.Expression, r.s.loc.FormatNumber(e.Result))
		}

	case "reuse":
		i, err := index()
		if err != nil {
			return false, err
		}
		e, err := r.s.ledger.Get(i)
		if err != nil {
			return false, err
		}
		r.last = e.Result
		fmt.Fprintln(r.out, r.s.loc.FormatNumber(e.Result))

	case "delete":
		i, err := index()
		if err != nil {
			return false, err
		}
		return false, r.s.ledger.Delete(ctx, i)

	case "clear":
		return false, r.s.ledger.Clear(ctx)

	case "mode":
		if len(fields) != 2 {
			fmt.Fprintln(r.out, r.s.mode)
			return false, nil
		}
		m, err := expr.ParseAngleMode(fields[1])
		if err != nil {
			return false, err
		}
		r.s.mode = m
		r.s.calc.SetMode(m)

	default:
		return false, fmt.Errorf("unknown command :%s, try :help", fields[0])
	}

	return false, nil
}
