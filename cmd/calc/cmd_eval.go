package main

import (
	"fmt"
	"strings"

	"learnmint-calculator/internal/calculator"
	"learnmint-calculator/internal/expr"
	"learnmint-calculator/internal/history"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEvalCmd(opts *options) *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "eval EXPRESSION...",
		Short: "Evaluate expressions",
		Long: `Evaluates each argument as an expression and prints one result per line.

Operators: + - * / ^ and postfix %. Functions: ` + strings.Join(expr.Functions(), " ") + `.
Constants: pi e. The glyphs × ÷ − π √ are accepted as well.

Example:
  calc eval "2+2" "sin(30)" --mode deg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, src := range args {
				v, err := expr.Eval(src, s.mode)
				if err != nil {
					s.logger.Debug("evaluation failed", zap.String("expression", src), zap.Error(err))
					fmt.Fprintln(cmd.OutOrStdout(), s.loc.ErrorText())
					continue
				}

				result := calculator.FormatResult(v)
				fmt.Fprintln(cmd.OutOrStdout(), s.loc.FormatNumber(result))

				if noHistory {
					continue
				}
				if err := s.ledger.Record(cmd.Context(), history.Entry{Expression: src, Result: result}); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record results")
	return cmd
}
