package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List, reuse or delete recent calculations",
	}

	historyCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recent calculations, most recent first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := openSession(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer s.Close()

				for i, e := range s.ledger.Entries() {
					fmt.Fprintf(cmd.OutOrStdout(), "%d. %s = %s\n", i, e.Expression, s.loc.FormatNumber(e.Result))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "reuse INDEX [KEY...]",
			Short: "Start from a past result, optionally pressing more keys",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				index, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid index %q", args[0])
				}

				s, err := openSession(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer s.Close()

				if err := s.calc.ReuseHistory(index); err != nil {
					return err
				}
				for _, key := range args[1:] {
					if err := s.calc.PressKey(cmd.Context(), key); err != nil {
						return err
					}
				}

				fmt.Fprintln(cmd.OutOrStdout(), s.calc.Display())
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete INDEX",
			Short: "Delete one calculation",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				index, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid index %q", args[0])
				}

				s, err := openSession(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer s.Close()

				return s.calc.DeleteHistory(cmd.Context(), index)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete all calculations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := openSession(cmd.Context(), opts)
				if err != nil {
					return err
				}
				defer s.Close()

				return s.calc.ClearHistory(cmd.Context())
			},
		},
	)

	return historyCmd
}
