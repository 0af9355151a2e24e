package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newKeysCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "keys KEY...",
		Short: "Replay calculator key presses and print the display",
		Long: `Presses each key in order, exactly as on the calculator keypad, then prints
what the display shows. Keys are glyphs (× ÷ − √ π), evaluator spellings
(* / - sqrt pi) or actions (AC, ⌫, DEG/RAD, =).

Example:
  calc keys 5 + × 3 =        # prints 15`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, key := range args {
				if err := s.calc.PressKey(cmd.Context(), key); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), s.calc.Display())
			return nil
		},
	}
}
