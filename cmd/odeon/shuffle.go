package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/odeon/internal/render"
	"github.com/llehouerou/odeon/internal/shuffle"
)

func newShuffleCmd(_ *rootOptions) *cobra.Command {
	var (
		first  int
		length int
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "shuffle",
		Short: "Print a shuffled play order",
		Long: `Print the play order of a shuffled queue of the given length, starting
with the first index. The same seed always gives the same order; without
--seed a random seed is drawn and printed.

Example:
  odeon shuffle --length 10 --first 3 --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if length < 0 {
				return errors.New("length must not be negative")
			}
			if length > 0 && (first < 0 || first >= length) {
				return fmt.Errorf("first must be in [0, %d)", length)
			}

			var order *shuffle.Order
			if cmd.Flags().Changed("seed") {
				order = shuffle.NewOrder(first, length, seed)
			} else {
				order = shuffle.Unseeded(first, length)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seed %d\n", order.Seed())
			fmt.Fprintln(out, render.Order(order.Indexes()))
			return nil
		},
	}

	cmd.Flags().IntVar(&first, "first", 0, "index played first")
	cmd.Flags().IntVarP(&length, "length", "n", 0, "number of items")
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed")
	return cmd
}
