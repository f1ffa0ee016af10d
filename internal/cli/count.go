package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyrelab/gyre"
)

// NewCountCommand creates the count command: two counting tasks of unequal
// length, the classic demonstration that a finished task drops out of the
// rotation while the other keeps running.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	var shortCount, longCount int

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Run two counting tasks of unequal length",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setupRuntime(cmd, rootOpts)
			if err != nil {
				return err
			}

			counter := func(id, limit int) func() {
				return func() {
					fmt.Printf("task %d starting\n", id)
					for i := 0; i < limit; i++ {
						fmt.Printf("task: %d counter: %d\n", id, i)
						gyre.Yield()
					}
					fmt.Printf("task %d finished\n", id)
				}
			}

			rt.Spawn(counter(1, shortCount))
			rt.Spawn(counter(2, longCount))

			rt.Run()
			return nil
		},
	}

	cmd.Flags().IntVar(&shortCount, "short", 10, "iterations of the first task")
	cmd.Flags().IntVar(&longCount, "long", 15, "iterations of the second task")

	return cmd
}
