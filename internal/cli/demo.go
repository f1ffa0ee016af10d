package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyrelab/gyre"
)

// NewDemoCommand creates the demo command: two tasks whose interleaving
// shows a round-robin switch on every yield.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the two-task interleaving demo",
		Long: `Run two cooperative tasks on a pool of four slots.

Task A emits A0, yields, then emits A1. Task B emits B0 and returns
immediately. Round-robin scheduling produces A0, B0, A1 before the process
exits with status 0.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setupRuntime(cmd, rootOpts)
			if err != nil {
				return err
			}

			rt.Spawn(func() {
				fmt.Println("A0")
				gyre.Yield()
				fmt.Println("A1")
			})
			rt.Spawn(func() {
				fmt.Println("B0")
			})

			rt.Run()
			return nil
		},
	}
}
