package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "starlane",
	Short: "Starlane wave-routing mesh",
	Long: `starlane boots and inspects stars in a Starlane constellation: the
per-star event loop that owns lane management, pathfinding, message
delivery and the traversal pipeline that binds incoming waves to
route-selected action pipelines.`,
}

func main() {
	rootCmd.AddCommand(starCmd(), configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
