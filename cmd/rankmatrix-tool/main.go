// Command rankmatrix-tool holds the offline and operator tasks that sit
// beside the server: rewriting rankings files and smoke-testing a deployment.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rankmatrix-tool",
		Short:         "Offline and operator tools for the rankmatrix server",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(transformCmd())
	rootCmd.AddCommand(smokeCmd())
	return rootCmd
}
