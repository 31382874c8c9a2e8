package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridable at build time via -ldflags.
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the streamline version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "streamline %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
