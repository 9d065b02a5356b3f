package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// set with -ldflags "-X github.com/beanboi7/chyp8/cmd.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the emulator version",
	Args:  cobra.NoArgs,
	RunE:  Version,
}

func Version(cmd *cobra.Command, args []string) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "chyp8 %s (%s %s/%s)\n",
		version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return err
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
