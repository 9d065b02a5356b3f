package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beanboi7/chyp8/emu/cpu"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm `path/ROM`",
	Short: "print the instructions of a ROM",
	Args:  cobra.ExactArgs(1),
	RunE:  Disasm,
}

// chyp8 disasm 'path/to/ROM'
func Disasm(cmd *cobra.Command, args []string) error {
	rom, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	if len(rom) > cpu.MaxROMSize {
		return fmt.Errorf("%s: %w", args[0], cpu.ErrROMTooLarge)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), cpu.Listing(rom, cpu.ProgramBase))
	return err
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}
