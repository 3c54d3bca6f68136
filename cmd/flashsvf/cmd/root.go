package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "flashsvf",
	Short: "SPI NOR flash SVF generator for the D02 CPLD bridge",
	Long: `flashsvf converts a firmware image into a Serial Vector Format script
that, replayed by a JTAG controller, programs a SPI NOR flash chip through
the HiSilicon D02 JTAG-to-SPI bridge.

Examples:
  flashsvf convert bios.bin -o bios.svf    # erase + program (default mode)
  flashsvf convert --verify bios.bin       # erase + program + verify
  flashsvf info bios.bin                   # image statistics, no output
  flashsvf lint bios.svf                   # re-check a generated script`,
	Version: "1.0.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
