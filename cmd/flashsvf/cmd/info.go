package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/flashsvf/pkg/fwimage"
	"github.com/OpenTraceLab/flashsvf/pkg/pattern"
	"github.com/spf13/cobra"
)

var (
	infoChipMiB int
	infoHex     bool
	infoMaxSize int64
)

var infoCmd = &cobra.Command{
	Use:   "info [IMAGE]",
	Short: "Show page statistics for a firmware image",
	Long: `Inspect a firmware image the way the converter would see it, without
generating any script: size, page count, blank pages, and the bulk erase
time for the selected chip.

Examples:
  flashsvf info bios.bin
  flashsvf info --chip-size 4 bios.hex`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().IntVar(&infoChipMiB, "chip-size", 16,
		"flash chip size in MiB (4, 8 or 16)")
	infoCmd.Flags().BoolVar(&infoHex, "hex", false,
		"treat the input as Intel HEX regardless of file name")
	infoCmd.Flags().Int64Var(&infoMaxSize, "max-size", fwimage.DefaultLimit,
		"largest accepted raw input in bytes")
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	img, err := fwimage.Load(path, fwimage.Options{
		ForceHex: infoHex,
		Limit:    infoMaxSize,
		Blank:    0xff,
	})
	if err != nil {
		return err
	}

	chip, err := chipSize(infoChipMiB)
	if err != nil {
		return err
	}
	eraseMs, err := chip.EraseTime()
	if err != nil {
		return err
	}

	st := fwimage.Scan(img.Data, pattern.PayloadSize, 0xff)

	fmt.Printf("Image:       %d bytes\n", st.Bytes)
	if st.Pages > 0 {
		fmt.Printf("Pages:       %d (%d bytes each, last %d)\n",
			st.Pages, pattern.PayloadSize, st.LastPage)
		fmt.Printf("Blank pages: %d\n", st.BlankPages)
	}
	if img.HasBase {
		fmt.Printf("Base:        0x%08x (from Intel HEX records)\n", img.Base)
	}
	fmt.Printf("Chip:        %s (bulk erase %d s)\n", chip, eraseMs/1000)

	return nil
}
