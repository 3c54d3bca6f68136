package cmd

import (
	"fmt"
	"os"

	"github.com/OpenTraceLab/flashsvf/pkg/flashseq"
	"github.com/OpenTraceLab/flashsvf/pkg/fwimage"
	"github.com/OpenTraceLab/flashsvf/pkg/pattern"
	"github.com/spf13/cobra"
)

var (
	convertErase   bool
	convertWrite   bool
	convertVerify  bool
	convertChipMiB int
	convertBase    uint32
	convertOut     string
	convertHex     bool
	convertMaxSize int64
)

var convertCmd = &cobra.Command{
	Use:   "convert [IMAGE]",
	Short: "Convert a firmware image to an SVF programming script",
	Long: `Convert a raw firmware binary or Intel HEX image into the SVF script
that programs it into SPI flash. Reads standard input when IMAGE is not
supplied, and writes the script to standard output unless -o is given.

Intel HEX input is detected by a .hex/.ihex extension (or forced with
--hex); its lowest record address becomes the base address unless
--base-addr is set explicitly.

Examples:
  flashsvf convert bios.bin > bios.svf
  flashsvf convert --verify --chip-size 8 bios.bin -o bios.svf
  flashsvf convert --erase=false --base-addr 0x810000 patch.bin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(&convertErase, "erase", true,
		"bulk erase the chip before programming")
	convertCmd.Flags().BoolVar(&convertWrite, "write", true,
		"program the image")
	convertCmd.Flags().BoolVar(&convertVerify, "verify", false,
		"verify every page, not just written ones")
	convertCmd.Flags().IntVar(&convertChipMiB, "chip-size", 16,
		"flash chip size in MiB (4, 8 or 16)")
	convertCmd.Flags().Uint32Var(&convertBase, "base-addr", 0x800000,
		"flash address of the first image byte")
	convertCmd.Flags().StringVarP(&convertOut, "output", "o", "",
		"write the script to FILE instead of stdout")
	convertCmd.Flags().BoolVar(&convertHex, "hex", false,
		"treat the input as Intel HEX regardless of file name")
	convertCmd.Flags().Int64Var(&convertMaxSize, "max-size", fwimage.DefaultLimit,
		"largest accepted raw input in bytes")
}

func runConvert(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	img, err := fwimage.Load(path, fwimage.Options{
		ForceHex: convertHex,
		Limit:    convertMaxSize,
		Blank:    0xff,
	})
	if err != nil {
		return err
	}

	mode, err := selectedMode()
	if err != nil {
		return err
	}
	chip, err := chipSize(convertChipMiB)
	if err != nil {
		return err
	}

	base := convertBase
	if img.HasBase && !cmd.Flags().Changed("base-addr") {
		base = img.Base
	}

	if verbose {
		st := fwimage.Scan(img.Data, pattern.PayloadSize, 0xff)
		fmt.Fprintf(os.Stderr, "image: %d bytes, %d pages (%d blank), mode %s, base 0x%08x\n",
			st.Bytes, st.Pages, st.BlankPages, mode, base)
	}

	out := os.Stdout
	if convertOut != "" {
		f, err := os.Create(convertOut)
		if err != nil {
			return err
		}
		out = f
	}

	cfg := flashseq.Config{Mode: mode, Chip: chip, BaseAddr: base, BlankByte: 0xff}
	genErr := flashseq.New(cfg, out).Generate(img.Data)

	if out != os.Stdout {
		if closeErr := out.Close(); genErr == nil && closeErr != nil {
			return closeErr
		}
		if genErr != nil {
			// A partial script would program a partial image; don't leave
			// one behind.
			os.Remove(convertOut)
		}
	}
	return genErr
}

func selectedMode() (flashseq.Mode, error) {
	var mode flashseq.Mode
	if convertErase {
		mode |= flashseq.ModeErase
	}
	if convertWrite {
		mode |= flashseq.ModeWrite
	}
	if convertVerify {
		mode |= flashseq.ModeVerify
	}
	if mode == 0 {
		return 0, fmt.Errorf("nothing to do: enable at least one of --erase, --write, --verify")
	}
	return mode, nil
}

func chipSize(mib int) (flashseq.ChipSize, error) {
	switch mib {
	case 4:
		return flashseq.Size4MiB, nil
	case 8:
		return flashseq.Size8MiB, nil
	case 16:
		return flashseq.Size16MiB, nil
	}
	return 0, fmt.Errorf("unsupported chip size %d MiB (supported: 4, 8, 16)", mib)
}
