package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/flashsvf/pkg/svf/svfparse"
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint SVFFILE",
	Short: "Re-parse a generated SVF script and check its operands",
	Long: `Parse an SVF script with the statement subset grammar the converter
emits and report statement counts. Every scan operand is checked against
the declared bit length, so a hand-edited or truncated script fails here
before it ever reaches a JTAG controller.

Examples:
  flashsvf lint bios.svf`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	parser, err := svfparse.NewParser()
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	doc, err := parser.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	bad := 0
	for i, stmt := range doc.Statements {
		if stmt.Scan == nil {
			continue
		}
		if err := stmt.Scan.Check(); err != nil {
			fmt.Printf("statement %d: %v\n", i+1, err)
			bad++
		}
	}

	st := doc.Stats()
	fmt.Printf("Statements:  %d\n", len(doc.Statements))
	fmt.Printf("TRST:        %d\n", st.Trst)
	fmt.Printf("FREQUENCY:   %d\n", st.Frequency)
	fmt.Printf("RUNTEST:     %d\n", st.Runtest)
	fmt.Printf("SDR:         %d (%d with TDO check)\n", st.Scans, st.Checked)

	if bad > 0 {
		return fmt.Errorf("%d malformed scan statement(s)", bad)
	}
	if verbose {
		fmt.Println("Script parsed cleanly.")
	}
	return nil
}
