// Package svf serializes the subset of Serial Vector Format statements the
// flash programming scripts are made of. The exact spelling of every
// statement matters: downstream replay tools diff freshly generated scripts
// against previously archived ones.
package svf

import (
	"fmt"
	"io"
	"strings"
)

// Writer emits SVF statements to an output sink. Each statement, including
// any leading `!` comment and the trailing blank line, is assembled in full
// before a single Write reaches the sink, so a failed write never leaves a
// truncated statement behind.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer emitting to w. The sink is expected to append
// in order; no other buffering contract is assumed.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// stmt writes the given lines as one statement followed by a blank line.
func (s *Writer) stmt(lines ...string) error {
	text := strings.Join(lines, "\n") + "\n\n"
	if _, err := io.WriteString(s.w, text); err != nil {
		return fmt.Errorf("svf: write: %w", err)
	}
	return nil
}

// Trst asserts (on=true) or deasserts the test reset line.
func (s *Writer) Trst(on bool) error {
	if on {
		return s.stmt("TRST ON;")
	}
	return s.stmt("TRST OFF;")
}

// Frequency pins TCK to the 5 MHz rate the bridge is qualified for.
func (s *Writer) Frequency() error {
	return s.stmt("FREQUENCY 5.00e+006 HZ;")
}

// Wait emits a timed RUNTEST delay of ms milliseconds. The delay is a
// directive to the replay tool; generation itself never sleeps.
func (s *Writer) Wait(ms int) error {
	return s.stmt(fmt.Sprintf("RUNTEST IDLE %G SEC ENDSTATE IDLE;", float64(ms)/1000))
}

// Sdr emits a plain scan of the data register. comment, if non-empty,
// becomes a `!` line directly above the statement.
func (s *Writer) Sdr(comment string, bits int, tdi string) error {
	return s.stmt(commented(comment, fmt.Sprintf("SDR %d TDI(%s);", bits, tdi))...)
}

// SdrExpect emits a data register scan whose response is compared against
// tdo under mask.
func (s *Writer) SdrExpect(comment string, bits int, tdi, tdo, mask string) error {
	line := fmt.Sprintf("SDR %d TDI(%s) TDO(%s) MASK(%s);", bits, tdi, tdo, mask)
	return s.stmt(commented(comment, line)...)
}

// SdrPage emits a page-sized scan. Page scans put a space before the TDI
// operand; archived scripts have it, so it stays.
func (s *Writer) SdrPage(comment string, bits int, tdi string) error {
	return s.stmt(commented(comment, fmt.Sprintf("SDR %d TDI (%s);", bits, tdi))...)
}

// SdrPageExpect emits a page-sized scan with expected response and mask.
// The statement spans three lines, one operand each, matching the archived
// script layout.
func (s *Writer) SdrPageExpect(comment string, bits int, tdi, tdo, mask string) error {
	lines := commented(comment,
		fmt.Sprintf("SDR %d TDI (%s)", bits, tdi),
		fmt.Sprintf("TDO (%s)", tdo),
		fmt.Sprintf("MASK (%s);", mask),
	)
	return s.stmt(lines...)
}

func commented(comment string, lines ...string) []string {
	if comment == "" {
		return lines
	}
	return append([]string{"! " + comment}, lines...)
}
