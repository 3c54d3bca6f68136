package svfparse

import (
	"fmt"
	"strconv"
)

// Document represents a complete parsed SVF script.
type Document struct {
	Statements []*Statement `parser:"@@*"`
}

// Statement is one semicolon-terminated SVF statement.
type Statement struct {
	Trst      *Trst      `parser:"  @@"`
	Frequency *Frequency `parser:"| @@"`
	Runtest   *Runtest   `parser:"| @@"`
	Scan      *Scan      `parser:"| @@"`
}

// Trst asserts or deasserts the test reset line.
// Example: TRST OFF;
type Trst struct {
	Mode string `parser:"KwTrst @( KwOn | KwOff ) Semicolon"`
}

// Frequency sets the TCK rate.
// Example: FREQUENCY 5.00e+006 HZ;
type Frequency struct {
	Hz string `parser:"KwFrequency @( Real | HexNum ) KwHz Semicolon"`
}

// Runtest is a timed idle delay.
// Example: RUNTEST IDLE 0.002 SEC ENDSTATE IDLE;
type Runtest struct {
	Seconds string `parser:"KwRuntest KwIdle @( Real | HexNum ) KwSec KwEndstate KwIdle Semicolon"`
}

// Duration returns the delay in seconds.
func (r *Runtest) Duration() (float64, error) {
	secs, err := strconv.ParseFloat(r.Seconds, 64)
	if err != nil {
		return 0, fmt.Errorf("svfparse: bad RUNTEST duration %q: %w", r.Seconds, err)
	}
	return secs, nil
}

// Scan is a data register scan, with optional expected response and mask.
// Examples:
//
//	SDR 8 TDI(60);
//	SDR 16 TDI(ffa0) TDO(c6ff) MASK(3900);
type Scan struct {
	Bits string  `parser:"KwSdr @HexNum"`
	TDI  string  `parser:"KwTdi LParen @HexNum RParen"`
	TDO  *string `parser:"( KwTdo LParen @HexNum RParen )?"`
	Mask *string `parser:"( KwMask LParen @HexNum RParen )? Semicolon"`
}

// BitLen returns the declared scan length in bits. The operand is decimal
// even though it lexes as a hex token.
func (s *Scan) BitLen() (int, error) {
	bits, err := strconv.Atoi(s.Bits)
	if err != nil {
		return 0, fmt.Errorf("svfparse: bad SDR bit length %q: %w", s.Bits, err)
	}
	return bits, nil
}

// Check verifies that every operand is wide enough for the declared bit
// length. The generator always emits operands of exactly bits/4 digits.
func (s *Scan) Check() error {
	bits, err := s.BitLen()
	if err != nil {
		return err
	}
	digits := (bits + 3) / 4
	operands := []struct {
		name  string
		value *string
	}{
		{"TDI", &s.TDI},
		{"TDO", s.TDO},
		{"MASK", s.Mask},
	}
	for _, op := range operands {
		if op.value == nil {
			continue
		}
		if len(*op.value) != digits {
			return fmt.Errorf("svfparse: SDR %d %s operand has %d hex digits, want %d",
				bits, op.name, len(*op.value), digits)
		}
	}
	return nil
}

// Stats summarizes a document for reporting.
type Stats struct {
	Trst      int
	Frequency int
	Runtest   int
	Scans     int
	Checked   int // scans carrying a TDO comparison
}

// Stats walks the document and counts statements by kind.
func (d *Document) Stats() Stats {
	var st Stats
	for _, stmt := range d.Statements {
		switch {
		case stmt.Trst != nil:
			st.Trst++
		case stmt.Frequency != nil:
			st.Frequency++
		case stmt.Runtest != nil:
			st.Runtest++
		case stmt.Scan != nil:
			st.Scans++
			if stmt.Scan.TDO != nil {
				st.Checked++
			}
		}
	}
	return st
}
