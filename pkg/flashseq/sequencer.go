// Package flashseq turns a firmware image into the SVF command sequence
// that erases, programs, and verifies a SPI NOR flash chip through the D02
// CPLD bridge.
package flashseq

import (
	"fmt"
	"io"

	"github.com/OpenTraceLab/flashsvf/pkg/pattern"
	"github.com/OpenTraceLab/flashsvf/pkg/svf"
)

// SPI opcodes forwarded through the bridge in 8-bit scans.
const (
	opWriteEnable  byte = 0x60
	opWriteDisable byte = 0x20
	opBulkErase    byte = 0xe3
)

// Status register scans: a read-status command plus a dummy byte to clock
// the response out, and the expected response words.
const (
	statusProbeTDI  = "ffa0"
	clearProtectTDI = "0080"
	noProtectTDO    = "c6ff"
	noProtectMask   = "3900"
	readyTDO        = "0000"
	busyMask        = "8000"
)

// Generator walks a firmware image page by page and writes the complete
// programming script for it. A Generator is single-use state around one
// output sink; create a new one per run.
type Generator struct {
	cfg Config
	out *svf.Writer
}

// New returns a Generator emitting to w under cfg.
func New(cfg Config, w io.Writer) *Generator {
	return &Generator{cfg: cfg, out: svf.NewWriter(w)}
}

// Generate emits the full script for data: fixed unlock prologue, optional
// bulk erase, one program and/or verify command per 256-byte page, and the
// closing TRST. A zero-length image produces no output at all.
//
// Configuration problems (unsupported chip size, image past the 24-bit
// space) are reported before anything is written. Errors later in the run
// abort it: the closing TRST is skipped and output already written stays as
// it is.
func (g *Generator) Generate(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	end := uint64(g.cfg.BaseAddr) + uint64(len(data))
	if end > pattern.MaxAddress {
		return RangeError{Base: g.cfg.BaseAddr, Size: len(data)}
	}
	eraseMs := 0
	if g.cfg.Mode.Has(ModeErase) {
		var err error
		if eraseMs, err = g.cfg.Chip.EraseTime(); err != nil {
			return err
		}
	}

	if err := g.prologue(); err != nil {
		return err
	}
	if g.cfg.Mode.Has(ModeErase) {
		if err := g.bulkErase(eraseMs); err != nil {
			return err
		}
	}

	addr := g.cfg.BaseAddr
	for len(data) > 0 {
		n := len(data)
		if n > pattern.PayloadSize {
			n = pattern.PayloadSize
		}
		if err := g.page(data[:n], addr); err != nil {
			return err
		}
		data = data[n:]
		addr += uint32(n)
	}

	return g.out.Trst(true)
}

// prologue deasserts reset, pins the clock, and clears the software
// write-protect bits so the chip accepts commands.
func (g *Generator) prologue() error {
	if err := g.out.Trst(false); err != nil {
		return err
	}
	if err := g.out.Frequency(); err != nil {
		return err
	}
	if err := g.writeEnable(); err != nil {
		return err
	}
	if err := g.out.Sdr("Clear software protect", 16, clearProtectTDI); err != nil {
		return err
	}
	if err := g.writeDisable(); err != nil {
		return err
	}
	if err := g.out.Wait(100); err != nil {
		return err
	}
	return g.out.SdrExpect("Check no software protect", 16, statusProbeTDI, noProtectTDO, noProtectMask)
}

// bulkErase wipes the whole chip and waits out the erase time, then checks
// that the busy bit has cleared.
func (g *Generator) bulkErase(eraseMs int) error {
	if err := g.writeEnable(); err != nil {
		return err
	}
	if err := g.out.Sdr("Bulk erase", 8, fmt.Sprintf("%02x", opBulkErase)); err != nil {
		return err
	}
	if err := g.writeDisable(); err != nil {
		return err
	}
	if err := g.out.Wait(eraseMs); err != nil {
		return err
	}
	return g.out.SdrExpect("Check status", 16, statusProbeTDI, readyTDO, busyMask)
}

// page emits the program and/or verify commands for one page according to
// the configured mode.
func (g *Generator) page(data []byte, addr uint32) error {
	blank := true
	for _, b := range data {
		if b != g.cfg.BlankByte {
			blank = false
			break
		}
	}

	written := false
	if g.cfg.Mode.Has(ModeWrite) {
		// A bulk erase already left every cell at the blank value, so a
		// blank page needs no program cycle.
		if !g.cfg.Mode.Has(ModeErase) || !blank {
			if err := g.program(data, addr); err != nil {
				return err
			}
			written = true
		}
	}

	// Verify if asked to. Always verify a page that was just written.
	if g.cfg.Mode.Has(ModeVerify) || (g.cfg.Mode.Has(ModeWrite) && written) {
		if err := g.verify(data, addr); err != nil {
			return err
		}
	}

	return nil
}

func (g *Generator) program(data []byte, addr uint32) error {
	pat, err := pattern.Encode(data, addr, pattern.ProgramTDI)
	if err != nil {
		return fmt.Errorf("flashseq: program page %#x: %w", addr, err)
	}

	if err := g.writeEnable(); err != nil {
		return err
	}
	comment := fmt.Sprintf("Program page: 0x%08x", addr)
	if err := g.out.SdrPage(comment, pattern.BitLen, pat.Hex()); err != nil {
		return err
	}
	if err := g.writeDisable(); err != nil {
		return err
	}
	return g.out.Wait(2)
}

func (g *Generator) verify(data []byte, addr uint32) error {
	// All three patterns are encoded before any text goes out, so an
	// encoding failure cannot leave a partial statement behind.
	tdi, err := pattern.Encode(nil, addr, pattern.VerifyTDI)
	if err != nil {
		return fmt.Errorf("flashseq: verify page %#x: %w", addr, err)
	}
	tdo, err := pattern.Encode(data, addr, pattern.VerifyTDO)
	if err != nil {
		return fmt.Errorf("flashseq: verify page %#x: %w", addr, err)
	}
	mask, err := pattern.Encode(nil, addr, pattern.VerifyMask)
	if err != nil {
		return fmt.Errorf("flashseq: verify page %#x: %w", addr, err)
	}

	comment := fmt.Sprintf("Verify page: 0x%08x", addr)
	return g.out.SdrPageExpect(comment, pattern.BitLen, tdi.Hex(), tdo.Hex(), mask.Hex())
}

func (g *Generator) writeEnable() error {
	return g.out.Sdr("Write enable", 8, fmt.Sprintf("%02x", opWriteEnable))
}

func (g *Generator) writeDisable() error {
	return g.out.Sdr("Write disable", 8, fmt.Sprintf("%02x", opWriteDisable))
}
