package flashseq

import "fmt"

// Mode selects which protocol phases the generated script performs. At
// least one flag should be set for the script to do anything beyond the
// fixed unlock sequence.
type Mode uint8

const (
	ModeErase Mode = 1 << iota
	ModeWrite
	ModeVerify
)

// Has reports whether all flags in f are set.
func (m Mode) Has(f Mode) bool {
	return m&f == f
}

func (m Mode) String() string {
	if m == 0 {
		return "none"
	}
	var s string
	for _, part := range []struct {
		flag Mode
		name string
	}{
		{ModeErase, "erase"},
		{ModeWrite, "write"},
		{ModeVerify, "verify"},
	} {
		if m.Has(part.flag) {
			if s != "" {
				s += "|"
			}
			s += part.name
		}
	}
	return s
}

// ChipSize identifies the flash part fitted to the board. It only affects
// how long the script waits after a bulk erase.
type ChipSize int

const (
	Size4MiB ChipSize = iota
	Size8MiB
	Size16MiB
)

var chipNames = map[ChipSize]string{
	Size4MiB:  "4 MiB",
	Size8MiB:  "8 MiB",
	Size16MiB: "16 MiB",
}

func (c ChipSize) String() string {
	if name, ok := chipNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ChipSize(%d)", int(c))
}

// EraseTime returns the bulk-erase wait in milliseconds for the chip.
func (c ChipSize) EraseTime() (int, error) {
	switch c {
	case Size4MiB:
		return 80000, nil
	case Size8MiB:
		return 160000, nil
	case Size16MiB:
		return 250000, nil
	}
	return 0, ChipSizeError(c)
}

// ChipSizeError reports a chip size outside the supported table.
type ChipSizeError ChipSize

func (e ChipSizeError) Error() string {
	return fmt.Sprintf("flashseq: unsupported chip size %d", int(e))
}

// RangeError reports an image that runs past the 24-bit flash space.
type RangeError struct {
	Base uint32
	Size int
}

func (e RangeError) Error() string {
	return fmt.Sprintf("flashseq: image of %d bytes at base %#x runs past the 24-bit flash space",
		e.Size, e.Base)
}

// Config describes one generation run. Runs are independent: nothing is
// shared between two Generators with different configs.
type Config struct {
	// Mode selects the protocol phases to emit.
	Mode Mode

	// Chip sets the bulk-erase wait. It is fixed configuration, never
	// derived from the image.
	Chip ChipSize

	// BaseAddr is the flash address of the first image byte.
	BaseAddr uint32

	// BlankByte is the value erased cells read back as. The skip rule for
	// already-erased pages compares against it.
	BlankByte byte
}

// DefaultConfig mirrors the programming run the tool was built for: bulk
// erase plus program of a BIOS image at the top half of a 16 MiB chip.
func DefaultConfig() Config {
	return Config{
		Mode:      ModeErase | ModeWrite,
		Chip:      Size16MiB,
		BaseAddr:  0x800000,
		BlankByte: 0xff,
	}
}
