package pattern

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/bits"
)

// PayloadSize is the number of data bytes carried by one page vector, equal
// to the SPI flash page size.
const PayloadSize = 256

// Size is the total length in bytes of an encoded pattern: the payload
// followed by the 4-byte address/opcode trailer.
const Size = PayloadSize + 4

// BitLen is the length in bits of the SDR vector holding one pattern.
const BitLen = Size * 8

// MaxAddress is the first address outside the 24-bit space the bridge can
// reach. Every page address must be below it.
const MaxAddress = 1 << 24

// Op identifies what a page pattern will be used for in the generated
// script: driven as TDI to program, driven as TDI to request a read-back,
// or compared against the read-back as TDO/MASK.
type Op int

const (
	ProgramTDI Op = iota
	VerifyTDI
	VerifyTDO
	VerifyMask
)

var opNames = map[Op]string{
	ProgramTDI: "ProgramTDI",
	VerifyTDI:  "VerifyTDI",
	VerifyTDO:  "VerifyTDO",
	VerifyMask: "VerifyMask",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Opcode returns the command byte OR'd into the low byte of the trailer.
// VerifyTDO and VerifyMask patterns are pure comparison values and carry no
// command.
func (o Op) Opcode() uint8 {
	switch o {
	case ProgramTDI:
		return 0x40
	case VerifyTDI:
		return 0xc0
	default:
		return 0x00
	}
}

// addressed reports whether patterns for this operation carry a real flash
// address in the trailer. Comparison patterns never do.
func (o Op) addressed() bool {
	return o == ProgramTDI || o == VerifyTDI
}

// PayloadSizeError reports a payload longer than one flash page.
type PayloadSizeError int

func (e PayloadSizeError) Error() string {
	return fmt.Sprintf("pattern: payload of %d bytes exceeds the %d-byte page", int(e), PayloadSize)
}

// AddressRangeError reports a page address outside the 24-bit flash space.
type AddressRangeError uint32

func (e AddressRangeError) Error() string {
	return fmt.Sprintf("pattern: address %#x outside the 24-bit flash space", uint32(e))
}

// Pattern is one fully assembled SDR vector: 256 payload bytes followed by
// the big-endian address/opcode trailer.
type Pattern [Size]byte

// Hex returns the pattern serialized as lowercase hex, the form embedded in
// SDR statements.
func (p *Pattern) Hex() string {
	return hex.EncodeToString(p[:])
}

// Encode assembles the SDR bit pattern for one page operation.
//
// The CPLD shifts bits out to the SPI flash in the opposite order to how
// SVF spells them, so payload byte i is bit-reversed and stored at offset
// 255-i: the last payload byte ends up first in the vector. payload may be
// nil or shorter than a full page; unfilled positions read as erased flash
// (0xff, which bit reversal leaves unchanged).
//
// The trailer is reverse_bits_32(pageAddr) OR'd with the operation opcode,
// stored big-endian. VerifyTDO and VerifyMask trailers carry address zero
// regardless of pageAddr.
func Encode(payload []byte, pageAddr uint32, op Op) (Pattern, error) {
	var p Pattern
	if len(payload) > PayloadSize {
		return p, PayloadSizeError(len(payload))
	}
	if pageAddr >= MaxAddress {
		return p, AddressRangeError(pageAddr)
	}

	for i, b := range payload {
		p[PayloadSize-1-i] = bits.Reverse8(b)
	}
	for i := len(payload); i < PayloadSize; i++ {
		p[PayloadSize-1-i] = 0xff
	}

	var trailer uint32
	if op.addressed() {
		trailer = bits.Reverse32(pageAddr)
	}
	trailer |= uint32(op.Opcode())
	binary.BigEndian.PutUint32(p[PayloadSize:], trailer)

	return p, nil
}
