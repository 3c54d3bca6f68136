// Package fwimage loads firmware images for sequencing. The sequencer only
// needs a fully materialized byte slice with a known length; everything
// here is about getting to that slice safely.
package fwimage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/marcinbor85/gohex"
)

// DefaultLimit bounds how much input is accepted when the caller does not
// choose its own ceiling.
const DefaultLimit = 32 << 20

// SizeLimitError reports input that runs past the configured ceiling.
type SizeLimitError int64

func (e SizeLimitError) Error() string {
	return fmt.Sprintf("fwimage: input exceeds the %d-byte limit", int64(e))
}

// Image is a firmware image ready for sequencing.
type Image struct {
	Data []byte

	// Base is the load address recovered from the container, when the
	// container carries one (Intel HEX does, raw binaries do not).
	Base    uint32
	HasBase bool
}

// Options controls how Load interprets its input.
type Options struct {
	// ForceHex treats the input as Intel HEX regardless of file name.
	ForceHex bool

	// Limit caps the accepted input size in bytes; zero means DefaultLimit.
	Limit int64

	// Blank fills gaps between Intel HEX segments.
	Blank byte
}

// Load reads the image at path, or standard input when path is empty.
// Intel HEX input is detected by a .hex or .ihex extension.
func Load(path string, opts Options) (*Image, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("fwimage: %w", err)
		}
		defer f.Close()
		r = f
	}

	if opts.ForceHex || isHexName(path) {
		data, base, err := ReadIntelHex(r, opts.Blank)
		if err != nil {
			return nil, err
		}
		return &Image{Data: data, Base: base, HasBase: len(data) > 0}, nil
	}

	data, err := ReadRaw(r, opts.Limit)
	if err != nil {
		return nil, err
	}
	return &Image{Data: data}, nil
}

func isHexName(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".ihex":
		return true
	}
	return false
}

// ReadRaw reads a raw firmware image from r, rejecting anything longer
// than limit bytes. Oversized input is an error, never truncated.
func ReadRaw(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("fwimage: read: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, SizeLimitError(limit)
	}
	return data, nil
}

// ReadIntelHex loads an Intel HEX image and flattens it into a contiguous
// byte image starting at the lowest programmed address, which is returned
// alongside. Gaps between segments are filled with blank.
func ReadIntelHex(r io.Reader, blank byte) ([]byte, uint32, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, 0, fmt.Errorf("fwimage: parse intel hex: %w", err)
	}

	segs := mem.GetDataSegments()
	if len(segs) == 0 {
		return nil, 0, nil
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i].Address < segs[j].Address })

	base := segs[0].Address
	last := segs[len(segs)-1]
	size := last.Address + uint32(len(last.Data)) - base

	img := make([]byte, size)
	for i := range img {
		img[i] = blank
	}
	for _, s := range segs {
		copy(img[s.Address-base:], s.Data)
	}
	return img, base, nil
}

// Stats describes an image in page terms for reporting.
type Stats struct {
	Bytes      int
	Pages      int
	BlankPages int
	LastPage   int // length of the final, possibly short page
}

// Scan counts pages the way the sequencer will see them: fixed-size chunks
// with a possibly short tail, blank meaning every byte equals blank.
func Scan(data []byte, pageSize int, blank byte) Stats {
	st := Stats{Bytes: len(data)}
	for len(data) > 0 {
		n := len(data)
		if n > pageSize {
			n = pageSize
		}
		st.Pages++
		st.LastPage = n
		isBlank := true
		for _, b := range data[:n] {
			if b != blank {
				isBlank = false
				break
			}
		}
		if isBlank {
			st.BlankPages++
		}
		data = data[n:]
	}
	return st
}
