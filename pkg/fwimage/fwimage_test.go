package fwimage

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReadRaw(t *testing.T) {
	data, err := ReadRaw(strings.NewReader("firmware"), 16)
	if err != nil {
		t.Fatalf("ReadRaw() error: %v", err)
	}
	if string(data) != "firmware" {
		t.Errorf("ReadRaw() = %q, want %q", data, "firmware")
	}
}

func TestReadRawAtLimit(t *testing.T) {
	data, err := ReadRaw(bytes.NewReader(make([]byte, 16)), 16)
	if err != nil {
		t.Fatalf("ReadRaw() at exact limit: %v", err)
	}
	if len(data) != 16 {
		t.Errorf("ReadRaw() length = %d, want 16", len(data))
	}
}

func TestReadRawOverLimit(t *testing.T) {
	_, err := ReadRaw(bytes.NewReader(make([]byte, 17)), 16)
	var limitErr SizeLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("ReadRaw() error = %v, want SizeLimitError", err)
	}
	if int64(limitErr) != 16 {
		t.Errorf("SizeLimitError = %d, want 16", int64(limitErr))
	}
}

func TestReadRawEmpty(t *testing.T) {
	data, err := ReadRaw(strings.NewReader(""), 0)
	if err != nil {
		t.Fatalf("ReadRaw() error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("ReadRaw() length = %d, want 0", len(data))
	}
}

// Two data records at 0x800000 and 0x800008 with a 4-byte gap between them,
// using an extended linear address record for the upper half.
const sampleHex = `:0200000400807A
:0400000001020304F2
:04000800AABBCCDDE6
:00000001FF
`

func TestReadIntelHex(t *testing.T) {
	data, base, err := ReadIntelHex(strings.NewReader(sampleHex), 0xff)
	if err != nil {
		t.Fatalf("ReadIntelHex() error: %v", err)
	}
	if base != 0x800000 {
		t.Errorf("base = %#x, want 0x800000", base)
	}
	want := []byte{0x01, 0x02, 0x03, 0x04, 0xff, 0xff, 0xff, 0xff, 0xaa, 0xbb, 0xcc, 0xdd}
	if !bytes.Equal(data, want) {
		t.Errorf("data = %x, want %x", data, want)
	}
}

func TestReadIntelHexBad(t *testing.T) {
	if _, _, err := ReadIntelHex(strings.NewReader(":00BAD\n"), 0xff); err == nil {
		t.Error("ReadIntelHex() accepted malformed input")
	}
}

func TestScan(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want Stats
	}{
		{
			name: "empty",
			data: nil,
			want: Stats{},
		},
		{
			name: "single short page",
			data: make([]byte, 88),
			want: Stats{Bytes: 88, Pages: 1, LastPage: 88},
		},
		{
			name: "blank and data pages",
			data: append(bytes.Repeat([]byte{0xff}, 256), 0x01, 0x02),
			want: Stats{Bytes: 258, Pages: 2, BlankPages: 1, LastPage: 2},
		},
		{
			name: "short blank tail",
			data: append(make([]byte, 256), bytes.Repeat([]byte{0xff}, 10)...),
			want: Stats{Bytes: 266, Pages: 2, BlankPages: 1, LastPage: 10},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Scan(tc.data, 256, 0xff)
			if got != tc.want {
				t.Errorf("Scan() = %+v, want %+v", got, tc.want)
			}
		})
	}
}
