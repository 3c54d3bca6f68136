package svfparse

import (
	"strings"
	"testing"
)

const sampleScript = `TRST OFF;

FREQUENCY 5.00e+006 HZ;

! Write enable
SDR 8 TDI(60);

RUNTEST IDLE 0.1 SEC ENDSTATE IDLE;

! Check no software protect
SDR 16 TDI(ffa0) TDO(c6ff) MASK(3900);

! Verify page: 0x00800000
SDR 16 TDI (ffff)
TDO (0000)
MASK (8000);

TRST ON;
`

func mustParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser() error: %v", err)
	}
	return p
}

func TestParseSampleScript(t *testing.T) {
	doc, err := mustParser(t).ParseString(sampleScript)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	if got := len(doc.Statements); got != 7 {
		t.Fatalf("statement count = %d, want 7", got)
	}

	st := doc.Stats()
	if st.Trst != 2 {
		t.Errorf("Trst count = %d, want 2", st.Trst)
	}
	if st.Frequency != 1 {
		t.Errorf("Frequency count = %d, want 1", st.Frequency)
	}
	if st.Runtest != 1 {
		t.Errorf("Runtest count = %d, want 1", st.Runtest)
	}
	if st.Scans != 3 {
		t.Errorf("Scans count = %d, want 3", st.Scans)
	}
	if st.Checked != 2 {
		t.Errorf("Checked count = %d, want 2", st.Checked)
	}
}

func TestParseTrstModes(t *testing.T) {
	doc, err := mustParser(t).ParseString(sampleScript)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	first, last := doc.Statements[0], doc.Statements[len(doc.Statements)-1]
	if first.Trst == nil || first.Trst.Mode != "OFF" {
		t.Errorf("first statement = %+v, want TRST OFF", first)
	}
	if last.Trst == nil || last.Trst.Mode != "ON" {
		t.Errorf("last statement = %+v, want TRST ON", last)
	}
}

func TestParseRuntestDuration(t *testing.T) {
	doc, err := mustParser(t).ParseString("RUNTEST IDLE 250 SEC ENDSTATE IDLE;\n")
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	rt := doc.Statements[0].Runtest
	if rt == nil {
		t.Fatal("statement is not a RUNTEST")
	}
	secs, err := rt.Duration()
	if err != nil {
		t.Fatalf("Duration() error: %v", err)
	}
	if secs != 250 {
		t.Errorf("Duration() = %v, want 250", secs)
	}
}

func TestParseMultilineScan(t *testing.T) {
	doc, err := mustParser(t).ParseString(sampleScript)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	// The three-line verify form is one statement.
	scan := doc.Statements[5].Scan
	if scan == nil {
		t.Fatal("statement 5 is not a scan")
	}
	if scan.TDI != "ffff" {
		t.Errorf("TDI = %q, want %q", scan.TDI, "ffff")
	}
	if scan.TDO == nil || *scan.TDO != "0000" {
		t.Errorf("TDO = %v, want 0000", scan.TDO)
	}
	if scan.Mask == nil || *scan.Mask != "8000" {
		t.Errorf("Mask = %v, want 8000", scan.Mask)
	}
}

func TestScanCheck(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"exact width", "SDR 8 TDI(60);", false},
		{"checked exact width", "SDR 16 TDI(ffa0) TDO(c6ff) MASK(3900);", false},
		{"narrow operand", "SDR 16 TDI(60);", true},
		{"wide operand", "SDR 8 TDI(ffa0);", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := mustParser(t).ParseString(tc.input)
			if err != nil {
				t.Fatalf("ParseString() error: %v", err)
			}
			err = doc.Statements[0].Scan.Check()
			if (err != nil) != tc.wantErr {
				t.Errorf("Check() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestParseRejectsUnknownStatement(t *testing.T) {
	_, err := mustParser(t).ParseString("SIR 8 TDI(60);\n")
	if err == nil {
		t.Fatal("ParseString() accepted an unsupported statement")
	}
}

func TestParseIgnoresComments(t *testing.T) {
	input := strings.Repeat("! noise\n", 3) + "TRST ON;\n"
	doc, err := mustParser(t).ParseString(input)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	if len(doc.Statements) != 1 {
		t.Errorf("statement count = %d, want 1", len(doc.Statements))
	}
}
