package dostext

import "testing"

func TestParseDecompositionFileBaseAndMark(t *testing.T) {
	logger := &spyLogger{}
	rules, ok := parseDecompositionFile(scanString("0x00C0 0x0041 0x0300\n"), logger)
	if !ok {
		t.Fatalf("parseDecompositionFile failed: %v", logger.errors)
	}
	want := NewGrapheme(0x0041)
	want.AddMark(0x0300)
	if !rules[0x00C0].Equal(want) {
		t.Fatalf("rules[0x00C0] = %v, want A+grave", rules[0x00C0])
	}
}

func TestParseDecompositionFileDuplicateFails(t *testing.T) {
	logger := &spyLogger{}
	_, ok := parseDecompositionFile(scanString(""+
		"0x00C0 0x0041 0x0300\n"+
		"0x00C0 0x0041 0x0301\n"), logger)
	if ok {
		t.Fatalf("a second rule for the same composed code point should fail")
	}
}

func TestParseDecompositionFileInvalidGraphemeFails(t *testing.T) {
	logger := &spyLogger{}
	_, ok := parseDecompositionFile(scanString("0x00C0 0x0300\n"), logger)
	if ok {
		t.Fatalf("a base built directly from a combining mark should be rejected")
	}
}

func TestParseDecompositionFileEmptyFails(t *testing.T) {
	logger := &spyLogger{}
	_, ok := parseDecompositionFile(scanString(""), logger)
	if ok {
		t.Fatalf("an empty file should fail")
	}
}

func TestParseASCIIFileGlyphForms(t *testing.T) {
	logger := &spyLogger{}
	mapping, ok := parseASCIIFile(scanString(""+
		"0x2014 HSH\n"+
		"0x2018 SPC\n"+
		"0x00A0 x\n"+
		"0x1234 NNN\n"), logger)
	if !ok {
		t.Fatalf("parseASCIIFile failed: %v", logger.errors)
	}
	cases := map[CodePoint]byte{0x2014: '#', 0x2018: ' ', 0x00A0: 'x', 0x1234: unknownCharacter}
	for cp, want := range cases {
		if got := mapping[cp]; got != want {
			t.Errorf("mapping[%#04x] = %q, want %q", cp, got, want)
		}
	}
}

// Unlike DECOMPOSITION.TXT, a repeated code point in ASCII.TXT is not an
// error: the later line simply overwrites the earlier one.
func TestParseASCIIFileDuplicateOverwrites(t *testing.T) {
	logger := &spyLogger{}
	mapping, ok := parseASCIIFile(scanString(""+
		"0x2014 HSH\n"+
		"0x2014 x\n"), logger)
	if !ok {
		t.Fatalf("parseASCIIFile failed: %v", logger.errors)
	}
	if got := mapping[0x2014]; got != 'x' {
		t.Fatalf("mapping[0x2014] = %q, want the last line's value 'x'", got)
	}
}

func TestParseASCIIFileEmptyFails(t *testing.T) {
	logger := &spyLogger{}
	_, ok := parseASCIIFile(scanString(""), logger)
	if ok {
		t.Fatalf("an empty file should fail")
	}
}
