package dostext

import "testing"

func TestParseCodePageFileEntries(t *testing.T) {
	logger := &spyLogger{}
	mapping, ok := parseCodePageFile(scanString(""+
		"0x82 0x00E9\n"+
		"0x90 0x00C9\n"), "437.TXT", logger)
	if !ok {
		t.Fatalf("parseCodePageFile failed: %v", logger.errors)
	}
	if !mapping[0x82].Equal(NewGrapheme(0x00E9)) {
		t.Fatalf("0x82 = %v, want U+00E9", mapping[0x82])
	}
	if !mapping[0x90].Equal(NewGrapheme(0x00C9)) {
		t.Fatalf("0x90 = %v, want U+00C9", mapping[0x90])
	}
}

func TestParseCodePageFileSkipsASCIIBytes(t *testing.T) {
	logger := &spyLogger{}
	mapping, ok := parseCodePageFile(scanString(""+
		"0x41 0x0041\n"+
		"0x82 0x00E9\n"), "437.TXT", logger)
	if !ok {
		t.Fatalf("parseCodePageFile failed: %v", logger.errors)
	}
	if _, exists := mapping[0x41]; exists {
		t.Fatalf("a byte below 0x80 should never be recorded")
	}
}

func TestParseCodePageFileRejectsDirectives(t *testing.T) {
	logger := &spyLogger{}
	_, ok := parseCodePageFile(scanString("CODEPAGE 437\n"), "437.TXT", logger)
	if ok {
		t.Fatalf("a per-code-page file must reject CODEPAGE directives")
	}
}

func TestParseCodePageFileInvalidGraphemeFails(t *testing.T) {
	logger := &spyLogger{}
	_, ok := parseCodePageFile(scanString("0x82 0x0300\n"), "437.TXT", logger)
	if ok {
		t.Fatalf("a base built directly from a combining mark should be rejected")
	}
}

// A byte's invalid grapheme is only fatal the first time it's defined: real
// vendor tables (e.g. CP1258) occasionally carry an invalid combining-mark
// entry for a byte that a later line in the same file legitimately
// overrides, and that override must not be rejected as if it were the
// invalid entry itself.
func TestParseCodePageFileInvalidGraphemeIgnoredWhenAlreadyMapped(t *testing.T) {
	logger := &spyLogger{}
	mapping, ok := parseCodePageFile(scanString(""+
		"0x82 0x00E9\n"+
		"0x82 0x0300\n"), "437.TXT", logger)
	if !ok {
		t.Fatalf("parseCodePageFile failed: %v", logger.errors)
	}
	if !mapping[0x82].Equal(NewGrapheme(0x00E9)) {
		t.Fatalf("0x82 = %v, want the first, already-mapped entry U+00E9 unchanged", mapping[0x82])
	}
}

func TestParseCodePageFileEmptyFails(t *testing.T) {
	logger := &spyLogger{}
	_, ok := parseCodePageFile(scanString(""), "437.TXT", logger)
	if ok {
		t.Fatalf("an empty file should fail")
	}
}
