package dostext

import (
	"bufio"
	"strconv"
)

// configLine is one non-empty, tokenized, comment-stripped line read from a
// configuration file, along with its 1-based line number for diagnostics.
type configLine struct {
	tokens  []string
	lineNum int
}

// scanConfigLines reads lines from r, stopping at the first line beginning
// with endOfFileMarking, and yields only lines that tokenize to at least one
// token. Comments (# to end of line) and blank lines are silently skipped.
func scanConfigLines(r *bufio.Scanner) []configLine {
	var lines []configLine
	lineNum := 0
	for r.Scan() {
		lineNum++
		text := r.Text()
		if len(text) >= 1 && text[0] == endOfFileMarking {
			break
		}
		tokens := scanTokens(text)
		if len(tokens) == 0 {
			continue
		}
		lines = append(lines, configLine{tokens: tokens, lineNum: lineNum})
	}
	return lines
}

// scanTokens splits line into whitespace-separated tokens, stopping at the
// first '#' (which starts a comment extending to end of line). Whitespace
// is space, tab, CR or LF.
func scanTokens(line string) []string {
	var tokens []string
	tokenStarted := false
	start := 0
	end := len(line)

	for i := 0; i < len(line); i++ {
		if line[i] == '#' {
			end = i
			break
		}
		isSpace := line[i] == ' ' || line[i] == '\t' || line[i] == '\r' || line[i] == '\n'
		if !tokenStarted && !isSpace {
			tokenStarted = true
			start = i
			continue
		}
		if tokenStarted && isSpace {
			tokenStarted = false
			tokens = append(tokens, line[start:i])
		}
	}
	if tokenStarted {
		tokens = append(tokens, line[start:end])
	}
	return tokens
}

func parseHexByte(token string) (byte, bool) {
	if len(token) != 4 || token[0] != '0' || token[1] != 'x' {
		return 0, false
	}
	v, err := strconv.ParseUint(token[2:], 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}

func parseHexCodePoint(token string) (CodePoint, bool) {
	if len(token) != 6 || token[0] != '0' || token[1] != 'x' {
		return 0, false
	}
	v, err := strconv.ParseUint(token[2:], 16, 16)
	if err != nil {
		return 0, false
	}
	return CodePoint(v), true
}

// parseASCIIGlyph recognizes a single printable ASCII character, or one of
// the three reserved three-letter tokens (SPC, HSH, NNN).
func parseASCIIGlyph(token string) (byte, bool) {
	switch {
	case len(token) == 1 && token[0] > ' ' && token[0] < 0x7f:
		return token[0], true
	case token == "SPC":
		return ' ', true
	case token == "HSH":
		return '#', true
	case token == "NNN":
		return unknownCharacter, true
	default:
		return 0, false
	}
}

// parseCodePageNumber recognizes a decimal code page number, 1-5 digits,
// value in 1..65535.
func parseCodePageNumber(token string) (uint16, bool) {
	if token == "" || len(token) > 5 {
		return 0, false
	}
	for _, ch := range token {
		if ch < '0' || ch > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(token)
	if err != nil || v < 1 || v > 65535 {
		return 0, false
	}
	return uint16(v), true
}

// parseGraphemeTokens builds a Grapheme from tokens[1:], which must be a
// base code point optionally followed by up to two combining-mark code
// points, all as 0xXXXX hex literals.
func parseGraphemeTokens(tokens []string) (Grapheme, bool) {
	if len(tokens) < 2 {
		return Grapheme{}, false
	}
	base, ok := parseHexCodePoint(tokens[1])
	if !ok {
		return Grapheme{}, false
	}
	g := NewGrapheme(base)

	if len(tokens) >= 3 {
		mark, ok := parseHexCodePoint(tokens[2])
		if !ok {
			return Grapheme{}, false
		}
		g.AddMark(mark)
	}
	if len(tokens) >= 4 {
		mark, ok := parseHexCodePoint(tokens[3])
		if !ok {
			return Grapheme{}, false
		}
		g.AddMark(mark)
	}
	return g, true
}
