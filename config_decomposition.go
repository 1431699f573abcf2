package dostext

import "bufio"

// parseDecompositionFile recognizes DECOMPOSITION.TXT: each line names a
// composed code point followed by the base and optional marks it should be
// rewritten to when no code page offers a direct mapping for it. Grounded
// on unicode.cpp's import_decomposition.
func parseDecompositionFile(r *bufio.Scanner, logger Logger) (map[CodePoint]Grapheme, bool) {
	rules := make(map[CodePoint]Grapheme)
	fileEmpty := true

	for _, line := range scanConfigLines(r) {
		tokens := line.tokens
		if len(tokens) < 2 || len(tokens) > 4 {
			logParseError(logger, fileNameDecomposition, line.lineNum, "")
			return nil, false
		}

		composed, ok := parseHexCodePoint(tokens[0])
		if !ok {
			logParseError(logger, fileNameDecomposition, line.lineNum, "")
			return nil, false
		}
		decomposed, ok := parseGraphemeTokens(append([]string{""}, tokens[1:]...))
		if !ok {
			logParseError(logger, fileNameDecomposition, line.lineNum, "")
			return nil, false
		}
		if !decomposed.IsValid() {
			logger.Errorf("dostext: invalid grapheme defined in file %s, line %d", fileNameDecomposition, line.lineNum)
			return nil, false
		}
		if _, exists := rules[composed]; exists {
			logger.Errorf("dostext: duplicate decomposition for code point 0x%04x in file %s, line %d", composed, fileNameDecomposition, line.lineNum)
			return nil, false
		}
		rules[composed] = decomposed
		fileEmpty = false
	}

	if fileEmpty {
		logger.Errorf("dostext: mapping file %s has no entries", fileNameDecomposition)
		return nil, false
	}
	return rules, true
}

// parseASCIIFile recognizes ASCII.TXT: a global, code-page-independent
// fallback table from a Unicode code point to a plain 7-bit ASCII glyph,
// consulted only after every code-page-specific mapping has failed.
// Grounded on unicode.cpp's import_mapping_ascii.
func parseASCIIFile(r *bufio.Scanner, logger Logger) (map[CodePoint]byte, bool) {
	mapping := make(map[CodePoint]byte)
	fileEmpty := true

	for _, line := range scanConfigLines(r) {
		tokens := line.tokens
		if len(tokens) != 2 {
			logParseError(logger, fileNameASCII, line.lineNum, "")
			return nil, false
		}

		cp, ok := parseHexCodePoint(tokens[0])
		if !ok {
			logParseError(logger, fileNameASCII, line.lineNum, "")
			return nil, false
		}
		glyph, ok := parseASCIIGlyph(tokens[1])
		if !ok {
			logParseError(logger, fileNameASCII, line.lineNum, "")
			return nil, false
		}
		mapping[cp] = glyph
		fileEmpty = false
	}

	if fileEmpty {
		logger.Errorf("dostext: mapping file %s has no entries", fileNameASCII)
		return nil, false
	}
	return mapping, true
}
