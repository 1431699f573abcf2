package dostext

import "bufio"

// parseCodePageFile recognizes the grammar of an external per-code-page
// file named by EXTENDS FILE in MAIN.TXT: a flat list of bare byte entries,
// with no ALIAS, CODEPAGE or EXTENDS directives of its own. Grounded on
// unicode.cpp's import_mapping_code_page, which is deliberately a strict
// subset of import_config_main's grammar.
func parseCodePageFile(r *bufio.Scanner, fileName string, logger Logger) (map[byte]Grapheme, bool) {
	mapping := make(map[byte]Grapheme)
	fileEmpty := true

	for _, line := range scanConfigLines(r) {
		tokens := line.tokens

		byteCode, ok := parseHexByte(tokens[0])
		if !ok {
			logParseError(logger, fileName, line.lineNum, "")
			return nil, false
		}
		if byteCode < decodeThresholdNonASCII {
			continue
		}

		switch {
		case len(tokens) == 1:
			addIfNotMappedGrapheme(mapping, byteCode, EmptyGrapheme())
			fileEmpty = false
		case len(tokens) <= 4:
			grapheme, ok := parseGraphemeTokens(tokens)
			if !ok {
				logParseError(logger, fileName, line.lineNum, "")
				return nil, false
			}
			if addIfNotMappedGrapheme(mapping, byteCode, grapheme) && !grapheme.IsValid() {
				logger.Errorf("dostext: invalid grapheme defined in file %s, line %d", fileName, line.lineNum)
				return nil, false
			}
			fileEmpty = false
		default:
			logParseError(logger, fileName, line.lineNum, "")
			return nil, false
		}
	}

	if fileEmpty {
		logger.Errorf("dostext: mapping file %s has no entries", fileName)
		return nil, false
	}
	return mapping, true
}
