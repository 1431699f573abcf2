package dostext

import "bufio"

// mainConfigResult holds everything parsed out of MAIN.TXT, ready to
// replace the registry's corresponding tables atomically on success.
type mainConfigResult struct {
	mappings   map[uint16]*configMappingEntry
	duplicates map[uint16]uint16
	aliases    []aliasPair
}

// parseMainConfig recognizes the MAIN.TXT grammar described in spec.md
// §4.4: ALIAS, CODEPAGE, CODEPAGE ... DUPLICATES, EXTENDS CODEPAGE,
// EXTENDS FILE, and the two bare byte-entry forms. On any error it logs the
// file name and line number and returns ok=false; the caller must then
// leave the registry's previous tables untouched.
func parseMainConfig(r *bufio.Scanner, logger Logger) (mainConfigResult, bool) {
	result := mainConfigResult{
		mappings:   make(map[uint16]*configMappingEntry),
		duplicates: make(map[uint16]uint16),
	}
	fileEmpty := true
	var currentCodePage uint16

	hasCodePage := func(cp uint16) bool {
		if e, ok := result.mappings[cp]; ok && e.valid {
			return true
		}
		_, ok := result.duplicates[cp]
		return ok
	}

	for _, line := range scanConfigLines(r) {
		tokens := line.tokens

		switch tokens[0] {
		case "ALIAS":
			if (len(tokens) != 3 && len(tokens) != 4) ||
				(len(tokens) == 4 && tokens[3] != "BIDIRECTIONAL") {
				logParseError(logger, fileNameMain, line.lineNum, "")
				return mainConfigResult{}, false
			}
			from, ok1 := parseHexCodePoint(tokens[1])
			to, ok2 := parseHexCodePoint(tokens[2])
			if !ok1 || !ok2 {
				logParseError(logger, fileNameMain, line.lineNum, "")
				return mainConfigResult{}, false
			}
			result.aliases = append(result.aliases, aliasPair{from, to})
			if len(tokens) == 4 {
				result.aliases = append(result.aliases, aliasPair{to, from})
			}
			currentCodePage = 0

		case "CODEPAGE":
			if len(tokens) == 4 && tokens[2] == "DUPLICATES" {
				cp1, ok1 := parseCodePageNumber(tokens[1])
				cp2, ok2 := parseCodePageNumber(tokens[3])
				if !ok1 || !ok2 {
					logParseError(logger, fileNameMain, line.lineNum, "invalid code page number")
					return mainConfigResult{}, false
				}
				if hasCodePage(cp1) {
					logParseError(logger, fileNameMain, line.lineNum, "code page already defined")
					return mainConfigResult{}, false
				}
				result.duplicates[cp1] = cp2
				currentCodePage = 0
				continue
			}

			if len(tokens) != 2 {
				logParseError(logger, fileNameMain, line.lineNum, "invalid code page number")
				return mainConfigResult{}, false
			}
			cp, ok := parseCodePageNumber(tokens[1])
			if !ok {
				logParseError(logger, fileNameMain, line.lineNum, "invalid code page number")
				return mainConfigResult{}, false
			}
			if hasCodePage(cp) {
				logParseError(logger, fileNameMain, line.lineNum, "code page already defined")
				return mainConfigResult{}, false
			}
			result.mappings[cp] = &configMappingEntry{valid: true, mapping: make(map[byte]Grapheme)}
			currentCodePage = cp

		case "EXTENDS":
			if currentCodePage == 0 {
				logParseError(logger, fileNameMain, line.lineNum, "not currently defining a code page")
				return mainConfigResult{}, false
			}
			switch {
			case len(tokens) == 3 && tokens[1] == "CODEPAGE":
				cp, ok := parseCodePageNumber(tokens[2])
				if !ok {
					logParseError(logger, fileNameMain, line.lineNum, "invalid code page number")
					return mainConfigResult{}, false
				}
				result.mappings[currentCodePage].extendsCodePage = cp
			case len(tokens) == 4 && tokens[1] == "FILE":
				result.mappings[currentCodePage].extendsDir = tokens[2]
				result.mappings[currentCodePage].extendsFile = tokens[3]
				fileEmpty = false
			default:
				logParseError(logger, fileNameMain, line.lineNum, "")
				return mainConfigResult{}, false
			}
			currentCodePage = 0

		default:
			byteCode, ok := parseHexByte(tokens[0])
			if !ok {
				logParseError(logger, fileNameMain, line.lineNum, "")
				return mainConfigResult{}, false
			}
			if currentCodePage == 0 {
				logParseError(logger, fileNameMain, line.lineNum, "not currently defining a code page")
				return mainConfigResult{}, false
			}
			entry := result.mappings[currentCodePage]

			switch {
			case len(tokens) == 1:
				if byteCode >= decodeThresholdNonASCII {
					addIfNotMappedGrapheme(entry.mapping, byteCode, EmptyGrapheme())
					fileEmpty = false
				}
			case len(tokens) <= 4:
				if byteCode >= decodeThresholdNonASCII {
					grapheme, ok := parseGraphemeTokens(tokens)
					if !ok {
						logParseError(logger, fileNameMain, line.lineNum, "")
						return mainConfigResult{}, false
					}
					if addIfNotMappedGrapheme(entry.mapping, byteCode, grapheme) && !grapheme.IsValid() {
						logger.Errorf("dostext: invalid grapheme defined in file %s, line %d", fileNameMain, line.lineNum)
						return mainConfigResult{}, false
					}
					fileEmpty = false
				}
			default:
				logParseError(logger, fileNameMain, line.lineNum, "")
				return mainConfigResult{}, false
			}
		}
	}

	if fileEmpty {
		logger.Errorf("dostext: mapping file %s has no entries", fileNameMain)
		return mainConfigResult{}, false
	}

	return result, true
}

func addIfNotMappedGrapheme(m map[byte]Grapheme, b byte, g Grapheme) bool {
	if _, ok := m[b]; ok {
		return false
	}
	m[b] = g
	return true
}

func logParseError(logger Logger, fileName string, lineNum int, details string) {
	if details == "" {
		logger.Errorf("dostext: error parsing mapping file %s, line %d", fileName, lineNum)
		return
	}
	logger.Errorf("dostext: error parsing mapping file %s, line %d: %s", fileName, lineNum, details)
}
