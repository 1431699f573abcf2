package dostext

import (
	"bufio"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// registry holds every table the transcoding pipeline consults, built
// lazily from the MAIN.TXT/ASCII.TXT/DECOMPOSITION.TXT trio plus whatever
// per-code-page files they reference. It is grounded on unicode.cpp's
// collection of file-scope std::map globals (code_page_mappings,
// mapping_ascii, decomposition_rules, and friends), reshaped as fields
// owned by one struct instead of hidden process globals, and built
// on-demand per code page the way prepare_code_page does, rather than all
// at once at startup.
type registry struct {
	fs        afero.Fs
	resources ResourceLocator
	logger    Logger

	loadAttempted bool
	loadOK        bool

	configMappings     map[uint16]*configMappingEntry
	configDuplicates   map[uint16]uint16
	aliasPairs         []aliasPair
	mappingASCII       map[CodePoint]byte
	decompositionRules map[CodePoint]Grapheme

	mappingsReverse    map[uint16]map[byte]Grapheme
	mappingsNormalized map[uint16]map[graphemeKey]byte
	mappingsDecomposed map[uint16]map[graphemeKey]byte
	aliasesNormalized  map[uint16]map[graphemeKey]byte
	aliasesDecomposed  map[uint16]map[graphemeKey]byte

	alreadyTried map[uint16]bool
}

func newRegistry(fs afero.Fs, resources ResourceLocator, logger Logger) *registry {
	return &registry{
		fs:                 fs,
		resources:          resources,
		logger:             logger,
		mappingsReverse:    make(map[uint16]map[byte]Grapheme),
		mappingsNormalized: make(map[uint16]map[graphemeKey]byte),
		mappingsDecomposed: make(map[uint16]map[graphemeKey]byte),
		aliasesNormalized:  make(map[uint16]map[graphemeKey]byte),
		aliasesDecomposed:  make(map[uint16]map[graphemeKey]byte),
		alreadyTried:       make(map[uint16]bool),
	}
}

func openScanner(fs afero.Fs, path string) (*bufio.Scanner, afero.File, bool) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, nil, false
	}
	return bufio.NewScanner(f), f, true
}

// loadConfigIfNeeded parses MAIN.TXT, ASCII.TXT and DECOMPOSITION.TXT once
// per registry lifetime. Grounded on unicode.cpp's load_config_if_needed.
func (r *registry) loadConfigIfNeeded() bool {
	if r.loadAttempted {
		return r.loadOK
	}
	r.loadAttempted = true

	dir := r.resources.ResourcePath(dirNameMapping)

	mainScanner, mainFile, ok := openScanner(r.fs, filepath.Join(dir, fileNameMain))
	if !ok {
		r.logger.Errorf("dostext: could not open mapping file %s", fileNameMain)
		return false
	}
	main, ok := parseMainConfig(mainScanner, r.logger)
	mainFile.Close()
	if !ok {
		return false
	}

	asciiScanner, asciiFile, ok := openScanner(r.fs, filepath.Join(dir, fileNameASCII))
	if !ok {
		r.logger.Errorf("dostext: could not open mapping file %s", fileNameASCII)
		return false
	}
	ascii, ok := parseASCIIFile(asciiScanner, r.logger)
	asciiFile.Close()
	if !ok {
		return false
	}

	decompScanner, decompFile, ok := openScanner(r.fs, filepath.Join(dir, fileNameDecomposition))
	if !ok {
		r.logger.Errorf("dostext: could not open mapping file %s", fileNameDecomposition)
		return false
	}
	decomposition, ok := parseDecompositionFile(decompScanner, r.logger)
	decompFile.Close()
	if !ok {
		return false
	}

	r.configMappings = main.mappings
	r.configDuplicates = main.duplicates
	r.mappingASCII = ascii
	r.decompositionRules = decomposition
	r.aliasPairs = main.aliases
	r.loadOK = true
	return true
}

// resolveDuplicate follows the CODEPAGE ... DUPLICATES chain starting at
// cp, returning the code page that actually owns a mapping definition.
// Cyclic DUPLICATES chains are broken off and reported once.
func (r *registry) resolveDuplicate(cp uint16) (uint16, bool) {
	seen := make(map[uint16]bool)
	for {
		target, isDuplicate := r.configDuplicates[cp]
		if !isDuplicate {
			return cp, true
		}
		if seen[cp] {
			r.logger.Errorf("dostext: cyclic CODEPAGE DUPLICATES chain starting at code page %d", cp)
			return 0, false
		}
		seen[cp] = true
		cp = target
	}
}

// prepareCodePage ensures the reverse, normalized and decomposed mapping
// tables for cp are built, resolving EXTENDS CODEPAGE / EXTENDS FILE
// inheritance as needed. It returns false if cp has no usable mapping at
// all, e.g. because it is undefined or its EXTENDS chain is cyclic.
// Grounded on unicode.cpp's prepare_code_page and construct_mapping,
// including the already_tried negative cache that prevents infinite
// recursion on a cyclic EXTENDS CODEPAGE declaration.
func (r *registry) prepareCodePage(cp uint16) bool {
	if !r.loadConfigIfNeeded() {
		return false
	}
	if _, ok := r.mappingsNormalized[cp]; ok {
		return true
	}
	if r.alreadyTried[cp] {
		return false
	}

	resolved, ok := r.resolveDuplicate(cp)
	if !ok {
		return false
	}
	if resolved != cp {
		if !r.prepareCodePage(resolved) {
			return false
		}
		r.mappingsReverse[cp] = r.mappingsReverse[resolved]
		r.mappingsNormalized[cp] = r.mappingsNormalized[resolved]
		r.mappingsDecomposed[cp] = r.mappingsDecomposed[resolved]
		r.aliasesNormalized[cp] = r.aliasesNormalized[resolved]
		r.aliasesDecomposed[cp] = r.aliasesDecomposed[resolved]
		return true
	}

	r.alreadyTried[cp] = true

	entry, defined := r.configMappings[cp]
	if !defined || !entry.valid {
		// Not logged here: the Transcoder's warnCodePageUnavailable is the
		// single channel for "this code page could not be prepared",
		// whether that's because it's undefined or because loading its
		// files failed outright.
		return false
	}

	reverse := make(map[byte]Grapheme, len(entry.mapping))
	normalized := make(map[graphemeKey]byte, len(entry.mapping))

	for _, b := range sortedMappingBytes(entry.mapping) {
		addToMapping(reverse, normalized, r.logger, cp, b, entry.mapping[b])
	}

	if entry.extendsCodePage != 0 {
		if !r.prepareCodePage(entry.extendsCodePage) {
			return false
		}
		// Inherit the dependency's own forward table, not its raw reverse
		// map: only the byte that already won each grapheme's forward slot
		// in the dependency is carried forward, so a duplicate the
		// dependency itself warned about isn't silently resurrected here.
		dependencyReverse := r.mappingsReverse[entry.extendsCodePage]
		for _, b := range r.mappingsNormalized[entry.extendsCodePage] {
			addToMapping(reverse, normalized, r.logger, cp, b, dependencyReverse[b])
		}
	}
	if entry.extendsFile != "" {
		extended, ok := r.loadExtendsFile(entry.extendsDir, entry.extendsFile)
		if !ok {
			return false
		}
		for _, b := range sortedMappingBytes(extended) {
			addToMapping(reverse, normalized, r.logger, cp, b, extended[b])
		}
	}

	r.mappingsReverse[cp] = reverse
	r.mappingsNormalized[cp] = normalized
	r.mappingsDecomposed[cp] = buildDecomposed(reverse, normalized, r.decompositionRules)

	aliasesNormalized := constructAliasesNormalized(r.aliasPairs, normalized)
	r.aliasesNormalized[cp] = aliasesNormalized
	r.aliasesDecomposed[cp] = constructAliasesDecomposed(aliasesNormalized, r.decompositionRules)
	return true
}

func (r *registry) loadExtendsFile(dir, file string) (map[byte]Grapheme, bool) {
	path := filepath.Join(r.resources.ResourcePath(dir), file)
	scanner, f, ok := openScanner(r.fs, path)
	if !ok {
		r.logger.Errorf("dostext: could not open mapping file %s", file)
		return nil, false
	}
	defer f.Close()
	return parseCodePageFile(scanner, file, r.logger)
}

// addToMapping records one byte/grapheme pair in both the reverse and
// forward tables of a single code page, in whatever order its source
// layers (own MAIN.TXT entries, then EXTENDS CODEPAGE, then EXTENDS FILE)
// are processed. The reverse map takes b unconditionally the first time it
// is seen, byte-for-byte; the forward map only accepts g's slot if no
// earlier-processed layer already claimed it, and logs a warning when a
// later byte collides with an already-forward-mapped grapheme. Grounded on
// unicode.cpp's add_to_mappings.
func addToMapping(reverse map[byte]Grapheme, normalized map[graphemeKey]byte, logger Logger, cp uint16, b byte, g Grapheme) {
	if _, exists := reverse[b]; exists {
		return
	}
	reverse[b] = g
	if g.IsEmpty() || !g.IsValid() {
		return
	}
	key := g.key()
	if _, exists := normalized[key]; exists {
		logger.Warningf("dostext: mapping for code page %d uses a code point twice; character 0x%02X", cp, b)
		return
	}
	normalized[key] = b
}

// sortedMappingBytes returns m's keys in ascending order, so a single
// mapping layer's own internal grapheme collisions resolve the same way
// regardless of Go's randomized map iteration order.
func sortedMappingBytes(m map[byte]Grapheme) []byte {
	bytes := make([]byte, 0, len(m))
	for b := range m {
		bytes = append(bytes, b)
	}
	sort.Slice(bytes, func(i, j int) bool { return bytes[i] < bytes[j] })
	return bytes
}

// buildDecomposed derives the "already decomposed" lookup table for a code
// page: for every byte that owns a normalized entry, decompose a copy of
// its Grapheme and, if that changed anything, record decomposed->byte.
// This is what lets an input that arrives pre-decomposed (a base code
// point immediately followed by combining marks, rather than a single
// precomposed code point) match a code page entry that was only ever
// defined in its composed form. Grounded on unicode.cpp's
// construct_decomposed.
func buildDecomposed(reverse map[byte]Grapheme, normalized map[graphemeKey]byte, rules map[CodePoint]Grapheme) map[graphemeKey]byte {
	decomposed := make(map[graphemeKey]byte)
	for b := 0; b < 256; b++ {
		g, ok := reverse[byte(b)]
		if !ok || g.IsEmpty() || !g.IsValid() {
			continue
		}
		if owner, owns := normalized[g.key()]; !owns || owner != byte(b) {
			continue // some other byte is the canonical owner of this grapheme
		}
		dec := g
		dec.Decompose(rules)
		if dec.key() == g.key() {
			continue
		}
		decomposed[dec.key()] = byte(b)
	}
	return decomposed
}

// constructAliasesNormalized builds the per-code-page alias table: for each
// global (from, to) pair, if from has no direct entry in normalized but to
// does, and from has not already been aliased by an earlier pair, from
// aliases to whatever byte to resolves to. Grounded on unicode.cpp's
// construct_aliases.
func constructAliasesNormalized(pairs []aliasPair, normalized map[graphemeKey]byte) map[graphemeKey]byte {
	out := make(map[graphemeKey]byte)
	for _, p := range pairs {
		fromKey := NewGrapheme(p.from).key()
		if _, exists := normalized[fromKey]; exists {
			continue
		}
		if _, exists := out[fromKey]; exists {
			continue
		}
		toByte, ok := normalized[NewGrapheme(p.to).key()]
		if !ok {
			continue
		}
		out[fromKey] = toByte
	}
	return out
}

// constructAliasesDecomposed applies the same decomposition step
// buildDecomposed performs for direct mappings, but over the alias table:
// each alias's "from" code point is decomposed and, if that changes it,
// the decomposed form is recorded alongside the byte the alias already
// resolves to.
func constructAliasesDecomposed(aliasesNormalized map[graphemeKey]byte, rules map[CodePoint]Grapheme) map[graphemeKey]byte {
	out := make(map[graphemeKey]byte)
	for key, b := range aliasesNormalized {
		g := Grapheme{base: key.base, isValid: key.isValid, isEmpty: key.isEmpty}
		dec := g
		dec.Decompose(rules)
		if dec.key() == key {
			continue
		}
		if _, exists := out[dec.key()]; exists {
			continue
		}
		out[dec.key()] = b
	}
	return out
}

