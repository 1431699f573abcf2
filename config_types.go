package dostext

// configMappingEntry is the per-code-page information gathered while
// parsing MAIN.TXT, before the mapping builder turns it into the derived
// tables the transcoding pipeline actually queries.
type configMappingEntry struct {
	valid           bool
	mapping         map[byte]Grapheme
	extendsCodePage uint16
	extendsDir      string
	extendsFile     string
}

// aliasPair is one entry of the global, CP-independent alias list.
type aliasPair struct {
	from, to CodePoint
}

const (
	fileNameMain          = "MAIN.TXT"
	fileNameASCII         = "ASCII.TXT"
	fileNameDecomposition = "DECOMPOSITION.TXT"
	dirNameMapping        = "mapping"
)
