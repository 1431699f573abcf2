/*
Package dostext implements a bidirectional transcoder between UTF-8 and
legacy single-byte DOS code pages, as used by a DOS-era emulation
environment.

Guest text is exactly one byte per visible character, so converting host
UTF-8 into it is not a simple byte remapping: combining-mark sequences and
precomposed characters both have to collapse to a single DOS byte, and
unmappable characters need a deterministic fallback. A Transcoder loads its
mapping tables from plain-text configuration files (see ResourceLocator) and
walks a fallback chain for every character it is asked to convert: direct
mapping, alias, global ASCII fallback, decomposition, dropping the combining
marks, then unknown-character substitution.

Further Reading

	https://en.wikipedia.org/wiki/Code_page
	https://en.wikipedia.org/wiki/Code_page_437
	https://www.unicode.org/reports/tr15/ (Unicode Normalization Forms)
*/
package dostext

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'dostext'
func tracer() tracing.Trace {
	return tracing.Select("dostext")
}
