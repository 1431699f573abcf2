package dostext

// Transcoder converts text between UTF-8 and a DOS code page. It owns no
// global state: distinct Transcoders can be used concurrently from
// separate goroutines as long as each stays on its own goroutine, the
// same rule the registry's lazily-built maps rely on.
type Transcoder struct {
	registry       *registry
	logger         Logger
	codePageSource CodePageSource
	architecture   Architecture

	warnedCodePoints      map[CodePoint]bool
	warnedCodePages       map[uint16]bool
	warnedDefaultCodePage bool
}

// screenCodeTable holds the glyphs DOS terminals draw for raw control
// bytes 0x00-0x1F, independent of the active code page.
var screenCodeTable = [32]CodePoint{
	0x0020, 0x263A, 0x263B, 0x2665, 0x2666, 0x2663, 0x2660, 0x2022,
	0x25D8, 0x25CB, 0x25D9, 0x2642, 0x2640, 0x266A, 0x266B, 0x263C,
	0x25BA, 0x25C4, 0x2195, 0x203C, 0x00B6, 0x00A7, 0x25AC, 0x21A8,
	0x2191, 0x2193, 0x2192, 0x2190, 0x221F, 0x2194, 0x25B2, 0x25BC,
}

const deleteCodePoint = CodePoint(0x2302)

// ActiveCodePage reports the code page the Transcoder will use for calls
// that don't name one explicitly, as reported by its CodePageSource.
func (t *Transcoder) ActiveCodePage() uint16 {
	return t.codePageSource.CurrentCodePage()
}

// resolveCodePage implements the three-level fallback from spec.md §4.6
// step 2: try codePage itself, then the built-in default code page (437),
// and finally "no-CP mode" (ASCII only), warning once at each transition
// that fails. It returns the code page whose tables the caller should
// actually use, and whether that code page has usable tables at all.
// Grounded on unicode.cpp's get_custom_code_page / get_utf8_code_page.
//
// A host that cannot switch code pages at runtime (Architecture reports
// SupportsCodePageSwitching as false) only ever has its active code page
// available; any other request goes straight to no-CP mode without trying
// 437, since trying another page's tables would defeat the point of
// disabling code-page switching.
func (t *Transcoder) resolveCodePage(codePage uint16) (resolved uint16, prepared bool) {
	if !t.architecture.SupportsCodePageSwitching() && codePage != t.ActiveCodePage() {
		t.warnCodePageUnavailable(codePage)
		return 0, false
	}
	if t.registry.prepareCodePage(codePage) {
		return codePage, true
	}
	t.warnCodePageUnavailable(codePage)
	if codePage == defaultCodePage {
		return 0, false
	}
	if t.registry.prepareCodePage(defaultCodePage) {
		return defaultCodePage, true
	}
	t.warnCodePageUnavailable(defaultCodePage)
	return 0, false
}

// UTF8ToDOS converts s to the active code page. ok is false if at least one
// character of s had no representation in the code page and was replaced by
// the unknown-character sentinel; the returned bytes are still complete and
// usable in that case, just lossy.
func (t *Transcoder) UTF8ToDOS(s string) (out []byte, ok bool) {
	return t.UTF8ToDOSForCodePage(s, t.ActiveCodePage())
}

// UTF8ToDOSForCodePage converts s to codePage, ignoring whatever the
// active code page would otherwise be.
func (t *Transcoder) UTF8ToDOSForCodePage(s string, codePage uint16) (out []byte, ok bool) {
	codePoints, decOK := decodeUTF8([]byte(s))
	out, mapOK := t.wideToDos(codePoints, codePage)
	return out, decOK && mapOK
}

// DOSToUTF8 converts b, interpreted in the active code page, to UTF-8.
func (t *Transcoder) DOSToUTF8(b []byte) string {
	return t.DOSToUTF8ForCodePage(b, t.ActiveCodePage())
}

// DOSToUTF8ForCodePage converts b, interpreted in codePage, to UTF-8.
func (t *Transcoder) DOSToUTF8ForCodePage(b []byte, codePage uint16) string {
	return string(encodeUTF8(t.dosToWide(b, codePage)))
}

// wideToDos implements the fallback chain described in spec.md §4.6:
// 7-bit shortcut, direct mapping, aliased mapping, global ASCII fallback,
// decomposed mapping, aliased decomposed mapping, decompose-and-strip
// retry, and finally the unknown-character sentinel. Grounded on
// unicode.cpp's wide_to_dos.
func (t *Transcoder) wideToDos(codePoints []CodePoint, codePage uint16) ([]byte, bool) {
	resolved, prepared := t.resolveCodePage(codePage)

	out := make([]byte, 0, len(codePoints))
	ok := true
	for i := 0; i < len(codePoints); {
		g, consumed := assembleGrapheme(codePoints, i)
		i += consumed
		b, mapped := t.pushByte(g, resolved, prepared)
		out = append(out, b)
		ok = ok && mapped
	}
	return out, ok
}

// assembleGrapheme builds one Grapheme starting at codePoints[i], greedily
// consuming any combining marks that directly follow the base code point.
func assembleGrapheme(codePoints []CodePoint, i int) (Grapheme, int) {
	g := NewGrapheme(codePoints[i])
	j := i + 1
	for j < len(codePoints) && isCombiningMark(codePoints[j]) {
		g.AddMark(codePoints[j])
		j++
	}
	return g, j - i
}

// pushByte resolves one Grapheme to a single DOS byte, walking the chain
// from spec.md §4.6 in order: 7-bit shortcut, direct/aliased normalized
// mapping, global ASCII fallback, direct/aliased decomposed mapping, and
// finally decompose-and-strip-marks retried through the normalized chain.
// Grounded on unicode.cpp's wide_to_dos push_normalized/push_decomposed.
func (t *Transcoder) pushByte(g Grapheme, codePage uint16, prepared bool) (byte, bool) {
	if !g.IsValid() {
		t.warnUnmapped(codePage, g.Base())
		return unknownCharacter, false
	}

	if b, ok := t.pushNormalized(g, codePage, prepared); ok {
		return b, true
	}
	if b, ok := t.pushDecomposed(g, codePage, prepared); ok {
		return b, true
	}

	decomposed := g
	decomposed.Decompose(t.registry.decompositionRules)
	if decomposed.HasMark() {
		stripped := decomposed
		stripped.StripMarks()
		if b, ok := t.pushNormalized(stripped, codePage, prepared); ok {
			return b, true
		}
	}

	t.warnUnmapped(codePage, g.Base())
	return unknownCharacter, false
}

// pushNormalized tries, in order: the 7-bit ASCII shortcut, codePage's
// direct normalized mapping, codePage's normalized aliases, and finally the
// global ASCII fallback (which, like the shortcut, only ever applies to a
// grapheme with no combining marks).
func (t *Transcoder) pushNormalized(g Grapheme, codePage uint16, prepared bool) (byte, bool) {
	if g.Base() < CodePoint(decodeThresholdNonASCII) && !g.HasMark() {
		return byte(g.Base()), true
	}
	if prepared {
		if b, ok := t.registry.mappingsNormalized[codePage][g.key()]; ok {
			return b, true
		}
		if b, ok := t.registry.aliasesNormalized[codePage][g.key()]; ok {
			return b, true
		}
	}
	if !g.HasMark() {
		if b, ok := t.registry.mappingASCII[g.Base()]; ok {
			return b, true
		}
	}
	return 0, false
}

// pushDecomposed decomposes a copy of g and looks the result up against
// codePage's decomposed mapping and decomposed aliases: the tables that let
// an already-decomposed input (base + separate combining marks) match a
// code page entry that was only ever defined in composed form.
func (t *Transcoder) pushDecomposed(g Grapheme, codePage uint16, prepared bool) (byte, bool) {
	if !prepared {
		return 0, false
	}
	decomposed := g
	decomposed.Decompose(t.registry.decompositionRules)
	if b, ok := t.registry.mappingsDecomposed[codePage][decomposed.key()]; ok {
		return b, true
	}
	if b, ok := t.registry.aliasesDecomposed[codePage][decomposed.key()]; ok {
		return b, true
	}
	return 0, false
}

// dosToWide implements the reverse direction: control bytes go through the
// fixed screen-code table, 0x7F is the house glyph, 0x20-0x7E pass through
// as ASCII, and 0x80-0xFF are looked up in codePage's reverse mapping.
// Grounded on unicode.cpp's dos_to_wide.
func (t *Transcoder) dosToWide(bytes []byte, codePage uint16) []CodePoint {
	resolved, prepared := t.resolveCodePage(codePage)

	out := make([]CodePoint, 0, len(bytes))
	for _, b := range bytes {
		switch {
		case b < 0x20:
			out = append(out, screenCodeTable[b])
		case b == 0x7F:
			out = append(out, deleteCodePoint)
		case b < decodeThresholdNonASCII:
			out = append(out, CodePoint(b))
		default:
			if prepared {
				if g, ok := t.registry.mappingsReverse[resolved][b]; ok && g.IsValid() && !g.IsEmpty() {
					out = g.PushInto(out)
					continue
				}
				// A real code page is loaded but doesn't define this byte:
				// worth its own warning, distinct from resolveCodePage's
				// page-level one. In no-CP mode every non-ASCII byte would
				// hit this path, so that warning alone already says enough.
				t.warnUnmapped(resolved, CodePoint(b))
			}
			out = append(out, CodePoint(unknownCharacter))
		}
	}
	return out
}
