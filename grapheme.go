package dostext

// Grapheme is a base Unicode code point plus zero or more combining marks,
// treated as one visible character and therefore as exactly one DOS byte.
//
// marks preserves insertion order, so PushInto can reproduce the order
// marks appeared in the source mapping file. marksSorted is kept in sync on
// every mutation and is used for equality and ordering, so two graphemes
// with the same base and the same multiset of marks compare equal
// regardless of the order their marks arrived in.
type Grapheme struct {
	base        CodePoint
	marks       []CodePoint
	marksSorted []CodePoint
	isEmpty     bool
	isValid     bool
}

// NewGrapheme constructs a Grapheme from a single base code point. If cp is
// itself a combining mark, the result is immediately invalid.
func NewGrapheme(cp CodePoint) Grapheme {
	g := Grapheme{base: cp, isEmpty: false, isValid: true}
	if isCombiningMark(cp) {
		g.Invalidate()
	}
	return g
}

// EmptyGrapheme returns the default-constructed Grapheme: empty and valid,
// its base treated as space but never emitted by PushInto. A bare byte entry
// in a mapping file (one naming only the byte, no base code point) uses this
// to record "this byte is defined but carries no character" rather than
// "this byte is simply undefined".
func EmptyGrapheme() Grapheme {
	return Grapheme{base: CodePoint(' '), isEmpty: true, isValid: true}
}

// IsEmpty reports whether g is the default-constructed grapheme returned by
// EmptyGrapheme.
func (g Grapheme) IsEmpty() bool { return g.isEmpty }

// IsValid reports whether g can still be pushed into an output sequence.
func (g Grapheme) IsValid() bool { return g.isValid }

// HasMark reports whether g carries at least one combining mark.
func (g Grapheme) HasMark() bool { return len(g.marks) > 0 }

// Base returns the grapheme's base code point.
func (g Grapheme) Base() CodePoint { return g.base }

// PushInto appends the grapheme's base code point followed by its marks, in
// the order they were added, to out. Empty or invalid graphemes contribute
// nothing.
func (g Grapheme) PushInto(out []CodePoint) []CodePoint {
	if g.isEmpty || !g.isValid {
		return out
	}
	out = append(out, g.base)
	out = append(out, g.marks...)
	return out
}

// Invalidate marks g as permanently unusable: its base becomes the
// unknown-character sentinel and its marks are discarded.
func (g *Grapheme) Invalidate() {
	g.isEmpty = false
	g.isValid = false
	g.base = CodePoint(unknownCharacter)
	g.marks = nil
	g.marksSorted = nil
}

// AddMark attaches a combining mark to g. Adding a non-combining-mark code
// point, or adding to an empty grapheme, invalidates g. Adding a mark
// already present is a no-op. Adding to an already-invalid grapheme is also
// a no-op, since there is nothing left to invalidate further.
func (g *Grapheme) AddMark(cp CodePoint) {
	if !g.isValid {
		return
	}
	if !isCombiningMark(cp) || g.isEmpty {
		g.Invalidate()
		return
	}
	for _, m := range g.marks {
		if m == cp {
			return
		}
	}
	g.marks = append(g.marks, cp)
	g.marksSorted = insertSorted(g.marksSorted, cp)
}

// StripMarks discards all marks, leaving the base code point untouched.
func (g *Grapheme) StripMarks() {
	g.marks = nil
	g.marksSorted = nil
}

// Decompose repeatedly rewrites g's base using decompositionRules until no
// further rule applies. maxSteps bounds the loop so a cyclic rule set
// cannot hang the process; Decompose returns false if the bound was hit.
func (g *Grapheme) Decompose(rules map[CodePoint]Grapheme) bool {
	if !g.isValid || g.isEmpty {
		return true
	}
	maxSteps := len(rules) + 1
	for step := 0; step < maxSteps; step++ {
		rule, ok := rules[g.base]
		if !ok {
			return true
		}
		g.base = rule.base
		for _, m := range rule.marks {
			g.AddMark(m)
		}
	}
	return false
}

// Equal reports whether g and other represent the same grapheme,
// independent of the order marks were added in.
func (g Grapheme) Equal(other Grapheme) bool {
	return g.isEmpty == other.isEmpty &&
		g.isValid == other.isValid &&
		g.base == other.base &&
		equalCodePoints(g.marksSorted, other.marksSorted)
}

// Less orders graphemes lexicographically over (base, len(marksSorted),
// marksSorted...), so Grapheme can key a sorted structure if one is needed.
func (g Grapheme) Less(other Grapheme) bool {
	if g.base != other.base {
		return g.base < other.base
	}
	if len(g.marksSorted) != len(other.marksSorted) {
		return len(g.marksSorted) < len(other.marksSorted)
	}
	for i := range g.marksSorted {
		if g.marksSorted[i] != other.marksSorted[i] {
			return g.marksSorted[i] < other.marksSorted[i]
		}
	}
	return false
}

func insertSorted(sorted []CodePoint, cp CodePoint) []CodePoint {
	i := 0
	for i < len(sorted) && sorted[i] < cp {
		i++
	}
	sorted = append(sorted, 0)
	copy(sorted[i+1:], sorted[i:])
	sorted[i] = cp
	return sorted
}

func equalCodePoints(a, b []CodePoint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// graphemeKey turns a Grapheme into a value usable as a Go map key. Go map
// keys must be comparable, but Grapheme holds slices, so the pipeline and
// registry key their lookup maps on graphemeKey rather than on Grapheme
// directly; graphemeKey captures exactly the fields Equal compares.
type graphemeKey struct {
	isEmpty bool
	isValid bool
	base    CodePoint
	marks   string
}

func (g Grapheme) key() graphemeKey {
	buf := make([]byte, 0, len(g.marksSorted)*2)
	for _, m := range g.marksSorted {
		buf = append(buf, byte(m>>8), byte(m))
	}
	return graphemeKey{
		isEmpty: g.isEmpty,
		isValid: g.isValid,
		base:    g.base,
		marks:   string(buf),
	}
}
