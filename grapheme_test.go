package dostext

import "testing"

func TestGraphemeEqualIgnoresMarkOrder(t *testing.T) {
	a := NewGrapheme(0x0041)
	a.AddMark(0x0301)
	a.AddMark(0x0302)

	b := NewGrapheme(0x0041)
	b.AddMark(0x0302)
	b.AddMark(0x0301)

	if !a.Equal(b) {
		t.Fatalf("graphemes with the same marks in different order should be equal")
	}
}

func TestGraphemeAddMarkDedups(t *testing.T) {
	g := NewGrapheme(0x0041)
	g.AddMark(0x0301)
	g.AddMark(0x0301)

	if len(g.marks) != 1 {
		t.Fatalf("expected duplicate mark to be dropped, got %d marks", len(g.marks))
	}
}

func TestGraphemeAddNonMarkInvalidates(t *testing.T) {
	g := NewGrapheme(0x0041)
	g.AddMark(0x0042)

	if g.IsValid() {
		t.Fatalf("adding a non-combining-mark code point should invalidate the grapheme")
	}
	if g.Base() != CodePoint(unknownCharacter) {
		t.Fatalf("invalidated grapheme should report the unknown sentinel as its base")
	}
}

func TestNewGraphemeFromCombiningMarkIsInvalid(t *testing.T) {
	g := NewGrapheme(0x0301)
	if g.IsValid() {
		t.Fatalf("a grapheme built directly from a combining mark should be invalid")
	}
}

func TestGraphemePushInto(t *testing.T) {
	g := NewGrapheme(0x0041)
	g.AddMark(0x0301)

	out := g.PushInto(nil)
	want := []CodePoint{0x0041, 0x0301}
	if !equalCodePoints(out, want) {
		t.Fatalf("PushInto = %v, want %v", out, want)
	}
}

func TestGraphemeStripMarks(t *testing.T) {
	g := NewGrapheme(0x0041)
	g.AddMark(0x0301)
	g.StripMarks()

	if g.HasMark() {
		t.Fatalf("StripMarks should remove every mark")
	}
	if g.Base() != 0x0041 {
		t.Fatalf("StripMarks should leave the base code point untouched")
	}
}

func TestGraphemeDecomposeRewritesBase(t *testing.T) {
	target := NewGrapheme(0x0041)
	target.AddMark(0x0300)
	rules := map[CodePoint]Grapheme{0x00C0: target}

	g := NewGrapheme(0x00C0)
	if ok := g.Decompose(rules); !ok {
		t.Fatalf("Decompose should succeed on an acyclic rule set")
	}
	if g.Base() != 0x0041 || !g.HasMark() {
		t.Fatalf("Decompose should rewrite the base and carry the mark forward, got base=%#x hasMark=%v", g.Base(), g.HasMark())
	}
}

func TestGraphemeDecomposeDetectsCycle(t *testing.T) {
	rules := map[CodePoint]Grapheme{
		0x0041: NewGrapheme(0x0042),
		0x0042: NewGrapheme(0x0041),
	}
	g := NewGrapheme(0x0041)
	if ok := g.Decompose(rules); ok {
		t.Fatalf("Decompose should detect a cyclic rule set and return false")
	}
}

func TestGraphemeLessOrdersByBaseThenMarkCount(t *testing.T) {
	a := NewGrapheme(0x0041)
	b := NewGrapheme(0x0042)
	if !a.Less(b) {
		t.Fatalf("grapheme with smaller base should sort first")
	}

	c := NewGrapheme(0x0041)
	c.AddMark(0x0301)
	if !a.Less(c) {
		t.Fatalf("grapheme with fewer marks should sort before one with more, same base")
	}
}

func TestEmptyGraphemeIsEmptyAndValidButNotEmitted(t *testing.T) {
	g := EmptyGrapheme()
	if !g.IsEmpty() {
		t.Fatalf("EmptyGrapheme should report IsEmpty")
	}
	if !g.IsValid() {
		t.Fatalf("EmptyGrapheme should report IsValid")
	}
	if out := g.PushInto(nil); out != nil {
		t.Fatalf("PushInto on an empty grapheme should contribute nothing, got %v", out)
	}
}

func TestGraphemeKeyDistinguishesMarkSets(t *testing.T) {
	a := NewGrapheme(0x0041)
	a.AddMark(0x0301)
	b := NewGrapheme(0x0041)
	b.AddMark(0x0302)

	if a.key() == b.key() {
		t.Fatalf("graphemes with different marks must have different map keys")
	}
}
