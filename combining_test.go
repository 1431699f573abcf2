package dostext

import "testing"

func TestIsCombiningMarkRanges(t *testing.T) {
	cases := []struct {
		cp   CodePoint
		want bool
	}{
		{0x0041, false},   // 'A'
		{0x0300, true},    // first combining diacritical mark
		{0x036f, true},    // last combining diacritical mark
		{0x0370, false},   // just past the range
		{0x064b, false},   // Arabic fatha: deliberately excluded
		{0x0652, false},   // Arabic sukun: deliberately excluded
		{0x0653, true},    // Arabic madda above: first included Arabic mark
		{0x065f, true},    // last included Arabic mark
		{0xfe20, true},    // combining half marks start
		{0xfe2f, true},    // combining half marks end
		{0xfe30, false},
	}
	for _, c := range cases {
		if got := isCombiningMark(c.cp); got != c.want {
			t.Errorf("isCombiningMark(%#04x) = %v, want %v", c.cp, got, c.want)
		}
	}
}
