package alpr

import "testing"

// score builds a one-hot row for the given class index.
func score(numClasses, hot int) []float64 {
	row := make([]float64, numClasses)
	row[hot] = 1
	return row
}

func TestDecodeGreedy(t *testing.T) {
	a := NewAlphabet("AB")
	blank := a.BlankIndex()
	n := a.NumClasses()

	cases := []struct {
		name string
		hots []int
		want string
	}{
		{"all blank", []int{blank, blank, blank}, ""},
		{"repeat collapses", []int{0, 0}, "A"},
		{"blank separates repeat", []int{0, blank, 0}, "AA"},
		{"mixed", []int{blank, 0, 0, blank, 1, 1, 0}, "ABA"},
		{"empty input", nil, ""},
	}
	for _, c := range cases {
		scores := make([][]float64, len(c.hots))
		for i, h := range c.hots {
			scores[i] = score(n, h)
		}
		if got := DecodeGreedy(scores, a); got != c.want {
			t.Errorf("%s: DecodeGreedy = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestArgmaxEarliestWinsTies(t *testing.T) {
	if got := argmax([]float64{0.5, 0.5, 0.1}); got != 0 {
		t.Errorf("argmax tie = %d, want 0", got)
	}
	if got := argmax(nil); got != -1 {
		t.Errorf("argmax(nil) = %d, want -1", got)
	}
}

func TestAlphabetBlankIsLastClass(t *testing.T) {
	a := DefaultAlphabet()
	if a.BlankIndex() != len(DefaultCharset) {
		t.Errorf("BlankIndex = %d, want %d", a.BlankIndex(), len(DefaultCharset))
	}
	if a.NumClasses() != len(DefaultCharset)+1 {
		t.Errorf("NumClasses = %d, want %d", a.NumClasses(), len(DefaultCharset)+1)
	}
}
