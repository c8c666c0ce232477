package alpr

import "strings"

// DefaultCharset lists every character the plate recognizer can emit.
// Vietnamese plates never use I, J, O, Q or W.
const DefaultCharset = "0123456789ABCDEFGHKLMNPRSTUVXYZ"

// Alphabet maps recognizer class indices to characters. The class after the
// last character (index Len()) is the CTC blank.
type Alphabet struct {
	chars []rune
	index map[rune]int
}

func NewAlphabet(charset string) *Alphabet {
	chars := []rune(charset)
	index := make(map[rune]int, len(chars))
	for i, r := range chars {
		index[r] = i
	}
	return &Alphabet{chars: chars, index: index}
}

func DefaultAlphabet() *Alphabet {
	return NewAlphabet(DefaultCharset)
}

// Len returns the number of real characters, excluding the blank.
func (a *Alphabet) Len() int {
	return len(a.chars)
}

// BlankIndex is the class index reserved for the CTC blank.
func (a *Alphabet) BlankIndex() int {
	return len(a.chars)
}

// NumClasses is the total class count the model outputs per timestep.
func (a *Alphabet) NumClasses() int {
	return len(a.chars) + 1
}

func (a *Alphabet) CharAt(i int) (rune, bool) {
	if i < 0 || i >= len(a.chars) {
		return 0, false
	}
	return a.chars[i], true
}

func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

func (a *Alphabet) String() string {
	var b strings.Builder
	for _, r := range a.chars {
		b.WriteRune(r)
	}
	return b.String()
}
