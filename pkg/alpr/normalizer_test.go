package alpr

import "testing"

func TestValidate(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"51F12345", true},
		{"51f-123.45", true},
		{"30A1234", true},
		{"29LD12345", true},
		{"29L512345", true},
		{"295L12345", true},
		{"51F123456", true},
		{"5F12345", false},
		{"51F123", false},
		{"51FFF1234", false},
		{"", false},
		{"ABC12345", false},
	}
	for _, c := range cases {
		got, _ := Validate(c.in)
		if got != c.valid {
			t.Errorf("Validate(%q) = %v, want %v", c.in, got, c.valid)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"51f 12345", "51F-12345"},
		{"51F-12345", "51F-12345"},
		{"30a.1234", "30A-1234"},
		{"29LD12345", "29LD-12345"},
		// The letter branch is tried before letter+digit, so a lone letter
		// followed by five digits parses as a one-letter series.
		{"59F16789", "59F-16789"},
		{"51F123456", "51F1-23456"},
		{"garbage", "GARBAGE"},
		{"51F123", "51F123"},
	}
	for _, c := range cases {
		if got := Format(c.in); got != c.want {
			t.Errorf("Format(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatIdempotent(t *testing.T) {
	inputs := []string{"51f12345", "30A-1234", "29LD12345", "not a plate", ""}
	for _, in := range inputs {
		once := Format(in)
		twice := Format(once)
		if once != twice {
			t.Errorf("Format not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
