package classification

import (
	"testing"
	"unicode"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"mixed case and punctuation", "This dress was AMAZING!! 10/10 would buy again.", "this dress was amazing  would buy again"},
		{"digits stripped", "rated 5 stars", "rated  stars"},
		{"already clean", "soft cotton shirt", "soft cotton shirt"},
		{"empty", "", ""},
		{"whitespace kept as is", "great\tfit\nvery comfy", "great\tfit\nvery comfy"},
		{"accented letters stripped", "très élégant", "trs lgant"},
		{"nothing survives", "!!! ??? 123", "  "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"This dress was AMAZING!! 10/10 would buy again.",
		"Mixed CASE with 99 numbers!",
		"already clean text",
		"",
	}
	for _, input := range inputs {
		once := Normalize(input)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", input, twice, once)
		}
	}
}

func TestNormalizeOutputCharset(t *testing.T) {
	inputs := []string{
		"This dress was AMAZING!! 10/10 would buy again.",
		"très élégant, 5 étoiles",
		"symbols #$%^&*() and\ttabs",
		"ALL CAPS REVIEW",
	}
	for _, input := range inputs {
		for _, r := range Normalize(input) {
			if (r < 'a' || r > 'z') && !unicode.IsSpace(r) {
				t.Errorf("Normalize(%q) contains %q outside [a-z\\s]", input, r)
			}
		}
	}
}
