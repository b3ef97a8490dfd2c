package titles

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Lowercases and trims",
			in:   "  The Matrix  ",
			want: "matrix",
		},
		{
			name: "Drops trailing year in parentheses",
			in:   "The Matrix (1999)",
			want: "matrix",
		},
		{
			name: "Drops bare trailing year",
			in:   "Blade Runner 1982",
			want: "blade runner",
		},
		{
			name: "Drops release annotations",
			in:   "The.Matrix.1999.1080p.BluRay.x264",
			want: "matrix",
		},
		{
			name: "Ampersand becomes and",
			in:   "Law & Order",
			want: "law and order",
		},
		{
			name: "Apostrophes removed, not spaced",
			in:   "Ocean's Eleven",
			want: "oceans eleven",
		},
		{
			name: "Trailing bracketed group stripped",
			in:   "Inception [YIFY]",
			want: "inception",
		},
		{
			name: "Part suffix with number dropped",
			in:   "Kill Bill Vol 1",
			want: "kill bill",
		},
		{
			name: "Trailing sequel number dropped",
			in:   "Toy Story 2",
			want: "toy story",
		},
		{
			name: "Article only dropped when words remain",
			in:   "It",
			want: "it",
		},
		{
			name: "Year alone is kept",
			in:   "1917",
			want: "1917",
		},
		{
			name: "Empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"The Matrix (1999)",
		"Kill Bill Vol 1",
		"Spider-Man: No Way Home",
		"Law & Order",
		"Se7en",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("The Lord of the Rings (2001)")
	want := []string{"lord", "of", "the", "rings"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokens = %v, want %v", got, want)
	}

	if Tokens("") != nil {
		t.Fatalf("expected nil tokens for empty input")
	}
}
