package group

import (
	"strings"
	"testing"

	errs "github.com/matzehuels/vankampen/pkg/errors"
)

func TestElementRelations(t *testing.T) {
	a, aInv, b := Gen("a"), Inv("a"), Gen("b")

	if !a.Equal(Gen("a")) {
		t.Error("a should equal a")
	}
	if a.Equal(aInv) {
		t.Error("a should not equal a^-1")
	}
	if !a.IsOpposite(aInv) || !aInv.IsOpposite(a) {
		t.Error("a and a^-1 should be opposite")
	}
	if a.IsOpposite(b) {
		t.Error("a and b are not opposite")
	}
	if got := aInv.Inverse(); !got.Equal(a) {
		t.Errorf("Inverse() = %v, want %v", got, a)
	}
}

func TestElementFormatting(t *testing.T) {
	tests := []struct {
		e         Element
		token, st string
	}{
		{Gen("a"), "a", "a"},
		{Inv("a"), "a!", "a^(-1)"},
		{Gen("x1"), "x1", "x1"},
	}
	for _, tt := range tests {
		if got := tt.e.Token(); got != tt.token {
			t.Errorf("Token() = %q, want %q", got, tt.token)
		}
		if got := tt.e.String(); got != tt.st {
			t.Errorf("String() = %q, want %q", got, tt.st)
		}
	}
}

func TestWordOperations(t *testing.T) {
	w := Word{Gen("a"), Gen("b"), Inv("c")}

	if got := w.String(); got != "a*b*c^(-1)" {
		t.Errorf("String() = %q", got)
	}
	if got := w.Inverse(); !got.Equal(Word{Gen("c"), Inv("b"), Inv("a")}) {
		t.Errorf("Inverse() = %v", got)
	}
	if got := w.Rotate(1); !got.Equal(Word{Gen("b"), Inv("c"), Gen("a")}) {
		t.Errorf("Rotate(1) = %v", got)
	}
	if got := w.Rotate(-1); !got.Equal(Word{Inv("c"), Gen("a"), Gen("b")}) {
		t.Errorf("Rotate(-1) = %v", got)
	}
	if got := w.Rotate(3); !got.Equal(w) {
		t.Errorf("Rotate(3) = %v, want identity", got)
	}
	if w.IsSquare() {
		t.Error("three-letter word is not square")
	}
}

func TestWordCompare(t *testing.T) {
	ab := Word{Gen("a"), Gen("b")}
	a := Word{Gen("a")}
	aInvB := Word{Inv("a"), Gen("b")}

	if a.Compare(ab) >= 0 {
		t.Error("prefix should sort first")
	}
	if ab.Compare(aInvB) >= 0 {
		t.Error("forward letter should sort before reversed")
	}
	if ab.Compare(ab) != 0 {
		t.Error("word should compare equal to itself")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		gens  []string
		want  []string
	}{
		{
			name:  "gap",
			input: "F := FreeGroup( a, b );; G := F / [ a*b*a^-1*b^-1, a^2 ];;",
			gens:  []string{"a", "b"},
			want:  []string{"a*b*a^(-1)*b^(-1)", "a*a"},
		},
		{
			name:  "gap parenthesized",
			input: "FreeGroup( x, y ); [ (x)^(-1)*y, y^-2 ]",
			gens:  []string{"x", "y"},
			want:  []string{"x^(-1)*y", "y^(-1)*y^(-1)"},
		},
		{
			name:  "angle",
			input: "<a, b | ab*a'b', b!b!>",
			gens:  []string{"a", "b"},
			want:  []string{"a*b*a^(-1)*b^(-1)", "b^(-1)*b^(-1)"},
		},
		{
			name:  "angle multi-letter generators",
			input: "<x1, x2 | x1x2x1^-1, x2^2>",
			gens:  []string{"x1", "x2"},
			want:  []string{"x1*x2*x1^(-1)", "x2*x2"},
		},
		{
			name:  "lines",
			input: "a*b\n# comment\n\nb^(-1)*a\n",
			gens:  []string{"a", "b"},
			want:  []string{"a*b", "b^(-1)*a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if len(p.Generators) != len(tt.gens) {
				t.Fatalf("Generators = %v, want %v", p.Generators, tt.gens)
			}
			for i, g := range tt.gens {
				if p.Generators[i] != g {
					t.Errorf("Generators[%d] = %q, want %q", i, p.Generators[i], g)
				}
			}
			if len(p.Relators) != len(tt.want) {
				t.Fatalf("got %d relators, want %d", len(p.Relators), len(tt.want))
			}
			for i, w := range tt.want {
				if got := p.Relators[i].String(); got != w {
					t.Errorf("Relators[%d] = %q, want %q", i, got, w)
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"<a, b | >",
		"<a, b ab>",
		"FreeGroup( a, b ); [ a^x ]",
		"a*%",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		if err == nil {
			t.Errorf("Parse(%q) should fail", in)
			continue
		}
		if !errs.Is(err, errs.ErrCodeInvalidPresentation) {
			t.Errorf("Parse(%q) code = %v, want %v", in, errs.GetCode(err), errs.ErrCodeInvalidPresentation)
		}
	}
}

func TestParseLimits(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"huge exponent", "<a | a^5000000>"},
		{"huge starred exponent", "a^2000000000"},
		{"exponent product", "<a | a^300^300>"},
		{"long relator", "a^40000*b^40000"},
		{"total letters", strings.Repeat("a^60000\n", 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !errs.Is(err, errs.ErrCodeInvalidPresentation) {
				t.Errorf("Parse() error = %v, want INVALID_PRESENTATION", err)
			}
		})
	}

	p, err := Parse("<a | a^65536>")
	if err != nil {
		t.Fatalf("Parse() at the limit: %v", err)
	}
	if got := len(p.Relators[0]); got != errs.MaxRelatorLength {
		t.Errorf("relator length = %d, want %d", got, errs.MaxRelatorLength)
	}
}

func TestParseWordRoundTrip(t *testing.T) {
	w := Word{Gen("a"), Inv("b"), Gen("c")}
	got, err := ParseWord(w.String())
	if err != nil {
		t.Fatalf("ParseWord() error: %v", err)
	}
	if !got.Equal(w) {
		t.Errorf("ParseWord() = %v, want %v", got, w)
	}
}
