package group

import (
	"slices"
	"strconv"
	"strings"
	"unicode"

	errs "github.com/matzehuels/vankampen/pkg/errors"
)

// Parse reads a group presentation in one of the supported textual forms:
//
//	F := FreeGroup( a, b );; G := F / [ a*b*a^-1*b^-1, a^2 ];;   GAP style
//	<a, b | ab*a'b', b!b!>                                     angle style
//	a*b*a^(-1)*b^(-1)                                          one relator per line
//
// Malformed input yields an [errs.ErrCodeInvalidPresentation] error, as do
// relators longer than [errs.MaxRelatorLength] letters once exponents are
// expanded and presentations beyond [errs.MaxPresentationLetters] letters.
func Parse(text string) (*Presentation, error) {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return nil, errs.New(errs.ErrCodeInvalidPresentation, "empty presentation")
	case strings.Contains(trimmed, "FreeGroup("):
		return parseGAP(trimmed)
	case strings.HasPrefix(trimmed, "<"):
		return parseAngle(trimmed)
	default:
		return parseLines(trimmed)
	}
}

// ParseWord parses a single relator written with "*"-separated factors, the
// format produced by [Word.String].
func ParseWord(s string) (Word, error) {
	w, err := parseStarred(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if len(w) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidPresentation, "empty relator")
	}
	return w, nil
}

// =============================================================================
// GAP style
// =============================================================================

func parseGAP(text string) (*Presentation, error) {
	start := strings.Index(text, "FreeGroup(")
	rest := text[start+len("FreeGroup("):]
	end := strings.Index(rest, ")")
	if end < 0 {
		return nil, errs.New(errs.ErrCodeInvalidPresentation, "unterminated FreeGroup generator list")
	}
	gens := splitList(rest[:end])
	rest = rest[end+1:]

	open := strings.Index(rest, "[")
	if open < 0 {
		return nil, errs.New(errs.ErrCodeInvalidPresentation, "missing relator list")
	}
	closing := strings.LastIndex(rest, "]")
	if closing < open {
		return nil, errs.New(errs.ErrCodeInvalidPresentation, "unterminated relator list")
	}

	p := &Presentation{Generators: gens}
	letters := 0
	for _, rel := range splitList(rest[open+1 : closing]) {
		w, err := parseStarred(rel)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPresentation, err, "relator %q", rel)
		}
		if err := addRelator(p, w, &letters); err != nil {
			return nil, err
		}
	}
	return finish(p)
}

// =============================================================================
// Angle style
// =============================================================================

func parseAngle(text string) (*Presentation, error) {
	if !strings.HasSuffix(text, ">") {
		return nil, errs.New(errs.ErrCodeInvalidPresentation, "presentation must end with '>'")
	}
	body := text[1 : len(text)-1]
	gensPart, relsPart, ok := strings.Cut(body, "|")
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidPresentation, "missing '|' between generators and relators")
	}

	p := &Presentation{Generators: splitList(gensPart)}
	letters := 0
	for _, rel := range splitList(relsPart) {
		w, err := scanRelator(rel, p.Generators)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPresentation, err, "relator %q", rel)
		}
		if err := addRelator(p, w, &letters); err != nil {
			return nil, err
		}
	}
	return finish(p)
}

// scanRelator reads factors that may be juxtaposed ("ab'c") or separated by
// "*" and spaces. Declared generator names are matched longest first; any
// other letter is a single-letter generator.
func scanRelator(s string, gens []string) (Word, error) {
	names := slices.Clone(gens)
	slices.SortFunc(names, func(a, b string) int { return len(b) - len(a) })

	var (
		w   Word
		err error
	)
	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		if unicode.IsSpace(r) || r == '*' {
			i++
			continue
		}

		name := ""
		for _, g := range names {
			if g != "" && strings.HasPrefix(string(runes[i:]), g) {
				name = g
				break
			}
		}
		if name == "" {
			if !isNameRune(r) {
				return nil, errs.New(errs.ErrCodeInvalidPresentation, "unexpected %q at offset %d", r, i)
			}
			name = string(r)
		}
		i += len([]rune(name))

		reversed := false
		power := 1
		for i < len(runes) {
			switch runes[i] {
			case '!', '\'':
				reversed = !reversed
				i++
				continue
			case '^':
				j := i + 1
				for j < len(runes) && (runes[j] == '(' || runes[j] == ')' || runes[j] == '-' || unicode.IsDigit(runes[j])) {
					j++
				}
				exp, err := parseExponent(string(runes[i+1 : j]))
				if err != nil {
					return nil, err
				}
				power *= exp
				if power > errs.MaxRelatorLength || -power > errs.MaxRelatorLength {
					return nil, errs.New(errs.ErrCodeInvalidPresentation, "exponent of %s too large (max %d)", name, errs.MaxRelatorLength)
				}
				i = j
				continue
			}
			break
		}
		if w, err = appendPower(w, Element{Name: name, Reversed: reversed}, power); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// =============================================================================
// Line style
// =============================================================================

func parseLines(text string) (*Presentation, error) {
	p := &Presentation{}
	letters := 0
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w, err := parseStarred(line)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPresentation, err, "line %d", n+1)
		}
		if err := addRelator(p, w, &letters); err != nil {
			return nil, err
		}
	}
	p.Generators = generatorsOf(p.Relators)
	return finish(p)
}

// =============================================================================
// Factors
// =============================================================================

// parseStarred parses "*"-separated factors such as "a", "(a)", "a^-1",
// "a^(-1)", "b^3" or "c!".
func parseStarred(s string) (Word, error) {
	var (
		w   Word
		err error
	)
	for _, f := range strings.Split(s, "*") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		base, exp, hasExp := strings.Cut(f, "^")
		power := 1
		if hasExp {
			if power, err = parseExponent(exp); err != nil {
				return nil, err
			}
		}
		base = strings.TrimSpace(base)
		base = strings.TrimSuffix(strings.TrimPrefix(base, "("), ")")
		reversed := false
		for strings.HasSuffix(base, "!") || strings.HasSuffix(base, "'") {
			reversed = !reversed
			base = base[:len(base)-1]
		}
		if base == "" || !isName(base) {
			return nil, errs.New(errs.ErrCodeInvalidPresentation, "invalid factor %q", f)
		}
		if w, err = appendPower(w, Element{Name: base, Reversed: reversed}, power); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func parseExponent(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return 0, errs.New(errs.ErrCodeInvalidPresentation, "invalid exponent %q", s)
	}
	if n > errs.MaxRelatorLength || -n > errs.MaxRelatorLength {
		return 0, errs.New(errs.ErrCodeInvalidPresentation, "exponent %d too large (max %d)", n, errs.MaxRelatorLength)
	}
	return n, nil
}

// appendPower appends power copies of e, or of its inverse for a negative
// power, keeping the relator within MaxRelatorLength letters.
func appendPower(w Word, e Element, power int) (Word, error) {
	if power < 0 {
		e = e.Inverse()
		power = -power
	}
	if len(w)+power > errs.MaxRelatorLength {
		return nil, errs.New(errs.ErrCodeInvalidPresentation, "relator too long (max %d letters)", errs.MaxRelatorLength)
	}
	for range power {
		w = append(w, e)
	}
	return w, nil
}

// addRelator appends a non-empty w to p while the presentation stays within
// MaxPresentationLetters letters in total.
func addRelator(p *Presentation, w Word, letters *int) error {
	if len(w) == 0 {
		return nil
	}
	*letters += len(w)
	if *letters > errs.MaxPresentationLetters {
		return errs.New(errs.ErrCodeInvalidPresentation, "presentation too long (max %d letters)", errs.MaxPresentationLetters)
	}
	p.Relators = append(p.Relators, w)
	return nil
}

func finish(p *Presentation) (*Presentation, error) {
	if len(p.Relators) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidPresentation, "presentation has no relators")
	}
	if len(p.Generators) == 0 {
		p.Generators = generatorsOf(p.Relators)
	}
	return p, nil
}

func generatorsOf(words []Word) []string {
	var gens []string
	for _, w := range words {
		for _, e := range w {
			if !slices.Contains(gens, e.Name) {
				gens = append(gens, e.Name)
			}
		}
	}
	return gens
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isName(s string) bool {
	for _, r := range s {
		if !isNameRune(r) {
			return false
		}
	}
	return true
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
