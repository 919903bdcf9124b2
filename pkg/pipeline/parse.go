package pipeline

import (
	"math/rand/v2"
	"slices"

	errs "github.com/matzehuels/vankampen/pkg/errors"
	"github.com/matzehuels/vankampen/pkg/group"
)

// Parse reads the presentation text into its relator words.
func Parse(text string) ([]group.Word, error) {
	if err := errs.ValidatePresentationText(text); err != nil {
		return nil, err
	}
	p, err := group.Parse(text)
	if err != nil {
		return nil, err
	}
	if len(p.Relators) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidPresentation, "presentation has no relators")
	}
	return p.Relators, nil
}

// Order arranges words for scheduling. Words are shuffled when opts.Shuffle
// is set, then stably sorted shortest first unless opts.NotSort is set. With
// opts.Hub the last input word is held out and placed last, where the
// large-first strategy picks it up as the hub.
//
// The input slice is not modified.
func Order(words []group.Word, opts Options) []group.Word {
	out := slices.Clone(words)
	var hub group.Word
	if opts.Hub && len(out) > 0 {
		hub = out[len(out)-1]
		out = out[:len(out)-1]
	}
	if opts.Shuffle {
		seed := opts.Seed
		if seed == 0 {
			seed = DefaultSeed
		}
		r := rand.New(rand.NewPCG(seed, seed))
		r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	if !opts.NotSort {
		slices.SortStableFunc(out, func(a, b group.Word) int { return len(a) - len(b) })
	}
	if hub != nil {
		out = append(out, hub)
	}
	return out
}
