package generate

import (
	"context"

	"github.com/matzehuels/vankampen/pkg/group"
)

// Iterative sweeps the word list in order, binding whatever fits.
//
// Sweeps run without forcing until one binds nothing, then with forcing until
// every word is bound or a forced sweep binds nothing.
type Iterative struct {
	*base
}

// Generate implements [Generator].
func (it *Iterative) Generate(ctx context.Context, words []group.Word) (Stats, error) {
	it.begin(words)
	for _, force := range []bool{false, true} {
		for !it.done() {
			n, err := it.sweep(ctx, words, force)
			if err != nil {
				return it.stats, err
			}
			if n == 0 {
				break
			}
		}
	}
	return it.finish()
}

// sweep tries every unbound word once and returns how many were bound.
func (it *Iterative) sweep(ctx context.Context, words []group.Word, force bool) (int, error) {
	it.stats.Passes++
	n := 0
	for i := range words {
		if it.bound[i] {
			continue
		}
		ok, err := it.bind(ctx, words, i, force, false)
		if err != nil {
			return n, err
		}
		if !ok {
			continue
		}
		n++
		if it.done() {
			break
		}
	}
	it.opts.Logger.Debug("sweep", "pass", it.stats.Passes, "force", force, "bound", n)
	return n, nil
}
