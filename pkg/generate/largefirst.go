package generate

import (
	"context"

	"github.com/matzehuels/vankampen/pkg/group"
)

// LargeFirst works inward from both ends of the word list.
//
// Each cycle starts with a big cursor on the last unbound word and a small
// cursor on the first. While the big word fails to bind, small words are
// tried one after another to grow the boundary, up to MaxSmallForBig of them.
// The big cursor then moves down and the cycle ends when the cursors cross.
// A cycle that binds nothing turns forcing on; a forced cycle that binds
// nothing ends the run.
//
// With Hub set the last word is bound first and its edges are marked InHub.
type LargeFirst struct {
	*base
}

// Generate implements [Generator].
func (lf *LargeFirst) Generate(ctx context.Context, words []group.Word) (Stats, error) {
	lf.begin(words)
	if len(words) == 0 {
		return lf.finish()
	}
	if lf.opts.Hub && !lf.done() {
		if _, err := lf.bind(ctx, words, len(words)-1, false, true); err != nil {
			return lf.stats, err
		}
	}

	force := false
	for !lf.done() {
		n, err := lf.cycle(ctx, words, force)
		if err != nil {
			return lf.stats, err
		}
		if n > 0 {
			continue
		}
		if force {
			break
		}
		force = true
	}
	return lf.finish()
}

// cycle runs the cursors across the unbound words once and returns how many
// were bound.
func (lf *LargeFirst) cycle(ctx context.Context, words []group.Word, force bool) (int, error) {
	lf.stats.Passes++
	n := 0
	small := nextUnbound(lf.bound, -1)
	big := prevUnbound(lf.bound, len(words))
	for big >= 0 && small <= big {
		tries := 0
		for {
			ok, err := lf.bind(ctx, words, big, force, false)
			if err != nil {
				return n, err
			}
			if ok {
				n++
				break
			}
			if lf.opts.MaxSmallForBig > 0 && tries >= lf.opts.MaxSmallForBig {
				break
			}
			if small >= big {
				break
			}
			tries++
			ok, err = lf.bind(ctx, words, small, force, false)
			if err != nil {
				return n, err
			}
			if ok {
				n++
				if lf.done() {
					return n, nil
				}
			}
			small = nextUnbound(lf.bound, small)
		}
		if lf.done() {
			break
		}
		big = prevUnbound(lf.bound, big)
	}
	lf.opts.Logger.Debug("cycle", "pass", lf.stats.Passes, "force", force, "bound", n)
	return n, nil
}
