package generate

import (
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/vankampen/pkg/diagram"
	"github.com/matzehuels/vankampen/pkg/group"
)

// Merging binds every word into its own diagram on a shared graph and then
// merges diagrams pairwise.
//
// Each round sorts the diagrams by circuit word so that diagrams with similar
// boundaries become neighbours, then merges neighbours two at a time. A
// diagram without a partner carries over to the next round. A round that
// merges nothing fails with [ErrDeadlock].
type Merging struct {
	*base
}

// Generate implements [Generator].
func (mg *Merging) Generate(ctx context.Context, words []group.Word) (Stats, error) {
	mg.begin(words)
	limit := mg.target()

	diagrams := make([]*diagram.Diagram, 0, limit)
	for i := range limit {
		if err := ctx.Err(); err != nil {
			return mg.stats, err
		}
		d := diagram.New(mg.g)
		if _, err := d.BindWord(words[i], false, false); err != nil {
			return mg.stats, fmt.Errorf("bind word %d (%s): %w", i, words[i], err)
		}
		mg.bound[i] = true
		mg.stats.Bound++
		diagrams = append(diagrams, d)
	}

	mg.track = newTracker(max(limit-1, 0), mg.opts.Progress)
	for len(diagrams) > 1 {
		next, err := mg.round(ctx, diagrams)
		if err != nil {
			return mg.stats, err
		}
		diagrams = next
	}
	if len(diagrams) == 1 {
		mg.d = diagrams[0]
	}
	return mg.finish()
}

type candidate struct {
	d       *diagram.Diagram
	circuit group.Word
}

func (mg *Merging) round(ctx context.Context, diagrams []*diagram.Diagram) ([]*diagram.Diagram, error) {
	mg.stats.Passes++
	cands := make([]candidate, len(diagrams))
	for i, d := range diagrams {
		w, err := d.CircuitWord()
		if err != nil {
			return nil, err
		}
		cands[i] = candidate{d: d, circuit: w}
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return a.circuit.Compare(b.circuit)
	})

	next := make([]*diagram.Diagram, 0, len(cands))
	merged := 0
	for i := 0; i+1 < len(cands); i += 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur, other := cands[i].d, cands[i+1].d
		ok, err := cur.Merge(other, 0)
		if err != nil {
			return nil, err
		}
		if !ok {
			next = append(next, cur, other)
			continue
		}
		merged++
		mg.stats.Merges++
		mg.track.iterate()
		next = append(next, cur)
	}
	if len(cands)%2 == 1 {
		next = append(next, cands[len(cands)-1].d)
	}

	mg.opts.Logger.Debug("merge round", "round", mg.stats.Passes, "diagrams", len(cands), "merged", merged)
	if merged == 0 {
		return nil, fmt.Errorf("%w: %d diagrams left after %d rounds", ErrDeadlock, len(cands), mg.stats.Passes)
	}
	return next, nil
}
