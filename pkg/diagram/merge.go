package diagram

import (
	"fmt"

	"github.com/matzehuels/vankampen/pkg/graph"
)

// Merge glues other into d along a run of their circuits that cancel.
//
// A run of length L pairs L consecutive steps of d's circuit with L
// consecutive steps of other's circuit read backwards, each pair carrying
// opposite labels. With hint > 0 only runs of exactly that length are
// considered; otherwise the longest run wins, earliest positions first. A run
// may not cover either circuit completely.
//
// On success the L+1 boundary nodes of other's run are folded into d's, the
// cancelled edges of other are removed, d's terminal moves to the start of
// the run and other becomes empty. The merged circuit has len(d)+len(other)-2L
// steps. Merge reports false without mutating either diagram when no run
// qualifies or either diagram is unstarted.
//
// Nodes are folded with no untouchable set. The cancelled edges of other
// are removed first, so folding cannot duplicate a seam edge onto d's side.
func (d *Diagram) Merge(other *Diagram, hint int) (bool, error) {
	if other == d {
		return false, nil
	}
	if other.g != d.g {
		return false, ErrForeignGraph
	}
	if d.Empty() || other.Empty() {
		return false, nil
	}
	mine, err := d.Circuit()
	if err != nil {
		return false, err
	}
	theirs, err := other.Circuit()
	if err != nil {
		return false, err
	}
	m, n := len(mine), len(theirs)

	i, j, length := cancellingRun(mine, theirs, hint)
	if length == 0 || length >= m || length >= n {
		return false, nil
	}

	// Cancelled edges of other run backwards from just before its seam node.
	for l := range length {
		b := theirs[mod(n-1-j-l, n)]
		if err := d.g.RemoveEdgePair(b.From, b.To, b.Label); err != nil {
			return false, err
		}
	}

	folded := make(map[graph.NodeID]graph.NodeID, length+1)
	for l := 0; l <= length; l++ {
		alive := mine[mod(i+l, m)].From
		dead := theirs[mod(n-j-l, n)].From
		if err := d.g.MergeNodes(alive, dead); err != nil {
			return false, err
		}
		folded[dead] = alive
	}

	// The run's first node now leaves along other's circuit.
	start := mine[i].From
	exit := theirs[mod(n-j, n)]
	to := exit.To
	if a, ok := folded[to]; ok {
		to = a
	}
	idx := d.g.FindTransition(start, to, exit.Label)
	if idx < 0 {
		return false, fmt.Errorf("%w: merged node %d lost its exit %s to %d", ErrNoBoundary, start, exit.Label, to)
	}
	if err := d.g.SetBoundary(start, idx); err != nil {
		return false, err
	}

	d.terminal = start
	other.terminal = graph.None
	if _, err := d.Circuit(); err != nil {
		return false, err
	}
	return true, nil
}

// cancellingRun finds the run where mine[i+l] cancels the l-th step of theirs
// read backwards from offset j. It returns a zero length when none exists.
func cancellingRun(mine, theirs []Step, hint int) (i, j, length int) {
	m, n := len(mine), len(theirs)
	limit := min(m, n) - 1
	back := make([]Step, n)
	for k := range theirs {
		back[k] = theirs[n-1-k]
	}
	run := func(i, j int) int {
		l := 0
		for l < limit && mine[(i+l)%m].Label.IsOpposite(back[(j+l)%n].Label) {
			l++
		}
		return l
	}

	if hint > 0 {
		if hint > limit {
			return 0, 0, 0
		}
		for i := range m {
			for j := range n {
				if run(i, j) >= hint {
					return i, j, hint
				}
			}
		}
		return 0, 0, 0
	}

	for a := range m {
		for b := range n {
			if l := run(a, b); l > length {
				i, j, length = a, b, l
			}
		}
	}
	return i, j, length
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
