package diagram

import (
	"fmt"

	"github.com/matzehuels/vankampen/pkg/graph"
	"github.com/matzehuels/vankampen/pkg/group"
)

// match is one candidate overlap between a rotation of the word and the
// reversed, inverted circuit.
type match struct {
	rotation int  // rotation of the word that matched
	begin    int  // offset into the reversed circuit
	length   int  // number of matched letters
	square   bool // matched region contains an edge of a square cell
}

// BindWord glues word onto the diagram as a new 2-cell.
//
// An unstarted diagram lays word out as a fresh cycle. Otherwise every cyclic
// rotation of word is matched against the reversed, inverted boundary
// circuit and the best proper overlap is spliced: the unmatched suffix
// becomes a new path between the two boundary nodes that bracket the matched
// region. Candidates rank by length, then by touching a square-cell edge,
// then by earliest rotation and offset.
//
// BindWord reports false without mutating the graph when no usable overlap
// exists, or when force is false and the overlap is a single letter with
// neither word nor region belonging to a square cell. A word already fully
// present on the boundary is reported bound with no change.
//
// Every edge created gets priority 1/len(word), as does every boundary edge
// of the matched region. isHub marks the created edges InHub.
func (d *Diagram) BindWord(word group.Word, force, isHub bool) (bool, error) {
	if len(word) == 0 {
		return false, ErrEmptyWord
	}
	if d.terminal == graph.None {
		if err := d.layCycle(word, isHub); err != nil {
			return false, err
		}
		return true, nil
	}

	circ, err := d.Circuit()
	if err != nil {
		return false, err
	}
	m := len(circ)
	text := make([]string, m)
	for k := range circ {
		text[k] = circ[m-1-k].Label.Inverse().Token()
	}

	var best match
	found := false
	for rot := range word {
		pattern := word.Rotate(rot).Tokens()
		full := false
		eachMatch(pattern, text, func(begin, length int) bool {
			if length == len(word) {
				full = true
				return false
			}
			if !properMatch(begin, length, m) {
				return true
			}
			c := match{rotation: rot, begin: begin, length: length}
			c.square = regionSquare(circ, m-length-begin, length)
			if !found || c.length > best.length || (c.length == best.length && c.square && !best.square) {
				best, found = c, true
			}
			return true
		})
		if full {
			return true, nil
		}
	}
	if !found {
		return false, nil
	}
	if !force && best.length < 2 && !word.IsSquare() && !best.square {
		return false, nil
	}
	return true, d.splice(circ, word, best, isHub)
}

// properMatch rejects degenerate overlaps: empty, the whole boundary, or one
// touching the seam at the terminal.
func properMatch(begin, length, circuitLen int) bool {
	return length > 0 && length < circuitLen && begin != 0 && begin+length != circuitLen
}

func regionSquare(circ []Step, from, length int) bool {
	for _, s := range circ[from : from+length] {
		if s.InSquare {
			return true
		}
	}
	return false
}

// eachMatch runs Knuth-Morris-Pratt over text and reports every occurrence of
// a prefix of pattern, longest first at each text position, as the offset
// where it begins and its length. yield returning false stops the scan.
func eachMatch(pattern, text []string, yield func(begin, length int) bool) {
	fail := prefixFunction(pattern)
	q := 0
	for i, tok := range text {
		for q > 0 && (q == len(pattern) || pattern[q] != tok) {
			q = fail[q-1]
		}
		if pattern[q] == tok {
			q++
		}
		for l := q; l > 0; l = fail[l-1] {
			if !yield(i+1-l, l) {
				return
			}
		}
	}
}

func prefixFunction(p []string) []int {
	fail := make([]int, len(p))
	k := 0
	for i := 1; i < len(p); i++ {
		for k > 0 && p[i] != p[k] {
			k = fail[k-1]
		}
		if p[i] == p[k] {
			k++
		}
		fail[i] = k
	}
	return fail
}

// layCycle lays word out as a closed chain starting and ending at a fresh
// node, then advances the terminal onto the first edge's target.
func (d *Diagram) layCycle(word group.Word, isHub bool) error {
	start := d.g.AddNode()
	if err := d.addPath(start, start, word, word, isHub); err != nil {
		return err
	}
	// The closing pair left start pointing backwards; the circuit leaves
	// start along the first letter.
	if err := d.g.SetBoundary(start, 0); err != nil {
		return err
	}
	d.terminal = start
	return d.advance()
}

// splice lays the unmatched part of the chosen rotation between the nodes
// bracketing the matched region and reinforces the region's edges.
func (d *Diagram) splice(circ []Step, word group.Word, c match, isHub bool) error {
	m := len(circ)
	nb := m - c.length - c.begin
	branchFrom := circ[nb-1].To
	branchTo := circ[nb+c.length-1].To
	if branchFrom == branchTo {
		return fmt.Errorf("%w: region brackets a single node %d", ErrCircuitNotClosed, branchFrom)
	}

	amount := 1 / float64(len(word))
	for _, s := range circ[nb : nb+c.length] {
		if err := d.g.IncreaseLabeledEdgePriority(s.From, s.To, s.Label, amount); err != nil {
			return err
		}
	}

	keep, err := d.g.BoundaryIndex(branchTo)
	if err != nil {
		return err
	}
	rest := word.Rotate(c.rotation)[c.length:]
	if err := d.addPath(branchFrom, branchTo, rest, word, isHub); err != nil {
		return err
	}
	// branchTo continues along the old boundary.
	if err := d.g.SetBoundary(branchTo, keep); err != nil {
		return err
	}
	return d.advance()
}

// addPath lays letters as a chain of forward/inverse pairs from one node to
// another, allocating the intermediate nodes. Created edges carry
// 1/len(word) priority and are square edges when word has four letters.
func (d *Diagram) addPath(from, to graph.NodeID, letters, word group.Word, isHub bool) error {
	proto := graph.Transition{
		InSquare: word.IsSquare(),
		Priority: 1 / float64(len(word)),
		InHub:    isHub,
	}
	prev := from
	for i, e := range letters {
		next := to
		if i < len(letters)-1 {
			next = d.g.AddNode()
		}
		fwd, back := proto, proto
		fwd.To, fwd.Label = next, e
		back.To, back.Label = prev, e.Inverse()
		if err := d.g.AddTransition(prev, fwd); err != nil {
			return err
		}
		if err := d.g.AddTransition(next, back); err != nil {
			return err
		}
		prev = next
	}
	return nil
}
