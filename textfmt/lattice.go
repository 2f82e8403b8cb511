package textfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cicada-go/forest/vector"
)

// LatticeArc is one transition out of a lattice position: a label, a
// feature contribution (a bare weight decodes to feature id 0), and a
// distance — how many source-side positions the arc spans (spec §6).
type LatticeArc struct {
	Label    string
	Features vector.FeatureMap
	Distance int
}

// LatticePosition is one arc-set. An empty arc-set is an absorbing
// state: no choice is made there and it contributes no distance (spec
// §6: "an empty arc-set denotes absorbing state").
type LatticePosition struct {
	Arcs []LatticeArc
}

// Lattice is the parsed nested-array lattice format of spec §6: an
// ordered sequence of positions, each a set of alternative arcs.
type Lattice struct {
	Positions []LatticePosition
}

// ShortestDistance sums, over every position, the minimum arc distance
// at that position (0 for an absorbing/empty arc-set) — the length of
// the cheapest path that picks one arc per position.
func (l *Lattice) ShortestDistance() int {
	return l.extremeDistance(false)
}

// LongestDistance is ShortestDistance's counterpart using the maximum
// arc distance per position.
func (l *Lattice) LongestDistance() int {
	return l.extremeDistance(true)
}

func (l *Lattice) extremeDistance(longest bool) int {
	total := 0
	for _, pos := range l.Positions {
		if len(pos.Arcs) == 0 {
			continue
		}
		best := pos.Arcs[0].Distance
		for _, a := range pos.Arcs[1:] {
			if (longest && a.Distance > best) || (!longest && a.Distance < best) {
				best = a.Distance
			}
		}
		total += best
	}

	return total
}

// latticeScanner is a minimal recursive-descent cursor over the nested
// Python-tuple-like lattice grammar of spec §6.
type latticeScanner struct {
	s   string
	pos int
}

// ParseLattice parses the nested arc-set grammar of spec §6:
// "(((label,weight,distance), ...), (...), ...)" with single- or
// double-quoted labels, positive integer distances, and trailing commas
// permitted after the last element of any tuple (Python tuple-literal
// style).
func ParseLattice(s string) (*Lattice, error) {
	sc := &latticeScanner{s: s}
	sc.skipSpace()
	if err := sc.expect('('); err != nil {
		return nil, err
	}

	var positions []LatticePosition
	sc.skipSpace()
	for sc.peek() != ')' {
		pos, err := sc.parsePosition()
		if err != nil {
			return nil, err
		}
		positions = append(positions, pos)
		sc.skipSpace()
		if sc.peek() == ',' {
			sc.pos++
			sc.skipSpace()
		}
	}
	if err := sc.expect(')'); err != nil {
		return nil, err
	}
	sc.skipSpace()
	if sc.pos != len(sc.s) {
		return nil, fmt.Errorf("%w: lattice: trailing input %q", ErrParse, sc.s[sc.pos:])
	}

	return &Lattice{Positions: positions}, nil
}

func (sc *latticeScanner) parsePosition() (LatticePosition, error) {
	if err := sc.expect('('); err != nil {
		return LatticePosition{}, err
	}

	var arcs []LatticeArc
	sc.skipSpace()
	for sc.peek() != ')' {
		arc, err := sc.parseArc()
		if err != nil {
			return LatticePosition{}, err
		}
		arcs = append(arcs, arc)
		sc.skipSpace()
		if sc.peek() == ',' {
			sc.pos++
			sc.skipSpace()
		}
	}
	if err := sc.expect(')'); err != nil {
		return LatticePosition{}, err
	}

	return LatticePosition{Arcs: arcs}, nil
}

func (sc *latticeScanner) parseArc() (LatticeArc, error) {
	if err := sc.expect('('); err != nil {
		return LatticeArc{}, err
	}
	sc.skipSpace()

	label, err := sc.parseLabel()
	if err != nil {
		return LatticeArc{}, err
	}
	sc.skipSpace()
	if err := sc.expect(','); err != nil {
		return LatticeArc{}, err
	}
	sc.skipSpace()

	weight, err := sc.parseNumber()
	if err != nil {
		return LatticeArc{}, err
	}
	sc.skipSpace()
	if err := sc.expect(','); err != nil {
		return LatticeArc{}, err
	}
	sc.skipSpace()

	distance, err := sc.parseInt()
	if err != nil {
		return LatticeArc{}, err
	}
	if distance <= 0 {
		return LatticeArc{}, fmt.Errorf("%w: lattice: distance must be positive, got %d", ErrParse, distance)
	}
	sc.skipSpace()
	if err := sc.expect(')'); err != nil {
		return LatticeArc{}, err
	}

	return LatticeArc{Label: label, Features: vector.FeatureMap{0: weight}, Distance: distance}, nil
}

func (sc *latticeScanner) parseLabel() (string, error) {
	if sc.pos >= len(sc.s) {
		return "", fmt.Errorf("%w: lattice: unexpected end of input parsing label", ErrParse)
	}
	quote := sc.s[sc.pos]
	if quote != '\'' && quote != '"' {
		return "", fmt.Errorf("%w: lattice: label must be quoted, got %q", ErrParse, string(quote))
	}
	sc.pos++
	start := sc.pos
	for sc.pos < len(sc.s) && sc.s[sc.pos] != quote {
		sc.pos++
	}
	if sc.pos >= len(sc.s) {
		return "", fmt.Errorf("%w: lattice: unterminated label", ErrParse)
	}
	label := sc.s[start:sc.pos]
	sc.pos++ // closing quote

	return label, nil
}

func (sc *latticeScanner) parseNumber() (float64, error) {
	start := sc.pos
	for sc.pos < len(sc.s) && strings.ContainsRune("0123456789.eE+-", rune(sc.s[sc.pos])) {
		sc.pos++
	}
	if start == sc.pos {
		return 0, fmt.Errorf("%w: lattice: expected a number at offset %d", ErrParse, start)
	}
	v, err := strconv.ParseFloat(sc.s[start:sc.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: lattice: malformed number %q: %v", ErrParse, sc.s[start:sc.pos], err)
	}

	return v, nil
}

func (sc *latticeScanner) parseInt() (int, error) {
	start := sc.pos
	for sc.pos < len(sc.s) && sc.s[sc.pos] >= '0' && sc.s[sc.pos] <= '9' {
		sc.pos++
	}
	if start == sc.pos {
		return 0, fmt.Errorf("%w: lattice: expected an integer at offset %d", ErrParse, start)
	}

	return strconv.Atoi(sc.s[start:sc.pos])
}

func (sc *latticeScanner) skipSpace() {
	for sc.pos < len(sc.s) && (sc.s[sc.pos] == ' ' || sc.s[sc.pos] == '\t' || sc.s[sc.pos] == '\n') {
		sc.pos++
	}
}

func (sc *latticeScanner) peek() byte {
	if sc.pos >= len(sc.s) {
		return 0
	}

	return sc.s[sc.pos]
}

func (sc *latticeScanner) expect(b byte) error {
	if sc.peek() != b {
		return fmt.Errorf("%w: lattice: expected %q at offset %d, got %q", ErrParse, string(b), sc.pos, string(sc.peek()))
	}
	sc.pos++

	return nil
}
