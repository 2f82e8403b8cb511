package textfmt

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cicada-go/forest/hypergraph"
)

// WriteHypergraph renders h as a sequence of node records followed by edge
// records followed by the goal record (spec §6: "a sequence of node
// records; each edge is ⟨head-id, [tail-ids], rule-text, feature-map,
// attribute-map⟩ ... the goal node id is emitted last").
//
// Node ids and edge ids are implicit in record order (hypergraph's own
// invariant: edge.id/node.id equal their position), so only edge records
// carry a head id; nodes are recreated by count alone.
func WriteHypergraph(w io.Writer, h *hypergraph.Hypergraph) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "NODES %d\n", h.NumNodes()); err != nil {
		return err
	}
	for _, e := range h.Edges() {
		tailsField := "-"
		if len(e.Tails) > 0 {
			tails := make([]string, len(e.Tails))
			for i, t := range e.Tails {
				tails[i] = strconv.Itoa(t)
			}
			tailsField = strings.Join(tails, ",")
		}
		ruleField := "-"
		if e.Rule != nil {
			ruleField = base64.StdEncoding.EncodeToString([]byte(fmt.Sprint(e.Rule)))
		}
		line := fmt.Sprintf("EDGE %d %s %s %s %s\n",
			e.Head,
			tailsField,
			ruleField,
			quoteField(EncodeFeatureMap(e.Features)),
			quoteField(EncodeAttributeMap(e.Attributes)),
		)
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "GOAL %d\n", h.Goal()); err != nil {
		return err
	}

	return bw.Flush()
}

// ReadHypergraph parses the text format produced by WriteHypergraph.
func ReadHypergraph(r io.Reader) (*hypergraph.Hypergraph, error) {
	h := hypergraph.New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	sawNodes := false
	sawGoal := false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, " ", 2)
		switch fields[0] {
		case "NODES":
			if sawNodes {
				return nil, fmt.Errorf("%w: duplicate NODES record", ErrParse)
			}
			sawNodes = true
			n, err := strconv.Atoi(strings.TrimSpace(fields[1]))
			if err != nil {
				return nil, fmt.Errorf("%w: NODES count: %v", ErrParse, err)
			}
			for i := 0; i < n; i++ {
				h.AddNode()
			}
		case "EDGE":
			if !sawNodes {
				return nil, fmt.Errorf("%w: EDGE before NODES", ErrParse)
			}
			if err := readEdge(h, fields[1]); err != nil {
				return nil, err
			}
		case "GOAL":
			sawGoal = true
			g, err := strconv.Atoi(strings.TrimSpace(fields[1]))
			if err != nil {
				return nil, fmt.Errorf("%w: GOAL id: %v", ErrParse, err)
			}
			if g != hypergraph.Invalid {
				if err := h.SetGoal(g); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrParse, err)
				}
			}
		default:
			return nil, fmt.Errorf("%w: unknown record %q", ErrParse, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !sawGoal {
		return nil, fmt.Errorf("%w: missing GOAL record", ErrParse)
	}

	return h, nil
}

func readEdge(h *hypergraph.Hypergraph, rest string) error {
	parts := splitFields(rest, 5)
	if len(parts) != 5 {
		return fmt.Errorf("%w: EDGE record has %d fields, want 5", ErrParse, len(parts))
	}

	head, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("%w: EDGE head: %v", ErrParse, err)
	}

	var tails []int
	if parts[1] != "-" && parts[1] != "" {
		for _, t := range strings.Split(parts[1], ",") {
			id, err := strconv.Atoi(t)
			if err != nil {
				return fmt.Errorf("%w: EDGE tail %q: %v", ErrParse, t, err)
			}
			tails = append(tails, id)
		}
	}

	var rule hypergraph.RuleRef
	if parts[2] != "-" {
		ruleRaw, err := base64.StdEncoding.DecodeString(parts[2])
		if err != nil {
			return fmt.Errorf("%w: EDGE rule-text: %v", ErrParse, err)
		}
		rule = string(ruleRaw)
	}

	features, err := DecodeFeatureMap(unquoteField(parts[3]))
	if err != nil {
		return err
	}
	attrs, err := DecodeAttributeMap(unquoteField(parts[4]))
	if err != nil {
		return err
	}

	_, err = h.AddEdge(head, tails, rule, features, attrs)

	return err
}

// quoteField wraps s in brackets so an empty feature/attribute map still
// occupies a field position in the whitespace-split EDGE record.
func quoteField(s string) string {
	return "[" + s + "]"
}

func unquoteField(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
}

// splitFields splits rest into exactly n whitespace-delimited fields,
// where the last two fields (bracketed feature/attribute maps) may
// themselves contain spaces.
func splitFields(rest string, n int) []string {
	out := make([]string, 0, n)
	remaining := rest
	for len(out) < n-2 {
		remaining = strings.TrimLeft(remaining, " ")
		idx := strings.IndexByte(remaining, ' ')
		if idx < 0 {
			out = append(out, remaining)
			return out
		}
		out = append(out, remaining[:idx])
		remaining = remaining[idx+1:]
	}
	remaining = strings.TrimLeft(remaining, " ")

	// remaining is now "[features] [attributes]"; split on the boundary
	// "] [" between the two bracketed fields.
	close1 := strings.Index(remaining, "] [")
	if close1 < 0 {
		// one or both maps empty, e.g. "[] []" still matches above; if not
		// found, treat the whole remainder as the features field and the
		// attributes field as empty brackets.
		out = append(out, remaining, "[]")
		return out
	}
	out = append(out, remaining[:close1+1], remaining[close1+2:])

	return out
}
