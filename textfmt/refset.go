package textfmt

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ReferenceSet maps a segment id to its (possibly multiple) reference
// token sequences, in the order encountered (spec §6: "Multiple
// references per id allowed").
type ReferenceSet map[int][][]string

// WriteReferenceSet renders refs as "id ||| reference-sentence" lines,
// one per reference, segments in ascending id order (spec §6).
func WriteReferenceSet(w io.Writer, refs ReferenceSet) error {
	ids := make([]int, 0, len(refs))
	for id := range refs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	bw := bufio.NewWriter(w)
	for _, id := range ids {
		for _, ref := range refs[id] {
			if _, err := fmt.Fprintf(bw, "%d ||| %s\n", id, strings.Join(ref, " ")); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// ReadReferenceSet parses the text format produced by WriteReferenceSet,
// appending references in file order for repeated ids.
func ReadReferenceSet(r io.Reader) (ReferenceSet, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	out := ReferenceSet{}
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, " ||| ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: reference line %q: want 2 '|||'-separated fields", ErrParse, line)
		}
		id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: reference id: %v", ErrParse, err)
		}
		out[id] = append(out[id], strings.Fields(parts[1]))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
