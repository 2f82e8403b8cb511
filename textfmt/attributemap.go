package textfmt

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cicada-go/forest/hypergraph"
)

// EncodeAttributeMap renders a as "key:i=123 key:f=1.5 key:s=base64(str)
// ..." in ascending key order (spec §6: "attribute-map uses typed
// literals"). Strings are base64-encoded so arbitrary bytes (including
// spaces) survive the whitespace-delimited grammar.
func EncodeAttributeMap(a hypergraph.AttributeMap) string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		v := a[k]
		switch v.Kind {
		case hypergraph.AttrInt64:
			parts[i] = fmt.Sprintf("%s:i=%d", k, v.I)
		case hypergraph.AttrFloat64:
			parts[i] = fmt.Sprintf("%s:f=%s", k, encodeDouble(v.F))
		case hypergraph.AttrString:
			parts[i] = fmt.Sprintf("%s:s=%s", k, base64.StdEncoding.EncodeToString([]byte(v.S)))
		}
	}

	return strings.Join(parts, " ")
}

// DecodeAttributeMap parses the textual form produced by
// EncodeAttributeMap. Later entries for the same key win, matching the
// last-writer-wins merge semantics of spec §3.
func DecodeAttributeMap(s string) (hypergraph.AttributeMap, error) {
	fields := strings.Fields(s)
	out := make(hypergraph.AttributeMap, len(fields))
	for _, field := range fields {
		keyKind, val, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("%w: attribute entry %q missing '='", ErrParse, field)
		}
		key, kind, ok := strings.Cut(keyKind, ":")
		if !ok {
			return nil, fmt.Errorf("%w: attribute entry %q missing type tag", ErrParse, field)
		}

		switch kind {
		case "i":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: attribute %q int64: %v", ErrParse, key, err)
			}
			out[key] = hypergraph.Attribute{Kind: hypergraph.AttrInt64, I: n}
		case "f":
			f, err := decodeDouble(val)
			if err != nil {
				return nil, fmt.Errorf("%w: attribute %q float64: %v", ErrParse, key, err)
			}
			out[key] = hypergraph.Attribute{Kind: hypergraph.AttrFloat64, F: f}
		case "s":
			raw, err := base64.StdEncoding.DecodeString(val)
			if err != nil {
				return nil, fmt.Errorf("%w: attribute %q string: %v", ErrParse, key, err)
			}
			out[key] = hypergraph.Attribute{Kind: hypergraph.AttrString, S: string(raw)}
		default:
			return nil, fmt.Errorf("%w: attribute %q unknown type tag %q", ErrParse, key, kind)
		}
	}

	return out, nil
}
