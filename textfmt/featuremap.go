package textfmt

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cicada-go/forest/vector"
)

// EncodeFeatureMap renders f as "id=base64(double) id=base64(double) ..."
// in ascending feature-id order, so identical maps always produce
// identical text (spec §6: feature-map textual form is
// `name=base64(double) …`; this core has no symbol table wired to a
// string vocabulary, so the decimal feature-id itself stands in for
// "name", per spec §9's external-interning note).
func EncodeFeatureMap(f vector.FeatureMap) string {
	ids := make([]vector.FeatureID, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d=%s", id, encodeDouble(f[id]))
	}

	return strings.Join(parts, " ")
}

// DecodeFeatureMap parses the textual form produced by EncodeFeatureMap.
// An empty or all-whitespace string decodes to an empty, non-nil map.
func DecodeFeatureMap(s string) (vector.FeatureMap, error) {
	fields := strings.Fields(s)
	out := vector.NewFeatureMap(len(fields))
	for _, field := range fields {
		name, b64, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("%w: feature entry %q missing '='", ErrParse, field)
		}
		id, err := strconv.ParseUint(name, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: feature id %q: %v", ErrParse, name, err)
		}
		v, err := decodeDouble(b64)
		if err != nil {
			return nil, fmt.Errorf("%w: feature value %q: %v", ErrParse, b64, err)
		}
		out[vector.FeatureID(id)] = v
	}

	return out, nil
}

func encodeDouble(v float64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))

	return base64.StdEncoding.EncodeToString(buf[:])
}

func decodeDouble(s string) (float64, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return 0, err
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("double must encode 8 bytes, got %d", len(raw))
	}

	return math.Float64frombits(binary.BigEndian.Uint64(raw)), nil
}
