package scorer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxOrder is the default highest n-gram order BLEU accounts for (spec
// §8 seed scenario 4 uses four orders).
const MaxOrder = 4

// SmoothBase and SmoothGrowth parameterize the geometric smoothing
// chain of spec §4.5 and §7: an order n whose matched count is zero but
// whose hypothesis count is positive is credited SmoothBase *
// SmoothGrowth^n matched n-grams instead of zero, avoiding a log(0) in
// the geometric mean.
const (
	SmoothBase   = 1e-40
	SmoothGrowth = 2.0
)

// Bleu is the additive BLEU-family statistic of spec §3/§4.5: per-order
// matched and hypothesis n-gram counts, plus the reference length used
// for the brevity penalty. Matched and Hypothesis always have the same
// length (the configured max order).
type Bleu struct {
	Matched    []float64
	Hypothesis []float64
	RefLength  float64
	HypLength  float64
}

// NewBleu returns a zero-valued statistic of the given order, suitable
// as a corpus accumulator seed.
func NewBleu(order int) *Bleu {
	return &Bleu{
		Matched:    make([]float64, order),
		Hypothesis: make([]float64, order),
	}
}

// Add implements Statistic by returning the pointwise sum of two BLEU
// statistics of matching order.
func (b *Bleu) Add(other Statistic) Statistic {
	o := other.(*Bleu)
	out := NewBleu(len(b.Matched))
	for i := range out.Matched {
		out.Matched[i] = b.Matched[i] + o.Matched[i]
		out.Hypothesis[i] = b.Hypothesis[i] + o.Hypothesis[i]
	}
	out.RefLength = b.RefLength + o.RefLength
	out.HypLength = b.HypLength + o.HypLength

	return out
}

// Sub implements Statistic by returning the pointwise difference of two
// BLEU statistics of matching order (used to remove a hypothesis's
// contribution from a corpus aggregate, spec §4.6).
func (b *Bleu) Sub(other Statistic) Statistic {
	o := other.(*Bleu)
	out := NewBleu(len(b.Matched))
	for i := range out.Matched {
		out.Matched[i] = b.Matched[i] - o.Matched[i]
		out.Hypothesis[i] = b.Hypothesis[i] - o.Hypothesis[i]
	}
	out.RefLength = b.RefLength - o.RefLength
	out.HypLength = b.HypLength - o.HypLength

	return out
}

// Score computes the smoothed BLEU in [0,1] (spec §4.5/§7: division by
// zero in the aggregation is masked by the smoothing chain, never
// propagated).
func (b *Bleu) Score() float64 {
	if b.HypLength <= 0 {
		return 0
	}

	logSum := 0.0
	n := 0
	for i := range b.Matched {
		h := b.Hypothesis[i]
		if h <= 0 {
			continue
		}
		m := b.Matched[i]
		if m <= 0 {
			m = SmoothBase * math.Pow(SmoothGrowth, float64(i))
		}
		logSum += math.Log(m / h)
		n++
	}
	if n == 0 {
		return 0
	}

	bp := 1.0
	if b.HypLength < b.RefLength {
		bp = math.Exp(1 - b.RefLength/b.HypLength)
	}

	return bp * math.Exp(logSum/float64(n))
}

// Reward implements Statistic.
func (b *Bleu) Reward() float64 { return b.Score() }

// Loss implements Statistic as 1 - Score, bounded to roughly [0,1].
func (b *Bleu) Loss() float64 { return 1 - b.Score() }

// Encode implements Statistic's textual round-trip (spec §6): the
// literal token "bleu", then ref_length, hyp_length, the matched
// counts in order, then the hypothesis counts in order.
func (b *Bleu) Encode() string {
	var sb strings.Builder
	sb.WriteString("bleu")
	fmt.Fprintf(&sb, " %s %s", formatFloat(b.RefLength), formatFloat(b.HypLength))
	for _, m := range b.Matched {
		fmt.Fprintf(&sb, " %s", formatFloat(m))
	}
	for _, h := range b.Hypothesis {
		fmt.Fprintf(&sb, " %s", formatFloat(h))
	}

	return sb.String()
}

// DecodeBleu parses the textual form produced by Bleu.Encode.
func DecodeBleu(text string) (*Bleu, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 || fields[0] != "bleu" {
		return nil, ErrParse
	}
	fields = fields[1:]
	if len(fields)%2 != 0 {
		return nil, ErrParse
	}
	order := (len(fields) - 2) / 2
	if order <= 0 {
		return nil, ErrParse
	}

	refLen, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: ref_length: %v", ErrParse, err)
	}
	hypLen, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: hyp_length: %v", ErrParse, err)
	}

	out := NewBleu(order)
	out.RefLength = refLen
	out.HypLength = hypLen
	for i := 0; i < order; i++ {
		v, err := strconv.ParseFloat(fields[2+i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: matched[%d]: %v", ErrParse, i, err)
		}
		out.Matched[i] = v
	}
	for i := 0; i < order; i++ {
		v, err := strconv.ParseFloat(fields[2+order+i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: hypothesis[%d]: %v", ErrParse, i, err)
		}
		out.Hypothesis[i] = v
	}

	return out, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
