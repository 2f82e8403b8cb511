package textfmt

import (
	"fmt"
	"strings"

	"github.com/cicada-go/forest/scorer"
)

// DecodeStatistic dispatches on a statistic's textual form's first token
// (spec §6: "each scorer statistic round-trips through a textual form
// whose first token identifies the metric") to the concrete decoder.
// Only "bleu" is registered by this core; external scorers register
// their own decoders by dispatching before falling back to this one.
func DecodeStatistic(text string) (scorer.Statistic, error) {
	metric, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	switch metric {
	case "bleu":
		return scorer.DecodeBleu(text)
	default:
		return nil, fmt.Errorf("%w: unknown scorer metric %q", ErrParse, metric)
	}
}
