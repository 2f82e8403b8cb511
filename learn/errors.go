package learn

import "errors"

// ErrInvalidConfig is returned when a learner's Config combines options
// the spec declares mutually exclusive (e.g. an OSCAR regularizer with
// RDA-style cumulative averaging, spec §4.7), or sets a parameter outside
// its allowed range (such as a non-positive AROW R). A nil Schedule is
// not an error: every learner defaults it.
var ErrInvalidConfig = errors.New("learn: invalid config")
