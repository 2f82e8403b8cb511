// Package mert implements the MERT line-search / upper-envelope
// procedure of spec §4.9: given an origin weight vector, a search
// direction, and a k-best list per segment, it builds each segment's
// upper envelope of score lines (reusing semiring.Envelope), sweeps the
// merged corpus envelope to find the plateau minimizing loss (optionally
// L1/L2-regularized), and reports the optimal step. A sub-gradient-based
// variant serves the piecewise-linear losses used by the online and
// cutting-plane learners (spec §4.7, §4.8) where building the full
// envelope is unnecessary.
package mert
