// Package semiring defines the algebraic structures that inside/outside,
// k-best extraction, and MERT line-search sum-product over: an abstract
// (S, +, *, 0, 1) with the usual semiring laws, plus the Envelope semiring
// whose elements are upper-hull line sets (spec §4.1).
//
// Semiring is a Go generic interface rather than a class hierarchy: inside,
// outside, and viterbi-style best-derivation all become a single generic
// sum-product function parameterized over Semiring[T], matching the
// "Deep inheritance ... collapses to a capability set" guidance of spec §9.
package semiring
