// Package textfmt implements the external text formats of spec §6: the
// hypergraph text format, the k-best list format, the reference-set
// format, and the lattice format, plus the scorer statistic round-trip
// already exposed by scorer.Bleu.Encode/DecodeBleu.
//
// Each format is a thin, line-oriented adapter over the in-memory types of
// hypergraph, kbest, and scorer — grounded on the adapter-package
// convention of the teacher's converters package (two-way adapters between
// an in-memory graph and an external representation). No format here
// implies a particular storage layout; readers and writers work over any
// io.Reader/io.Writer.
package textfmt
