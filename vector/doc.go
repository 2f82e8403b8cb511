// Package vector implements the sparse weight and feature vectors that flow
// through every other package in this module: a weight vector (model
// parameters) and a feature map (per-edge or per-hypothesis feature
// contributions) are both sparse mappings from an integer feature id to a
// float64, with additive merge semantics and a dot product that is
// invariant under insertion of zero-valued entries (spec §3).
//
// Dense interop (the Gram matrix used by the cutting-plane master QP, §4.8)
// is provided by Gram, a thin wrapper over gonum.org/v1/gonum/mat — this
// module never hand-rolls dense linear algebra.
package vector
