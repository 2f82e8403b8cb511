// Package learn implements the k-best-based online learners of spec §4.7:
// margin-based (hinge/Pegasos, an optimized per-batch hinge QP, MIRA/PA,
// AROW/CW/NHERD) and expected-loss learners (softmax/logistic,
// expected-loss, xBLEU), sharing a common encode/learn contract, a
// pluggable Regularizer, and a pluggable learning-rate Schedule.
//
// Every learner follows the same three-call contract: Initialize resets
// the deferred weight-scale state (spec §4.7's "initialize/finalize
// manage an internal weight-scale used to defer rescaling"); Encode
// accumulates one segment's k-best list and oracle selection; Learn
// applies one update step against the current weights and returns the
// step's objective value. A Learn call with no accumulated data is a
// no-op that returns 0 (spec §8's learner contract property).
package learn
