// Package forest is a statistical machine translation decoding and training
// core: a weighted-hypergraph data model, semiring-generic inside/outside,
// a lazy k-best derivation extractor, feature-function rescoring, and a
// family of k-best-based and line-search-based training procedures.
//
// What is cicada-go/forest?
//
//	A forest is the weighted hypergraph a decoder produces for one input
//	sentence or lattice: many overlapping derivations sharing subtrees. This
//	module sum-products over that structure (inside/outside), enumerates its
//	derivations in score order (k-best), rescors it under a pluggable feature
//	model (exact, cube-pruned, incremental), and trains the feature weights
//	against a corpus of references (online margin learners, a cutting-plane
//	master QP, MERT line-search).
//
// Everything is organized under single-purpose subpackages:
//
//	vector/       — sparse feature maps and weight vectors
//	semiring/     — Tropical, Viterbi, Log, Expectation, and Envelope semirings
//	hypergraph/   — the DAG data model (nodes, edges, topological sort, unite)
//	insideoutside/ — generic semiring sum-product over a hypergraph
//	kbest/        — lazy Huang-Chiang k-best derivation extraction
//	rescore/      — exact / cube-prune / cube-grow / incremental feature application
//	scorer/       — additive per-segment metric statistics (BLEU)
//	oracle/       — greedy hill-climb oracle selection over k-best lists
//	learn/        — online margin and expected-loss learners
//	cutplane/     — cutting-plane master QP with optional line search
//	mert/         — upper-envelope MERT line-search
//	textfmt/      — the hypergraph / k-best / reference / lattice text formats
//	distributed/  — shard-parallel segment orchestration and reduction
//
// This package holds no executable code of its own; it is the module's
// overview doc, mirroring the umbrella-package convention of the graph
// library this module grew out of.
package forest
