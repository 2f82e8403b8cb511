// Package distributed implements the shard-parallel orchestration shape of
// spec §5: a rank-0 coordinator partitions segment ids into shards, a
// bounded worker pool processes each shard's segments concurrently, and the
// per-worker outputs are reduced back into weight deltas, scorer
// statistics, or line-envelope breakpoints.
//
// This package implements only the *shape* of the broadcast/reduce model —
// over in-process channels and golang.org/x/sync/errgroup — never a real
// RPC or MPI transport; spec §1 explicitly lists MPI transport as an
// external collaborator the core does not provide.
//
// Map is the primitive every reduction in this package builds on: it fans
// segment-processing work out across a semaphore-bounded worker pool and
// collects results aligned to input order. ReduceWeights, ReduceStatistics,
// and ReduceEnvelopes are the master-loop-side counterparts that combine
// those per-segment outputs, mirroring the three reduction payloads spec §5
// names explicitly (weight deltas, BLEU-style scorer statistics, and
// line-envelope breakpoints).
package distributed
