// Package hypergraph defines the directed acyclic hypergraph that every
// other package in this module operates over: nodes, hyperedges with an
// ordered list of tail nodes, per-edge feature and attribute maps, and a
// goal node.
//
// A Hypergraph is built append-only (AddNode/AddEdge), then normalized with
// TopologicalSort before any semiring sum-product (inside/outside), k-best
// extraction, or feature rescoring runs over it. Node and Edge ids are
// positions into the Hypergraph's internal slices; TopologicalSort is the
// only operation that reassigns node ids (edge ids are never reassigned).
//
// Concurrency: a *Hypergraph is safe for concurrent readers once
// construction has finished (the rescoring phase treats it as read-only,
// per the shared-resource policy); AddNode/AddEdge/TopologicalSort take an
// exclusive lock and must not race with readers.
package hypergraph
