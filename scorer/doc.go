// Package scorer implements the additive per-segment statistic
// abstraction of spec §4.5: a Statistic supports Add (corpus-level +=)
// and Sub (corpus-level -=), and exposes Loss() (lower is better,
// bounded) and Reward() (higher is better). The only concrete metric
// implemented is a BLEU-family statistic carrying per-order matched and
// hypothesis n-gram counts plus a reference length, with the 1e-40
// geometrically-growing smoothing chain applied when an order's matched
// count is zero but its hypothesis count is positive.
package scorer
