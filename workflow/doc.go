// Package workflow implements the stateful multi-agent dispatch engine at the
// core of the career coach: each user message is routed through a graph of
// specialist stages, may suspend mid-turn for human confirmation, and persists
// its state as a durable per-session checkpoint across suspend/resume cycles.
//
// Control flow per turn:
//
//	Router -> (0..N specialist stages) -> Gate -> {continue | suspend | finalize}
//
// One mutable State value threads through every stage; each stage consumes the
// fields it needs, writes its own scratch entry, and returns the updated
// state. The Engine serializes turns per session and is the sole enforcer of
// at-most-once dispatch per stage per turn.
package workflow
