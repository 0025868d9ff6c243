// Package orchestrator executes plans step by step over a registry of
// per-identity agent runners.
//
// Invariants:
// - Steps run strictly in plan order over one shared AgentContext.
// - Every step resolves to a runner; unknown agents use the default.
// - The last recorded output of a completed execution is final.
package orchestrator
