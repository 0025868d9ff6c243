// Package agent executes a single agent turn against the model gateway,
// resolving tool calls between the first and second model calls.
//
// Invariants:
// - Run always returns a well-formed AgentOutput with non-empty Output.
// - No fault, including a panic, propagates past Run.
// - Finality is computed before the result is appended to the plan history.
package agent
