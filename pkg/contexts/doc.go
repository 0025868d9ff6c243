// Package contexts defines the shared state passed between the planner,
// the plan executor and individual agents.
//
// Invariants:
// - UserContext chat history is append-only.
// - len(AgentIDHistory) == len(AgentOutputs) == CurrentStep at all times.
// - All types round-trip through JSON field-for-field, including element order.
package contexts
