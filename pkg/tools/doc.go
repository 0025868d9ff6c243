// Package tools registers structured tools and resolves model-requested
// tool calls into conversation messages.
//
// Invariants:
// - Tool names are unique.
// - Arguments are schema-validated before dispatch.
// - Resolve never raises; every per-call fault becomes textual content
//   linked to the originating call id.
package tools
