// Package planner turns a user request into an ordered plan of agent
// steps by consulting the manager model.
//
// Invariants:
// - Plan never returns nil and never returns an empty plan.
// - Every step names a known worker identity; the manager is never one.
// - A plan carries at most MaxSteps steps and TotalSteps == len(Steps).
package planner
