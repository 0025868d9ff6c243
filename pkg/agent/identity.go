package agent

import "strings"

// Identity names one of the known conversational agents. The set is
// closed; anything outside it resolves to the default identity.
type Identity string

const (
	// IdentityManager plans work; it never appears in an executed plan step.
	IdentityManager Identity = "manager"
	// IdentityBibi is the general advisor and the fixed fallback identity.
	IdentityBibi Identity = "bibi"
	// IdentityKiki watches market trends and news.
	IdentityKiki Identity = "kiki"
	// IdentityAger analyzes individual stocks.
	IdentityAger Identity = "ager"
	// IdentityRamu simulates market scenarios.
	IdentityRamu Identity = "ramu"
	// IdentityColi coaches on portfolio composition.
	IdentityColi Identity = "coli"
)

// DefaultIdentity is substituted for unrecognized agent names.
const DefaultIdentity = IdentityBibi

// WorkerIdentities lists the identities a plan step may name, in the
// priority order used by keyword fallback scans.
func WorkerIdentities() []Identity {
	return []Identity{IdentityKiki, IdentityAger, IdentityRamu, IdentityColi, IdentityBibi}
}

// ParseIdentity maps a free-form agent name onto a known identity.
// The second return reports whether the name was recognized.
func ParseIdentity(name string) (Identity, bool) {
	switch Identity(strings.ToLower(strings.TrimSpace(name))) {
	case IdentityManager:
		return IdentityManager, true
	case IdentityBibi:
		return IdentityBibi, true
	case IdentityKiki:
		return IdentityKiki, true
	case IdentityAger:
		return IdentityAger, true
	case IdentityRamu:
		return IdentityRamu, true
	case IdentityColi:
		return IdentityColi, true
	default:
		return DefaultIdentity, false
	}
}
