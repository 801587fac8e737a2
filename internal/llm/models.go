package llm

import "strings"

// Model tiers accepted on the wire. Anything else resolves to the default
// upstream identifier.
const (
	TierFree     = "FREE_MODEL"
	TierPro      = "PRO_MODEL"
	TierAdvanced = "ADVANCED_MODEL"
)

// ModelCatalog maps enumerated model tiers to upstream model identifiers.
type ModelCatalog struct {
	Free     string
	Pro      string
	Advanced string
	Default  string
}

// Resolve returns the upstream model identifier for the provided tier,
// falling back to the catalog default for unrecognized or unconfigured tiers.
func (c ModelCatalog) Resolve(tier string) string {
	switch strings.TrimSpace(tier) {
	case TierFree:
		if c.Free != "" {
			return c.Free
		}
	case TierPro:
		if c.Pro != "" {
			return c.Pro
		}
	case TierAdvanced:
		if c.Advanced != "" {
			return c.Advanced
		}
	}
	return c.Default
}
