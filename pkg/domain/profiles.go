package domain

import (
	"strings"
)

// Profile bundles a decision threshold with a human label and description.
// The catalog is built once at startup and never mutated.
type Profile struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Threshold   float64 `json:"threshold"`
	Description string  `json:"description"`
}

var profileCatalog = []Profile{
	{
		Key:         "default",
		Label:       "Default (balanced)",
		Threshold:   0.55,
		Description: "General-purpose profile with balanced spam capture vs. false positives.",
	},
	{
		Key:         "telco",
		Label:       "Telecom / SMS filtering",
		Threshold:   0.55,
		Description: "Suitable for telecoms: slightly conservative to avoid blocking real OTPs / alerts.",
	},
	{
		Key:         "bank",
		Label:       "Bank / Financial (very strict)",
		Threshold:   0.65,
		Description: "Very strict: only mark as spam when highly confident. Protects legitimate financial messages.",
	},
	{
		Key:         "marketing",
		Label:       "Email marketing / newsletters (aggressive)",
		Threshold:   0.45,
		Description: "Aggressive: catch promotional & marketing spam even if it risks some false positives.",
	},
	{
		Key:         "aggressive",
		Label:       "Aggressive (max spam capture)",
		Threshold:   0.45,
		Description: "Maximize spam capture. Use when you prefer to over-block rather than miss spam.",
	},
	{
		Key:         "balanced",
		Label:       "Balanced (general use)",
		Threshold:   0.55,
		Description: "Balanced behavior similar to 'default', suitable for most use cases.",
	},
	{
		Key:         "conservative",
		Label:       "Conservative (protect REAL messages)",
		Threshold:   0.60,
		Description: "More conservative: only flag spam when probability is high.",
	},
}

// profileAliases keeps legacy profile keys resolving to current ones.
var profileAliases = map[string]string{
	"financial":       "bank",
	"telecom":         "telco",
	"email_marketing": "marketing",
	"newsletter":      "marketing",
}

// ProfileRegistry is a read-only catalog of sensitivity profiles plus
// alias resolution for legacy keys.
type ProfileRegistry struct {
	profiles   map[string]Profile
	aliases    map[string]string
	order      []string
	defaultKey string
}

type ProfileRegistryDependencies struct {
	// SystemProfile selects the default profile. Unknown values fall back
	// to "default".
	SystemProfile string
}

func NewProfileRegistry(deps ProfileRegistryDependencies) *ProfileRegistry {
	r := &ProfileRegistry{
		profiles: make(map[string]Profile, len(profileCatalog)),
		aliases:  profileAliases,
		order:    make([]string, 0, len(profileCatalog)),
	}

	for _, p := range profileCatalog {
		r.profiles[p.Key] = p
		r.order = append(r.order, p.Key)
	}

	r.defaultKey = r.canonicalKey(deps.SystemProfile)
	if _, ok := r.profiles[r.defaultKey]; !ok {
		r.defaultKey = "default"
	}

	return r
}

func (r *ProfileRegistry) canonicalKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if canonical, ok := r.aliases[key]; ok {
		return canonical
	}
	return key
}

// Resolve maps an optional profile key to a catalog entry. Unknown or
// empty keys resolve to the default profile, never an error.
func (r *ProfileRegistry) Resolve(key string) Profile {
	if key != "" {
		if p, ok := r.profiles[r.canonicalKey(key)]; ok {
			return p
		}
	}
	return r.profiles[r.defaultKey]
}

// Default returns the profile selected by the system configuration.
func (r *ProfileRegistry) Default() Profile {
	return r.profiles[r.defaultKey]
}

// Profiles returns the catalog in declaration order.
func (r *ProfileRegistry) Profiles() []Profile {
	out := make([]Profile, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.profiles[key])
	}
	return out
}
