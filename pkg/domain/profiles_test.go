package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(systemProfile string) *ProfileRegistry {
	return NewProfileRegistry(ProfileRegistryDependencies{SystemProfile: systemProfile})
}

func TestProfileRegistry_AliasTargetsExist(t *testing.T) {
	r := newTestRegistry("default")

	for alias, canonical := range profileAliases {
		_, ok := r.profiles[canonical]
		require.True(t, ok, "alias %q points at missing profile %q", alias, canonical)
	}
}

func TestProfileRegistry_Resolve(t *testing.T) {
	r := newTestRegistry("default")

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{name: "known key", key: "bank", expected: "bank"},
		{name: "uppercase key", key: "BANK", expected: "bank"},
		{name: "alias", key: "financial", expected: "bank"},
		{name: "alias telecom", key: "telecom", expected: "telco"},
		{name: "alias newsletter", key: "newsletter", expected: "marketing"},
		{name: "unknown falls back to default", key: "nonsense", expected: "default"},
		{name: "empty falls back to default", key: "", expected: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Resolve(tt.key).Key)
		})
	}
}

func TestProfileRegistry_AliasResolvesLikeCanonical(t *testing.T) {
	r := newTestRegistry("default")

	for alias, canonical := range profileAliases {
		assert.Equal(t, r.Resolve(canonical), r.Resolve(alias), "alias %q", alias)
	}
}

func TestProfileRegistry_SystemProfile(t *testing.T) {
	tests := []struct {
		name          string
		systemProfile string
		expected      string
	}{
		{name: "plain", systemProfile: "bank", expected: "bank"},
		{name: "alias", systemProfile: "email_marketing", expected: "marketing"},
		{name: "mixed case", systemProfile: "Conservative", expected: "conservative"},
		{name: "unknown", systemProfile: "bogus", expected: "default"},
		{name: "empty", systemProfile: "", expected: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, newTestRegistry(tt.systemProfile).Default().Key)
		})
	}
}

func TestProfileRegistry_ProfilesOrder(t *testing.T) {
	r := newTestRegistry("default")

	profiles := r.Profiles()
	require.Len(t, profiles, len(profileCatalog))
	for i, p := range profileCatalog {
		assert.Equal(t, p.Key, profiles[i].Key)
	}
}

func TestProfileRegistry_CatalogThresholds(t *testing.T) {
	r := newTestRegistry("default")

	assert.InDelta(t, 0.65, r.Resolve("bank").Threshold, 1e-9)
	assert.InDelta(t, 0.45, r.Resolve("aggressive").Threshold, 1e-9)
	assert.InDelta(t, 0.55, r.Resolve("default").Threshold, 1e-9)
	assert.InDelta(t, 0.60, r.Resolve("conservative").Threshold, 1e-9)

	for _, p := range r.Profiles() {
		assert.GreaterOrEqual(t, p.Threshold, 0.0)
		assert.LessOrEqual(t, p.Threshold, 1.0)
	}
}
