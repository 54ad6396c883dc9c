package domain

// ThresholdResolver computes the effective decision threshold for a
// request. An operator-configured override always wins so that
// per-request profile selection cannot bypass it; otherwise the
// requested profile decides, and absent that the system default applies.
type ThresholdResolver struct {
	registry *ProfileRegistry
	override *float64
}

type ThresholdResolverDependencies struct {
	Registry *ProfileRegistry
	// Override is the global threshold override, already parsed and
	// validated at startup. Nil when unset or invalid.
	Override *float64
}

func NewThresholdResolver(deps ThresholdResolverDependencies) *ThresholdResolver {
	return &ThresholdResolver{
		registry: deps.Registry,
		override: deps.Override,
	}
}

// EffectiveThreshold resolves the threshold for an optional profile key.
func (r *ThresholdResolver) EffectiveThreshold(requestedProfile string) float64 {
	if r.override != nil {
		return *r.override
	}
	return r.registry.Resolve(requestedProfile).Threshold
}

// DefaultThreshold is the process-wide threshold used when no profile is
// requested.
func (r *ThresholdResolver) DefaultThreshold() float64 {
	return r.EffectiveThreshold("")
}
