package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions     int
	AdmittedCount      int
	RejectedCount      int
	TotalRoutings      int
	UniqueTargets      int
	TargetDistribution map[string]int // station name → departures routed there
	CascadeRescues     int
	CascadeLosses      int
	CascadeCycles      int
	MaxCascadeHops     int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TargetDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Admissions)
	for _, a := range st.Admissions {
		if a.Admitted {
			summary.AdmittedCount++
		} else {
			summary.RejectedCount++
		}
	}

	summary.TotalRoutings = len(st.Routings)
	for _, r := range st.Routings {
		summary.TargetDistribution[r.To]++
	}
	summary.UniqueTargets = len(summary.TargetDistribution)

	for _, c := range st.Cascades {
		if c.LandedAt != "" {
			summary.CascadeRescues++
		} else {
			summary.CascadeLosses++
		}
		if c.Cycle {
			summary.CascadeCycles++
		}
		summary.MaxCascadeHops = max(summary.MaxCascadeHops, c.Hops)
	}

	return summary
}
