package contracts

import "time"

// RunReport is the structured artifact the Architect emits for one run.
// ⭐ SSOT: Architect → Trader 결과 전달
//
// Ranked holds survivors in final rank order; Culled holds rejected
// candidates (symbol order) with reason codes for auditability.
// GeneratedAt is the only field allowed to vary between two emissions
// of the same ranked list.
type RunReport struct {
	GeneratedAt time.Time `json:"generated_at"`

	// EmptyBatch marks a run whose input collection was empty.
	// The report still emits with empty lists.
	EmptyBatch bool `json:"empty_batch"`

	// Threshold is the 90th percentile of acceleration score across
	// survivors. Nil when fewer than 2 candidates survived.
	Threshold *float64 `json:"percentile_threshold"`

	Ranked []Candidate `json:"ranked"`
	Culled []Candidate `json:"culled"`
}

// TotalCount returns the number of candidates evaluated in the run.
func (r *RunReport) TotalCount() int {
	return len(r.Ranked) + len(r.Culled)
}

// TopTier returns the survivors flagged at or above the percentile cut,
// in rank order.
func (r *RunReport) TopTier() []Candidate {
	var top []Candidate
	for _, c := range r.Ranked {
		if c.TopTier {
			top = append(top, c)
		}
	}
	return top
}

// CullCounts returns the number of culled candidates per reason.
func (r *RunReport) CullCounts() map[CullReason]int {
	counts := make(map[CullReason]int)
	for _, c := range r.Culled {
		counts[c.Reason]++
	}
	return counts
}
