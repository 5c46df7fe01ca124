package contracts

// Status is the lifecycle state of a candidate within one run.
type Status string

const (
	// StatusPending 초기 상태: 아직 파생 지표 계산 전
	StatusPending Status = "pending"

	// StatusCulled 탈락: 필터 또는 파생 실패
	StatusCulled Status = "culled"

	// StatusRanked 생존: 랭킹 대상
	StatusRanked Status = "ranked"
)

// CullReason explains why a candidate was removed from ranking.
type CullReason string

const (
	// ReasonIncompleteData 필수 필드 누락
	ReasonIncompleteData CullReason = "incomplete_data"

	// ReasonValueTrap 고배당 + 정체된 현금흐름
	ReasonValueTrap CullReason = "value_trap"

	// ReasonDivisionError payout ratio 또는 전기 FCF가 0 (파생 지표 정의 불가)
	ReasonDivisionError CullReason = "division_error"
)

// Candidate is one evaluated security. Constructed fresh each run from a
// Financials record; never mutated across runs.
// ⭐ SSOT: Architect → Trader 후보 계약
type Candidate struct {
	Symbol string     `json:"symbol"`
	Raw    Financials `json:"raw"`

	// Derived metrics. Only meaningful when Status != culled
	// (a culled candidate keeps whatever was derived before the cull).
	ShadowFCF         float64 `json:"shadow_fcf"`
	FCFGrowth         float64 `json:"fcf_growth"`
	AccelerationScore float64 `json:"acceleration_score"`

	Status Status     `json:"status"`
	Reason CullReason `json:"reason,omitempty"`

	// Ranking outputs. Rank is 1-based; zero means unranked.
	Rank    int  `json:"rank,omitempty"`
	TopTier bool `json:"top_tier,omitempty"`
}

// IsTopRanked checks if the candidate is in the top N ranks.
func (c *Candidate) IsTopRanked(n int) bool {
	return c.Rank > 0 && c.Rank <= n
}

// Culled reports whether the candidate was removed from ranking.
func (c *Candidate) Culled() bool {
	return c.Status == StatusCulled
}
