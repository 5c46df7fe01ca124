package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그와 DB row에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   Librarian → Architect → Trader
//   데이터 수집   스코어링/랭킹   포지션 사이징/승인

// Stage represents a pipeline stage
type Stage string

const (
	// StageLibrarian 데이터 수집
	// 책임: 재무 데이터/뉴스 수집, 센티먼트, 스냅샷 저장
	// 위치: internal/librarian/
	StageLibrarian Stage = "LIBRARIAN"

	// StageArchitect 스코어링/랭킹
	// 책임: 파생 지표, 필터링, 랭킹, 리포트 생성
	// 위치: internal/architect/
	StageArchitect Stage = "ARCHITECT"

	// StageTrader 포지션 사이징/승인
	// 책임: 사이징, 스탑/타겟, 리스크 경고, 휴먼 승인 게이트
	// 위치: internal/trader/
	StageTrader Stage = "TRADER"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{StageLibrarian, StageArchitect, StageTrader}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// StageResult represents the result of a pipeline stage execution
type StageResult struct {
	Stage       Stage  `json:"stage"`
	Success     bool   `json:"success"`
	InputCount  int    `json:"input_count"`
	OutputCount int    `json:"output_count"`
	Duration    int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
}
