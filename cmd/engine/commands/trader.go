package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/capengine/internal/trader"
)

var traderBudget float64

var traderCmd = &cobra.Command{
	Use:   "trader",
	Short: "저장된 최신 리포트로 실행 계획만 생성",
	Long: `Size positions from the newest stored run report and store the
resulting plan pending approval. Use after "engine architect" to
iterate on sizing without re-collecting or re-scoring. Requires
DATABASE_URL.`,
	RunE: runTrader,
}

func init() {
	traderCmd.Flags().Float64Var(&traderBudget, "budget", 0, "override the baseline budget")
	rootCmd.AddCommand(traderCmd)
}

func runTrader(cmd *cobra.Command, args []string) error {
	s, err := buildStack()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.requireDB(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	report, runID, err := s.reportRepo.GetLatestReport(ctx)
	if err != nil {
		return fmt.Errorf("no stored report yet, run \"engine architect\" first: %w", err)
	}

	budget := s.cfg.Strategy.Budget
	if traderBudget > 0 {
		budget = traderBudget
	}

	plan := s.trader.BuildPlan(ctx, runID, report, budget)
	fmt.Println(trader.RenderFactoryLog(plan))
	fmt.Println(`Reply with: engine approve "YES" | "YES SYM ..." | "NO" | "SKIP SYM" | "RESIZE SYM PCT"`)
	return nil
}
