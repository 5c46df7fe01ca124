package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/capengine/internal/architect"
	"github.com/wonny/capengine/internal/orchestrator"
	"github.com/wonny/capengine/internal/trader"
)

var (
	runSymbols  []string
	runBudget   float64
	runWorkers  int
	runDryRun   bool
	runSkipNews bool
	runUniverse bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "파이프라인 전체 실행 (Librarian → Architect → Trader)",
	Long: `Collect fundamentals and news, score and rank the watchlist,
then size an execution plan awaiting approval.

Examples:
  engine run
  engine run --symbols NVDA,LLY --budget 25000
  engine run --dry-run`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringSliceVar(&runSymbols, "symbols", nil, "override the configured watchlist")
	runCmd.Flags().Float64Var(&runBudget, "budget", 0, "override the baseline budget")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "collection worker count")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "stop after scoring, build no plan")
	runCmd.Flags().BoolVar(&runSkipNews, "skip-news", false, "collect fundamentals only")
	runCmd.Flags().BoolVar(&runUniverse, "universe", false, "scan the full universe instead of the watchlist")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	s, err := buildStack()
	if err != nil {
		return err
	}
	defer s.Close()

	symbols := scanSet(s.cfg, runUniverse, runSymbols)
	budget := s.cfg.Strategy.Budget
	if runBudget > 0 {
		budget = runBudget
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	result, err := s.orch.Run(ctx, orchestrator.RunConfig{
		RunID:    orchestrator.NewRunID(time.Now()),
		Symbols:  symbols,
		Budget:   budget,
		Workers:  runWorkers,
		SkipNews: runSkipNews,
		DryRun:   runDryRun,
	})
	if err != nil {
		return err
	}

	fmt.Println(architect.Summary(result.Report))
	if result.Plan != nil {
		fmt.Println(trader.RenderFactoryLog(result.Plan))
		fmt.Println(`Reply with: engine approve "YES" | "YES SYM ..." | "NO" | "SKIP SYM" | "RESIZE SYM PCT"`)
	}
	fmt.Printf("\nRun %s finished in %s\n", result.RunID, result.Duration.Round(time.Millisecond))
	return nil
}
