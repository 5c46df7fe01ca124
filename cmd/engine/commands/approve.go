package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/capengine/internal/contracts"
	"github.com/wonny/capengine/internal/trader"
)

var approveCmd = &cobra.Command{
	Use:   "approve <reply>",
	Short: "최신 실행 계획에 대한 승인 답변 처리",
	Long: `Apply an approval reply to the newest pending execution plan.

Reply grammar (case insensitive, multiple commands split by ";"):
  YES               approve everything
  YES NVDA LLY      approve only the listed symbols
  NO                reject the whole plan
  SKIP NVDA         drop one position
  RESIZE NVDA 6     change a position to 6% of budget

Examples:
  engine approve "YES"
  engine approve "YES NVDA; RESIZE LLY 6"`,
	Args: cobra.ExactArgs(1),
	RunE: runApprove,
}

func init() {
	rootCmd.AddCommand(approveCmd)
}

func runApprove(cmd *cobra.Command, args []string) error {
	s, err := buildStack()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.requireDB(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	plan, runID, err := s.planRepo.GetLatestPlan(ctx)
	if err != nil {
		return fmt.Errorf("load latest plan: %w", err)
	}
	if plan.Status != contracts.PlanPendingApproval {
		return fmt.Errorf("latest plan (%s) is already %s", runID, plan.Status)
	}

	decision, err := trader.ParseDecision(strings.Join(args, " "), plan)
	if err != nil {
		return err
	}

	applied := s.trader.RecordDecision(ctx, runID, plan, decision)
	fmt.Printf("Decision %s recorded for run %s\n\n", decision.Status, runID)
	fmt.Println(trader.RenderFactoryLog(applied))
	return nil
}
