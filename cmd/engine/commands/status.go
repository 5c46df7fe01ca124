package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/capengine/internal/architect"
	"github.com/wonny/capengine/internal/trader"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "최신 리포트와 실행 계획 조회",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	report, runID, err := s.reportRepo.GetLatestReport(ctx)
	if err != nil {
		return fmt.Errorf("no stored report yet: %w", err)
	}
	fmt.Printf("Latest run: %s\n\n", runID)
	fmt.Println(architect.Summary(report))

	plan, planRunID, err := s.planRepo.GetLatestPlan(ctx)
	if err != nil {
		fmt.Println("No execution plan stored.")
		return nil
	}
	if planRunID != runID {
		fmt.Printf("(plan is from run %s)\n", planRunID)
	}
	fmt.Println(trader.RenderFactoryLog(plan))
	return nil
}
