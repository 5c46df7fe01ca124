package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/capengine/internal/architect"
)

var architectCmd = &cobra.Command{
	Use:   "architect",
	Short: "저장된 최신 스냅샷으로 스코어링 단계만 실행",
	Long: `Score, cull and rank the newest stored financial snapshot.
Use after "engine librarian" to iterate on scoring without
re-collecting data. Requires DATABASE_URL.`,
	RunE: runArchitect,
}

func init() {
	rootCmd.AddCommand(architectCmd)
}

func runArchitect(cmd *cobra.Command, args []string) error {
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

	set, runID, err := s.finRepo.GetLatestSet(ctx)
	if err != nil {
		return fmt.Errorf("no stored snapshot yet, run \"engine librarian\" first: %w", err)
	}

	report := s.architect.Evaluate(ctx, runID, set)
	fmt.Println(architect.Summary(report))
	return nil
}
