package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/capengine/internal/librarian"
	"github.com/wonny/capengine/internal/orchestrator"
)

var (
	librarianSymbols  []string
	librarianSkipNews bool
	librarianWorkers  int
	librarianUniverse bool
)

var librarianCmd = &cobra.Command{
	Use:   "librarian",
	Short: "수집 단계만 실행 (재무 데이터 + 뉴스)",
	Long: `Collect fundamentals and news headlines for the watchlist
without scoring or sizing. With DATABASE_URL set the snapshot is
stored for a later "engine architect" pass.`,
	RunE: runLibrarian,
}

func init() {
	librarianCmd.Flags().StringSliceVar(&librarianSymbols, "symbols", nil, "override the configured watchlist")
	librarianCmd.Flags().BoolVar(&librarianSkipNews, "skip-news", false, "collect fundamentals only")
	librarianCmd.Flags().IntVar(&librarianWorkers, "workers", 0, "collection worker count")
	librarianCmd.Flags().BoolVar(&librarianUniverse, "universe", false, "scan the full universe instead of the watchlist")
	rootCmd.AddCommand(librarianCmd)
}

func runLibrarian(cmd *cobra.Command, args []string) error {
	s, err := buildStack()
	if err != nil {
		return err
	}
	defer s.Close()

	symbols := scanSet(s.cfg, librarianUniverse, librarianSymbols)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	runID := orchestrator.NewRunID(time.Now())
	fins, news, err := s.collector.Collect(ctx, runID, symbols, librarian.Config{
		Workers:  librarianWorkers,
		SkipNews: librarianSkipNews,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Run %s: collected %d/%d symbols", runID, len(fins.Records), len(symbols))
	if news != nil {
		fmt.Printf(", %d headlines", len(news.Articles))
	}
	fmt.Println()
	if s.db == nil {
		fmt.Println("DATABASE_URL not set: snapshot was not stored.")
	}
	return nil
}
