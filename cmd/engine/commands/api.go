package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/capengine/internal/api"
	"github.com/wonny/capengine/internal/api/handlers"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "REST API + WebSocket 서버 실행",
	Long: `Serve the HTTP API: run reports, execution plans, approval
replies, on-demand pipeline triggers, and a WebSocket stream of
stage-progress events at /ws.`,
	RunE: runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	s, err := buildStack()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.requireDB(); err != nil {
		return err
	}

	hub := api.NewHub(s.log)
	s.orch.WithEventHandler(hub.Broadcast)

	router := api.NewRouter(
		handlers.NewReportHandler(s.reportRepo, s.log),
		handlers.NewPlanHandler(s.trader, s.planRepo, s.log),
		handlers.NewPipelineHandler(s.orch, s.cfg.Strategy.Watchlist, s.cfg.Strategy.Budget, 0, s.log),
		hub,
		s.log,
	)

	server := api.New(s.cfg, s.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.log.WithField("signal", sig.String()).Info("Shutting down API server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
