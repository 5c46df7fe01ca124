package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/capengine/internal/scheduler"
	"github.com/wonny/capengine/internal/scheduler/jobs"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "일일 파이프라인 스케줄러 실행 (장 마감 후 자동 수행)",
	Long: `Run the cron scheduler in the foreground. The daily pipeline
fires at the configured local time (default 12:05 America/Chicago)
and posts the report and plan to Discord when a webhook is set.`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	s, err := buildStack()
	if err != nil {
		return err
	}
	defer s.Close()

	loc, err := time.LoadLocation(s.cfg.Strategy.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", s.cfg.Strategy.Timezone, err)
	}

	sched := scheduler.New(loc, s.log)
	job := jobs.NewDailyPipelineJob(
		s.orch,
		s.cfg.Strategy.Watchlist,
		s.cfg.Strategy.Budget,
		0,
		s.cfg.Strategy.ScheduleSpec,
		s.log,
	)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	s.log.WithFields(map[string]interface{}{
		"schedule": s.cfg.Strategy.ScheduleSpec,
		"timezone": s.cfg.Strategy.Timezone,
	}).Info("Scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.log.Info("Shutting down scheduler")
	sched.Stop()
	return nil
}
