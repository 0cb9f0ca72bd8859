package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/scheduler"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage scheduled jobs",
	Long: `Start the scheduler or manage its jobs.

Subcommands:
  start   - start the scheduler
  list    - list registered jobs
  run     - run a job now and wait for it
  status  - show job statistics

Example:
  go run ./cmd/questboard scheduler start
  go run ./cmd/questboard scheduler list
  go run ./cmd/questboard scheduler run ranking_snapshot`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		Long: `Start the scheduler and schedule every registered job.

Registered jobs:
- ranking_snapshot: re-rank users and teams (hourly by default)
- leaderboard_warmup: precompute the shared boards (every 10 minutes by default)

With the memory store the scheduler only sees its own process; run it inside
the api command instead. Stop with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job now",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job statistics",
		RunE:  showStatus,
	}
)

const (
	jobRetries    = 2
	jobRetryDelay = 5 * time.Second
	jobTimeout    = 2 * time.Minute
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

// newScheduler registers the leaderboard jobs on a scheduler over d's service
func newScheduler(d *deps) (*scheduler.Scheduler, error) {
	sched := scheduler.New(d.log, scheduler.WithRetry(jobRetries, jobRetryDelay), scheduler.WithTimeout(jobTimeout))

	schedules := d.cfg.Leaderboard
	if err := sched.AddJob(jobs.NewSnapshotJob(d.service, schedules.SnapshotSchedule, d.log)); err != nil {
		return nil, err
	}
	if err := sched.AddJob(jobs.NewWarmupJob(d.service, schedules.WarmupSchedule, d.log)); err != nil {
		return nil, err
	}
	return sched, nil
}

func initScheduler(ctx context.Context) (*scheduler.Scheduler, *deps, error) {
	d, err := buildDeps(ctx)
	if err != nil {
		return nil, nil, err
	}
	sched, err := newScheduler(d)
	if err != nil {
		d.Close()
		return nil, nil, fmt.Errorf("init scheduler: %w", err)
	}
	return sched, d, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Questboard Scheduler ===")

	sched, d, err := initScheduler(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()

	sched.Start()

	fmt.Println()
	PrintSuccess("Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, d, err := initScheduler(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()

	stats := sched.GetJobStats()

	PrintTableHeader([]string{"Job", "Schedule"}, []int{24, 20})
	for _, jobName := range sched.GetAllJobs() {
		PrintTableRow([]string{jobName, stats[jobName].Schedule}, []int{24, 20})
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, d, err := initScheduler(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()

	result, err := sched.Run(cmd.Context(), jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	PrintKeyValue("Attempts", fmt.Sprintf("%d", result.Attempts), 10)
	PrintKeyValue("Duration", result.Duration.Round(time.Millisecond).String(), 10)
	if !result.Success {
		return fmt.Errorf("job %s failed: %s", jobName, result.Error)
	}

	PrintSuccess("Job completed")
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	sched, d, err := initScheduler(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()

	stats := sched.GetJobStats()

	fmt.Println("Job Statistics:")
	fmt.Println()

	for _, jobName := range sched.GetAllJobs() {
		stat := stats[jobName]
		fmt.Printf("📊 %s\n", jobName)
		PrintKeyValue("Schedule", stat.Schedule, 12)
		PrintKeyValue("Total Runs", fmt.Sprintf("%d", stat.TotalRuns), 12)
		PrintKeyValue("Success", fmt.Sprintf("%d (%.1f%%)", stat.SuccessCount, stat.SuccessRate*100), 12)
		PrintKeyValue("Failures", fmt.Sprintf("%d", stat.FailureCount), 12)

		if stat.LastRun != nil {
			PrintKeyValue("Last Run", stat.LastRun.Format(time.DateTime), 12)
		}
		if stat.LastFailure != nil {
			PrintKeyValue("Last Failure", stat.LastFailure.Format(time.DateTime), 12)
		}

		fmt.Println()
	}

	return nil
}
