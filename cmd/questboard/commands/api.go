package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/api"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/api/handlers"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/realtime"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /health                     - Health check
  GET  /api/leaderboard            - Leaderboard view
  GET  /api/leaderboard/users      - Ranked users
  GET  /api/leaderboard/teams      - Ranked teams
  POST /api/leaderboard/snapshot   - Re-rank and notify subscribers
  POST /api/assessment             - Generate or evaluate an assessment
  POST /api/concept-map            - Generate a concept map
  GET  /ws/leaderboard             - Leaderboard update stream

Example:
  go run ./cmd/questboard api
  go run ./cmd/questboard api --port 8080 --scheduler=false`,
	RunE: runAPIServer,
}

var (
	apiPort      string
	apiScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
	apiCmd.Flags().BoolVar(&apiScheduler, "scheduler", true, "run the snapshot and warmup jobs in this process")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Questboard API Server ===")

	d, err := openDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()

	if apiPort != "" {
		d.cfg.Port = apiPort
	}
	log := d.log

	// snapshots notify websocket subscribers
	hub := realtime.NewHub(log)
	d.buildService(hub)

	log.WithFields(map[string]interface{}{
		"port":  d.cfg.Port,
		"env":   d.cfg.Env,
		"store": d.cfg.StoreBackend,
	}).Info("Initializing API server")

	router := api.NewRouter(api.Handlers{
		Leaderboard: handlers.NewLeaderboardHandler(d.service, log),
		Assessment:  handlers.NewAssessmentHandler(d.assessmentClient(), log),
		Stream:      hub,
		Checks:      d.healthChecks(),
	}, log)

	server := api.New(d.cfg, log, router)

	if apiScheduler {
		sched, err := newScheduler(d)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Println()
	PrintSuccess(fmt.Sprintf("Server running on http://localhost:%s", d.cfg.Port))
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/leaderboard")
	fmt.Println("  POST /api/assessment")
	fmt.Println("  GET  /ws/leaderboard")
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-quit:
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hub.Close()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
