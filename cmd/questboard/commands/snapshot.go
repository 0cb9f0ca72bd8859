package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Re-rank the population once",
	Long: `Re-rank users and teams against the last snapshot and record a new one.

Position changes shown on the boards are measured against the snapshot
taken before this run.

Example:
  go run ./cmd/questboard snapshot`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()

	result, err := d.service.Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	PrintHeader("Ranking Snapshot")
	PrintKeyValue("Users", fmt.Sprintf("%d", result.Users), 8)
	PrintKeyValue("Teams", fmt.Sprintf("%d", result.Teams), 8)
	PrintKeyValue("Groups", fmt.Sprintf("%d", result.Groups), 8)
	PrintKeyValue("Taken", result.TakenAt.Local().Format(time.DateTime), 8)
	fmt.Println()
	PrintSuccess("Snapshot recorded")
	return nil
}
