package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/leaderboard"
)

// boardCmd represents the board command
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print a leaderboard",
	Long: `Compute a leaderboard view from the configured store and print it.

Example:
  go run ./cmd/questboard board --viewer <id>
  go run ./cmd/questboard board --viewer <id> --detailed
  go run ./cmd/questboard board --scope team --team-scope inter --filter department
  go run ./cmd/questboard board --filter location --value Pune --json`,
	RunE: runBoard,
}

var (
	boardQuery leaderboard.Query
	boardJSON  bool
)

func init() {
	rootCmd.AddCommand(boardCmd)

	boardCmd.Flags().StringVar(&boardQuery.ViewerID, "viewer", "", "id of the viewing user")
	boardCmd.Flags().StringVar(&boardQuery.Scope, "scope", "", "individual or team")
	boardCmd.Flags().StringVar(&boardQuery.TeamScope, "team-scope", "", "intra or inter")
	boardCmd.Flags().StringVar(&boardQuery.Filter, "filter", "", "dimension: all, personal, team, role, department, location, segment, jobFamily")
	boardCmd.Flags().StringVar(&boardQuery.Value, "value", "", "dimension value (default: the viewer's own)")
	boardCmd.Flags().BoolVar(&boardQuery.Detailed, "detailed", false, "extended relative window")
	boardCmd.Flags().BoolVar(&boardJSON, "json", false, "print JSON instead of a table")
}

func runBoard(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()

	board, err := d.service.Board(cmd.Context(), boardQuery)
	if err != nil {
		return err
	}

	if boardJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(board)
	}

	PrintBoard(board)
	fmt.Println()
	return nil
}
