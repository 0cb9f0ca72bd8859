package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
	"github.com/Ajinkya236/course-questing-72-sub001/internal/mockdata"
	"github.com/Ajinkya236/course-questing-72-sub001/pkg/config"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a population into the store",
	Long: `Write users and teams into the configured store.

The population comes from a YAML fixtures file, or is generated when no
file is given. Existing entries with the same ids are overwritten.

Example:
  go run ./cmd/questboard seed --file fixtures.yaml
  go run ./cmd/questboard seed --users 200 --teams 12 --seed 7`,
	RunE: runSeed,
}

var (
	seedFile  string
	seedUsers int
	seedTeams int
	seedValue uint64
)

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML fixtures file")
	seedCmd.Flags().IntVar(&seedUsers, "users", 50, "generated users")
	seedCmd.Flags().IntVar(&seedTeams, "teams", 8, "generated teams")
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 1, "generator seed")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := buildDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	if d.cfg.StoreBackend == config.StoreMemory {
		PrintWarning("The memory store lives only as long as this process; nothing will persist")
	}

	var users []contracts.UserRank
	var teams []contracts.TeamRank
	source := "generator"

	if seedFile != "" {
		fixtures, err := mockdata.LoadFixtures(seedFile)
		if err != nil {
			return err
		}
		users, teams = fixtures.Users, fixtures.Teams
		source = seedFile
	} else {
		if seedUsers < 0 || seedTeams < 0 {
			return fmt.Errorf("--users and --teams must not be negative")
		}
		users, teams = mockdata.New(seedValue).Population(seedUsers, seedTeams)
	}

	if err := d.users.Put(ctx, users...); err != nil {
		return fmt.Errorf("store users: %w", err)
	}
	if err := d.teams.Put(ctx, teams...); err != nil {
		return fmt.Errorf("store teams: %w", err)
	}

	d.log.WithFields(map[string]interface{}{
		"source": source,
		"users":  len(users),
		"teams":  len(teams),
	}).Info("Population seeded")

	PrintHeader("Seed")
	PrintKeyValue("Store", d.cfg.StoreBackend, 8)
	PrintKeyValue("Source", source, 8)
	PrintKeyValue("Users", fmt.Sprintf("%d", len(users)), 8)
	PrintKeyValue("Teams", fmt.Sprintf("%d", len(teams)), 8)
	fmt.Println()
	PrintSuccess("Population stored")
	return nil
}
