package mockdata

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/contracts"
)

// Fixtures is a hand-written population, usually loaded from fixtures.yaml
type Fixtures struct {
	Users []contracts.UserRank `yaml:"users"`
	Teams []contracts.TeamRank `yaml:"teams"`
}

// ParseFixtures decodes a population from YAML bytes.
// Entries without a position are numbered in file order.
func ParseFixtures(data []byte) (Fixtures, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Fixtures{}, fmt.Errorf("fixtures: payload is empty")
	}

	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixtures{}, fmt.Errorf("fixtures: decode: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Users))
	for i := range f.Users {
		u := &f.Users[i]
		if u.ID == "" {
			return Fixtures{}, fmt.Errorf("fixtures: user %d has no id", i)
		}
		if _, dup := seen[u.ID]; dup {
			return Fixtures{}, fmt.Errorf("fixtures: duplicate user id %q", u.ID)
		}
		seen[u.ID] = struct{}{}
		if u.Position == 0 {
			u.Position = i + 1
		}
	}

	for i := range f.Teams {
		t := &f.Teams[i]
		if t.ID == "" {
			t.ID = TeamID(t.Name)
		}
		if t.Position == 0 {
			t.Position = i + 1
		}
	}

	return f, nil
}

// LoadFixtures reads a population from a YAML file
func LoadFixtures(path string) (Fixtures, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("fixtures: read %s: %w", path, err)
	}
	f, err := ParseFixtures(content)
	if err != nil {
		return Fixtures{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
