package grants

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"grantnet/internal/network/models"
)

// Fixture is an offline data set: grants plus optional board affiliations.
type Fixture struct {
	Grants []models.GrantRecord      `yaml:"grants"`
	Board  []models.BoardAffiliation `yaml:"board"`
}

// LoadFixture parses a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	for i, g := range f.Grants {
		if g.FunderID == "" {
			return nil, fmt.Errorf("fixture grant %d: funder_id is required", i)
		}
		if g.Amount < 0 {
			return nil, fmt.Errorf("fixture grant %d: amount must not be negative", i)
		}
	}
	return &f, nil
}
