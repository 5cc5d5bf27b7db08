package terminal

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultMessages []byte

// Catalog holds every player-facing string.
//
// ShipsPlaced takes the ship count (%d) and CPUMode the mode name (%s).
type Catalog struct {
	Welcome         string   `yaml:"welcome"`
	Intro           []string `yaml:"intro"`
	Setup           string   `yaml:"setup"`
	ShipsPlaced     string   `yaml:"ships_placed"`
	SetupFailed     string   `yaml:"setup_failed"`
	Prompt          string   `yaml:"prompt"`
	OpponentHeading string   `yaml:"opponent_heading"`
	OwnHeading      string   `yaml:"own_heading"`
	PlayerHit       string   `yaml:"player_hit"`
	PlayerMiss      string   `yaml:"player_miss"`
	PlayerSunk      string   `yaml:"player_sunk"`
	CPUTurn         string   `yaml:"cpu_turn"`
	CPUHit          string   `yaml:"cpu_hit"`
	CPUMiss         string   `yaml:"cpu_miss"`
	CPUSunk         string   `yaml:"cpu_sunk"`
	CPUMode         string   `yaml:"cpu_mode"`
	Malformed       string   `yaml:"malformed"`
	OutOfBounds     string   `yaml:"out_of_bounds"`
	Duplicate       string   `yaml:"duplicate"`
	AlreadyHit      string   `yaml:"already_hit"`
	Win             string   `yaml:"win"`
	Lose            string   `yaml:"lose"`
	StatsHeading    string   `yaml:"stats_heading"`
	Interrupted     string   `yaml:"interrupted"`
}

// DefaultCatalog returns the embedded catalog.
//
// Postcondition: The result passes Validate. Panics if the embedded file is corrupt.
func DefaultCatalog() Catalog {
	var c Catalog
	if err := yaml.Unmarshal(defaultMessages, &c); err != nil {
		panic("terminal: embedded messages.yaml: " + err.Error())
	}
	if err := c.Validate(); err != nil {
		panic("terminal: embedded messages.yaml: " + err.Error())
	}
	return c
}

// LoadCatalog returns the default catalog with the keys present in the YAML
// file at path replacing the defaults. An empty path returns DefaultCatalog().
//
// Postcondition: On nil error the catalog passes Validate.
func LoadCatalog(path string) (Catalog, error) {
	c := DefaultCatalog()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("terminal.LoadCatalog: reading %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("terminal.LoadCatalog: parsing %q: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("terminal.LoadCatalog: %q: %w", path, err)
	}
	return c, nil
}

// Validate reports every empty message as one error.
func (c Catalog) Validate() error {
	fields := []struct {
		key, value string
	}{
		{"welcome", c.Welcome},
		{"setup", c.Setup},
		{"ships_placed", c.ShipsPlaced},
		{"setup_failed", c.SetupFailed},
		{"prompt", c.Prompt},
		{"opponent_heading", c.OpponentHeading},
		{"own_heading", c.OwnHeading},
		{"player_hit", c.PlayerHit},
		{"player_miss", c.PlayerMiss},
		{"player_sunk", c.PlayerSunk},
		{"cpu_turn", c.CPUTurn},
		{"cpu_hit", c.CPUHit},
		{"cpu_miss", c.CPUMiss},
		{"cpu_sunk", c.CPUSunk},
		{"cpu_mode", c.CPUMode},
		{"malformed", c.Malformed},
		{"out_of_bounds", c.OutOfBounds},
		{"duplicate", c.Duplicate},
		{"already_hit", c.AlreadyHit},
		{"win", c.Win},
		{"lose", c.Lose},
		{"stats_heading", c.StatsHeading},
		{"interrupted", c.Interrupted},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("empty messages: %s", strings.Join(missing, ", "))
	}
	return nil
}
