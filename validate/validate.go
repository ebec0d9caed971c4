// Command validate checks the game configuration JSON files in the
// ../configs directory (or the directory given as the first argument):
//   - JSON structure, with unknown fields rejected
//   - variant rules and seat strategies
//   - the name field matches the file name
//   - an engine can be built from the file
//   - a short bot-only game runs without error
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/wricardo/tycoon/game/config"
	"github.com/wricardo/tycoon/game/engine"
	"github.com/wricardo/tycoon/game/service"
)

// smokeRounds bounds the trial game played for each file
const smokeRounds = 50

// ValidationResult captures the outcome of validating a single file.
// Info holds the checks that passed, Errors the ones that failed.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) pass(format string, args ...interface{}) {
	r.Info = append(r.Info, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var cfg engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if want := strings.TrimSuffix(result.File, ".json"); cfg.Name != want {
		result.fail("Name %q does not match file name %q", cfg.Name, want)
	}

	if err := config.Validate(&cfg); err != nil {
		result.fail("%v", err)
		return result
	}
	humans := 0
	for _, seat := range cfg.Seats {
		if seat.Human {
			humans++
		}
	}
	result.pass("Seats: %d (%d human)", len(cfg.Seats), humans)

	if _, err := engine.NewEngine(&cfg); err != nil {
		result.fail("Engine rejected configuration: %v", err)
		return result
	}
	result.pass("Board and decks valid")

	sim, err := service.Simulate(context.Background(), &cfg, service.SimulateOptions{Seed: 1, MaxRounds: smokeRounds})
	if err != nil {
		result.fail("Trial game failed: %v", err)
		return result
	}
	result.pass("Trial game: %d rounds, %d turns", sim.Rounds, sim.Turns)

	return result
}

// main validates every *.json file, printing a concise report and exiting
// with non-zero status if any are invalid
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	good := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			good.Println("VALID")
		} else {
			bad.Println("INVALID")
			allValid = false
		}
		for _, info := range result.Info {
			good.Println("  ✓ " + info)
		}
		for _, err := range result.Errors {
			bad.Println("  ✖ " + err)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		good.Println("All configurations are valid!")
	} else {
		bad.Println("Some configurations have errors")
		os.Exit(1)
	}
}
