// Command analyze pits the bot strategies against each other and prints a
// win-rate table per configuration. Every game seats one bot per strategy,
// rotating the seating order so no strategy always moves first.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/tycoon/game/engine"
	"github.com/wricardo/tycoon/game/policy"
	"github.com/wricardo/tycoon/game/service"
)

var strategies = []policy.Strategy{policy.Aggressive, policy.Conservative, policy.Balanced}

// Tally accumulates one strategy's results over many games
type Tally struct {
	Strategy     policy.Strategy
	Games        int
	Wins         int
	Leads        int
	Bankruptcies int
	TotalWorth   int
}

// WinRate is the share of games the strategy won outright
func (t Tally) WinRate() float64 {
	if t.Games == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.Games)
}

// AvgWorth is the mean final worth
func (t Tally) AvgWorth() int {
	if t.Games == 0 {
		return 0
	}
	return t.TotalWorth / t.Games
}

// Report is the outcome of one configuration's analysis
type Report struct {
	Config   string
	Games    int
	Finished int
	Rounds   int
	Tallies  []Tally
}

// lineup seats one bot per strategy, rotated by offset
func lineup(offset int) []engine.Seat {
	seats := make([]engine.Seat, len(strategies))
	for i := range strategies {
		s := strategies[(i+offset)%len(strategies)]
		seats[i] = engine.Seat{Name: string(s), Strategy: string(s)}
	}
	return seats
}

// analyze plays games bot-only games of base. Game i uses seed+i, so a
// non-zero seed makes the whole report reproducible.
func analyze(ctx context.Context, base *engine.GameConfig, games int, seed int64, maxRounds int) (*Report, error) {
	tallies := make(map[policy.Strategy]*Tally, len(strategies))
	for _, s := range strategies {
		tallies[s] = &Tally{Strategy: s}
	}
	report := &Report{Config: base.Name, Games: games}

	for i := 0; i < games; i++ {
		cfg := *base
		cfg.Seats = lineup(i)

		var gameSeed int64
		if seed != 0 {
			gameSeed = seed + int64(i)
		}
		result, err := service.Simulate(ctx, &cfg, service.SimulateOptions{Seed: gameSeed, MaxRounds: maxRounds})
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", i+1, err)
		}

		report.Rounds += result.Rounds
		if result.Finished {
			report.Finished++
		}
		for _, st := range result.Standings {
			t := tallies[st.Seat.Strategy]
			t.Games++
			t.TotalWorth += st.Worth
			if st.Bankrupt {
				t.Bankruptcies++
			}
			if result.Finished && st.Seat.PlayerID == result.WinnerID {
				t.Wins++
			}
		}
		if t, ok := tallies[result.Leader.Strategy]; ok {
			t.Leads++
		}
	}

	for _, s := range strategies {
		report.Tallies = append(report.Tallies, *tallies[s])
	}
	return report, nil
}

func render(w io.Writer, r *Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s: %d games, %d finished", r.Config, r.Games, r.Finished))
	t.Style().Title.Align = text.AlignCenter
	t.AppendHeader(table.Row{"Strategy", "Wins", "Win rate", "Leads", "Bankrupt", "Avg worth"})
	for _, tally := range r.Tallies {
		t.AppendRow(table.Row{
			tally.Strategy,
			tally.Wins,
			fmt.Sprintf("%.1f%%", tally.WinRate()*100),
			tally.Leads,
			tally.Bankruptcies,
			tally.AvgWorth(),
		})
	}
	avgRounds := 0
	if r.Games > 0 {
		avgRounds = r.Rounds / r.Games
	}
	t.AppendFooter(table.Row{"", "", "", "", "avg rounds", avgRounds})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// configFiles returns the named files, or every JSON file in dir
func configFiles(dir string, names []string) ([]string, error) {
	if len(names) == 0 {
		return filepath.Glob(filepath.Join(dir, "*.json"))
	}
	files := make([]string, len(names))
	for i, name := range names {
		if !strings.HasSuffix(name, ".json") {
			name += ".json"
		}
		files[i] = filepath.Join(dir, name)
	}
	return files, nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "compare bot strategies over many simulated games",
		ArgsUsage: "[config...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.IntFlag{Name: "games", Value: 300},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "base seed, 0 for random games"},
			&cli.IntFlag{Name: "max-rounds", Value: service.DefaultMaxRounds},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := configFiles(cmd.String("config-dir"), cmd.Args().Slice())
			if err != nil {
				return err
			}
			for _, file := range files {
				cfg, err := engine.LoadGameConfig(file)
				if err != nil {
					log.Warnf("Skipping %s: %v", file, err)
					continue
				}
				report, err := analyze(ctx, cfg, cmd.Int("games"), cmd.Int64("seed"), cmd.Int("max-rounds"))
				if err != nil {
					return err
				}
				render(cmd.Root().Writer, report)
			}
			return nil
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
