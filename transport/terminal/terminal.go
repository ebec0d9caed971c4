package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/peterh/liner"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/tycoon/game/engine"
	"github.com/wricardo/tycoon/game/service"
)

// Palette groups the colors used for terminal output
type Palette struct {
	Good, Bad, Info, Warn, Header, Prompt, Muted *color.Color
}

// C is the terminal palette
var C = Palette{
	Good:   color.New(color.FgGreen),
	Bad:    color.New(color.FgRed),
	Info:   color.New(color.FgCyan),
	Warn:   color.New(color.FgHiYellow),
	Header: color.New(color.FgWhite, color.Bold),
	Prompt: color.New(color.FgHiWhite),
	Muted:  color.New(color.FgHiBlack),
}

// GroupColors colors property names by color group
var GroupColors = map[engine.ColorGroup]*color.Color{
	engine.GroupBrown:     color.New(color.FgYellow, color.Faint),
	engine.GroupLightBlue: color.New(color.FgHiCyan),
	engine.GroupPink:      color.New(color.FgHiMagenta),
	engine.GroupOrange:    color.New(color.FgHiYellow),
	engine.GroupRed:       color.New(color.FgRed),
	engine.GroupYellow:    color.New(color.FgYellow),
	engine.GroupGreen:     color.New(color.FgGreen),
	engine.GroupDarkBlue:  color.New(color.FgBlue),
	engine.GroupRailroad:  color.New(color.FgWhite),
	engine.GroupUtility:   color.New(color.FgHiBlack),
}

// Prompter reads one line of input. *liner.State implements it.
type Prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// Terminal drives the human seat of the active game from a line prompt
type Terminal struct {
	svc service.GameService
	out io.Writer

	humanID string
	names   map[int]engine.Property
}

// New creates a terminal driver writing to out
func New(svc service.GameService, out io.Writer) *Terminal {
	return &Terminal{svc: svc, out: out, names: make(map[int]engine.Property)}
}

// Run starts a game from the named configuration and reads commands until
// quit, end of input or an aborted prompt
func (t *Terminal) Run(ctx context.Context, line Prompter, configName string) error {
	if err := t.newGame(ctx, configName); err != nil {
		return err
	}
	t.help()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		input, err := line.Prompt(t.prompt(ctx))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				C.Info.Fprintln(t.out, "Goodbye!")
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if quit := t.Execute(ctx, input); quit {
			C.Info.Fprintln(t.out, "Goodbye!")
			return nil
		}
	}
}

// Execute runs one command line and reports whether the user asked to quit.
// Rejected actions are printed, not returned.
func (t *Terminal) Execute(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var (
		result *service.ActionResult
		err    error
	)
	switch cmd {
	case "roll", "r":
		result, err = t.svc.Roll(ctx)
	case "buy", "b":
		result, err = t.svc.Buy(ctx)
	case "decline", "pass", "d":
		result, err = t.svc.Decline(ctx)
	case "tax", "t":
		if len(args) != 1 || (args[0] != "percent" && args[0] != "flat") {
			C.Warn.Fprintln(t.out, "Usage: tax percent|flat")
			return false
		}
		result, err = t.svc.ChooseTax(ctx, args[0] == "percent")
	case "bail":
		result, err = t.svc.PayBail(ctx)
	case "card":
		result, err = t.svc.UseJailFreeCard(ctx)
	case "build":
		result, err = t.build(ctx, args)
		if result == nil && err == nil {
			return false
		}
	case "end", "e":
		result, err = t.svc.EndTurn(ctx)
	case "state", "s":
		err = t.showState(ctx)
	case "board":
		err = t.showBoard(ctx)
	case "history", "log":
		err = t.showHistory(ctx, args)
	case "new":
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		err = t.newGame(ctx, name)
	case "help", "h", "?":
		t.help()
	case "quit", "q", "exit":
		return true
	default:
		C.Warn.Fprintf(t.out, "Unknown command '%s'. Type 'help' for a list of commands.\n", cmd)
		return false
	}

	if err != nil {
		log.WithFields(log.Fields{"command": cmd, "error": err}).Debug("Command rejected")
		C.Bad.Fprintf(t.out, "✖ %v\n", err)
		return false
	}
	if result != nil {
		t.showResult(result)
	}
	return false
}

func (t *Terminal) build(ctx context.Context, args []string) (*service.ActionResult, error) {
	if len(args) < 1 {
		C.Warn.Fprintln(t.out, "Usage: build <property id> [hotel]")
		return nil, nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		C.Warn.Fprintf(t.out, "'%s' is not a property id\n", args[0])
		return nil, nil
	}
	if len(args) > 1 && strings.EqualFold(args[1], "hotel") {
		return t.svc.BuildHotel(ctx, id)
	}
	return t.svc.BuildHouse(ctx, id)
}

func (t *Terminal) newGame(ctx context.Context, configName string) error {
	info, err := t.svc.NewGame(ctx, configName)
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	t.humanID = info.HumanID
	t.remember(info.GameState)

	C.Header.Fprintf(t.out, "\n--- %s ---\n", info.ConfigName)
	for _, seat := range info.Seats {
		kind := string(seat.Strategy)
		if seat.Human {
			kind = "you"
		}
		fmt.Fprintf(t.out, "  %s. %s (%s)\n", seat.PlayerID, seat.Name, kind)
	}
	t.printEvents(info.Events)
	t.renderPlayers(info.GameState)
	return nil
}

// prompt shows what the human is expected to do next
func (t *Terminal) prompt(ctx context.Context) string {
	state, err := t.svc.GetState(ctx)
	if err != nil {
		return "(no game) "
	}
	switch {
	case state.GameOver():
		return "(game over) "
	case state.PendingTax != nil:
		return "(tax percent|flat) "
	case state.PendingPurchase != nil:
		return "(buy/decline) "
	case state.Phase == engine.PhaseAwaitingRoll:
		return "(roll) "
	default:
		return "(end) "
	}
}

func (t *Terminal) showResult(result *service.ActionResult) {
	if result.Message != "" {
		C.Info.Fprintln(t.out, result.Message)
	}
	t.printEvents(result.Events)
	t.remember(result.GameState)
	if result.GameOver {
		C.Header.Fprintln(t.out, "\nFinal standings:")
		t.renderPlayers(result.GameState)
	}
}

func (t *Terminal) printEvents(events []service.GameEvent) {
	for _, ev := range events {
		c := C.Muted
		switch {
		case ev.PlayerID == t.humanID && ev.Type == engine.EventBankrupt:
			c = C.Bad
		case ev.PlayerID == t.humanID:
			c = C.Prompt
		case ev.Type == engine.EventGameWon:
			c = C.Good
		}
		c.Fprintf(t.out, "  • %s\n", ev.Message)
	}
}

func (t *Terminal) showState(ctx context.Context) error {
	state, err := t.svc.GetState(ctx)
	if err != nil {
		return err
	}
	t.remember(state)
	t.renderPlayers(state)
	return nil
}

func (t *Terminal) showBoard(ctx context.Context) error {
	tiles, err := t.svc.GetBoard(ctx)
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(t.out)
	tw.SetTitle("Board")
	tw.AppendHeader(table.Row{"#", "Tile", "Price", "Owner", "Built"})
	for _, tile := range tiles {
		row := table.Row{tile.Position, tile.Name, "", "", ""}
		if p := tile.Property; p != nil {
			row[1] = colorizeProperty(*p)
			row[2] = fmt.Sprintf("$%d", p.Price)
			row[3] = p.OwnerID
			switch {
			case p.Hotel > 0:
				row[4] = "hotel"
			case p.Houses > 0:
				row[4] = strings.Repeat("⌂", p.Houses)
			}
		}
		tw.AppendRow(row)
	}
	tw.SetStyle(table.StyleLight)
	tw.Style().Title.Align = text.AlignCenter
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	tw.Render()
	return nil
}

func (t *Terminal) showHistory(ctx context.Context, args []string) error {
	limit := 10
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			limit = n
		}
	}
	history, err := t.svc.GetHistory(ctx, service.HistoryOptions{Page: 1, Limit: limit, Order: "desc"})
	if err != nil {
		return err
	}

	C.Header.Fprintf(t.out, "Last %d of %d events:\n", len(history.Events), history.TotalEvents)
	// Oldest first reads naturally
	for i := len(history.Events) - 1; i >= 0; i-- {
		ev := history.Events[i]
		fmt.Fprintf(t.out, "%4d  %s\n", ev.Seq, ev.Message)
	}
	return nil
}

func (t *Terminal) renderPlayers(state *engine.GameState) {
	if state == nil {
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(t.out)
	tw.SetTitle(fmt.Sprintf("Round %d", state.Round))
	tw.AppendHeader(table.Row{"", "Player", "Money", "Position", "Properties", "Status"})
	for i, p := range state.Players {
		marker := ""
		if i == state.CurrentPlayerIndex && !state.GameOver() {
			marker = "▶"
		}
		name := p.Name
		if p.ID == t.humanID {
			name = C.Header.Sprint(p.Name)
		}

		status := C.Good.Sprint("playing")
		switch {
		case p.Bankrupt:
			status = C.Bad.Sprint("bankrupt")
		case p.InJail:
			status = C.Warn.Sprint("in jail")
		case state.WinnerID == p.ID:
			status = C.Good.Sprint("winner")
		}
		if n := p.JailFreeCount(); n > 0 {
			status += fmt.Sprintf(" +%d card", n)
		}

		owned := make([]string, 0, len(p.Properties))
		for _, id := range p.Properties {
			if prop, ok := t.names[id]; ok {
				owned = append(owned, colorizeProperty(prop))
			}
		}
		tw.AppendRow(table.Row{marker, name, fmt.Sprintf("$%d", p.Money), p.Position, strings.Join(owned, ", "), status})
	}
	tw.SetStyle(table.StyleRounded)
	tw.Style().Title.Align = text.AlignCenter
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	tw.Render()
}

// remember refreshes the property lookup used to name holdings
func (t *Terminal) remember(state *engine.GameState) {
	if state == nil {
		return
	}
	for _, p := range state.Properties {
		t.names[p.ID] = p
	}
}

func colorizeProperty(p engine.Property) string {
	if c, ok := GroupColors[p.Group]; ok {
		return c.Sprint(p.Name)
	}
	return p.Name
}

func (t *Terminal) help() {
	C.Header.Fprintln(t.out, "\nCommands:")

	tw := table.NewWriter()
	tw.SetOutputMirror(t.out)
	tw.AppendHeader(table.Row{"Command", "Alias", "Description"})
	tw.AppendRows([]table.Row{
		{"roll", "r", "Roll the dice"},
		{"buy", "b", "Buy the offered property"},
		{"decline", "d", "Pass on the offered property"},
		{"tax percent|flat", "t", "Settle income tax"},
		{"bail", "", "Pay bail before rolling"},
		{"card", "", "Use a Get Out of Jail Free card"},
		{"build <id> [hotel]", "", "Build a house (or hotel) on a property"},
		{"end", "e", "End your turn"},
		{"state", "s", "Show players"},
		{"board", "", "Show the board"},
		{"history [n]", "log", "Show the last n events"},
		{"new [config]", "", "Start a new game"},
		{"quit", "q", "Leave"},
	})
	tw.SetStyle(table.StyleLight)
	tw.Render()
}
