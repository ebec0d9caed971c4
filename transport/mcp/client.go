package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/tycoon/game/engine"
	"github.com/wricardo/tycoon/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Tycoon",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tycoon - MCP Interface

This is a thin client that proxies all requests to the REST API server.

You play the human seat of a property trading board game against automated
opponents. Roll, answer the decision the roll raises (buy or decline a
property, pick an income tax option), build when you own a full color group,
then end your turn. Ending the turn plays every automated seat until it is
your turn again.

AVAILABLE TOOLS:
- new_game: Start a game from a configuration
- game_state: Your money, position, properties and the current phase
- board: All 40 tiles with owners and improvements
- roll: Roll the dice for your turn
- buy / decline: Answer a purchase offer
- choose_tax: Pay income tax as a percentage or the flat amount
- pay_bail / use_jail_card: Leave jail before rolling
- build: Buy a house or hotel on a property you own
- end_turn: Finish your turn
- history: Recorded game events
- list_configs: Available game configurations
- game_rules: The full rules`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.NewTool("new_game",
		mcp.WithDescription("Start a new game, replacing any active one"),
		mcp.WithString("config_id", mcp.Description("Configuration to use (optional, see list_configs)")),
	), c.handleNewGame)

	c.mcpServer.AddTool(mcp.NewTool("game_state",
		mcp.WithDescription("Get the current game state"),
	), c.handleGameState)

	c.mcpServer.AddTool(mcp.NewTool("board",
		mcp.WithDescription("List every tile with its owner and improvements"),
	), c.handleBoard)

	c.mcpServer.AddTool(mcp.NewTool("roll",
		mcp.WithDescription("Roll the dice for your turn"),
		mcp.WithString("intent", mcp.Description("Brief explanation of what you hope for (serves as a rubber duck to help explain your reasoning)")),
	), c.action("POST", "/api/game/roll", nil))

	c.mcpServer.AddTool(mcp.NewTool("buy",
		mcp.WithDescription("Buy the property you were offered"),
		mcp.WithString("intent", mcp.Description("Why you want this property")),
	), c.action("POST", "/api/game/buy", nil))

	c.mcpServer.AddTool(mcp.NewTool("decline",
		mcp.WithDescription("Pass on the property you were offered"),
	), c.action("POST", "/api/game/decline", nil))

	c.mcpServer.AddTool(mcp.NewTool("choose_tax",
		mcp.WithDescription("Settle income tax"),
		mcp.WithString("choice",
			mcp.Required(),
			mcp.Enum("percent", "flat"),
			mcp.Description("percent pays a share of your net worth, flat pays the fixed amount"),
		),
	), c.handleChooseTax)

	c.mcpServer.AddTool(mcp.NewTool("pay_bail",
		mcp.WithDescription("Pay bail to leave jail before rolling"),
	), c.action("POST", "/api/game/bail", nil))

	c.mcpServer.AddTool(mcp.NewTool("use_jail_card",
		mcp.WithDescription("Use a Get Out of Jail Free card"),
	), c.action("POST", "/api/game/jail-card", nil))

	c.mcpServer.AddTool(mcp.NewTool("build",
		mcp.WithDescription("Buy a house or hotel on a property of a color group you fully own"),
		mcp.WithNumber("property_id", mcp.Required(), mcp.Description("Board position of the property")),
		mcp.WithString("kind", mcp.Enum("house", "hotel"), mcp.Description("What to build (default house)")),
	), c.handleBuild)

	c.mcpServer.AddTool(mcp.NewTool("end_turn",
		mcp.WithDescription("End your turn and let the automated players move"),
	), c.action("POST", "/api/game/end-turn", nil))

	c.mcpServer.AddTool(mcp.NewTool("history",
		mcp.WithDescription("View recorded game events, newest first"),
		mcp.WithNumber("page", mcp.Description("Page number (default 1)")),
		mcp.WithNumber("limit", mcp.Description("Events per page (default 20)")),
	), c.handleHistory)

	c.mcpServer.AddTool(mcp.NewTool("list_configs",
		mcp.WithDescription("List available game configurations"),
	), c.handleListConfigs)

	c.mcpServer.AddTool(mcp.NewTool("game_rules",
		mcp.WithDescription("Get the full game rules"),
	), c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

type toolHandler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// action proxies a human seat action and formats its result
func (c *Client) action(method, path string, body func(mcp.CallToolRequest) (interface{}, error)) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var payload interface{}
		if body != nil {
			var err error
			if payload, err = body(request); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		var result service.ActionResult
		if err := c.apiCall(ctx, method, path, payload, &result); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatActionResult(&result)), nil
	}
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := request.GetString("config_id", ""); configID != "" {
		body["config_id"] = configID
	}

	var info service.GameInfo
	if err := c.apiCall(ctx, "POST", "/api/game", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Started game %s (%s)\n\nSeats:\n", info.ID, info.ConfigName)
	for _, seat := range info.Seats {
		kind := string(seat.Strategy) + " bot"
		if seat.Human {
			kind = "you"
		}
		fmt.Fprintf(&b, "  %s. %s (%s)\n", seat.PlayerID, seat.Name, kind)
	}
	if len(info.Events) > 0 {
		b.WriteString("\nBefore your first turn:\n")
		b.WriteString(formatEvents(info.Events))
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(info.GameState, info.HumanID))
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var info service.GameInfo
	if err := c.apiCall(ctx, "GET", "/api/game", nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(info.GameState, info.HumanID)), nil
}

func (c *Client) handleBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var board struct {
		Tiles []engine.Tile `json:"tiles"`
	}
	if err := c.apiCall(ctx, "GET", "/api/game/board", nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBoard(board.Tiles)), nil
}

func (c *Client) handleChooseTax(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.action("POST", "/api/game/tax", func(request mcp.CallToolRequest) (interface{}, error) {
		choice, err := request.RequireString("choice")
		if err != nil {
			return nil, err
		}
		return map[string]string{"choice": choice}, nil
	})(ctx, request)
}

func (c *Client) handleBuild(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.action("POST", "/api/game/build", func(request mcp.CallToolRequest) (interface{}, error) {
		id, err := request.RequireInt("property_id")
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"property_id": id,
			"kind":        request.GetString("kind", "house"),
		}, nil
	})(ctx, request)
}

func (c *Client) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := "?"
	if page := request.GetInt("page", 0); page > 0 {
		params += fmt.Sprintf("page=%d&", page)
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params += fmt.Sprintf("limit=%d&", limit)
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", "/api/game/history"+strings.TrimSuffix(params, "&"), nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Seats: %d, Starting money: $%d\n\n",
			config.ConfigID, config.Name, config.Description, config.Seats, config.StartingMoney)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(rules), nil
}

const rules = `TYCOON RULES

THE BOARD
40 tiles in a loop. Streets belong to color groups; there are 4 railroads
and 2 utilities. Special tiles: GO (0), Jail (10), Free Parking (20),
Go To Jail (30), Income Tax (4), Luxury Tax (38), Chance and Community Chest.

YOUR TURN
1. If you are in jail you may pay bail or use a jail-free card first.
2. Roll. Doubles let you roll again; three doubles in a row send you to jail.
3. Answer what the roll raised:
   - An unowned property: buy it or decline. An offer you ignore lapses.
   - Income Tax: pay a percentage of your net worth or the flat amount.
4. Build houses and hotels on groups you fully own, evenly.
5. End your turn. The automated players move until it is your turn again.

MONEY
- Passing or landing on GO pays the pass-GO bonus.
- Rent is owed to the owner when you land on their property:
  streets pay base rent, double for an unimproved full group, more per house;
  railroads pay 25/50/100/200 by how many the owner holds;
  utilities pay 4x the dice (10x with both).
- Payments you cannot cover make you bankrupt. Your properties return to
  the bank and you are out.

JAIL
- In jail you roll for doubles. Doubles release you and move you.
- After the third failed roll bail is paid for you and you move.

WINNING
The last solvent player wins.`

// Formatting helpers

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder
	if result.Message != "" {
		b.WriteString(result.Message)
		b.WriteString("\n")
	}
	if len(result.Events) > 0 {
		b.WriteString("\nWhat happened:\n")
		b.WriteString(formatEvents(result.Events))
	}
	switch {
	case result.GameOver:
		b.WriteString("\nThe game is over.\n")
	case result.YourTurn && result.GameState != nil && result.GameState.Phase == engine.PhaseAwaitingRoll:
		b.WriteString("\nIt is your turn: roll.\n")
	case result.YourTurn && result.GameState != nil && result.GameState.Phase == engine.PhaseAwaitingTaxChoice:
		b.WriteString("\nChoose how to pay income tax (choose_tax).\n")
	case result.YourTurn:
		b.WriteString("\nBuild if you like, then end_turn.\n")
	}
	return b.String()
}

func formatEvents(events []service.GameEvent) string {
	var b strings.Builder
	for _, ev := range events {
		fmt.Fprintf(&b, "  %d. %s\n", ev.Seq, ev.Message)
	}
	return b.String()
}

func formatGameState(state *engine.GameState, humanID string) string {
	if state == nil {
		return "Game state unavailable"
	}

	names := make(map[int]string, len(state.Properties))
	for _, p := range state.Properties {
		names[p.ID] = p.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Round %d, phase: %s\n", state.Round, state.Phase)
	if cur, ok := state.CurrentPlayer(); ok {
		fmt.Fprintf(&b, "Current player: %s\n", cur.Name)
	}
	if state.LastRoll != nil {
		fmt.Fprintf(&b, "Last roll: %d+%d=%d\n", state.LastRoll.D1, state.LastRoll.D2, state.LastRoll.Total)
	}
	if state.WinnerID != "" {
		fmt.Fprintf(&b, "Winner: player %s\n", state.WinnerID)
	}

	b.WriteString("\nPlayers:\n")
	for _, p := range state.Players {
		marker := " "
		if p.ID == humanID {
			marker = "*"
		}
		status := fmt.Sprintf("$%d at %d", p.Money, p.Position)
		switch {
		case p.Bankrupt:
			status = "bankrupt"
		case p.InJail:
			status += " (in jail)"
		}
		fmt.Fprintf(&b, "%s %s. %s: %s", marker, p.ID, p.Name, status)
		if len(p.Properties) > 0 {
			owned := make([]string, 0, len(p.Properties))
			for _, id := range p.Properties {
				owned = append(owned, names[id])
			}
			fmt.Fprintf(&b, " owns %s", strings.Join(owned, ", "))
		}
		if n := p.JailFreeCount(); n > 0 {
			fmt.Fprintf(&b, " [%d jail-free]", n)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatBoard(tiles []engine.Tile) string {
	var b strings.Builder
	for _, t := range tiles {
		fmt.Fprintf(&b, "%2d %-24s", t.Position, t.Name)
		if p := t.Property; p != nil {
			fmt.Fprintf(&b, " $%d", p.Price)
			if p.Group.IsColor() {
				fmt.Fprintf(&b, " %s", p.Group)
			}
			if p.OwnerID != "" {
				fmt.Fprintf(&b, " owner %s", p.OwnerID)
			}
			if p.Hotel > 0 {
				b.WriteString(" hotel")
			} else if p.Houses > 0 {
				fmt.Fprintf(&b, " %d houses", p.Houses)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Event History (Page %d/%d), Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalEvents)
	return result + formatEvents(history.Events)
}
