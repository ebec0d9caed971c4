// Command tycoon runs the property-trading board game.
//
// Subcommands:
//  1. "serve" runs the HTTP server exposing the REST API, WebSocket spectators and an /mcp endpoint
//  2. "mcp" runs an MCP stdio server, reusing a running API or starting an internal one
//  3. "play" plays the human seat from the terminal
//  4. "simulate" plays one bot-only game and prints the standings
//
// Flags and their environment variables control the config directory,
// log level and listen address. A .env file in the working directory is
// loaded first.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/peterh/liner"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/tycoon/api"
	"github.com/wricardo/tycoon/game/config"
	"github.com/wricardo/tycoon/game/service"
	"github.com/wricardo/tycoon/game/session"
	"github.com/wricardo/tycoon/transport/mcp"
	"github.com/wricardo/tycoon/transport/terminal"
	"github.com/wricardo/tycoon/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Tycoon"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("Error loading .env file: %v", err)
		}
	} else {
		log.Debug("Loaded environment variables from .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the root command with every subcommand
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "tycoon",
		Usage:   "property-trading board game with bot opponents",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "directory containing game configurations",
				Value:   "configs",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			playCommand(),
			simulateCommand(),
		},
	}
}

func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level, err := log.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return ctx, err
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return ctx, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server with REST API, WebSocket and MCP endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Sources: cli.EnvVars("HOST")},
			&cli.IntFlag{Name: "port", Value: 8080, Sources: cli.EnvVars("PORT")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			gameService, err := initializeServices(cmd.String("config-dir"))
			if err != nil {
				return err
			}
			addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
			return runHTTPServer(ctx, gameService, addr)
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp"},
		Usage:   "run an MCP stdio server for agents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "running API to proxy; an internal one starts when unreachable",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("TYCOON_API_URL"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runStdioMCP(ctx, cmd.String("config-dir"), cmd.String("api-url"))
		},
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "play the human seat in the terminal",
		ArgsUsage: "[config]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			gameService, err := initializeServices(cmd.String("config-dir"))
			if err != nil {
				return err
			}

			line := liner.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)

			return terminal.New(gameService, cmd.Root().Writer).Run(ctx, line, cmd.Args().First())
		},
	}
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:      "simulate",
		Usage:     "play one game with every seat automated",
		ArgsUsage: "[config]",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "seed", Usage: "random seed, 0 picks one"},
			&cli.IntFlag{Name: "max-rounds", Value: service.DefaultMaxRounds},
			&cli.BoolFlag{Name: "json", Usage: "print the result as JSON"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configs, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return fmt.Errorf("failed to create config manager: %w", err)
			}
			cfg := configs.GetDefault()
			if name := cmd.Args().First(); name != "" {
				if cfg, err = configs.LoadConfig(name); err != nil {
					return err
				}
			}

			result, err := service.Simulate(ctx, cfg, service.SimulateOptions{
				Seed:      cmd.Int64("seed"),
				MaxRounds: cmd.Int("max-rounds"),
			})
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			if cmd.Bool("json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			renderSimulation(out, cfg.Name, result)
			return nil
		},
	}
}

// renderSimulation prints the final standings of a simulated game
func renderSimulation(w io.Writer, configName string, result *service.SimulationResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s, seed %d", configName, result.Seed))
	t.Style().Title.Align = text.AlignCenter
	t.AppendHeader(table.Row{"#", "Player", "Strategy", "Money", "Properties", "Worth", "Status"})
	for i, s := range result.Standings {
		status := "solvent"
		if s.Bankrupt {
			status = "bankrupt"
		}
		if s.Seat.PlayerID == result.WinnerID {
			status = "winner"
		}
		t.AppendRow(table.Row{i + 1, s.Seat.Name, s.Seat.Strategy, s.Money, s.Properties, s.Worth, status})
	}
	outcome := "no winner"
	if result.Finished {
		outcome = "finished"
	}
	t.AppendFooter(table.Row{"", outcome, "", "", "", fmt.Sprintf("%d rounds", result.Rounds), fmt.Sprintf("%d turns", result.Turns)})
	t.SetStyle(table.StyleLight)
	t.Render()
}

// initializeServices wires the config and session managers into the game service
func initializeServices(configDir string) (service.GameService, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	return service.NewGameService(session.NewManager(), configManager), nil
}

// mcpHandler answers single JSON-RPC messages posted to /mcp
func mcpHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// newRouter mounts the API at the root and the MCP endpoint at /mcp
func newRouter(gameService service.GameService, hub *websocket.Hub, baseURL string) http.Handler {
	router := http.NewServeMux()
	router.Handle("/", api.NewServer(gameService, hub))
	router.HandleFunc("/mcp", mcpHandler(mcp.NewClient(baseURL)))
	return router
}

// runHTTPServer serves until ctx is cancelled, then shuts down gracefully
func runHTTPServer(ctx context.Context, gameService service.GameService, addr string) error {
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	unsubscribe := gameService.Subscribe(hub.PublishEvent)
	defer unsubscribe()

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      newRouter(gameService, hub, "http://"+addr),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on %s", addr)
		log.Infof("REST API: http://%s/api", addr)
		log.Infof("WebSocket: ws://%s/ws", addr)
		log.Infof("MCP endpoint: http://%s/mcp", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

// apiAvailable reports whether a game API answers at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP runs an MCP stdio server against apiURL. When nothing answers
// there it starts an internal API on a random loopback port instead.
func runStdioMCP(ctx context.Context, configDir, apiURL string) error {
	baseURL := apiURL
	if apiAvailable(apiURL) {
		log.Infof("External API server found at %s, using it for MCP", apiURL)
	} else {
		log.Info("No external API server found, starting internal HTTP server")

		gameService, err := initializeServices(configDir)
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub()
		go hub.Run()
		defer hub.Stop()
		defer gameService.Subscribe(hub.PublishEvent)()

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		log.Infof("Internal HTTP server on %s", baseURL)
	}

	log.Info("MCP stdio server ready")
	client := mcp.NewClient(baseURL)
	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
