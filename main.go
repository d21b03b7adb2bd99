// Command mushroomman starts the Mushroom Man puzzle server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, the level pack directory and default pack, debug
// logging, version output, and optional ngrok tunneling for easy external
// access during development. Every flag except -version can also be set from
// the environment (see Config).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mushroomman/api"
	"github.com/wricardo/mushroomman/game/packs"
	"github.com/wricardo/mushroomman/game/service"
	"github.com/wricardo/mushroomman/game/session"
	"github.com/wricardo/mushroomman/transport/mcp"
	"github.com/wricardo/mushroomman/transport/websocket"
)

// Version information
const (
	Version = "3.0.0"
	AppName = "Mushroom Man Server"
)

// Config is read from the environment first; flags override it.
type Config struct {
	Port           int           `env:"PORT" envDefault:"8080"`
	Host           string        `env:"HOST" envDefault:"localhost"`
	LevelsDir      string        `env:"LEVELS_DIR" envDefault:"levels"`
	DefaultPack    string        `env:"DEFAULT_PACK" envDefault:"classic"`
	Debug          bool          `env:"DEBUG"`
	NgrokEnabled   bool          `env:"NGROK_ENABLED"`
	NgrokAuthToken string        `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string        `env:"NGROK_DOMAIN"`
	SessionMaxAge  time.Duration `env:"SESSION_MAX_AGE" envDefault:"24h"`

	ShowVersion bool
}

// Addr is the host:port the HTTP server binds to
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// loadConfig parses the environment, then the command line. It returns the
// remaining positional arguments (the mode).
func loadConfig(args []string) (*Config, []string, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.NgrokAuthToken == "" {
		// Also support the underscore spelling
		cfg.NgrokAuthToken = os.Getenv("NGROK_AUTH_TOKEN")
	}

	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "HTTP server host")
	fs.StringVar(&cfg.LevelsDir, "levels-dir", cfg.LevelsDir, "Directory containing level packs (*.dat)")
	fs.StringVar(&cfg.DefaultPack, "default-pack", cfg.DefaultPack, "Pack used when a session does not name one")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&cfg.NgrokEnabled, "ngrok", cfg.NgrokEnabled, "Enable ngrok tunnel")
	fs.StringVar(&cfg.NgrokAuthToken, "ngrok-auth", cfg.NgrokAuthToken, "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	fs.StringVar(&cfg.NgrokDomain, "ngrok-domain", cfg.NgrokDomain, "Custom ngrok domain (optional)")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	name := os.Args[0]
	fmt.Fprintf(out, "Usage: %s [OPTIONS] [MODE]\n\n", name)
	fmt.Fprintf(out, "%s v%s\n\n", AppName, Version)
	fmt.Fprintf(out, "Available modes:\n")
	fmt.Fprintf(out, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
	fmt.Fprintf(out, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
	fmt.Fprintf(out, "  mcp-stdio        Alias for stdio-mcp\n")
	fmt.Fprintf(out, "  mcp              Alias for stdio-mcp\n")
	fmt.Fprintf(out, "\nOptions:\n")
	fs.PrintDefaults()
	fmt.Fprintf(out, "\nExamples:\n")
	fmt.Fprintf(out, "  %s                       # Run HTTP server on default port 8080\n", name)
	fmt.Fprintf(out, "  %s -levels-dir ./packs   # Serve every *.dat in ./packs\n", name)
	fmt.Fprintf(out, "  %s stdio-mcp             # Run MCP stdio server\n", name)
	fmt.Fprintf(out, "  %s -port 9090 mcp        # Run MCP stdio server, reusing or starting HTTP on port 9090\n", name)
}

// setupLogging configures logrus. stdio-mcp mode owns stdout, so logs always go to stderr.
func setupLogging(debug bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	} else {
		log.SetLevel(log.InfoLevel)
		log.SetReportCaller(false)
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("Error loading .env file: %v", err)
		}
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	cfg, args, err := loadConfig(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	setupLogging(cfg.Debug)

	mode := "server"
	if len(args) > 0 {
		mode = args[0]
	}

	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, mode)

	gameService, err := initializeServices(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(cfg, gameService)

	case "server", "http":
		runHTTPServer(cfg, gameService)

	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// newMCPHandler serves JSON-RPC MCP messages over plain HTTP POST
func newMCPHandler(client *mcp.Client) http.HandlerFunc {
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

// newRouter mounts the REST API at the root and the MCP endpoint at /mcp
func newRouter(gameService service.GameService, hub *websocket.Hub, baseURL string) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", api.NewServer(gameService, hub))
	mainRouter.HandleFunc("/mcp", newMCPHandler(mcp.NewClient(baseURL)))
	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runHTTPServer(cfg *Config, gameService service.GameService) {
	hub := websocket.NewHub()
	go hub.Run()

	addr := cfg.Addr()
	mainRouter := newRouter(gameService, hub, fmt.Sprintf("http://%s", addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if cfg.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cfg, mainRouter)
		}()
	}

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Info("Server stopped")
}

// runNgrokTunnel serves handler through an ngrok endpoint until ctx is cancelled
func runNgrokTunnel(ctx context.Context, cfg *Config, handler http.Handler) {
	if cfg.NgrokAuthToken == "" {
		log.Warn("Ngrok enabled but no auth token provided (use -ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Info("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		log.Printf("Using custom ngrok domain: %s", cfg.NgrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuthToken))
	if err != nil {
		log.Errorf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Debugf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	// http.Serve only returns once the listener is closed
	go func() {
		<-ctx.Done()
		tun.Close()
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)
	log.Printf("  Game UI (ngrok): %s/", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Errorf("Ngrok server error: %v", err)
	}
	log.Info("Ngrok tunnel closed")
}

// initializeServices wires the pack and session managers into the game service.
// It also starts a background cleanup routine to prune stale sessions.
func initializeServices(cfg *Config) (service.GameService, error) {
	packManager, err := packs.NewManager(cfg.LevelsDir, cfg.DefaultPack)
	if err != nil {
		return nil, fmt.Errorf("failed to create pack manager: %w", err)
	}

	sessionManager := session.NewManager()
	gameService := service.NewGameService(sessionManager, packManager)

	go sessionCleanupRoutine(sessionManager, cfg.SessionMaxAge)

	return gameService, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within maxAge.
func sessionCleanupRoutine(manager *session.Manager, maxAge time.Duration) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
			log.Printf("Cleaned up %d expired sessions", removed)
		}
	}
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API on the configured address; if unavailable,
// it starts an internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(cfg *Config, gameService service.GameService) {
	externalURL := fmt.Sprintf("http://%s", cfg.Addr())
	log.Printf("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	if !apiAvailable(externalURL) {
		log.Info("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("Failed to get available port: %v", err)
		}
		internalAddr := listener.Addr().String()
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := websocket.NewHub()
		go hub.Run()

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Errorf("Internal HTTP server error: %v", err)
			}
		}()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
		log.Info("MCP stdio server ready (using internal HTTP server)")
	} else {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}

// apiAvailable reports whether a Mushroom Man API answers at baseURL
func apiAvailable(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/api")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}
