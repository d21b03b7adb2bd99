package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mushroomman/transport/websocket"
)

var configEnv = []string{
	"PORT", "HOST", "LEVELS_DIR", "DEFAULT_PACK", "DEBUG",
	"NGROK_ENABLED", "NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN", "NGROK_DOMAIN", "SESSION_MAX_AGE",
}

// clearConfigEnv unsets every variable Config reads; t.Setenv restores them afterwards
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "Mushroom Man Server" {
		t.Errorf("Expected app name Mushroom Man Server, got %s", AppName)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, args, err := loadConfig(nil)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != 8080 || cfg.Host != "localhost" {
		t.Errorf("address = %s, want localhost:8080", cfg.Addr())
	}
	if cfg.LevelsDir != "levels" {
		t.Errorf("LevelsDir = %q, want levels", cfg.LevelsDir)
	}
	if cfg.DefaultPack != "classic" {
		t.Errorf("DefaultPack = %q, want classic", cfg.DefaultPack)
	}
	if cfg.SessionMaxAge != 24*time.Hour {
		t.Errorf("SessionMaxAge = %v, want 24h", cfg.SessionMaxAge)
	}
	if cfg.Debug || cfg.NgrokEnabled || cfg.ShowVersion {
		t.Error("boolean options should default to false")
	}
	if len(args) != 0 {
		t.Errorf("expected no positional args, got %v", args)
	}
}

func TestLoadConfig_EnvAndFlags(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("LEVELS_DIR", "/srv/packs")
	t.Setenv("NGROK_ENABLED", "true")
	t.Setenv("NGROK_AUTH_TOKEN", "underscore-token")
	t.Setenv("SESSION_MAX_AGE", "30m")

	cfg, args, err := loadConfig([]string{"-port", "9191", "-default-pack", "extra", "-debug", "stdio-mcp"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Port != 9191 {
		t.Errorf("flag should override env, Port = %d", cfg.Port)
	}
	if cfg.LevelsDir != "/srv/packs" {
		t.Errorf("LevelsDir = %q, want /srv/packs", cfg.LevelsDir)
	}
	if cfg.DefaultPack != "extra" || !cfg.Debug {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if !cfg.NgrokEnabled || cfg.NgrokAuthToken != "underscore-token" {
		t.Errorf("ngrok settings not read from env: %+v", cfg)
	}
	if cfg.SessionMaxAge != 30*time.Minute {
		t.Errorf("SessionMaxAge = %v, want 30m", cfg.SessionMaxAge)
	}
	if len(args) != 1 || args[0] != "stdio-mcp" {
		t.Errorf("mode args = %v, want [stdio-mcp]", args)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("bad env duration", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("SESSION_MAX_AGE", "forever")
		if _, _, err := loadConfig(nil); err == nil {
			t.Error("expected error for unparsable SESSION_MAX_AGE")
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		clearConfigEnv(t)
		if _, _, err := loadConfig([]string{"-bogus"}); err == nil {
			t.Error("expected error for unknown flag")
		}
	})
}

func TestInitializeServices(t *testing.T) {
	cfg := &Config{LevelsDir: t.TempDir(), DefaultPack: "classic", SessionMaxAge: time.Hour}

	gameService, err := initializeServices(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}

	info, err := gameService.CreateSession(t.Context(), "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if info.PackID != "classic" {
		t.Errorf("PackID = %q, want classic", info.PackID)
	}
}

func TestInitializeServices_MissingDefaultPack(t *testing.T) {
	cfg := &Config{LevelsDir: t.TempDir(), DefaultPack: "nope", SessionMaxAge: time.Hour}

	if _, err := initializeServices(cfg); err == nil {
		t.Error("Expected error for a default pack that does not exist")
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gameService, err := initializeServices(&Config{LevelsDir: t.TempDir(), DefaultPack: "classic", SessionMaxAge: time.Hour})
	if err != nil {
		t.Fatalf("initializeServices: %v", err)
	}
	hub := websocket.NewHub()
	go hub.Run()

	srv := httptest.NewUnstartedServer(nil)
	srv.Config.Handler = newRouter(gameService, hub, "http://"+srv.Listener.Addr().String())
	srv.Start()
	t.Cleanup(srv.Close)
	return srv
}

func postMCP(t *testing.T, url, body string) string {
	t.Helper()
	resp, err := http.Post(url+"/mcp", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST /mcp: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	return string(data)
}

func TestRouter_APIAndMCP(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/mcp")
	if err != nil {
		t.Fatalf("GET /mcp: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /mcp status = %d, want 405", resp.StatusCode)
	}

	body := postMCP(t, srv.URL, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`)
	if !strings.Contains(body, "Mushroom Man") {
		t.Errorf("initialize response should name the server: %s", body)
	}

	body = postMCP(t, srv.URL, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"list_packs","arguments":{}}}`)
	if !strings.Contains(body, "classic") {
		t.Errorf("list_packs should go through the REST API and list the classic pack: %s", body)
	}
}

func TestAPIAvailable(t *testing.T) {
	srv := newTestServer(t)
	if !apiAvailable(srv.URL) {
		t.Error("expected running server to be detected")
	}

	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()
	if apiAvailable(downURL) {
		t.Error("closed server should not be detected")
	}
}
