package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/wricardo/sliding-penguins/game/engine"
	"github.com/wricardo/sliding-penguins/game/service"
	"github.com/wricardo/sliding-penguins/game/session"
	"github.com/wricardo/sliding-penguins/logging"
	"github.com/wricardo/sliding-penguins/transport/websocket"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "Sliding Penguins Server" {
		t.Errorf("Unexpected app name %s", AppName)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("PENGUINS_TEST_VALUE", "from-env")
	if got := envOr("PENGUINS_TEST_VALUE", "fallback"); got != "from-env" {
		t.Errorf("Expected from-env, got %s", got)
	}
	if got := envOr("PENGUINS_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %s", got)
	}
}

func TestNgrokSettings(t *testing.T) {
	t.Setenv("NGROK_ENABLED", "")
	t.Setenv("NGROK_AUTHTOKEN", "")
	t.Setenv("NGROK_AUTH_TOKEN", "")
	if ngrokRequested() {
		t.Error("Expected ngrok to be off by default")
	}
	if ngrokToken() != "" {
		t.Error("Expected no token by default")
	}

	t.Setenv("NGROK_ENABLED", "1")
	t.Setenv("NGROK_AUTH_TOKEN", "underscore")
	if !ngrokRequested() {
		t.Error("Expected NGROK_ENABLED=1 to enable ngrok")
	}
	if got := ngrokToken(); got != "underscore" {
		t.Errorf("Expected the NGROK_AUTH_TOKEN value, got %q", got)
	}

	t.Setenv("NGROK_AUTHTOKEN", "preferred")
	if got := ngrokToken(); got != "preferred" {
		t.Errorf("Expected NGROK_AUTHTOKEN to win, got %q", got)
	}
}

func TestInitializeServices(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gameService, err := initializeServices(ctx, "configs", logging.Discard())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	configs, err := gameService.ListConfigs(ctx)
	if err != nil {
		t.Fatalf("ListConfigs() error = %v", err)
	}
	if len(configs) < 3 {
		t.Errorf("Expected the shipped rulesets, got %d", len(configs))
	}

	info, err := gameService.CreateSession(ctx, service.CreateOptions{})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if info.ConfigName != "classic" {
		t.Errorf("Expected the classic ruleset by default, got %s", info.ConfigName)
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	_, err := initializeServices(context.Background(), "/non/existent/path", logging.Discard())
	if err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestSessionCleanupRoutine(t *testing.T) {
	manager := session.NewManager()
	cfg := &engine.GameConfig{Name: "t", Width: 3, Height: 3, Rounds: 1, Layout: []string{"A..", "...", "..."}}
	game, err := engine.NewGame(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := manager.Create("ab12", game, "t"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, manager, time.Millisecond, logging.Discard())
		close(done)
	}()

	// A fresh session survives the sweep.
	time.Sleep(20 * time.Millisecond)
	if manager.Count() != 1 {
		t.Errorf("Expected the fresh session to survive, got %d sessions", manager.Count())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup routine did not stop")
	}
}

func TestNewHandler(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gameService, err := initializeServices(ctx, "configs", logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	hub := websocket.NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	handler := newHandler(gameService, hub, "http://127.0.0.1:1", logging.Discard())

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/api/health", http.StatusOK},
		{"GET", "/api/configs", http.StatusOK},
		{"GET", "/mcp", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, w.Code)
			}
		})
	}
}
