package web

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"hxanywhere/config"
	"hxanywhere/storage"
)

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local dashboard only
	},
}

// Server serves the dashboard: session history, stats and a live feed.
type Server struct {
	db     *storage.DB
	config *config.Config
	port   int
	hub    *Hub
	status string
	mu     sync.RWMutex
}

// NewServer creates a new web server
func NewServer(db *storage.DB, cfg *config.Config, port int) *Server {
	hub := NewHub()
	go hub.Run()

	return &Server{
		db:     db,
		config: cfg,
		port:   port,
		hub:    hub,
		status: "idle",
	}
}

// Start starts the web server (blocking).
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/", s.handleHistory)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/ws", s.handleWebSocket)

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to load static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	addr := fmt.Sprintf("localhost:%d", s.port)
	slog.Info("Starting web server", "url", fmt.Sprintf("http://%s", addr))

	return http.ListenAndServe(addr, mux)
}

// UpdateConfig swaps the configuration shown by the dashboard (thread-safe).
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

func (s *Server) getConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// SetStatus records and broadcasts the current session state.
func (s *Server) SetStatus(state string) {
	s.mu.Lock()
	s.status = state
	s.mu.Unlock()

	s.hub.BroadcastMessage(Message{
		Type: MessageTypeState,
		Data: StateMessage{State: state},
	})
}

// BroadcastSession pushes a finished session to all connected clients.
func (s *Server) BroadcastSession(rec *storage.Session) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeSession,
		Data: SessionMessage{
			ID:        rec.ID,
			App:       rec.App,
			Outcome:   rec.Outcome,
			CharsOut:  rec.CharsOut,
			Timestamp: rec.Timestamp.Format("2006-01-02T15:04:05Z"),
		},
	})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
