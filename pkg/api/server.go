// Package api serves the local control surface: status, manual refresh,
// the asset cache and a WebSocket stream of applied wallpapers.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dixieflatline76/UnsplashedPaper/config"
	"github.com/dixieflatline76/UnsplashedPaper/pkg/wallpaper"
	"github.com/dixieflatline76/UnsplashedPaper/util/log"
	"github.com/gorilla/websocket"
	"github.com/spf13/afero"
)

// Controller is the subset of the wallpaper service the API drives.
type Controller interface {
	RefreshNow() wallpaper.CycleOutcome
	ApplySettings() wallpaper.CycleOutcome
	Status() (wallpaper.SchedulerState, time.Time)
	LastOutcome() (wallpaper.CycleOutcome, bool)
}

// Server represents the local REST/WebSocket server.
type Server struct {
	addr       string
	httpServer *http.Server
	mux        *http.ServeMux
	upgrader   websocket.Upgrader

	ctrl Controller

	// WebSocket management
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex

	// Asset cache
	cacheFs  afero.Fs
	cacheDir string
}

// NewServer creates a server bound to addr that drives ctrl. An empty addr
// uses config.APIAddr.
func NewServer(addr string, ctrl Controller) *Server {
	if addr == "" {
		addr = config.APIAddr
	}
	s := &Server{
		addr: addr,
		mux:  http.NewServeMux(),
		ctrl: ctrl,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]bool),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.enableCORS(s.handleHealth))
	s.mux.HandleFunc("/status", s.enableCORS(s.handleStatus))
	s.mux.HandleFunc("/refresh", s.enableCORS(s.handleRefresh))
	s.mux.HandleFunc("/apply", s.enableCORS(s.handleApply))
	s.mux.HandleFunc("/cache", s.enableCORS(s.handleCacheListing))
	s.mux.HandleFunc("/cache/{name}", s.enableCORS(s.handleCacheAsset))
	s.mux.HandleFunc("/ws", s.handleWebSocket)
}

// RegisterCache exposes dir on fs under /cache.
func (s *Server) RegisterCache(fs afero.Fs, dir string) {
	s.cacheFs = fs
	s.cacheDir = dir
}

// enableCORS adds CORS headers to the handler.
func (s *Server) enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start listens on Addr. It blocks until Stop is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("[API] Listening on http://%s", s.addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down and closes every WebSocket client.
func (s *Server) Stop() error {
	s.clientsMu.Lock()
	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
	s.clientsMu.Unlock()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// AppliedEvent is the WebSocket message sent for every display a cycle
// touched.
type AppliedEvent struct {
	Type      string `json:"type"`
	MonitorID int    `json:"monitor"`
	Path      string `json:"path,omitempty"`
	URL       string `json:"url,omitempty"`
	Error     string `json:"error,omitempty"`
}

const eventWallpaperApplied = "wallpaper_applied"

// BroadcastResult sends a wallpaper_applied event to all connected clients.
// Clients that fail to receive it are dropped.
func (s *Server) BroadcastResult(r wallpaper.ApplyResult) {
	msg := AppliedEvent{
		Type:      eventWallpaperApplied,
		MonitorID: r.MonitorID,
		Path:      r.Asset.Path,
	}
	if r.Asset.Path != "" && s.cacheDir != "" {
		msg.URL = "http://" + s.addr + "/cache/" + baseName(r.Asset.Path)
	}
	if err := r.Err(); err != nil {
		msg.Error = err.Error()
	}

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for client := range s.clients {
		if err := client.WriteJSON(msg); err != nil {
			log.Printf("[API] Failed to broadcast to client: %v", err)
			client.Close()
			delete(s.clients, client)
		}
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (s *Server) ClientCount() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return len(s.clients)
}
