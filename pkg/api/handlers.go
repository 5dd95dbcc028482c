package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dixieflatline76/UnsplashedPaper/config"
	"github.com/dixieflatline76/UnsplashedPaper/pkg/wallpaper"
	"github.com/dixieflatline76/UnsplashedPaper/util/log"
)

// DisplayView is one display's result in a cycle.
type DisplayView struct {
	MonitorID int    `json:"monitor"`
	URL       string `json:"url"`
	Path      string `json:"path,omitempty"`
	Error     string `json:"error,omitempty"`
}

// OutcomeView is the JSON form of a finished cycle.
type OutcomeView struct {
	Mode     string        `json:"mode"`
	Started  time.Time     `json:"started"`
	Finished time.Time     `json:"finished"`
	Applied  int           `json:"applied"`
	Failed   int           `json:"failed"`
	Displays []DisplayView `json:"displays"`
}

// StatusView is the body of GET /status.
type StatusView struct {
	State       string       `json:"state"`
	NextRefresh *time.Time   `json:"next_refresh,omitempty"`
	LastCycle   *OutcomeView `json:"last_cycle,omitempty"`
}

func newOutcomeView(o wallpaper.CycleOutcome) OutcomeView {
	v := OutcomeView{
		Mode:     o.Mode,
		Started:  o.Started,
		Finished: o.Finished,
		Applied:  o.Applied(),
		Failed:   o.Failed(),
		Displays: make([]DisplayView, 0, len(o.Results)),
	}
	for _, r := range o.Results {
		d := DisplayView{MonitorID: r.MonitorID, URL: r.Request.URL(), Path: r.Asset.Path}
		if err := r.Err(); err != nil {
			d.Error = err.Error()
		}
		v.Displays = append(v.Displays, d)
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "running",
		"version": config.AppVersion,
	})
}

// handleStatus reports the scheduler state and the last cycle.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state, deadline := s.ctrl.Status()
	view := StatusView{State: state.String()}
	if state == wallpaper.StateArmed {
		view.NextRefresh = &deadline
	}
	if last, ok := s.ctrl.LastOutcome(); ok {
		ov := newOutcomeView(last)
		view.LastCycle = &ov
	}
	writeJSON(w, http.StatusOK, view)
}

// handleRefresh runs one cycle without touching the timer.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.runCycle(w, r, s.ctrl.RefreshNow)
}

// handleApply runs one cycle with the current settings without touching the timer.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	s.runCycle(w, r, s.ctrl.ApplySettings)
}

// runCycle runs fn and returns its outcome. With ?async=1 it returns 202
// immediately and the result arrives over /ws.
func (s *Server) runCycle(w http.ResponseWriter, r *http.Request, fn func() wallpaper.CycleOutcome) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Query().Get("async") == "1" {
		go fn()
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
		return
	}

	writeJSON(w, http.StatusOK, newOutcomeView(fn()))
}

// handleWebSocket upgrades the connection and keeps it registered until the
// client goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[API] WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	s.clientsMu.Lock()
	s.clients[conn] = true
	s.clientsMu.Unlock()
	log.Debugf("[API] WebSocket client connected from %s", r.RemoteAddr)

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	for {
		// Inbound messages are keepalives only.
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
