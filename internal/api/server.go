// Package api provides the read-only HTTP observer for a running territory.
// Handlers serve the last published snapshot; the websocket stream pushes
// command results as they complete.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/talgya/terra-world/internal/engine"
	"github.com/talgya/terra-world/internal/persistence"
	"github.com/talgya/terra-world/internal/telemetry"
)

// maxResults bounds the in-memory result history.
const maxResults = 1000

// Server serves territory state over HTTP.
type Server struct {
	Port        int
	DB          *persistence.DB // optional run archive
	CORSOrigins []string
	StreamRate  int // stream connections per client per minute; 0 disables the limit

	snap atomic.Pointer[Snapshot]
	hub  *Hub

	resultsMu sync.Mutex
	results   []engine.Result
}

// NewServer creates a server with an idle snapshot.
func NewServer(port int) *Server {
	s := &Server{Port: port, hub: NewHub()}
	s.snap.Store(NewSnapshot(0, nil))
	return s
}

// Snapshot returns the last published snapshot.
func (s *Server) Snapshot() *Snapshot {
	return s.snap.Load()
}

// PublishStart announces a new simulation.
func (s *Server) PublishStart(run int, sim *engine.Simulation) {
	s.snap.Store(NewSnapshot(run, sim))
}

// PublishResult records a completed command and publishes the state after
// it. Call from the goroutine driving the simulation.
func (s *Server) PublishResult(run int, r engine.Result, sim *engine.Simulation) {
	snap := NewSnapshot(run, sim)
	s.snap.Store(snap)

	s.resultsMu.Lock()
	s.results = append(s.results, r)
	if len(s.results) > maxResults {
		s.results = s.results[len(s.results)-maxResults:]
	}
	s.resultsMu.Unlock()

	s.hub.Broadcast(StreamMessage{Type: "result", Run: run, Step: snap.Step, Result: r})
}

// PublishEnd announces that the command feed is exhausted.
func (s *Server) PublishEnd() {
	snap := s.Snapshot()
	s.hub.Broadcast(StreamMessage{Type: "end", Run: snap.Run, Step: snap.Step})
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/map", s.handleMap)
	mux.HandleFunc("/api/v1/env", s.handleEnv)
	mux.HandleFunc("/api/v1/robot", s.handleRobot)
	mux.HandleFunc("/api/v1/knowledge", s.handleKnowledge)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/results", s.handleResults)

	// Archive endpoints.
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/runs/", s.handleRunDetail)

	stream := s.handleStream
	if s.StreamRate > 0 {
		stream = RateLimitMiddleware(NewRateLimiter(s.StreamRate, time.Minute), stream)
	}
	mux.HandleFunc("/api/v1/stream", stream)

	return corsMiddleware(s.CORSOrigins, mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() *http.Server {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	slog.Info("HTTP API starting", "addr", addr, "archive", s.DB != nil)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Localhost dev servers are always allowed.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	for _, origin := range origins {
		allowedOrigins[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	s.resultsMu.Lock()
	results := len(s.results)
	s.resultsMu.Unlock()

	writeJSON(w, map[string]any{
		"name":           "TerraBot",
		"run":            snap.Run,
		"running":        snap.Running,
		"step":           snap.Step,
		"territory":      fmt.Sprintf("%dx%d", snap.Height, snap.Width),
		"energy":         snap.Robot.Energy,
		"results":        results,
		"stream_clients": s.hub.Count(),
		"stats":          snap.Stats,
	})
}

// handleMap returns the row-ordered cell summary; /api/v1/map?x=&y= narrows
// it to one cell.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	q := r.URL.Query()
	if q.Get("x") == "" && q.Get("y") == "" {
		writeJSON(w, map[string]any{
			"width":  snap.Width,
			"height": snap.Height,
			"cells":  snap.Map,
		})
		return
	}

	x, err1 := strconv.Atoi(q.Get("x"))
	y, err2 := strconv.Atoi(q.Get("y"))
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}
	for _, c := range snap.Map {
		if c.Section == [2]int{x, y} {
			writeJSON(w, c)
			return
		}
	}
	http.Error(w, "cell not found", http.StatusNotFound)
}

func (s *Server) handleEnv(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Snapshot().Env)
}

func (s *Server) handleRobot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Snapshot().Robot)
}

func (s *Server) handleKnowledge(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Snapshot().Knowledge)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events := s.Snapshot().Events
	if cat := r.URL.Query().Get("category"); cat != "" {
		filtered := make([]engine.Event, 0, len(events))
		for _, e := range events {
			if e.Category == cat {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}
	writeJSON(w, events)
}

// handleResults returns the most recent results, oldest first.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50, maxResults)

	s.resultsMu.Lock()
	start := len(s.results) - limit
	if start < 0 {
		start = 0
	}
	out := append(make([]engine.Result, 0, len(s.results)-start), s.results[start:]...)
	s.resultsMu.Unlock()

	writeJSON(w, out)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "archive not available", http.StatusServiceUnavailable)
		return
	}
	runs, err := s.DB.RecentRuns(queryLimit(r, 20, 500))
	if err != nil {
		slog.Error("runs query failed", "error", err)
		http.Error(w, "runs query failed", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []persistence.Run{}
	}
	writeJSON(w, runs)
}

// handleRunDetail serves /api/v1/runs/:id/results and /api/v1/runs/:id/steps.
func (s *Server) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "archive not available", http.StatusServiceUnavailable)
		return
	}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// api/v1/runs/:id/:what → parts[3]=id parts[4]=what
	if len(parts) != 5 || parts[3] == "" {
		http.Error(w, "usage: /api/v1/runs/:id/results or /api/v1/runs/:id/steps", http.StatusBadRequest)
		return
	}
	id := parts[3]

	switch parts[4] {
	case "results":
		rows, err := s.DB.LoadResults(id)
		if err != nil {
			slog.Error("results query failed", "run_id", id, "error", err)
			http.Error(w, "results query failed", http.StatusInternalServerError)
			return
		}
		if len(rows) == 0 {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		writeJSON(w, rows)
	case "steps":
		sim := 1
		if v, err := strconv.Atoi(r.URL.Query().Get("simulation")); err == nil && v > 0 {
			sim = v
		}
		stats, err := s.DB.LoadStepStats(id, sim, queryLimit(r, 100, 10000))
		if err != nil {
			slog.Error("step stats query failed", "run_id", id, "error", err)
			http.Error(w, "step stats query failed", http.StatusInternalServerError)
			return
		}
		if stats == nil {
			stats = []telemetry.StepStats{}
		}
		writeJSON(w, stats)
	default:
		http.Error(w, "unknown run resource", http.StatusNotFound)
	}
}

// queryLimit reads ?limit=, falling back to def outside [1, ceiling].
func queryLimit(r *http.Request, def, ceiling int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= ceiling {
			return v
		}
	}
	return def
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
