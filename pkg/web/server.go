package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/ritzau/factory-analyzer/pkg/logging"
	"github.com/ritzau/factory-analyzer/pkg/model"
	"github.com/ritzau/factory-analyzer/pkg/pubsub"
)

// Server serves extraction results over a JSON API with an SSE stream
// for analysis status. Results can be swapped at runtime, which the
// watch mode uses after each re-extraction.
type Server struct {
	router    *mux.Router
	publisher pubsub.Publisher

	mu         sync.RWMutex
	extraction *model.Extraction
	graphs     map[string]*model.PipelineGraph
	graphOrder []string
}

// NewServer creates a server with no results loaded yet.
func NewServer() *Server {
	s := &Server{
		router:    mux.NewRouter(),
		publisher: pubsub.NewSSEPublisher(),
		graphs:    make(map[string]*model.PipelineGraph),
	}
	s.setupRoutes()
	return s
}

// SetResults replaces the served extraction and pipeline graphs.
func (s *Server) SetResults(ex *model.Extraction, graphs []*model.PipelineGraph) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.extraction = ex
	s.graphs = make(map[string]*model.PipelineGraph, len(graphs))
	s.graphOrder = s.graphOrder[:0]
	for _, g := range graphs {
		s.graphs[g.Pipeline] = g
		s.graphOrder = append(s.graphOrder, g.Pipeline)
	}
}

// PublishAnalysisStatus publishes a status event to SSE subscribers.
func (s *Server) PublishAnalysisStatus(state, message, template string, pipelines int) error {
	status := pubsub.AnalysisStatus{
		State:     state,
		Message:   message,
		Template:  template,
		Pipelines: pipelines,
	}
	return s.publisher.Publish(pubsub.TopicAnalysisStatus, state, status)
}

func (s *Server) setupRoutes() {
	s.router.Use(logging.RequestIDMiddleware)

	s.router.HandleFunc("/api/subscribe/analysis_status", s.handleSubscribeAnalysisStatus).Methods("GET")

	s.router.HandleFunc("/api/factory", s.handleFactory).Methods("GET")
	s.router.HandleFunc("/api/tables", s.handleTables).Methods("GET")
	s.router.HandleFunc("/api/tables/{name}", s.handleTable).Methods("GET")
	s.router.HandleFunc("/api/pipelines", s.handlePipelines).Methods("GET")
	s.router.HandleFunc("/api/pipelines/{name}/graph", s.handlePipelineGraph).Methods("GET")
}

func (s *Server) handleSubscribeAnalysisStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Initial comment establishes the stream (Safari compatibility).
	fmt.Fprintf(w, ": connected\n\n")
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	sub, err := s.publisher.Subscribe(r.Context(), pubsub.TopicAnalysisStatus)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sub.Close()

	for event := range sub.Events() {
		if err := pubsub.WriteSSE(w, event); err != nil {
			logging.WarnContext(r.Context(), "failed to write SSE event", "error", err)
			return
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

func (s *Server) handleFactory(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ex := s.extraction
	s.mu.RUnlock()

	if ex == nil {
		http.Error(w, "extraction not available", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, map[string]any{
		"factory":           ex.Factory,
		"global_parameters": ex.GlobalParameters,
	})
}

// tableView exposes one extracted table by name. Order matches the
// CSV file set written in batch mode.
type tableView struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

func (s *Server) tables(ex *model.Extraction) []struct {
	name string
	data any
	rows int
} {
	return []struct {
		name string
		data any
		rows int
	}{
		{"global_parameters", ex.GlobalParameters, len(ex.GlobalParameters)},
		{"pipelines", ex.Pipelines, len(ex.Pipelines)},
		{"activities", ex.Activities, len(ex.Activities)},
		{"datasets", ex.Datasets, len(ex.Datasets)},
		{"linked_services", ex.LinkedServices, len(ex.LinkedServices)},
		{"triggers", ex.Triggers, len(ex.Triggers)},
		{"trigger_details", ex.TriggerDetails, len(ex.TriggerDetails)},
		{"integration_runtimes", ex.IntegrationRuntimes, len(ex.IntegrationRuntimes)},
		{"resource_dependencies", ex.ResourceDependencies, len(ex.ResourceDependencies)},
	}
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ex := s.extraction
	s.mu.RUnlock()

	if ex == nil {
		http.Error(w, "extraction not available", http.StatusServiceUnavailable)
		return
	}

	views := []tableView{}
	for _, t := range s.tables(ex) {
		views = append(views, tableView{Name: t.name, Rows: t.rows})
	}
	writeJSON(w, views)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	s.mu.RLock()
	ex := s.extraction
	s.mu.RUnlock()

	if ex == nil {
		http.Error(w, "extraction not available", http.StatusServiceUnavailable)
		return
	}

	for _, t := range s.tables(ex) {
		if t.name == name {
			writeJSON(w, t.data)
			return
		}
	}
	http.Error(w, fmt.Sprintf("unknown table %q", name), http.StatusNotFound)
}

// pipelineSummary is the list entry returned by /api/pipelines.
type pipelineSummary struct {
	Name       string `json:"name"`
	Activities int    `json:"activities"`
	Edges      int    `json:"edges"`
	Cyclic     bool   `json:"cyclic"`
}

func (s *Server) handlePipelines(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := []pipelineSummary{}
	for _, name := range s.graphOrder {
		g := s.graphs[name]
		summaries = append(summaries, pipelineSummary{
			Name:       g.Pipeline,
			Activities: len(g.Nodes),
			Edges:      len(g.Edges),
			Cyclic:     g.Cyclic,
		})
	}
	writeJSON(w, summaries)
}

func (s *Server) handlePipelineGraph(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	s.mu.RLock()
	g, ok := s.graphs[name]
	s.mu.RUnlock()

	if !ok {
		http.Error(w, fmt.Sprintf("unknown pipeline %q", name), http.StatusNotFound)
		return
	}
	writeJSON(w, g)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("failed to encode response", "error", err)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server on the given port until it fails.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting web server", "addr", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.router)
}

// Close shuts down the status publisher.
func (s *Server) Close() error {
	return s.publisher.Close()
}
