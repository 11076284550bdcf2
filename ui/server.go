// Package ui serves the analyzer over HTTP as a small JSON API.
package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/dhamidi/javalyzer/config"
	"github.com/dhamidi/javalyzer/java/analysis"
	"github.com/dhamidi/javalyzer/java/jobs"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("javalyzer.ui")

type Server struct {
	cfg  *config.Config
	jobs *jobs.Queue
	mux  *http.ServeMux
}

// AnalyzeRequest is the JSON body of POST /api/analyze. A request with any
// other content type carries the source text as its body.
type AnalyzeRequest struct {
	Path   string `json:"path"`
	Source string `json:"source"`
}

func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:  cfg,
		jobs: jobs.New(cfg.Analysis, cfg.Server.QueueSize),
		mux:  http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /api/jobs", s.handleSubmitJob)
	s.mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	s.mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	s.mux.HandleFunc("GET /api/jobs/{id}/results", s.handleJobResults)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	if src := os.Getenv("JAVA_SRC"); src != "" {
		if id, err := s.jobs.Submit(sourceRequest(src)); err != nil {
			log.Errorf("queue %s: %s", src, err)
		} else {
			log.Infof("queued %s as job %s", src, id)
		}
	}

	return s
}

// Close stops the job queue.
func (s *Server) Close() {
	s.jobs.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Debugf("%s %s", r.Method, r.URL.Path)
	s.mux.ServeHTTP(w, r)
}

func sourceRequest(path string) jobs.Request {
	if strings.HasSuffix(path, ".zip") || strings.HasSuffix(path, ".jar") {
		return jobs.Request{Archive: path}
	}
	return jobs.Request{Path: path}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
			return
		}
		writeError(w, http.StatusBadRequest, "read body: %s", err)
		return
	}

	req := AnalyzeRequest{Source: string(body)}
	if isJSON(r) {
		req = AnalyzeRequest{}
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: %s", err)
			return
		}
	}
	if req.Path == "" {
		req.Path = r.URL.Query().Get("path")
	}

	res, err := analysis.AnalyzeSource(r.Context(), req.Path, []byte(req.Source), s.cfg.Analysis)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "%s", err)
		return
	}
	log.Infof("analyzed %q: %d error(s)", req.Path, res.ErrorCount())

	writeJSON(w, http.StatusOK, struct {
		*analysis.Result
		Clean       bool                  `json:"clean"`
		Diagnostics []analysis.Diagnostic `json:"diagnostics"`
	}{res, res.Clean(), res.Diagnostics()})
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req jobs.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: %s", err)
		return
	}

	id, err := s.jobs.Submit(req)
	switch {
	case errors.Is(err, jobs.ErrEmptyJob):
		writeError(w, http.StatusBadRequest, "%s", err)
		return
	case errors.Is(err, jobs.ErrQueueFull), errors.Is(err, jobs.ErrQueueClosed):
		writeError(w, http.StatusServiceUnavailable, "%s", err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "%s", err)
		return
	}

	w.Header().Set("Location", "/api/jobs/"+id)
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.jobs.List())
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		*jobs.Job
		ProgressPercent int `json:"progressPercent"`
	}{job, job.ProgressPercent()})
}

func (s *Server) handleJobResults(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.jobs.Get(id); !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	results, ok := s.jobs.Results(id)
	if !ok {
		writeError(w, http.StatusConflict, "job %s has not finished", id)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return ct == "application/json" || strings.HasPrefix(ct, "application/json;")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("encode response: %s", err)
	}
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf(format, args...)})
}
