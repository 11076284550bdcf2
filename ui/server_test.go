package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dhamidi/javalyzer/config"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Server.MaxBody = 64
	s := NewServer(cfg)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestAnalyze(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name        string
		contentType string
		body        string
		status      int
		clean       bool
		diagnostics int
	}{
		{"plain clean", "text/plain", "class A { private int x; }", http.StatusOK, true, 0},
		{"plain error", "", "class A { private int ; }", http.StatusOK, false, 1},
		{"json", "application/json", `{"path":"A.java","source":"class A {}"}`, http.StatusOK, true, 0},
		{"bad json", "application/json", `{"source":`, http.StatusBadRequest, false, 0},
		{"too large", "text/plain", strings.Repeat("x", 100), http.StatusRequestEntityTooLarge, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, "POST", "/api/analyze", tt.contentType, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			if tt.status != http.StatusOK {
				var e map[string]string
				decode(t, rec, &e)
				if e["error"] == "" {
					t.Errorf("error body = %v", e)
				}
				return
			}

			var got struct {
				Clean       bool             `json:"clean"`
				Stage       string           `json:"stage"`
				Diagnostics []map[string]any `json:"diagnostics"`
			}
			decode(t, rec, &got)
			if got.Clean != tt.clean || len(got.Diagnostics) != tt.diagnostics {
				t.Errorf("clean = %v, diagnostics = %v", got.Clean, got.Diagnostics)
			}
			if got.Stage != "syntax" {
				t.Errorf("stage = %q, want syntax", got.Stage)
			}
		})
	}
}

func TestAnalyzePathFromJSON(t *testing.T) {
	s := newServer(t)
	rec := do(t, s, "POST", "/api/analyze", "application/json", `{"path":"A.java","source":"class A {}"}`)

	var got struct {
		Path string `json:"path"`
	}
	decode(t, rec, &got)
	if got.Path != "A.java" {
		t.Errorf("path = %q, want A.java", got.Path)
	}
}

func TestJobs(t *testing.T) {
	s := newServer(t)

	rec := do(t, s, "POST", "/api/jobs", "application/json", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty job status = %d, want 400", rec.Code)
	}

	rec = do(t, s, "POST", "/api/jobs", "application/json", `{"sources":{"A.java":"class A {}"}}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("submit status = %d: %s", rec.Code, rec.Body)
	}
	var submitted map[string]string
	decode(t, rec, &submitted)
	id := submitted["id"]
	if rec.Header().Get("Location") != "/api/jobs/"+id {
		t.Errorf("Location = %q", rec.Header().Get("Location"))
	}

	var job struct {
		Status          string `json:"status"`
		ProgressPercent int    `json:"progressPercent"`
		Total           struct {
			Status string `json:"status"`
		} `json:"total"`
	}
	deadline := time.Now().Add(10 * time.Second)
	for {
		rec = do(t, s, "GET", "/api/jobs/"+id, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("get status = %d", rec.Code)
		}
		decode(t, rec, &job)
		if job.Status == "completed" || job.Status == "failed" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job still %s", job.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if job.Status != "completed" || job.ProgressPercent != 100 || job.Total.Status != "clean" {
		t.Errorf("job = %+v", job)
	}

	rec = do(t, s, "GET", "/api/jobs/"+id+"/results", "", "")
	var results []map[string]any
	decode(t, rec, &results)
	if len(results) != 1 || results[0]["path"] != "A.java" {
		t.Errorf("results = %v", results)
	}

	rec = do(t, s, "GET", "/api/jobs", "", "")
	var list []map[string]any
	decode(t, rec, &list)
	if len(list) != 1 {
		t.Errorf("list = %v", list)
	}

	if rec := do(t, s, "GET", "/api/jobs/missing", "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing job status = %d, want 404", rec.Code)
	}
}
