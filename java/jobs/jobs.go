// Package jobs analyzes batches of source files in the background. Requests
// name a directory, a list of files, a zip or jar archive, or carry sources
// inline; a single worker processes them in submission order.
package jobs

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/dhamidi/javalyzer/config"
	"github.com/dhamidi/javalyzer/java/analysis"
	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("javalyzer.jobs")

var (
	ErrQueueFull   = errors.New("job queue is full")
	ErrQueueClosed = errors.New("job queue is closed")
	ErrEmptyJob    = errors.New("no path, files, archive or sources provided")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type Request struct {
	ID      string            `json:"id"`
	Path    string            `json:"path,omitempty"`
	Files   []string          `json:"files,omitempty"`
	Archive string            `json:"archive,omitempty"`
	Sources map[string]string `json:"sources,omitempty"`
	// CreatedAt is set by Submit.
	CreatedAt time.Time `json:"createdAt"`
}

func (r Request) empty() bool {
	return r.Path == "" && len(r.Files) == 0 && r.Archive == "" && len(r.Sources) == 0
}

type Job struct {
	ID        string             `json:"id"`
	Status    Status             `json:"status"`
	Request   Request            `json:"request"`
	Summaries []analysis.Summary `json:"summaries"`
	Total     analysis.Summary   `json:"total"`
	Error     string             `json:"error,omitempty"`
	Errors    []string           `json:"errors,omitempty"`
	StartedAt time.Time          `json:"startedAt"`
	EndedAt   time.Time          `json:"endedAt"`
	Progress  int                `json:"progress"`
	Files     int                `json:"files"`

	results []*analysis.Result
	done    chan struct{}
}

func (j *Job) ProgressPercent() int {
	if j.Files == 0 {
		return 0
	}
	return (j.Progress * 100) / j.Files
}

func (j *Job) Finished() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// Queue owns the jobs and the worker goroutine that runs them.
type Queue struct {
	mu       sync.RWMutex
	cfg      config.AnalysisConfig
	jobs     map[string]*Job
	requests chan Request
	closed   bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func New(cfg config.AnalysisConfig, size int) *Queue {
	if size <= 0 {
		size = 100
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		cfg:      cfg,
		jobs:     make(map[string]*Job),
		requests: make(chan Request, size),
		ctx:      ctx,
		cancel:   cancel,
	}
	q.wg.Add(1)
	go q.run()
	return q
}

func (q *Queue) run() {
	defer q.wg.Done()
	for req := range q.requests {
		q.process(req)
	}
}

// Close stops accepting requests, cancels running analyses and waits for the
// worker to drain the queue.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.requests)
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()
}

// Submit queues req and returns the new job's id.
func (q *Queue) Submit(req Request) (string, error) {
	if req.empty() {
		return "", ErrEmptyJob
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return "", ErrQueueClosed
	}

	req.ID = uuid.NewString()
	req.CreatedAt = time.Now()
	job := &Job{
		ID:      req.ID,
		Status:  StatusPending,
		Request: req,
		done:    make(chan struct{}),
	}

	select {
	case q.requests <- req:
	default:
		return "", ErrQueueFull
	}
	q.jobs[req.ID] = job
	log.Infof("queued job %s", req.ID)
	return req.ID, nil
}

// Get returns a snapshot of the job.
func (q *Queue) Get(id string) (*Job, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	job, ok := q.jobs[id]
	if !ok {
		return nil, false
	}
	return job.snapshot(), true
}

// Results returns the full analysis results of a finished job.
func (q *Queue) Results(id string) ([]*analysis.Result, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	job, ok := q.jobs[id]
	if !ok || !job.Finished() {
		return nil, false
	}
	return slices.Clone(job.results), true
}

// List returns snapshots of all jobs, oldest first.
func (q *Queue) List() []*Job {
	q.mu.RLock()
	defer q.mu.RUnlock()
	jobs := make([]*Job, 0, len(q.jobs))
	for _, j := range q.jobs {
		jobs = append(jobs, j.snapshot())
	}
	slices.SortFunc(jobs, func(a, b *Job) int {
		return a.Request.CreatedAt.Compare(b.Request.CreatedAt)
	})
	return jobs
}

// Wait blocks until the job finishes or ctx is done.
func (q *Queue) Wait(ctx context.Context, id string) (*Job, error) {
	q.mu.RLock()
	job, ok := q.jobs[id]
	q.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("job %s not found", id)
	}

	select {
	case <-job.done:
		got, _ := q.Get(id)
		return got, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (j *Job) snapshot() *Job {
	c := *j
	c.Summaries = slices.Clone(j.Summaries)
	c.Errors = slices.Clone(j.Errors)
	c.results = nil
	return &c
}

func (q *Queue) process(req Request) {
	q.mu.Lock()
	job := q.jobs[req.ID]
	job.Status = StatusInProgress
	job.StartedAt = time.Now()
	q.mu.Unlock()

	defer close(job.done)

	var units []unit
	var errs []string
	switch {
	case req.Path != "":
		units, errs = q.collectDirectory(req.Path)
	case len(req.Files) > 0:
		units = fileUnits(req.Files)
	case req.Archive != "":
		units, errs = collectArchive(req.Archive, q.cfg)
	default:
		units = sourceUnits(req.Sources)
	}

	q.mu.Lock()
	job.Files = len(units)
	q.mu.Unlock()

	var summaries []analysis.Summary
	var results []*analysis.Result
	for i, u := range units {
		res, err := q.analyze(u)
		if err != nil {
			errs = append(errs, err.Error())
			summaries = append(summaries, analysis.FailedSummary(u.name, err))
		} else {
			summaries = append(summaries, res.Summary())
			results = append(results, res)
		}

		q.mu.Lock()
		job.Progress = i + 1
		q.mu.Unlock()
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	job.EndedAt = time.Now()
	job.Summaries = summaries
	job.Total = analysis.Totals(summaries)
	job.Errors = errs
	job.results = results
	if len(errs) > 0 && len(results) == 0 {
		job.Status = StatusFailed
		job.Error = errs[0]
	} else {
		job.Status = StatusCompleted
	}
	log.Infof("job %s %s: %d file(s), %d error(s) in %s",
		job.ID, job.Status, len(units), job.Total.LexicalErrors+job.Total.SyntaxErrors,
		job.EndedAt.Sub(job.StartedAt))
}

// unit is one source to analyze. Exactly one of path or content is used.
type unit struct {
	name    string
	path    string
	content []byte
}

func (q *Queue) analyze(u unit) (*analysis.Result, error) {
	if u.path != "" {
		return analysis.AnalyzeFile(q.ctx, u.path, q.cfg)
	}
	return analysis.AnalyzeSource(q.ctx, u.name, u.content, q.cfg)
}

func (q *Queue) collectDirectory(root string) ([]unit, []string) {
	var files []string
	var errs []string
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			errs = append(errs, fmt.Sprintf("walk %s: %v", p, err))
			return nil
		}
		if !info.IsDir() && q.cfg.HasExtension(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		errs = append(errs, fmt.Sprintf("walk %s: %v", root, err))
	}
	return fileUnits(files), errs
}

func fileUnits(files []string) []unit {
	units := make([]unit, len(files))
	for i, f := range files {
		units[i] = unit{name: f, path: f}
	}
	return units
}

func sourceUnits(sources map[string]string) []unit {
	units := make([]unit, 0, len(sources))
	for name, src := range sources {
		units = append(units, unit{name: name, content: []byte(src)})
	}
	slices.SortFunc(units, func(a, b unit) int {
		return cmp.Compare(a.name, b.name)
	})
	return units
}
