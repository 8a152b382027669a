package app

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seolens/seolens/internal/analyzer"
	"github.com/seolens/seolens/internal/history"
	"github.com/seolens/seolens/internal/interfaces"
	"github.com/seolens/seolens/internal/model"
	"github.com/seolens/seolens/internal/webclient"
)

type JobEventType string

const (
	JobEventStatus JobEventType = "status"
	JobEventResult JobEventType = "result"
)

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

type JobEvent struct {
	JobID string       `json:"job_id"`
	Type  JobEventType `json:"type"`

	// For status changes
	Status JobStatus `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`

	// Set on the final result event.
	Report *model.AnalysisReport `json:"report,omitempty"`
}

// Job is one asynchronous analysis. Events carries its lifecycle to any
// subscriber and is closed when the job reaches a terminal status.
type Job struct {
	ID        string        `json:"id"`
	URL       string        `json:"url"`
	Status    JobStatus     `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Events    chan JobEvent `json:"-"`

	Report *model.AnalysisReport `json:"report,omitempty"`
}

// Orchestrator owns the analyzer, the history store and the async job table.
// The HTTP server and the CLI both drive analyses through it.
type Orchestrator struct {
	cfg      *Config
	analyzer interfaces.Analyzer
	store    *history.Store
	client   interfaces.WebClient
	db       *sql.DB
	logger   interfaces.Logger

	jobsMu     sync.Mutex
	jobs       map[string]*Job
	jobCancels map[string]context.CancelFunc
}

// NewOrchestrator builds the full pipeline from cfg. The history store is
// optional; with an empty HistoryPath analyses simply are not persisted.
func NewOrchestrator(cfg *Config, logger interfaces.Logger) (*Orchestrator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	webclient.RegisterDefaultBackends()

	client, err := webclient.NewWebClient(cfg.WebClientCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("app: webclient: %w", err)
	}

	acfg := cfg.AnalyzerCfg
	acfg.Fetcher = cfg.FetcherCfg
	an, err := analyzer.New(acfg, client, logger)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("app: %w", err)
	}

	o := &Orchestrator{
		cfg:      cfg,
		analyzer: an,
		client:   client,
		logger:   logger.With(interfaces.Field{Key: "component", Value: "orchestrator"}),
	}

	if cfg.HistoryPath != "" {
		db, err := sql.Open("sqlite", cfg.HistoryPath)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("app: open history db: %w", err)
		}
		store, err := history.NewStore(db, logger, cfg.URLCfg)
		if err != nil {
			db.Close()
			client.Close()
			return nil, fmt.Errorf("app: %w", err)
		}
		o.db = db
		o.store = store
	}

	return o, nil
}

// Analyze runs one synchronous analysis and records it in history. checks
// optionally restricts the run to some categories.
func (o *Orchestrator) Analyze(ctx context.Context, rawURL string, checks ...model.Category) (*model.AnalysisReport, error) {
	rep, err := o.analyzer.Analyze(ctx, rawURL, checks...)
	if err != nil {
		return nil, err
	}
	o.persist(ctx, rep)
	return rep, nil
}

func (o *Orchestrator) persist(ctx context.Context, rep *model.AnalysisReport) {
	if o.store == nil || rep == nil {
		return
	}
	if err := o.store.Save(ctx, rep); err != nil {
		o.logger.Warn("failed to persist analysis",
			interfaces.Field{Key: "id", Value: rep.ID},
			interfaces.Field{Key: "error", Value: err.Error()})
	}
}

// History returns the underlying store, or nil when persistence is disabled.
func (o *Orchestrator) History() *history.Store {
	return o.store
}

func (o *Orchestrator) ensureJobMaps() {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if o.jobs == nil {
		o.jobs = make(map[string]*Job)
	}
	if o.jobCancels == nil {
		o.jobCancels = make(map[string]context.CancelFunc)
	}
}

func (o *Orchestrator) emitJobEvent(jobID string, ev JobEvent) {
	o.jobsMu.Lock()
	job, ok := o.jobs[jobID]
	o.jobsMu.Unlock()
	if !ok || job == nil || job.Events == nil {
		return
	}

	// Non-blocking send; drop if buffer is full.
	select {
	case job.Events <- ev:
	default:
	}
}

func (o *Orchestrator) setCancel(jobID string, cancel context.CancelFunc) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	o.jobCancels[jobID] = cancel
}

func (o *Orchestrator) deleteCancel(jobID string) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	delete(o.jobCancels, jobID)
}

func (o *Orchestrator) getCancel(jobID string) context.CancelFunc {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	return o.jobCancels[jobID]
}

// StartAnalyzeJob launches an asynchronous analysis and returns immediately.
// The returned Job's Events channel streams status and the final result.
// checks optionally restricts the run to some categories.
func (o *Orchestrator) StartAnalyzeJob(ctx context.Context, rawURL string, checks ...model.Category) (*Job, error) {
	o.ensureJobMaps()

	jobID := uuid.New().String()

	job := &Job{
		ID:        jobID,
		URL:       rawURL,
		Status:    JobPending,
		StartedAt: time.Now().UTC(),
		Events:    make(chan JobEvent, 16),
	}

	o.jobsMu.Lock()
	o.jobs[jobID] = job
	o.jobsMu.Unlock()

	jobCtx, cancel := context.WithCancel(ctx)
	o.setCancel(jobID, cancel)

	o.emitJobEvent(jobID, JobEvent{
		JobID:  jobID,
		Type:   JobEventStatus,
		Status: JobPending,
	})

	go func() {
		defer func() {
			o.jobsMu.Lock()
			if j, ok := o.jobs[jobID]; ok {
				j.EndedAt = time.Now().UTC()
			}
			o.jobsMu.Unlock()
			o.deleteCancel(jobID)

			// Close events channel so websocket loops terminate cleanly.
			o.jobsMu.Lock()
			j := o.jobs[jobID]
			o.jobsMu.Unlock()
			if j != nil && j.Events != nil {
				close(j.Events)
			}
		}()

		o.setJobStatus(jobID, JobRunning, "")
		o.emitJobEvent(jobID, JobEvent{
			JobID:  jobID,
			Type:   JobEventStatus,
			Status: JobRunning,
		})

		rep, err := o.analyzer.Analyze(jobCtx, rawURL, checks...)
		if err != nil {
			select {
			case <-jobCtx.Done():
				o.setJobStatus(jobID, JobCanceled, jobCtx.Err().Error())
				o.emitJobEvent(jobID, JobEvent{
					JobID:  jobID,
					Type:   JobEventStatus,
					Status: JobCanceled,
					Error:  jobCtx.Err().Error(),
				})
			default:
				o.setJobStatus(jobID, JobFailed, err.Error())
				o.emitJobEvent(jobID, JobEvent{
					JobID:  jobID,
					Type:   JobEventStatus,
					Status: JobFailed,
					Error:  err.Error(),
				})
			}
			return
		}

		// A canceled context surfaces as a failed fetch inside the report,
		// not as an error; report it as a cancellation, not a result.
		if jobCtx.Err() != nil {
			o.setJobStatus(jobID, JobCanceled, jobCtx.Err().Error())
			o.emitJobEvent(jobID, JobEvent{
				JobID:  jobID,
				Type:   JobEventStatus,
				Status: JobCanceled,
				Error:  jobCtx.Err().Error(),
			})
			return
		}

		// Persist with a fresh context; the job context may already be done.
		persistCtx, persistCancel := context.WithTimeout(context.Background(), 5*time.Second)
		o.persist(persistCtx, rep)
		persistCancel()

		o.jobsMu.Lock()
		if j, ok := o.jobs[jobID]; ok {
			j.Status = JobDone
			j.Report = rep
		}
		o.jobsMu.Unlock()
		o.emitJobEvent(jobID, JobEvent{
			JobID:  jobID,
			Type:   JobEventResult,
			Status: JobDone,
			Report: rep,
		})
	}()

	return job, nil
}

func (o *Orchestrator) setJobStatus(jobID string, status JobStatus, errMsg string) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if j, ok := o.jobs[jobID]; ok {
		j.Status = status
		j.Error = errMsg
	}
}

func (o *Orchestrator) CancelJob(jobID string) {
	cancel := o.getCancel(jobID)
	if cancel != nil {
		cancel()
	}
}

func (o *Orchestrator) GetJob(jobID string) *Job {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	return o.jobs[jobID]
}

// ListJobs returns all known jobs, newest first.
func (o *Orchestrator) ListJobs() []*Job {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	out := make([]*Job, 0, len(o.jobs))
	for _, j := range o.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool {
		return out[i].StartedAt.After(out[k].StartedAt)
	})
	return out
}

// Close releases the web client and the history database.
func (o *Orchestrator) Close() error {
	o.jobsMu.Lock()
	for _, cancel := range o.jobCancels {
		cancel()
	}
	o.jobsMu.Unlock()

	var firstErr error
	if o.client != nil {
		if err := o.client.Close(); err != nil {
			firstErr = err
		}
	}
	if o.db != nil {
		if err := o.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
