package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/qcserestipy/gomcpi/pkg/mcpi"
)

type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job is an asynchronous estimation: submitted over POST /jobs, run in
// the background on the node's pool, polled via GET /jobs/{id}.
type Job struct {
	ID      int            `json:"id"`
	Status  JobStatus      `json:"status"`
	Request ComputeRequest `json:"request"`
	Result  *float64       `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func NewJob(id int, req ComputeRequest) (Job, error) {
	if id <= 0 {
		return Job{}, errors.New("id must be > 0")
	}
	if req.Samples == 0 {
		return Job{}, errors.New("samples must be > 0")
	}
	return Job{
		ID:      id,
		Status:  StatusPending,
		Request: req,
	}, nil
}

// jobStore guards the job table; jobs mutate from request handlers and
// from the background runner goroutines.
type jobStore struct {
	mu   sync.Mutex
	jobs map[int]*Job
}

func newJobStore() *jobStore {
	return &jobStore{jobs: make(map[int]*Job)}
}

func (st *jobStore) add(job Job) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.jobs[job.ID]; ok {
		return false
	}
	st.jobs[job.ID] = &job
	return true
}

func (st *jobStore) get(id int) (Job, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	job, ok := st.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (st *jobStore) list() []Job {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]Job, 0, len(st.jobs))
	for _, job := range st.jobs {
		out = append(out, *job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (st *jobStore) setStatus(id int, status JobStatus) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if job, ok := st.jobs[id]; ok {
		job.Status = status
	}
}

func (st *jobStore) finish(id int, result float64, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	job, ok := st.jobs[id]
	if !ok {
		return
	}
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
		return
	}
	job.Status = StatusCompleted
	job.Result = &result
}

func (st *jobStore) run(s *ComputeServer, id int) {
	job, ok := st.get(id)
	if !ok {
		return
	}
	st.setStatus(id, StatusRunning)
	jobs := job.Request.Jobs
	if jobs <= 0 {
		jobs = s.NumWorkers
	}
	est, err := mcpi.EstimateParallel(
		context.Background(),
		job.Request.Samples,
		mcpi.WithJobs(jobs),
		mcpi.WithSeed(job.Request.Seed),
	)
	st.finish(id, est, err)
	logrus.WithFields(logrus.Fields{
		"job_id":  id,
		"samples": job.Request.Samples,
		"jobs":    jobs,
	}).Info("Estimation job finished")
}

// RegisterJobs wires up GET and POST handlers on /jobs.
//   - schema validation is strict (DisallowUnknownFields) and ensures
//     id and samples are present.
//   - POST returns immediately with the pending job; the estimation
//     runs in a background goroutine.
func RegisterJobs(s *ComputeServer) {
	store := newJobStore()
	r := s.Router

	r.Get("/jobs", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(store.list()); err != nil {
			http.Error(w, "encode error: "+err.Error(), http.StatusInternalServerError)
		}
	})

	r.Get("/jobs/{id}", func(w http.ResponseWriter, req *http.Request) {
		idParam := chi.URLParam(req, "id")
		id, err := strconv.Atoi(idParam)
		if err != nil {
			http.Error(w,
				fmt.Sprintf("invalid job ID '%s': %v", idParam, err),
				http.StatusBadRequest,
			)
			return
		}

		job, ok := store.get(id)
		if !ok {
			http.Error(w,
				fmt.Sprintf("job not found with ID %d", id),
				http.StatusNotFound,
			)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(job); err != nil {
			http.Error(w, "encode error: "+err.Error(), http.StatusInternalServerError)
		}
	})

	r.Post("/jobs", func(w http.ResponseWriter, req *http.Request) {
		type jobRequest struct {
			ID      int    `json:"id"`
			Samples uint64 `json:"samples"`
			Seed    uint64 `json:"seed"`
			Jobs    int    `json:"jobs"`
		}
		var jr jobRequest

		decoder := json.NewDecoder(req.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&jr); err != nil {
			http.Error(w, "invalid JSON or schema mismatch: "+err.Error(), http.StatusBadRequest)
			return
		}

		newJob, err := NewJob(jr.ID, ComputeRequest{
			Samples: jr.Samples,
			Seed:    jr.Seed,
			Jobs:    jr.Jobs,
		})
		if err != nil {
			http.Error(w, "validation error: "+err.Error(), http.StatusBadRequest)
			return
		}
		if !store.add(newJob) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			resp := struct {
				Error string `json:"error"`
				JobID int    `json:"job_id"`
			}{
				Error: fmt.Sprintf("job already exists with ID %d", newJob.ID),
				JobID: newJob.ID,
			}
			if err := json.NewEncoder(w).Encode(resp); err != nil {
				http.Error(w, resp.Error, http.StatusConflict)
			}
			return
		}

		go store.run(s, newJob.ID)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(newJob); err != nil {
			http.Error(w, "encode error: "+err.Error(), http.StatusInternalServerError)
		}
	})
}
