package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/CharanSaiVaddi/jobboard-backend/internal/api/response"
	"github.com/CharanSaiVaddi/jobboard-backend/internal/board"
	"github.com/CharanSaiVaddi/jobboard-backend/internal/job"
	"github.com/CharanSaiVaddi/jobboard-backend/internal/session"
)

// Runner applies a function to the board in event order.
type Runner interface {
	Do(ctx context.Context, fn func(*board.Board) error) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Jobs serves the board over HTTP. Every request is a single board event.
type Jobs struct {
	board   Runner
	storage Pinger
	log     logrus.FieldLogger
}

func NewJobs(r Runner, p Pinger, log logrus.FieldLogger) *Jobs {
	return &Jobs{board: r, storage: p, log: log}
}

type mutationResult struct {
	Outcome board.Outcome `json:"outcome"`
	Job     *job.Job      `json:"job,omitempty"`
}

// Card is a job as the board renders it, with its advance button caption.
type Card struct {
	job.Job
	Action string `json:"action"`
}

type columnView struct {
	Status job.Status `json:"status"`
	Jobs   []Card     `json:"jobs"`
}

type boardView struct {
	Search  string       `json:"search"`
	Columns []columnView `json:"columns"`
}

type searchRequest struct {
	Search string `json:"search"`
}

func (h *Jobs) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.Ping(r.Context()); err != nil {
		response.Error(w, http.StatusServiceUnavailable, response.CodeDegraded,
			"Storage unavailable", map[string]string{"storage": "degraded"})
		return
	}
	response.JSON(w, map[string]any{
		"status":   "ok",
		"services": map[string]string{"storage": "ok"},
	})
}

func (h *Jobs) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var jobs []job.Job
	err := h.board.Do(r.Context(), func(b *board.Board) error {
		if query.Has("search") {
			jobs = board.Filter(b.Jobs(), query.Get("search"))
		} else {
			jobs = b.Visible()
		}
		return nil
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, jobs)
}

func (h *Jobs) Create(w http.ResponseWriter, r *http.Request) {
	var c job.Candidate
	if !decodeBody(w, r, &c) {
		return
	}
	var created job.Job
	err := h.board.Do(r.Context(), func(b *board.Board) error {
		var err error
		created, err = b.Add(r.Context(), c)
		return err
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, created)
}

func (h *Jobs) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}
	var (
		found job.Job
		exist bool
	)
	err := h.board.Do(r.Context(), func(b *board.Board) error {
		found, exist = b.Get(id)
		return nil
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !exist {
		response.Error(w, http.StatusNotFound, response.CodeNotFound, "Job not found", nil)
		return
	}
	response.JSON(w, found)
}

func (h *Jobs) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}
	var c job.Candidate
	if !decodeBody(w, r, &c) {
		return
	}
	h.mutate(w, r, id, func(b *board.Board) (board.Outcome, error) {
		return b.Edit(r.Context(), id, c)
	})
}

func (h *Jobs) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, 0, func(b *board.Board) (board.Outcome, error) {
		return b.Remove(r.Context(), id)
	})
}

func (h *Jobs) Advance(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, id, func(b *board.Board) (board.Outcome, error) {
		return b.Advance(r.Context(), id)
	})
}

func (h *Jobs) Drag(w http.ResponseWriter, r *http.Request) {
	var d board.DragResult
	if !decodeBody(w, r, &d) {
		return
	}
	h.mutate(w, r, 0, func(b *board.Board) (board.Outcome, error) {
		return b.ReconcileDrag(r.Context(), d)
	})
}

func (h *Jobs) Board(w http.ResponseWriter, r *http.Request) {
	var view boardView
	err := h.board.Do(r.Context(), func(b *board.Board) error {
		view.Search = b.Search()
		for _, col := range b.Columns() {
			cv := columnView{Status: col.Status, Jobs: make([]Card, 0, len(col.Jobs))}
			for _, j := range col.Jobs {
				cv.Jobs = append(cv.Jobs, Card{Job: j, Action: job.ActionLabel(j.Status)})
			}
			view.Columns = append(view.Columns, cv)
		}
		return nil
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, view)
}

func (h *Jobs) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.board.Do(r.Context(), func(b *board.Board) error {
		b.SetSearch(req.Search)
		return nil
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, req)
}

// mutate runs op as one event and reports its outcome. When id is non-zero
// and the job still exists, the updated job is included.
func (h *Jobs) mutate(w http.ResponseWriter, r *http.Request, id int, op func(*board.Board) (board.Outcome, error)) {
	var res mutationResult
	err := h.board.Do(r.Context(), func(b *board.Board) error {
		out, err := op(b)
		if err != nil {
			return err
		}
		res.Outcome = out
		if id != 0 {
			if j, ok := b.Get(id); ok {
				res.Job = &j
			}
		}
		return nil
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, res)
}

func (h *Jobs) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *job.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(w, http.StatusUnprocessableEntity, response.CodeValidationFailed,
			verr.Message, map[string]string{"field": verr.Field})
	case errors.Is(err, board.ErrUnknownColumn):
		response.Error(w, http.StatusUnprocessableEntity, response.CodeUnknownColumn, err.Error(), nil)
	case errors.Is(err, session.ErrStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.Error(w, http.StatusServiceUnavailable, response.CodeUnavailable, "Board unavailable", nil)
	default:
		h.log.WithError(err).WithField("path", r.URL.Path).Error("board event failed")
		response.Error(w, http.StatusInternalServerError, response.CodeInternal, "An unexpected error occurred", nil)
	}
}

// maxBodyBytes caps request bodies. The largest legitimate body is a drag
// event or a job form.
const maxBodyBytes = 64 << 10

// decodeBody reads a JSON body into v, answering 413 or 400 itself when it
// cannot.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(w, http.StatusRequestEntityTooLarge, response.CodePayloadTooLarge,
			fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), nil)
		return false
	}
	response.BadRequest(w, "Invalid request body: "+err.Error())
	return false
}

func jobID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(w, "Invalid job id: "+raw)
		return 0, false
	}
	return id, true
}
