// Package board holds the job store: the ordered job sequence of one session,
// its search filter, and every operation that mutates it.
//
// A Board is not safe for concurrent use. Hosts that receive events from more
// than one goroutine hand the Board to a session.Session.
package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/CharanSaiVaddi/jobboard-backend/internal/job"
)

// Outcome tells callers whether a mutation changed the board.
type Outcome int

const (
	Applied Outcome = iota
	NotFound
	Ignored
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case NotFound:
		return "not_found"
	case Ignored:
		return "ignored"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Saver persists a full job sequence.
type Saver interface {
	Save(ctx context.Context, jobs []job.Job) error
}

// Persistence loads the saved sequence at startup and saves it after each mutation.
type Persistence interface {
	Load(ctx context.Context) ([]job.Job, bool, error)
	Saver
}

type Board struct {
	jobs   []job.Job
	search string
	saver  Saver
	log    logrus.FieldLogger
}

type Option func(*Board)

func WithSaver(s Saver) Option {
	return func(b *Board) { b.saver = s }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Board) { b.log = l }
}

// DefaultSeed is the board a session starts with when nothing was saved.
func DefaultSeed() []job.Job {
	return []job.Job{
		{ID: 1, Title: "Parse Emails", Status: job.StatusNeedToStart},
		{ID: 2, Title: "SAP Extraction", Status: job.StatusInProgress},
		{ID: 3, Title: "Generate Report", Status: job.StatusCompleted},
	}
}

// New returns a board holding a copy of jobs. It trusts jobs to have unique
// ids and valid statuses; Open checks what it loads.
func New(jobs []job.Job, opts ...Option) *Board {
	b := &Board{
		jobs: append([]job.Job{}, jobs...),
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open loads the saved board from p, falling back to DefaultSeed, and saves
// every later mutation back to p.
func Open(ctx context.Context, p Persistence, opts ...Option) (*Board, error) {
	jobs, found, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	if !found {
		jobs = DefaultSeed()
	}
	if err := job.CheckSequence(jobs); err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	b := New(jobs, append([]Option{WithSaver(p)}, opts...)...)
	b.log.WithFields(logrus.Fields{"jobs": len(jobs), "seeded": !found}).Debug("board opened")
	return b, nil
}

// commit saves next and only then makes it the current sequence, so a failed
// save leaves the board untouched.
func (b *Board) commit(ctx context.Context, next []job.Job) error {
	if b.saver != nil {
		if err := b.saver.Save(ctx, next); err != nil {
			return fmt.Errorf("save jobs: %w", err)
		}
	}
	b.jobs = next
	return nil
}

func (b *Board) index(id int) int {
	for i := range b.jobs {
		if b.jobs[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) nextID() int {
	maxID := 0
	for _, j := range b.jobs {
		if j.ID > maxID {
			maxID = j.ID
		}
	}
	return maxID + 1
}

func (b *Board) clone() []job.Job {
	return append(make([]job.Job, 0, len(b.jobs)+1), b.jobs...)
}

// Add validates a create-form candidate and appends it with a fresh id.
func (b *Board) Add(ctx context.Context, c job.Candidate) (job.Job, error) {
	j, err := job.ValidateCreate(c)
	if err != nil {
		return job.Job{}, err
	}
	return b.insert(ctx, j)
}

// AddDirect appends a job through the legacy add path, which skips the
// minimum title length.
func (b *Board) AddDirect(ctx context.Context, c job.Candidate) (job.Job, error) {
	j, err := job.ValidateDirect(c)
	if err != nil {
		return job.Job{}, err
	}
	return b.insert(ctx, j)
}

func (b *Board) insert(ctx context.Context, j job.Job) (job.Job, error) {
	j.ID = b.nextID()
	if err := b.commit(ctx, append(b.clone(), j)); err != nil {
		return job.Job{}, err
	}
	b.log.WithFields(logrus.Fields{"job_id": j.ID, "status": j.Status}).Debug("job added")
	return j, nil
}

func (b *Board) Remove(ctx context.Context, id int) (Outcome, error) {
	i := b.index(id)
	if i < 0 {
		return NotFound, nil
	}
	next := append(append(make([]job.Job, 0, len(b.jobs)-1), b.jobs[:i]...), b.jobs[i+1:]...)
	if err := b.commit(ctx, next); err != nil {
		return NotFound, err
	}
	b.log.WithField("job_id", id).Debug("job removed")
	return Applied, nil
}

// Edit replaces the fields of job id in place. The title is validated even
// when id is unknown.
func (b *Board) Edit(ctx context.Context, id int, c job.Candidate) (Outcome, error) {
	i := b.index(id)
	var current job.Job
	if i >= 0 {
		current = b.jobs[i]
	}
	edited, err := job.ValidateEdit(current, c)
	if err != nil {
		return NotFound, err
	}
	if i < 0 {
		return NotFound, nil
	}
	next := b.clone()
	next[i] = edited
	if err := b.commit(ctx, next); err != nil {
		return NotFound, err
	}
	b.log.WithFields(logrus.Fields{"job_id": id, "status": edited.Status}).Debug("job edited")
	return Applied, nil
}

// Advance applies the manual transition to job id.
func (b *Board) Advance(ctx context.Context, id int) (Outcome, error) {
	i := b.index(id)
	if i < 0 {
		return NotFound, nil
	}
	next := b.clone()
	next[i].Status = job.Advance(next[i].Status)
	if err := b.commit(ctx, next); err != nil {
		return NotFound, err
	}
	b.log.WithFields(logrus.Fields{"job_id": id, "status": next[i].Status}).Debug("job advanced")
	return Applied, nil
}

// Jobs returns a copy of the sequence in storage order.
func (b *Board) Jobs() []job.Job {
	return append([]job.Job{}, b.jobs...)
}

func (b *Board) Get(id int) (job.Job, bool) {
	if i := b.index(id); i >= 0 {
		return b.jobs[i], true
	}
	return job.Job{}, false
}

func (b *Board) Search() string { return b.search }

// SetSearch changes the render filter. It is not a job mutation and is not saved.
func (b *Board) SetSearch(s string) { b.search = s }

// Visible returns the jobs whose title contains the search text, ignoring case.
func (b *Board) Visible() []job.Job {
	return Filter(b.jobs, b.search)
}

// Filter returns the jobs whose title contains search, ignoring case.
func Filter(jobs []job.Job, search string) []job.Job {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]job.Job, 0, len(jobs))
	for _, j := range jobs {
		if needle == "" || strings.Contains(strings.ToLower(j.Title), needle) {
			out = append(out, j)
		}
	}
	return out
}
