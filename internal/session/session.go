package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/CharanSaiVaddi/jobboard-backend/internal/board"
)

var ErrStopped = errors.New("session: stopped")

// Session owns a board and applies events to it one at a time, in the order
// they arrive.
type Session struct {
	id     uuid.UUID
	board  *board.Board
	events chan event
	log    logrus.FieldLogger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type event struct {
	fn   func(*board.Board) error
	done chan error
}

func New(b *board.Board, log logrus.FieldLogger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New()
	return &Session{
		id:     id,
		board:  b,
		events: make(chan event),
		log:    log.WithField("session_id", id.String()),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) Start() {
	s.wg.Add(1)
	go s.loop()
}

func (s *Session) loop() {
	defer s.wg.Done()
	s.log.Info("session started")
	for {
		select {
		case <-s.ctx.Done():
			s.log.Info("session stopped")
			return
		case ev := <-s.events:
			s.apply(ev)
		}
	}
}

func (s *Session) apply(ev event) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("event panicked")
			ev.done <- fmt.Errorf("session: event panicked: %v", r)
		}
	}()
	ev.done <- ev.fn(s.board)
}

// Do runs fn against the board on the session goroutine and returns its
// error. It gives up with ctx.Err() only while waiting for its turn; once fn
// has started it runs to completion.
func (s *Session) Do(ctx context.Context, fn func(*board.Board) error) error {
	ev := event{fn: fn, done: make(chan error, 1)}
	select {
	case <-s.ctx.Done():
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	case s.events <- ev:
	}
	return <-ev.done
}

func (s *Session) Stop() {
	s.cancel()
	s.wg.Wait()
}
