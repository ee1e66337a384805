// Package session models interactive blemish removal as an explicit state
// machine driven by click and key events.
package session

import (
	"errors"
	"fmt"
	"image"

	"skin-retoucher/internal/logger"
	"skin-retoucher/internal/models"
	"skin-retoucher/internal/retouch"
)

var ErrClosed = errors.New("session closed")

const (
	KeyEsc   = 27
	KeyReset = 'c'
)

type State int

const (
	Editing State = iota
	Closed
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Event is an input delivered to the session.
type Event interface {
	event()
}

// Click asks for a correction centred on Point, in frame coordinates.
type Click struct {
	Point image.Point
}

// Key is a key press. Code follows ASCII; Esc is 27.
type Key struct {
	Code rune
}

func (Click) event() {}
func (Key) event()   {}

// Outcome reports what an event did.
type Outcome struct {
	State   State
	Changed bool
	Donor   *retouch.Donor
}

// Session owns the original frame and the displayed frame. It is not safe
// for concurrent use; events are expected from a single UI goroutine.
type Session struct {
	original  *image.RGBA
	current   *image.RGBA
	state     State
	corrector *retouch.Corrector
	log       logger.Logger
	edits     int
}

func New(frame *image.RGBA, corrector *retouch.Corrector, log logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{
		original:  models.CloneRGBA(frame),
		current:   models.CloneRGBA(frame),
		state:     Editing,
		corrector: corrector,
		log:       log,
	}
}

func (s *Session) State() State { return s.state }

// Current is the frame being displayed. Callers must not keep it across
// events.
func (s *Session) Current() *image.RGBA { return s.current }

// Edits counts corrections applied since the last reset.
func (s *Session) Edits() int { return s.edits }

// Handle applies one event.
func (s *Session) Handle(ev Event) (Outcome, error) {
	if s.state == Closed {
		return Outcome{State: Closed}, ErrClosed
	}

	switch e := ev.(type) {
	case Click:
		return s.click(e.Point)
	case Key:
		return s.key(e.Code), nil
	}
	return Outcome{State: s.state}, fmt.Errorf("unknown event %T", ev)
}

func (s *Session) click(p image.Point) (Outcome, error) {
	if !p.In(s.current.Bounds()) {
		return Outcome{State: s.state}, nil
	}

	donor, err := s.corrector.CorrectAt(s.current, p)
	if errors.Is(err, retouch.ErrNoDonor) {
		s.log.Info("Session", "no donor patch in bounds", map[string]interface{}{
			"x": p.X, "y": p.Y,
		})
		return Outcome{State: s.state}, nil
	}
	if err != nil {
		return Outcome{State: s.state}, fmt.Errorf("correct at %v: %w", p, err)
	}

	s.edits++
	s.log.Debug("Session", "blemish removed", map[string]interface{}{
		"x":         p.X,
		"y":         p.Y,
		"direction": donor.Direction.String(),
	})
	return Outcome{State: s.state, Changed: true, Donor: donor}, nil
}

func (s *Session) key(code rune) Outcome {
	switch code {
	case KeyEsc:
		s.state = Closed
		s.log.Info("Session", "editing finished", map[string]interface{}{
			"edits": s.edits,
		})
		return Outcome{State: s.state}
	case KeyReset, 'C':
		s.current = models.CloneRGBA(s.original)
		s.edits = 0
		return Outcome{State: s.state, Changed: true}
	}
	return Outcome{State: s.state}
}
