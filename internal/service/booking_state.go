package service

import (
	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

// Outcome is the business result of a booking operation.
type Outcome string

const (
	OutcomeBooked          Outcome = "booked"
	OutcomeConflictPending Outcome = "conflict-pending"
	OutcomeCancelled       Outcome = "cancelled"
	OutcomeDismissed       Outcome = "dismissed"
)

// BookingSnapshot is the observable booking state of one event.
type BookingSnapshot struct {
	EventID model.ID
	Event   model.Event
	Phase   model.BookingPhase
	Err     error // last failed reserve or cancel
}

// Resting returns the phase the event returns to once no call or
// confirmation is outstanding.
func (s BookingSnapshot) Resting() model.BookingPhase {
	return model.PhaseFor(s.Event.IsAvailable)
}

type bookingState struct {
	BookingSnapshot
}

func (s bookingState) transient() bool {
	switch s.Phase {
	case model.PhaseReserving, model.PhaseCancelling, model.PhaseConflictPending:
		return true
	}
	return false
}

// ─── Events ──────────────────────────────────────────────────────────────────

type bookingEvent interface{ isBookingEvent() }

type (
	eventLoaded      struct{ event model.Event }
	reserveRequested struct{ authenticated bool }
	reserveSucceeded struct{}
	reserveConflict  struct{ err error }
	reserveSoldOut   struct{ err error }
	reserveFailed    struct{ err error }
	conflictResolved struct{ confirmed bool }
	cancelRequested  struct{ authenticated bool }
	cancelSucceeded  struct{}
	cancelFailed     struct{ err error }
)

func (eventLoaded) isBookingEvent() {}
func (reserveRequested) isBookingEvent() {}
func (reserveSucceeded) isBookingEvent() {}
func (reserveConflict) isBookingEvent() {}
func (reserveSoldOut) isBookingEvent() {}
func (reserveFailed) isBookingEvent() {}
func (conflictResolved) isBookingEvent() {}
func (cancelRequested) isBookingEvent() {}
func (cancelSucceeded) isBookingEvent() {}
func (cancelFailed) isBookingEvent() {}

// ─── Effects ─────────────────────────────────────────────────────────────────

type bookingEffect int

const (
	effectReserve bookingEffect = iota + 1
	effectCancel
	effectReloadEvent
)

// ─── Transition ──────────────────────────────────────────────────────────────

// apply is the booking transition function for a single event. A non-nil
// error means the event was rejected and s is returned unchanged.
func (s bookingState) apply(ev bookingEvent) (bookingState, []bookingEffect, error) {
	switch ev := ev.(type) {
	case eventLoaded:
		s.Event = ev.event
		if !s.transient() {
			s.Phase = s.Resting()
		}
		return s, nil, nil

	case reserveRequested:
		if !ev.authenticated {
			return s, nil, ErrUnauthenticated
		}
		switch s.Phase {
		case model.PhaseReserving, model.PhaseCancelling:
			return s, nil, ErrOperationInFlight
		case model.PhaseConflictPending:
			return s, nil, ErrConflictPending
		}
		if !s.Event.IsAvailable {
			return s, nil, ErrSoldOut
		}
		s.Phase = model.PhaseReserving
		s.Err = nil
		return s, []bookingEffect{effectReserve}, nil

	case reserveSucceeded:
		s.Phase = s.Resting()
		return s, []bookingEffect{effectReloadEvent}, nil

	case reserveConflict:
		s.Phase = model.PhaseConflictPending
		s.Err = ev.err
		return s, nil, nil

	case reserveSoldOut:
		s.Phase = s.Resting()
		s.Err = ev.err
		return s, []bookingEffect{effectReloadEvent}, nil

	case reserveFailed:
		s.Phase = s.Resting()
		s.Err = ev.err
		return s, nil, nil

	case conflictResolved:
		if s.Phase != model.PhaseConflictPending {
			return s, nil, ErrNoConflict
		}
		if !ev.confirmed {
			s.Phase = s.Resting()
			s.Err = nil
			return s, nil, nil
		}
		s.Phase = model.PhaseCancelling
		s.Err = nil
		return s, []bookingEffect{effectCancel}, nil

	case cancelRequested:
		if !ev.authenticated {
			return s, nil, ErrUnauthenticated
		}
		switch s.Phase {
		case model.PhaseReserving, model.PhaseCancelling:
			return s, nil, ErrOperationInFlight
		}
		s.Phase = model.PhaseCancelling
		s.Err = nil
		return s, []bookingEffect{effectCancel}, nil

	case cancelSucceeded:
		s.Phase = s.Resting()
		return s, []bookingEffect{effectReloadEvent}, nil

	case cancelFailed:
		s.Phase = s.Resting()
		s.Err = ev.err
		return s, nil, nil
	}
	return s, nil, nil
}
