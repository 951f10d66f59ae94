package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

// Controller runs the reserve/cancel protocol for tracked events, including
// the confirmation-gated cancel that follows a duplicate booking attempt.
type Controller struct {
	gw     BookingGateway
	viewer model.Viewer
	log    logrus.FieldLogger

	mu     sync.Mutex
	events map[model.ID]bookingState
	subs   observers[BookingSnapshot]
}

// NewController constructs a booking Controller acting for viewer.
// Reserving and cancelling require an authenticated viewer.
func NewController(gw BookingGateway, viewer model.Viewer, logger logrus.FieldLogger) *Controller {
	return &Controller{
		gw:     gw,
		viewer: viewer,
		log:    logger.WithField("component", "booking"),
		events: make(map[model.ID]bookingState),
	}
}

// Track records an event aggregate fetched elsewhere (list or detail page).
func (c *Controller) Track(event model.Event) error {
	if event.ID.IsZero() {
		return ErrEventRequired
	}
	_, err := c.step(event.ID, eventLoaded{event: event}, true)
	return err
}

// State returns the booking state of eventID.
func (c *Controller) State(eventID model.ID) (BookingSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.events[eventID]
	return st.BookingSnapshot, ok
}

// Subscribe registers fn to receive a snapshot after every transition of any
// event and returns a function that removes it.
func (c *Controller) Subscribe(fn func(BookingSnapshot)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.subs.add(fn)
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		c.subs.remove(id)
		c.mu.Unlock()
	}
}

// Reload fetches the authoritative aggregate for eventID and tracks it.
func (c *Controller) Reload(ctx context.Context, eventID model.ID) error {
	if eventID.IsZero() {
		return ErrEventRequired
	}
	event, err := c.gw.GetEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("reload event %s: %w", eventID, err)
	}
	_, err = c.step(eventID, eventLoaded{event: *event}, true)
	return err
}

// Reserve books a ticket. An "already booked" failure parks the event in
// conflict-pending and returns OutcomeConflictPending; the caller then asks
// the user and calls ResolveConflict.
func (c *Controller) Reserve(ctx context.Context, eventID model.ID) (Outcome, error) {
	effects, err := c.step(eventID, reserveRequested{authenticated: c.viewer.Authenticated}, false)
	if err != nil {
		return "", err
	}
	return c.execute(ctx, eventID, effects)
}

// ResolveConflict applies the user's answer to a pending conflict. Declining
// returns to the prior availability phase without a remote call; confirming
// cancels the existing reservation.
func (c *Controller) ResolveConflict(ctx context.Context, eventID model.ID, confirmed bool) (Outcome, error) {
	effects, err := c.step(eventID, conflictResolved{confirmed: confirmed}, false)
	if err != nil {
		return "", err
	}
	if !confirmed {
		return OutcomeDismissed, nil
	}
	return c.execute(ctx, eventID, effects)
}

// Cancel releases the viewer's reservation for eventID.
func (c *Controller) Cancel(ctx context.Context, eventID model.ID) (Outcome, error) {
	effects, err := c.step(eventID, cancelRequested{authenticated: c.viewer.Authenticated}, false)
	if err != nil {
		return "", err
	}
	return c.execute(ctx, eventID, effects)
}

// step applies one transition for eventID under the lock and publishes the
// snapshot. Untracked events are rejected unless create is set.
func (c *Controller) step(eventID model.ID, ev bookingEvent, create bool) ([]bookingEffect, error) {
	c.mu.Lock()
	st, ok := c.events[eventID]
	if !ok {
		if !create {
			c.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrEventNotTracked, eventID)
		}
		st = bookingState{BookingSnapshot{EventID: eventID}}
	}
	next, effects, err := st.apply(ev)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.events[eventID] = next
	snap := next.BookingSnapshot
	fns := c.subs.snapshot()
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"event_id": eventID,
		"phase":    snap.Phase,
	}).Debugf("transition %T", ev)
	notify(fns, snap)
	return effects, nil
}

// execute runs effect descriptors and returns the outcome of the remote
// mutation among them.
func (c *Controller) execute(ctx context.Context, eventID model.ID, effects []bookingEffect) (Outcome, error) {
	var (
		outcome  Outcome
		firstErr error
	)
	for _, eff := range effects {
		var (
			o   Outcome
			err error
		)
		switch eff {
		case effectReserve:
			o, err = c.reserveRemote(ctx, eventID)
		case effectCancel:
			o, err = c.cancelRemote(ctx, eventID)
		case effectReloadEvent:
			// The mutation already succeeded; a stale aggregate is only logged.
			if rerr := c.Reload(ctx, eventID); rerr != nil {
				c.log.WithError(rerr).WithField("event_id", eventID).Warn("reload after booking change failed")
			}
		}
		if o != "" {
			outcome = o
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return outcome, firstErr
}

func (c *Controller) reserveRemote(ctx context.Context, eventID model.ID) (Outcome, error) {
	remoteErr := c.gw.Reserve(ctx, eventID)

	var (
		ev      bookingEvent
		outcome Outcome
		result  error
	)
	switch {
	case remoteErr == nil:
		ev, outcome = reserveSucceeded{}, OutcomeBooked
	default:
		switch classifyReserveError(remoteErr) {
		case failureAlreadyBooked:
			ev, outcome = reserveConflict{err: remoteErr}, OutcomeConflictPending
		case failureSoldOut:
			ev, result = reserveSoldOut{err: remoteErr}, fmt.Errorf("%w: %w", ErrSoldOut, remoteErr)
		default:
			ev, result = reserveFailed{err: remoteErr}, fmt.Errorf("%w: %w", ErrBookingFailed, remoteErr)
			c.log.WithError(remoteErr).WithField("event_id", eventID).Warn("reserve failed")
		}
	}

	effects, err := c.step(eventID, ev, false)
	if err != nil {
		return "", err
	}
	if _, err := c.execute(ctx, eventID, effects); err != nil {
		return outcome, err
	}
	return outcome, result
}

func (c *Controller) cancelRemote(ctx context.Context, eventID model.ID) (Outcome, error) {
	if remoteErr := c.gw.CancelReservation(ctx, eventID); remoteErr != nil {
		c.log.WithError(remoteErr).WithField("event_id", eventID).Warn("cancel failed")
		_, _ = c.step(eventID, cancelFailed{err: remoteErr}, false)
		return "", fmt.Errorf("%w: %w", ErrCancelFailed, remoteErr)
	}

	effects, err := c.step(eventID, cancelSucceeded{}, false)
	if err != nil {
		return "", err
	}
	if _, err := c.execute(ctx, eventID, effects); err != nil {
		return OutcomeCancelled, err
	}
	return OutcomeCancelled, nil
}
