// Package service holds the client-side state machines: the per-event comment
// store and the ticket booking controller. Transitions are pure functions over
// unexported state values; the exported types drive them, call the gateway
// and publish snapshots to subscribers.
package service

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

// CommentGateway is the remote surface the comment store needs.
type CommentGateway interface {
	ListComments(ctx context.Context, eventID model.ID) ([]model.Comment, error)
	CreateComment(ctx context.Context, req model.CreateCommentRequest) (*model.Comment, error)
	UpdateComment(ctx context.Context, commentID model.ID, req model.UpdateCommentRequest) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID model.ID) error
}

// BookingGateway is the remote surface the booking controller needs.
type BookingGateway interface {
	GetEvent(ctx context.Context, eventID model.ID) (*model.Event, error)
	Reserve(ctx context.Context, eventID model.ID) error
	CancelReservation(ctx context.Context, eventID model.ID) error
}

// Precondition errors. They are returned before any remote call and leave
// state untouched.
var (
	ErrEmptyBody         = errors.New("comment text is required")
	ErrUnauthenticated   = errors.New("sign in required")
	ErrOperationInFlight = errors.New("operation already in progress")
	ErrEventRequired     = errors.New("event id is required")
	ErrNotFound          = errors.New("comment not found")
	ErrNotEditable       = errors.New("comment cannot be edited by this viewer")
)

// Booking errors.
var (
	ErrSoldOut         = errors.New("no tickets available")
	ErrEventNotTracked = errors.New("event is not tracked")
	ErrNoConflict      = errors.New("no booking conflict pending")
	ErrConflictPending = errors.New("booking conflict awaiting confirmation")
	ErrBookingFailed   = errors.New("booking failed")
	ErrCancelFailed    = errors.New("cancellation failed")
)

// errStale marks a fetch result that a later fetch or teardown superseded.
var errStale = errors.New("stale result")
