package service

import (
	"slices"
	"strings"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

// OperationState is the status of one write operation kind and the error of
// its last failed attempt.
type OperationState struct {
	Status model.OperationStatus
	Err    error
}

// CommentSnapshot is the observable state of a CommentStore.
type CommentSnapshot struct {
	EventID    model.ID
	Items      []model.Comment
	ListStatus model.ListStatus
	ListErr    error

	Create OperationState
	Update OperationState
	Delete OperationState

	Draft     string
	EditingID model.ID
	EditDraft string
}

// Editing reports whether a comment is in edit mode.
func (s CommentSnapshot) Editing() bool { return !s.EditingID.IsZero() }

type commentState struct {
	CommentSnapshot
	seq uint64 // bumped by every fetch start and teardown
}

func newCommentState() commentState {
	idle := OperationState{Status: model.StatusIdle}
	return commentState{CommentSnapshot: CommentSnapshot{
		ListStatus: model.ListLoading,
		Create:     idle,
		Update:     idle,
		Delete:     idle,
	}}
}

func (s commentState) snapshot() CommentSnapshot {
	snap := s.CommentSnapshot
	snap.Items = slices.Clone(s.Items)
	return snap
}

// ─── Events ──────────────────────────────────────────────────────────────────

type commentEvent interface{ isCommentEvent() }

type (
	fetchStarted   struct{ eventID model.ID }
	fetchSucceeded struct {
		seq   uint64
		items []model.Comment
	}
	fetchFailed struct {
		seq uint64
		err error
	}
	tornDown     struct{}
	draftChanged struct{ text string }

	createRequested struct {
		body          string
		authenticated bool
	}
	createSucceeded struct {
		eventID model.ID
		comment model.Comment
	}
	createFailed  struct{ err error }
	createSettled struct{}

	editBegan struct {
		commentID     model.ID
		authenticated bool
	}
	editDraftChanged struct{ text string }
	editCancelled    struct{}

	updateRequested struct{ body string }
	updateSucceeded struct {
		commentID model.ID
		comment   model.Comment
	}
	updateFailed  struct{ err error }
	updateSettled struct{}

	deleteRequested struct{}
	deleteSucceeded struct{}
	deleteFailed    struct{ err error }
	deleteSettled   struct{}
)

func (fetchStarted) isCommentEvent() {}
func (fetchSucceeded) isCommentEvent() {}
func (fetchFailed) isCommentEvent() {}
func (tornDown) isCommentEvent() {}
func (draftChanged) isCommentEvent() {}
func (createRequested) isCommentEvent() {}
func (createSucceeded) isCommentEvent() {}
func (createFailed) isCommentEvent() {}
func (createSettled) isCommentEvent() {}
func (editBegan) isCommentEvent() {}
func (editDraftChanged) isCommentEvent() {}
func (editCancelled) isCommentEvent() {}
func (updateRequested) isCommentEvent() {}
func (updateSucceeded) isCommentEvent() {}
func (updateFailed) isCommentEvent() {}
func (updateSettled) isCommentEvent() {}
func (deleteRequested) isCommentEvent() {}
func (deleteSucceeded) isCommentEvent() {}
func (deleteFailed) isCommentEvent() {}
func (deleteSettled) isCommentEvent() {}

// ─── Effects ─────────────────────────────────────────────────────────────────

type commentEffectKind int

const (
	effectSettleCreate commentEffectKind = iota + 1
	effectSettleUpdate
	effectSettleDelete
	effectReloadComments
)

type commentEffect struct {
	kind    commentEffectKind
	eventID model.ID
}

// ─── Transition ──────────────────────────────────────────────────────────────

// apply is the comment store's transition function. It never mutates s or
// its item slice. A non-nil error means the event was rejected and s is
// returned unchanged.
func (s commentState) apply(ev commentEvent) (commentState, []commentEffect, error) {
	switch ev := ev.(type) {
	case fetchStarted:
		if ev.eventID.IsZero() {
			return s, nil, ErrEventRequired
		}
		if ev.eventID != s.EventID {
			s.Draft = ""
			s.EditingID, s.EditDraft = "", ""
		}
		s.seq++
		s.EventID = ev.eventID
		s.Items = nil
		s.ListStatus = model.ListLoading
		s.ListErr = nil
		return s, nil, nil

	case fetchSucceeded:
		if ev.seq != s.seq {
			return s, nil, errStale
		}
		s.Items = slices.Clone(ev.items)
		s.ListStatus = model.ListLoaded
		return s, nil, nil

	case fetchFailed:
		if ev.seq != s.seq {
			return s, nil, errStale
		}
		s.Items = nil
		s.ListStatus = model.ListError
		s.ListErr = ev.err
		return s, nil, nil

	case tornDown:
		s.seq++
		s.EventID = ""
		s.Items = nil
		s.ListStatus = model.ListLoading
		s.ListErr = nil
		s.Draft = ""
		s.EditingID, s.EditDraft = "", ""
		return s, nil, nil

	case draftChanged:
		s.Draft = ev.text
		return s, nil, nil

	case createRequested:
		switch {
		case strings.TrimSpace(ev.body) == "":
			return s, nil, ErrEmptyBody
		case !ev.authenticated:
			return s, nil, ErrUnauthenticated
		case s.Create.Status == model.StatusLoading:
			return s, nil, ErrOperationInFlight
		}
		s.Create = OperationState{Status: model.StatusLoading}
		return s, nil, nil

	case createSucceeded:
		if !s.EventID.IsZero() && ev.eventID == s.EventID {
			items := make([]model.Comment, 0, len(s.Items)+1)
			items = append(items, ev.comment)
			for _, c := range s.Items {
				if c.ID != ev.comment.ID {
					items = append(items, c)
				}
			}
			s.Items = items
		}
		s.Create = OperationState{Status: model.StatusSuccess}
		return s, []commentEffect{{kind: effectSettleCreate}}, nil

	case createFailed:
		s.Create = OperationState{Status: model.StatusError, Err: ev.err}
		return s, nil, nil

	case createSettled:
		s.Draft = ""
		s.Create = OperationState{Status: model.StatusIdle}
		return s, nil, nil

	case editBegan:
		i := s.indexOf(ev.commentID)
		if i < 0 {
			return s, nil, ErrNotFound
		}
		if !ev.authenticated || !s.Items[i].EditableByViewer {
			return s, nil, ErrNotEditable
		}
		s.EditingID = ev.commentID
		s.EditDraft = s.Items[i].Body
		return s, nil, nil

	case editDraftChanged:
		if s.EditingID.IsZero() {
			return s, nil, nil
		}
		s.EditDraft = ev.text
		return s, nil, nil

	case editCancelled:
		s.EditingID, s.EditDraft = "", ""
		return s, nil, nil

	case updateRequested:
		switch {
		case strings.TrimSpace(ev.body) == "":
			return s, nil, ErrEmptyBody
		case s.Update.Status == model.StatusLoading:
			return s, nil, ErrOperationInFlight
		}
		s.Update = OperationState{Status: model.StatusLoading}
		return s, nil, nil

	case updateSucceeded:
		if i := s.indexOf(ev.commentID); i >= 0 {
			updated := ev.comment
			if updated.ID.IsZero() {
				updated.ID = ev.commentID
			}
			items := slices.Clone(s.Items)
			items[i] = updated
			s.Items = items
		}
		s.Update = OperationState{Status: model.StatusSuccess}
		return s, []commentEffect{{kind: effectSettleUpdate}}, nil

	case updateFailed:
		s.Update = OperationState{Status: model.StatusError, Err: ev.err}
		return s, nil, nil

	case updateSettled:
		s.EditingID, s.EditDraft = "", ""
		s.Update = OperationState{Status: model.StatusIdle}
		return s, nil, nil

	case deleteRequested:
		if s.Delete.Status == model.StatusLoading {
			return s, nil, ErrOperationInFlight
		}
		s.Delete = OperationState{Status: model.StatusLoading}
		return s, nil, nil

	case deleteSucceeded:
		s.Delete = OperationState{Status: model.StatusSuccess}
		effects := []commentEffect{{kind: effectSettleDelete}}
		if !s.EventID.IsZero() {
			effects = append(effects, commentEffect{kind: effectReloadComments, eventID: s.EventID})
		}
		return s, effects, nil

	case deleteFailed:
		s.Delete = OperationState{Status: model.StatusError, Err: ev.err}
		return s, nil, nil

	case deleteSettled:
		s.Delete = OperationState{Status: model.StatusIdle}
		return s, nil, nil
	}
	return s, nil, nil
}

func (s commentState) indexOf(id model.ID) int {
	return slices.IndexFunc(s.Items, func(c model.Comment) bool { return c.ID == id })
}
