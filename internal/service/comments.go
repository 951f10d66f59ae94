package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

// CommentStore manages the comment list of the viewed event and the
// create/update/delete request lifecycles around it. It is safe for
// concurrent use; gateway calls are made without holding the lock.
type CommentStore struct {
	gw     CommentGateway
	viewer model.Viewer
	log    logrus.FieldLogger

	mu    sync.Mutex
	state commentState
	subs  observers[CommentSnapshot]
}

// NewCommentStore constructs a CommentStore for the given viewer.
func NewCommentStore(gw CommentGateway, viewer model.Viewer, logger logrus.FieldLogger) *CommentStore {
	return &CommentStore{
		gw:     gw,
		viewer: viewer,
		log:    logger.WithField("component", "comments"),
		state:  newCommentState(),
	}
}

// Snapshot returns the current state.
func (s *CommentStore) Snapshot() CommentSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.snapshot()
}

// Subscribe registers fn to receive a snapshot after every transition and
// returns a function that removes it.
func (s *CommentStore) Subscribe(fn func(CommentSnapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.subs.add(fn)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.subs.remove(id)
		s.mu.Unlock()
	}
}

// CanModify reports whether the viewer may edit or delete c.
func (s *CommentStore) CanModify(c model.Comment) bool {
	return s.viewer.Authenticated && c.EditableByViewer
}

// LoadComments replaces the list with the comments of eventID. A result that
// arrives after a newer LoadComments or Teardown is discarded.
func (s *CommentStore) LoadComments(ctx context.Context, eventID model.ID) error {
	st, _, err := s.apply(fetchStarted{eventID: eventID})
	if err != nil {
		return err
	}
	seq := st.seq

	items, err := s.gw.ListComments(ctx, eventID)
	if err != nil {
		if _, _, aerr := s.apply(fetchFailed{seq: seq, err: err}); errors.Is(aerr, errStale) {
			return nil
		}
		s.log.WithError(err).WithField("event_id", eventID).Warn("load comments failed")
		return fmt.Errorf("load comments: %w", err)
	}

	_, _, _ = s.apply(fetchSucceeded{seq: seq, items: items})
	return nil
}

// Teardown resets the store to "no event selected" and invalidates any
// in-flight fetch.
func (s *CommentStore) Teardown() {
	_, _, _ = s.apply(tornDown{})
}

// SetDraft stores the create-form text.
func (s *CommentStore) SetDraft(text string) {
	_, _, _ = s.apply(draftChanged{text: text})
}

// SubmitCreate posts body as a new comment on eventID. On success the comment
// is inserted at the front of the list when eventID is still the viewed event.
func (s *CommentStore) SubmitCreate(ctx context.Context, eventID model.ID, body string) error {
	if _, _, err := s.apply(createRequested{body: body, authenticated: s.viewer.Authenticated}); err != nil {
		return err
	}

	created, err := s.gw.CreateComment(ctx, model.CreateCommentRequest{Body: body, EventID: eventID})
	if err != nil {
		_, _, _ = s.apply(createFailed{err: err})
		s.log.WithError(err).WithField("event_id", eventID).Warn("create comment failed")
		return fmt.Errorf("create comment: %w", err)
	}

	_, effects, _ := s.apply(createSucceeded{eventID: eventID, comment: *created})
	s.run(ctx, effects)
	return nil
}

// BeginEdit puts commentID in edit mode, replacing any previous target, and
// seeds the edit draft with the comment's text.
func (s *CommentStore) BeginEdit(commentID model.ID) error {
	_, _, err := s.apply(editBegan{commentID: commentID, authenticated: s.viewer.Authenticated})
	return err
}

// SetEditDraft stores the edit-form text. It is ignored outside edit mode.
func (s *CommentStore) SetEditDraft(text string) {
	_, _, _ = s.apply(editDraftChanged{text: text})
}

// CancelEdit leaves edit mode without saving.
func (s *CommentStore) CancelEdit() {
	_, _, _ = s.apply(editCancelled{})
}

// SubmitUpdate replaces the text of commentID. The list entry is replaced in
// place on success.
func (s *CommentStore) SubmitUpdate(ctx context.Context, commentID model.ID, body string) error {
	if _, _, err := s.apply(updateRequested{body: body}); err != nil {
		return err
	}

	updated, err := s.gw.UpdateComment(ctx, commentID, model.UpdateCommentRequest{Body: body})
	if err != nil {
		_, _, _ = s.apply(updateFailed{err: err})
		s.log.WithError(err).WithField("comment_id", commentID).Warn("update comment failed")
		return fmt.Errorf("update comment: %w", err)
	}

	_, effects, _ := s.apply(updateSucceeded{commentID: commentID, comment: *updated})
	s.run(ctx, effects)
	return nil
}

// SubmitDelete deletes commentID. The caller must have obtained the user's
// confirmation. The list is not touched directly; success triggers a reload.
func (s *CommentStore) SubmitDelete(ctx context.Context, commentID model.ID) error {
	if _, _, err := s.apply(deleteRequested{}); err != nil {
		return err
	}

	if err := s.gw.DeleteComment(ctx, commentID); err != nil {
		_, _, _ = s.apply(deleteFailed{err: err})
		s.log.WithError(err).WithField("comment_id", commentID).Warn("delete comment failed")
		return fmt.Errorf("delete comment: %w", err)
	}

	_, effects, _ := s.apply(deleteSucceeded{})
	s.run(ctx, effects)
	return nil
}

// apply runs one transition under the lock and publishes the resulting
// snapshot. Rejected and stale events publish nothing.
func (s *CommentStore) apply(ev commentEvent) (commentState, []commentEffect, error) {
	s.mu.Lock()
	next, effects, err := s.state.apply(ev)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, errStale) {
			s.log.WithField("event_type", fmt.Sprintf("%T", ev)).Debug("discarded stale fetch result")
		}
		return next, nil, err
	}
	s.state = next
	snap := next.snapshot()
	fns := s.subs.snapshot()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"event_id":    snap.EventID,
		"list_status": snap.ListStatus,
		"create":      snap.Create.Status,
		"update":      snap.Update.Status,
		"delete":      snap.Delete.Status,
	}).Debugf("transition %T", ev)
	notify(fns, snap)
	return next, effects, nil
}

// run executes effect descriptors in order.
func (s *CommentStore) run(ctx context.Context, effects []commentEffect) {
	for _, eff := range effects {
		switch eff.kind {
		case effectSettleCreate:
			_, _, _ = s.apply(createSettled{})
		case effectSettleUpdate:
			_, _, _ = s.apply(updateSettled{})
		case effectSettleDelete:
			_, _, _ = s.apply(deleteSettled{})
		case effectReloadComments:
			// The delete already succeeded; a failed reload shows up in the
			// list status instead.
			if err := s.LoadComments(ctx, eff.eventID); err != nil {
				s.log.WithError(err).WithField("event_id", eff.eventID).Warn("reload after delete failed")
			}
		}
	}
}
