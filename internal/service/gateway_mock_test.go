package service

import (
	"context"
	"sync"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

var _ CommentGateway = &commentGatewayMock{}

type commentGatewayMock struct {
	ListCommentsFunc  func(ctx context.Context, eventID model.ID) ([]model.Comment, error)
	CreateCommentFunc func(ctx context.Context, req model.CreateCommentRequest) (*model.Comment, error)
	UpdateCommentFunc func(ctx context.Context, commentID model.ID, req model.UpdateCommentRequest) (*model.Comment, error)
	DeleteCommentFunc func(ctx context.Context, commentID model.ID) error

	calls struct {
		ListComments []struct {
			EventID model.ID
		}
		CreateComment []struct {
			Req model.CreateCommentRequest
		}
		UpdateComment []struct {
			CommentID model.ID
			Req       model.UpdateCommentRequest
		}
		DeleteComment []struct {
			CommentID model.ID
		}
	}
	lockListComments  sync.RWMutex
	lockCreateComment sync.RWMutex
	lockUpdateComment sync.RWMutex
	lockDeleteComment sync.RWMutex
}

func (mock *commentGatewayMock) ListComments(ctx context.Context, eventID model.ID) ([]model.Comment, error) {
	if mock.ListCommentsFunc == nil {
		panic("commentGatewayMock.ListCommentsFunc: method is nil but CommentGateway.ListComments was just called")
	}
	callInfo := struct{ EventID model.ID }{EventID: eventID}
	mock.lockListComments.Lock()
	mock.calls.ListComments = append(mock.calls.ListComments, callInfo)
	mock.lockListComments.Unlock()
	return mock.ListCommentsFunc(ctx, eventID)
}

func (mock *commentGatewayMock) ListCommentsCalls() []struct{ EventID model.ID } {
	mock.lockListComments.RLock()
	calls := mock.calls.ListComments
	mock.lockListComments.RUnlock()
	return calls
}

func (mock *commentGatewayMock) CreateComment(ctx context.Context, req model.CreateCommentRequest) (*model.Comment, error) {
	if mock.CreateCommentFunc == nil {
		panic("commentGatewayMock.CreateCommentFunc: method is nil but CommentGateway.CreateComment was just called")
	}
	callInfo := struct{ Req model.CreateCommentRequest }{Req: req}
	mock.lockCreateComment.Lock()
	mock.calls.CreateComment = append(mock.calls.CreateComment, callInfo)
	mock.lockCreateComment.Unlock()
	return mock.CreateCommentFunc(ctx, req)
}

func (mock *commentGatewayMock) CreateCommentCalls() []struct{ Req model.CreateCommentRequest } {
	mock.lockCreateComment.RLock()
	calls := mock.calls.CreateComment
	mock.lockCreateComment.RUnlock()
	return calls
}

func (mock *commentGatewayMock) UpdateComment(ctx context.Context, commentID model.ID, req model.UpdateCommentRequest) (*model.Comment, error) {
	if mock.UpdateCommentFunc == nil {
		panic("commentGatewayMock.UpdateCommentFunc: method is nil but CommentGateway.UpdateComment was just called")
	}
	callInfo := struct {
		CommentID model.ID
		Req       model.UpdateCommentRequest
	}{CommentID: commentID, Req: req}
	mock.lockUpdateComment.Lock()
	mock.calls.UpdateComment = append(mock.calls.UpdateComment, callInfo)
	mock.lockUpdateComment.Unlock()
	return mock.UpdateCommentFunc(ctx, commentID, req)
}

func (mock *commentGatewayMock) UpdateCommentCalls() []struct {
	CommentID model.ID
	Req       model.UpdateCommentRequest
} {
	mock.lockUpdateComment.RLock()
	calls := mock.calls.UpdateComment
	mock.lockUpdateComment.RUnlock()
	return calls
}

func (mock *commentGatewayMock) DeleteComment(ctx context.Context, commentID model.ID) error {
	if mock.DeleteCommentFunc == nil {
		panic("commentGatewayMock.DeleteCommentFunc: method is nil but CommentGateway.DeleteComment was just called")
	}
	callInfo := struct{ CommentID model.ID }{CommentID: commentID}
	mock.lockDeleteComment.Lock()
	mock.calls.DeleteComment = append(mock.calls.DeleteComment, callInfo)
	mock.lockDeleteComment.Unlock()
	return mock.DeleteCommentFunc(ctx, commentID)
}

func (mock *commentGatewayMock) DeleteCommentCalls() []struct{ CommentID model.ID } {
	mock.lockDeleteComment.RLock()
	calls := mock.calls.DeleteComment
	mock.lockDeleteComment.RUnlock()
	return calls
}

var _ BookingGateway = &bookingGatewayMock{}

type bookingGatewayMock struct {
	GetEventFunc          func(ctx context.Context, eventID model.ID) (*model.Event, error)
	ReserveFunc           func(ctx context.Context, eventID model.ID) error
	CancelReservationFunc func(ctx context.Context, eventID model.ID) error

	calls struct {
		GetEvent []struct {
			EventID model.ID
		}
		Reserve []struct {
			EventID model.ID
		}
		CancelReservation []struct {
			EventID model.ID
		}
	}
	lockGetEvent          sync.RWMutex
	lockReserve           sync.RWMutex
	lockCancelReservation sync.RWMutex
}

func (mock *bookingGatewayMock) GetEvent(ctx context.Context, eventID model.ID) (*model.Event, error) {
	if mock.GetEventFunc == nil {
		panic("bookingGatewayMock.GetEventFunc: method is nil but BookingGateway.GetEvent was just called")
	}
	callInfo := struct{ EventID model.ID }{EventID: eventID}
	mock.lockGetEvent.Lock()
	mock.calls.GetEvent = append(mock.calls.GetEvent, callInfo)
	mock.lockGetEvent.Unlock()
	return mock.GetEventFunc(ctx, eventID)
}

func (mock *bookingGatewayMock) GetEventCalls() []struct{ EventID model.ID } {
	mock.lockGetEvent.RLock()
	calls := mock.calls.GetEvent
	mock.lockGetEvent.RUnlock()
	return calls
}

func (mock *bookingGatewayMock) Reserve(ctx context.Context, eventID model.ID) error {
	if mock.ReserveFunc == nil {
		panic("bookingGatewayMock.ReserveFunc: method is nil but BookingGateway.Reserve was just called")
	}
	callInfo := struct{ EventID model.ID }{EventID: eventID}
	mock.lockReserve.Lock()
	mock.calls.Reserve = append(mock.calls.Reserve, callInfo)
	mock.lockReserve.Unlock()
	return mock.ReserveFunc(ctx, eventID)
}

func (mock *bookingGatewayMock) ReserveCalls() []struct{ EventID model.ID } {
	mock.lockReserve.RLock()
	calls := mock.calls.Reserve
	mock.lockReserve.RUnlock()
	return calls
}

func (mock *bookingGatewayMock) CancelReservation(ctx context.Context, eventID model.ID) error {
	if mock.CancelReservationFunc == nil {
		panic("bookingGatewayMock.CancelReservationFunc: method is nil but BookingGateway.CancelReservation was just called")
	}
	callInfo := struct{ EventID model.ID }{EventID: eventID}
	mock.lockCancelReservation.Lock()
	mock.calls.CancelReservation = append(mock.calls.CancelReservation, callInfo)
	mock.lockCancelReservation.Unlock()
	return mock.CancelReservationFunc(ctx, eventID)
}

func (mock *bookingGatewayMock) CancelReservationCalls() []struct{ EventID model.ID } {
	mock.lockCancelReservation.RLock()
	calls := mock.calls.CancelReservation
	mock.lockCancelReservation.RUnlock()
	return calls
}
