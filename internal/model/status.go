package model

// ListStatus is the lifecycle of the comment list.
type ListStatus string

const (
	ListLoading ListStatus = "loading"
	ListLoaded  ListStatus = "loaded"
	ListError   ListStatus = "error"
)

// OperationStatus is the lifecycle of one write operation kind.
type OperationStatus string

const (
	StatusIdle    OperationStatus = "idle"
	StatusLoading OperationStatus = "loading"
	StatusSuccess OperationStatus = "success"
	StatusError   OperationStatus = "error"
)

// BookingPhase is the observable booking state of a single event.
type BookingPhase string

const (
	PhaseAvailable       BookingPhase = "available"
	PhaseUnavailable     BookingPhase = "unavailable"
	PhaseConflictPending BookingPhase = "conflict-pending"
	PhaseReserving       BookingPhase = "reserving"
	PhaseCancelling      BookingPhase = "cancelling"
)

// PhaseFor maps an availability flag to its resting phase.
func PhaseFor(available bool) BookingPhase {
	if available {
		return PhaseAvailable
	}
	return PhaseUnavailable
}
