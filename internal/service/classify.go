package service

import (
	"strings"

	"github.com/Shivanand-hulikatti/eventdesk/internal/gateway"
)

// Structured reservation error codes.
const (
	CodeAlreadyBooked = "already_booked"
	CodeNoTickets     = "no_tickets_available"
)

// Detail substrings recognised for platforms that only send a message. These
// strings are part of the platform contract; do not reword them.
const (
	detailAlreadyBooked = "already booked"
	detailNoTickets     = "No tickets available"
)

type reserveFailure int

const (
	failureOther reserveFailure = iota
	failureAlreadyBooked
	failureSoldOut
)

// classifyReserveError sorts a reservation failure. A structured code wins
// over the detail text.
func classifyReserveError(err error) reserveFailure {
	apiErr, ok := gateway.AsAPIError(err)
	if !ok {
		return failureOther
	}

	switch apiErr.Code {
	case CodeAlreadyBooked:
		return failureAlreadyBooked
	case CodeNoTickets:
		return failureSoldOut
	case "":
	default:
		return failureOther
	}

	detail := strings.ToLower(apiErr.Detail)
	switch {
	case strings.Contains(detail, strings.ToLower(detailAlreadyBooked)):
		return failureAlreadyBooked
	case strings.Contains(detail, strings.ToLower(detailNoTickets)):
		return failureSoldOut
	default:
		return failureOther
	}
}
