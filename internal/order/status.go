package order

import "strings"

// Status is the fulfillment stage of an order. The string values match the
// rows stored in Postgres ("out for delivery" keeps its spaces).
type Status string

const (
	StatusPlaced         Status = "placed"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out for delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// nextStatuses is the whole lifecycle:
//
//	placed           -> preparing | out for delivery | cancelled
//	preparing        -> out for delivery | cancelled
//	out for delivery -> delivered | cancelled
//	delivered        -> (terminal)
//	cancelled        -> (terminal)
var nextStatuses = map[Status][]Status{
	StatusPlaced:         {StatusPreparing, StatusOutForDelivery, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// ParseStatus normalizes user input: trimmed, case-insensitive. The returned
// value is only meaningful for transition checks; an unknown string simply
// has no allowed transitions.
func ParseStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

func (s Status) Known() bool {
	_, ok := nextStatuses[s]
	return ok
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	next, ok := nextStatuses[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether s -> to is an allowed edge.
func (s Status) CanTransitionTo(to Status) bool {
	for _, n := range nextStatuses[s] {
		if n == to {
			return true
		}
	}
	return false
}
