package order

import (
	"fmt"

	"github.com/Bhaskar-Manepalli/smartshop-backend/internal/apperr"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// legalTransitions is the whole state machine:
// Pending -> Processing -> Shipped -> Delivered, with Cancelled reachable
// from Pending and Processing only. Delivered and Cancelled are terminal.
var legalTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// ParseStatus validates an externally supplied status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%q: %w", s, apperr.ErrInvalidStatus)
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range legalTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether a cancel is still legal from this status.
func (s Status) Cancellable() bool {
	return s == StatusPending || s == StatusProcessing
}
