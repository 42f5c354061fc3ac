package domain

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusNotStarted Status = "not_started"
	StatusStarting   Status = "starting"
	StatusStarted    Status = "started"
	StatusCanceling  Status = "canceling"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
	StatusCanceled   Status = "canceled"

	// StatusScheduled marks a future tick that has not produced a run yet.
	StatusScheduled Status = "scheduled"
)

var knownStatuses = map[Status]struct{}{
	StatusQueued:     {},
	StatusNotStarted: {},
	StatusStarting:   {},
	StatusStarted:    {},
	StatusCanceling:  {},
	StatusSucceeded:  {},
	StatusFailed:     {},
	StatusCanceled:   {},
	StatusScheduled:  {},
}

// ParseStatus normalizes s ("SUCCESS", "Succeeded", "failure", ...) into a Status.
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "success":
		norm = string(StatusSucceeded)
	case "failure":
		norm = string(StatusFailed)
	case "cancelled":
		norm = string(StatusCanceled)
	case "cancelling":
		norm = string(StatusCanceling)
	}
	st := Status(norm)
	if _, ok := knownStatuses[st]; !ok {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, s)
	}
	return st, nil
}

// Terminal reports whether no further transitions are expected.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// InProgress reports whether the run is currently executing or winding down.
func (s Status) InProgress() bool {
	switch s {
	case StatusStarting, StatusStarted, StatusCanceling:
		return true
	}
	return false
}
