package model

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state shared by fitting requests and swing analyses.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusPrepping  Status = "prepping"
	StatusScheduled Status = "scheduled"
	StatusCanceled  Status = "canceled"
	StatusCompleted Status = "completed"
)

// StatusSet is the closed set of statuses a record kind accepts.
type StatusSet []Status

var (
	FittingStatuses = StatusSet{StatusSubmitted, StatusPrepping, StatusScheduled, StatusCanceled, StatusCompleted}
	SwingStatuses   = StatusSet{StatusSubmitted, StatusScheduled, StatusCompleted, StatusCanceled}
)

// InvalidStatusError reports a status outside the set.
type InvalidStatusError struct {
	Raw     string
	Allowed StatusSet
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("Invalid status. Must be one of: %s", e.Allowed)
}

// Parse is the only place a raw status string becomes a Status.
func (s StatusSet) Parse(raw string) (Status, error) {
	for _, st := range s {
		if string(st) == raw {
			return st, nil
		}
	}
	return "", &InvalidStatusError{Raw: raw, Allowed: s}
}

func (s StatusSet) Contains(st Status) bool {
	_, err := s.Parse(string(st))
	return err == nil
}

func (s StatusSet) String() string {
	parts := make([]string, len(s))
	for i, st := range s {
		parts[i] = string(st)
	}
	return strings.Join(parts, ", ")
}

// ProgressStep labels a fitting progress entry: any fitting status, or
// StepRescheduled.
type ProgressStep string

const StepRescheduled ProgressStep = "rescheduled"

func StepFor(s Status) ProgressStep { return ProgressStep(s) }
