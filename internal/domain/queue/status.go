package queue

import "github.com/BruksfildServices01/barberconnect/internal/httperr"

// ===============================
// Queue Entry Status
// ===============================

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusNoShow     Status = "no_show"
)

// ===============================
// Validations
// ===============================

var transitions = map[Status][]Status{
	StatusWaiting:    {StatusInProgress, StatusNoShow},
	StatusInProgress: {StatusDone, StatusNoShow},
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusWaiting, StatusInProgress, StatusDone, StatusNoShow:
		return st, nil
	}
	return "", httperr.ErrBusinessMsg("invalid_status", "Unknown queue status: "+s)
}

// CanTransition reports whether an entry in from may move to to.
func CanTransition(from, to Status) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrBusinessMsg(
		"invalid_transition",
		"Cannot move a "+string(from)+" entry to "+string(to)+".",
	)
}

// IsActive is true while the customer is still in the shop's queue.
func IsActive(s Status) bool {
	return s == StatusWaiting || s == StatusInProgress
}

func InitialStatus() Status {
	return StatusWaiting
}
