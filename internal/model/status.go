package model

// Status values persisted by the upstream API (backend vocabulary).
const (
	BackendStatusScheduled   = "agendada"
	BackendStatusConfirmed   = "confirmada"
	BackendStatusCancelled   = "cancelada"
	BackendStatusCompleted   = "realizada"
	BackendStatusRescheduled = "remarcada"
)

// Status is the portal's internal lifecycle category for an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// StatusFromBackend translates an upstream status into the internal
// vocabulary. Total: unrecognized values map to pending.
func StatusFromBackend(s string) Status {
	switch s {
	case BackendStatusScheduled:
		return StatusPending
	case BackendStatusConfirmed:
		return StatusAccepted
	case BackendStatusCancelled:
		return StatusRejected
	case BackendStatusCompleted:
		return StatusCompleted
	default:
		return StatusPending
	}
}

// Backend translates the internal status into the upstream vocabulary.
// Total: unrecognized values, including pending, map to agendada. The
// round-trip through StatusFromBackend is lossy for unknown inputs; that
// asymmetry is intentional.
func (s Status) Backend() string {
	switch s {
	case StatusAccepted:
		return BackendStatusConfirmed
	case StatusRejected:
		return BackendStatusCancelled
	case StatusCompleted:
		return BackendStatusCompleted
	default:
		return BackendStatusScheduled
	}
}
