package delivery

import (
	"time"

	"quickgo/internal/core/domain/model/kernel"
)

// StatusChange is one append-only audit record of a delivery transition.
// Records are never mutated or deleted after creation. ChangedBy is nil for
// system-initiated transitions.
type StatusChange struct {
	id        kernel.UUID
	status    Status
	notes     string
	changedBy *kernel.UUID
	createdAt time.Time
}

// NewStatusChange creates an audit record for a transition into status.
func NewStatusChange(status Status, notes string, changedBy *kernel.UUID) StatusChange {
	return StatusChange{
		id:        kernel.NewUUID(),
		status:    status,
		notes:     notes,
		changedBy: changedBy,
		createdAt: time.Now().UTC(),
	}
}

// RestoreStatusChange reconstructs an audit record from persistence.
func RestoreStatusChange(
	id kernel.UUID, status Status, notes string, changedBy *kernel.UUID, createdAt time.Time,
) StatusChange {
	return StatusChange{
		id:        id,
		status:    status,
		notes:     notes,
		changedBy: changedBy,
		createdAt: createdAt,
	}
}

// ID returns the record's unique identifier.
func (c StatusChange) ID() kernel.UUID {
	return c.id
}

// Status returns the state the delivery transitioned into.
func (c StatusChange) Status() Status {
	return c.status
}

// Notes returns the free-text notes recorded with the transition.
func (c StatusChange) Notes() string {
	return c.notes
}

// ChangedBy returns the actor who triggered the transition, or nil when the
// transition was system-initiated.
func (c StatusChange) ChangedBy() *kernel.UUID {
	return c.changedBy
}

// CreatedAt returns when the transition was recorded.
func (c StatusChange) CreatedAt() time.Time {
	return c.createdAt
}
