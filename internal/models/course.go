package models

import "time"

// CourseStatus represents the lifecycle of a course.
type CourseStatus string

// Possible course statuses.
const (
	CourseStatusActive   CourseStatus = "ACTIVE"
	CourseStatusInactive CourseStatus = "INACTIVE"
)

// Course is an offering with a unique code, an instructor, a category tag
// and a lifecycle status. Category is a name-based association to
// Category.Name, not a foreign key.
type Course struct {
	ID               string       `db:"id" json:"id"`
	Name             string       `db:"name" json:"name"`
	Code             string       `db:"code" json:"code"`
	Instructor       string       `db:"instructor" json:"instructor"`
	Category         string       `db:"category" json:"category"`
	Description      string       `db:"description" json:"description,omitempty"`
	Status           CourseStatus `db:"status" json:"status"`
	InactivationDate *time.Time   `db:"inactivation_date" json:"inactivation_date,omitempty"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the course accepts new registrations.
func (c *Course) IsActive() bool {
	return c.Status == CourseStatusActive
}

// Inactivate transitions the course to INACTIVE, stamping the inactivation
// date. Invariant: status == INACTIVE iff InactivationDate != nil.
func (c *Course) Inactivate(now time.Time) {
	c.Status = CourseStatusInactive
	c.InactivationDate = &now
}

// Activate transitions the course back to ACTIVE and clears the
// inactivation date.
func (c *Course) Activate() {
	c.Status = CourseStatusActive
	c.InactivationDate = nil
}

// ApplyStatus drives the state machine from the general edit path. Unlike
// the dedicated inactivate operation, resubmitting the current status is a
// no-op success.
func (c *Course) ApplyStatus(status CourseStatus, now time.Time) {
	switch status {
	case CourseStatusActive:
		if c.Status != CourseStatusActive {
			c.Activate()
		}
	case CourseStatusInactive:
		if c.Status != CourseStatusInactive {
			c.Inactivate(now)
		}
	}
}

// CourseFilter captures criteria for the admin course listing.
type CourseFilter struct {
	Status   CourseStatus
	Category string
	Search   string
	Page     int
	PageSize int
}
