package repository

import (
	"errors"

	"github.com/lib/pq"

	appErrors "github.com/noah-isme/course-catalog-api/pkg/errors"
)

// Constraint names declared in migrations/0001_init.sql. The database is the
// authority on uniqueness: a read-then-write existence check alone would race
// under concurrent transactions on the same key.
const (
	constraintCategoryCode       = "categories_code_key"
	constraintCourseCode         = "courses_code_key"
	constraintUserEmail          = "users_email_key"
	constraintRegistrationUnique = "registrations_user_id_course_id_key"
)

const pqUniqueViolation = "23505"

// conflictFromConstraint maps a unique-violation to the field-level conflict
// error callers surface to forms. Returns nil when err is not a unique
// violation, so the caller falls through to generic wrapping.
func conflictFromConstraint(err error) *appErrors.Error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != pqUniqueViolation {
		return nil
	}
	switch pqErr.Constraint {
	case constraintCategoryCode, constraintCourseCode:
		return appErrors.WithField(appErrors.ErrConflict, "code", "code already exists")
	case constraintUserEmail:
		return appErrors.WithField(appErrors.ErrConflict, "email", "email already exists")
	case constraintRegistrationUnique:
		return appErrors.Clone(appErrors.ErrConflict, "user is already registered in this course")
	default:
		return appErrors.Clone(appErrors.ErrConflict, "")
	}
}
