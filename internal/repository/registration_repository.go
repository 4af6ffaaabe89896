package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-catalog-api/internal/dto"
	"github.com/noah-isme/course-catalog-api/internal/models"
)

// RegistrationRepository handles persistence of registrations.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Exists checks whether a registration exists for the (user, course) pair.
// A negative answer is advisory only; the unique constraint decides under
// concurrency.
func (r *RegistrationRepository) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	const query = `SELECT 1 FROM registrations WHERE user_id = $1 AND course_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, userID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check registration: %w", err)
	}
	return true, nil
}

// Create persists a new registration record. A unique violation on the
// (user_id, course_id) constraint surfaces as the conflict error.
func (r *RegistrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	if registration.RegistrationDate.IsZero() {
		registration.RegistrationDate = time.Now().UTC()
	}
	const query = `INSERT INTO registrations (id, user_id, course_id, registration_date)
        VALUES (:id, :user_id, :course_id, :registration_date)`
	if _, err := r.db.NamedExecContext(ctx, query, registration); err != nil {
		if conflict := conflictFromConstraint(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// ListByUserEmail returns registration details for one user.
func (r *RegistrationRepository) ListByUserEmail(ctx context.Context, email string) ([]models.RegistrationDetail, error) {
	const query = `SELECT r.id, r.user_id, r.course_id, r.registration_date,
        u.name AS user_name, u.email AS user_email, c.name AS course_name, c.code AS course_code
        FROM registrations r
        INNER JOIN users u ON u.id = r.user_id
        INNER JOIN courses c ON c.id = r.course_id
        WHERE u.email = $1
        ORDER BY r.registration_date DESC`
	var registrations []models.RegistrationDetail
	if err := r.db.SelectContext(ctx, &registrations, query, email); err != nil {
		return nil, fmt.Errorf("list registrations by user: %w", err)
	}
	return registrations, nil
}

// ListByCourseCode returns registration details for one course.
func (r *RegistrationRepository) ListByCourseCode(ctx context.Context, code string) ([]models.RegistrationDetail, error) {
	const query = `SELECT r.id, r.user_id, r.course_id, r.registration_date,
        u.name AS user_name, u.email AS user_email, c.name AS course_name, c.code AS course_code
        FROM registrations r
        INNER JOIN users u ON u.id = r.user_id
        INNER JOIN courses c ON c.id = r.course_id
        WHERE c.code = $1
        ORDER BY r.registration_date DESC`
	var registrations []models.RegistrationDetail
	if err := r.db.SelectContext(ctx, &registrations, query, code); err != nil {
		return nil, fmt.Errorf("list registrations by course: %w", err)
	}
	return registrations, nil
}

// CourseRegistrationReport aggregates registration totals per ACTIVE course,
// most registered first. Instructor contact mirrors the instructor column;
// courses carry no separate contact field.
func (r *RegistrationRepository) CourseRegistrationReport(ctx context.Context) ([]dto.CourseRegistrationReportRow, error) {
	const query = `SELECT c.name AS course_name,
        c.code AS course_code,
        c.instructor AS instructor_name,
        c.instructor AS instructor_contact,
        COUNT(r.id) AS total_registrations
        FROM registrations r
        INNER JOIN courses c ON c.id = r.course_id
        WHERE c.status = $1
        GROUP BY c.id, c.name, c.code, c.instructor
        ORDER BY total_registrations DESC`
	var rows []dto.CourseRegistrationReportRow
	if err := r.db.SelectContext(ctx, &rows, query, models.CourseStatusActive); err != nil {
		return nil, fmt.Errorf("course registration report: %w", err)
	}
	return rows, nil
}
