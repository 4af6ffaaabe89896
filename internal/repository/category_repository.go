package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-catalog-api/internal/models"
)

// CategoryRepository handles persistence for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new repository instance.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns categories matching filters with pagination metadata, sorted
// by display order for the admin grid.
func (r *CategoryRepository) List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error) {
	base := "FROM categories WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(code) LIKE $%d OR LOWER(name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, name, code, color, sort_order, created_at %s ORDER BY sort_order ASC, id ASC LIMIT %d OFFSET %d", base, size, offset)
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	return categories, total, nil
}

// ListOrdered returns all categories ascending by display order.
func (r *CategoryRepository) ListOrdered(ctx context.Context) ([]models.Category, error) {
	const query = `SELECT id, name, code, color, sort_order, created_at FROM categories ORDER BY sort_order ASC, id ASC`
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list ordered categories: %w", err)
	}
	return categories, nil
}

// ListWithActiveCourses returns distinct categories that have at least one
// ACTIVE course whose category name matches, ordered by display order and
// capped to limit. The name join is case-insensitive; the feed composer
// filters case-sensitively on purpose, keep the two apart.
func (r *CategoryRepository) ListWithActiveCourses(ctx context.Context, limit int) ([]models.Category, error) {
	if limit <= 0 {
		limit = 9
	}
	const query = `SELECT DISTINCT c.id, c.name, c.code, c.color, c.sort_order, c.created_at
        FROM categories c
        INNER JOIN courses co ON LOWER(co.category) = LOWER(c.name)
        WHERE co.status = $1
        ORDER BY c.sort_order ASC, c.id ASC
        LIMIT $2`
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query, models.CourseStatusActive, limit); err != nil {
		return nil, fmt.Errorf("list categories with active courses: %w", err)
	}
	return categories, nil
}

// FindByID returns a category by id.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	const query = `SELECT id, name, code, color, sort_order, created_at FROM categories WHERE id = $1`
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, err
	}
	return &category, nil
}

// ExistsByCode checks uniqueness of category code.
func (r *CategoryRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM categories WHERE code = $1"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check category code: %w", err)
	}
	return true, nil
}

// Create persists a new category. A unique violation on the code constraint
// is surfaced as the conflict error.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO categories (id, name, code, color, sort_order, created_at) VALUES (:id, :name, :code, :color, :sort_order, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		if conflict := conflictFromConstraint(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update modifies a category in place. CreatedAt is immutable.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	const query = `UPDATE categories SET name = :name, code = :code, color = :color, sort_order = :sort_order WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		if conflict := conflictFromConstraint(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category record. Nothing cascades: courses reference
// categories by name only.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
