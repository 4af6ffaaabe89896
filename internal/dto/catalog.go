package dto

import "github.com/noah-isme/course-catalog-api/internal/models"

// CategoryWithCourses pairs a category with its capped slice of active
// courses for the landing-page feed.
type CategoryWithCourses struct {
	Category models.Category `json:"category"`
	Courses  []models.Course `json:"courses"`
}

// CatalogFeed is the composed landing-page payload. TotalActiveCourses
// counts every active course system-wide, independent of the per-category
// cap.
type CatalogFeed struct {
	Categories         []CategoryWithCourses `json:"categories"`
	TotalActiveCourses int                   `json:"total_active_courses"`
}
