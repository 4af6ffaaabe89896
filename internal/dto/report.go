package dto

// CourseRegistrationReportRow is one aggregated report entry: registration
// totals for an ACTIVE course.
type CourseRegistrationReportRow struct {
	CourseName         string `db:"course_name" json:"course_name"`
	CourseCode         string `db:"course_code" json:"course_code"`
	InstructorName     string `db:"instructor_name" json:"instructor_name"`
	InstructorContact  string `db:"instructor_contact" json:"instructor_contact"`
	TotalRegistrations int64  `db:"total_registrations" json:"total_registrations"`
}
