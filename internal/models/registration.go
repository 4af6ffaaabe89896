package models

import "time"

// Registration records that a user enrolled in a course at a point in time.
// The (UserID, CourseID) pair is unique; the record is historical and does
// not change if the course is later inactivated.
type Registration struct {
	ID               string    `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"user_id"`
	CourseID         string    `db:"course_id" json:"course_id"`
	RegistrationDate time.Time `db:"registration_date" json:"registration_date"`
}

// RegistrationDetail enriches Registration with user and course info.
type RegistrationDetail struct {
	Registration
	UserName   string `db:"user_name" json:"user_name"`
	UserEmail  string `db:"user_email" json:"user_email"`
	CourseName string `db:"course_name" json:"course_name"`
	CourseCode string `db:"course_code" json:"course_code"`
}
