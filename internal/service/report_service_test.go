package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-catalog-api/internal/dto"
)

type mockReportRepo struct {
	rows []dto.CourseRegistrationReportRow
	err  error
}

func (m *mockReportRepo) CourseRegistrationReport(ctx context.Context) ([]dto.CourseRegistrationReportRow, error) {
	return m.rows, m.err
}

func TestCourseRegistrationReportEmpty(t *testing.T) {
	svc := NewReportService(&mockReportRepo{}, nil)

	rows, err := svc.CourseRegistrationReport(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestCourseRegistrationReportRows(t *testing.T) {
	repo := &mockReportRepo{rows: []dto.CourseRegistrationReportRow{
		{CourseName: "Go Basics", CourseCode: "go-basics", InstructorName: "Paulo", InstructorContact: "Paulo", TotalRegistrations: 12},
		{CourseName: "Docker", CourseCode: "docker", InstructorName: "Ana", InstructorContact: "Ana", TotalRegistrations: 5},
	}}
	svc := NewReportService(repo, nil)

	rows, err := svc.CourseRegistrationReport(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(12), rows[0].TotalRegistrations)
}

func TestReportExportCSV(t *testing.T) {
	repo := &mockReportRepo{rows: []dto.CourseRegistrationReportRow{
		{CourseName: "Go Basics", CourseCode: "go-basics", InstructorName: "Paulo", InstructorContact: "Paulo", TotalRegistrations: 12},
	}}
	svc := NewReportService(repo, nil)

	payload, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	out := string(payload)
	assert.Contains(t, out, "Course,Code,Instructor,Contact,Registrations")
	assert.Contains(t, out, "Go Basics,go-basics,Paulo,Paulo,12")
}

func TestReportExportPDF(t *testing.T) {
	repo := &mockReportRepo{rows: []dto.CourseRegistrationReportRow{
		{CourseName: "Go Basics", CourseCode: "go-basics", InstructorName: "Paulo", InstructorContact: "Paulo", TotalRegistrations: 12},
	}}
	svc := NewReportService(repo, nil)

	payload, err := svc.ExportPDF(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
	assert.Equal(t, "%PDF", string(payload[:4]))
}
