package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/course-catalog-api/internal/dto"
	appErrors "github.com/noah-isme/course-catalog-api/pkg/errors"
	"github.com/noah-isme/course-catalog-api/pkg/export"
)

type reportRepository interface {
	CourseRegistrationReport(ctx context.Context) ([]dto.CourseRegistrationReportRow, error)
}

// ReportService computes read-only registration aggregates.
type ReportService struct {
	repo   reportRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewReportService constructs a report service.
func NewReportService(repo reportRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:   repo,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// CourseRegistrationReport returns registration totals per active course,
// most registered first. Inactive courses and their registrations are
// excluded entirely.
func (s *ReportService) CourseRegistrationReport(ctx context.Context) ([]dto.CourseRegistrationReportRow, error) {
	rows, err := s.repo.CourseRegistrationReport(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build registration report")
	}
	if rows == nil {
		rows = []dto.CourseRegistrationReportRow{}
	}
	return rows, nil
}

// ExportCSV renders the report as CSV bytes.
func (s *ReportService) ExportCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.CourseRegistrationReport(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := s.csv.Render(reportTable(rows))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export report as csv")
	}
	return payload, nil
}

// ExportPDF renders the report as PDF bytes.
func (s *ReportService) ExportPDF(ctx context.Context) ([]byte, error) {
	rows, err := s.CourseRegistrationReport(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := s.pdf.Render(reportTable(rows))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export report as pdf")
	}
	return payload, nil
}

func reportTable(rows []dto.CourseRegistrationReportRow) export.Table {
	table := export.Table{
		Title:   "Course Registration Report",
		Columns: []string{"Course", "Code", "Instructor", "Contact", "Registrations"},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.CourseName,
			row.CourseCode,
			row.InstructorName,
			row.InstructorContact,
			strconv.FormatInt(row.TotalRegistrations, 10),
		})
	}
	return table
}
