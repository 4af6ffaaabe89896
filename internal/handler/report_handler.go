package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-catalog-api/internal/service"
	"github.com/noah-isme/course-catalog-api/pkg/response"
)

// ReportHandler serves the registration report.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// CourseRegistrations godoc
// @Summary Registration totals per active course
// @Tags Reports
// @Produce json
// @Param format query string false "Export format: csv or pdf"
// @Success 200 {object} response.Envelope
// @Router /reports/registrations [get]
func (h *ReportHandler) CourseRegistrations(c *gin.Context) {
	switch c.Query("format") {
	case "csv":
		payload, err := h.service.ExportCSV(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="course-registrations.csv"`)
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := h.service.ExportPDF(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="course-registrations.pdf"`)
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		rows, err := h.service.CourseRegistrationReport(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, rows, nil)
	}
}
