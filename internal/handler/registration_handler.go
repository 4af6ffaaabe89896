package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-catalog-api/internal/service"
	appErrors "github.com/noah-isme/course-catalog-api/pkg/errors"
	"github.com/noah-isme/course-catalog-api/pkg/response"
)

// RegistrationHandler handles enrollment endpoints.
type RegistrationHandler struct {
	service *service.RegistrationService
}

// NewRegistrationHandler constructs a registration handler.
func NewRegistrationHandler(svc *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: svc}
}

// Register godoc
// @Summary Register a user into an active course
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body service.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	registration, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, registration)
}

// List godoc
// @Summary List registrations by user email or course code
// @Tags Registrations
// @Produce json
// @Param email query string false "User email"
// @Param course query string false "Course code"
// @Success 200 {object} response.Envelope
// @Router /registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	email := c.Query("email")
	course := c.Query("course")

	switch {
	case email != "":
		registrations, err := h.service.ListByUserEmail(c.Request.Context(), email)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, registrations, nil)
	case course != "":
		registrations, err := h.service.ListByCourseCode(c.Request.Context(), course)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, registrations, nil)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "email or course query parameter is required"))
	}
}
