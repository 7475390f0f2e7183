package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smart-college/college-api/internal/service"
	"github.com/smart-college/college-api/pkg/response"
)

// PerformanceHandler exposes the performance trend endpoint.
type PerformanceHandler struct {
	service *service.PerformanceService
	users   *service.UserService
}

// NewPerformanceHandler constructs a performance handler.
func NewPerformanceHandler(svc *service.PerformanceService, users *service.UserService) *PerformanceHandler {
	return &PerformanceHandler{service: svc, users: users}
}

// Report godoc
// @Summary Performance trend for a student
// @Description Fits a linear trend over the student's chronological percentages and
// @Description projects the next three exams. Students may only view their own report.
// @Tags Performance
// @Produce json
// @Param student_id path string true "Student ID"
// @Param subject_id query string false "Restrict to one subject"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /performance/{student_id} [get]
func (h *PerformanceHandler) Report(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	report, err := h.service.Report(c.Request.Context(), actor, c.Param("student_id"), c.Query("subject_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
