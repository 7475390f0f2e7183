package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smart-college/college-api/internal/models"
	"github.com/smart-college/college-api/internal/service"
	appErrors "github.com/smart-college/college-api/pkg/errors"
	"github.com/smart-college/college-api/pkg/response"
)

// AttendanceHandler exposes the attendance ledger endpoints.
type AttendanceHandler struct {
	service *service.AttendanceService
	users   *service.UserService
}

// NewAttendanceHandler constructs an attendance handler.
func NewAttendanceHandler(svc *service.AttendanceService, users *service.UserService) *AttendanceHandler {
	return &AttendanceHandler{service: svc, users: users}
}

// Mark godoc
// @Summary Mark attendance for one student
// @Description Re-marking the same student, subject and date overwrites the prior record.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}
	record, err := h.service.Mark(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// MarkBulk godoc
// @Summary Mark attendance for a whole class sitting
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.BulkAttendanceRequest true "Bulk attendance payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/bulk [post]
func (h *AttendanceHandler) MarkBulk(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	var req service.BulkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk attendance payload"))
		return
	}
	marked, err := h.service.MarkBulk(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"marked": marked}, nil)
}

// List godoc
// @Summary List attendance records
// @Description Students are scoped to their own records regardless of filters.
// @Tags Attendance
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param subject_id query string false "Filter by subject"
// @Param class_id query string false "Filter by class"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "invalid from date, expected YYYY-MM-DD"))
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "invalid to date, expected YYYY-MM-DD"))
		return
	}
	filter := models.AttendanceFilter{
		StudentID: c.Query("student_id"),
		SubjectID: c.Query("subject_id"),
		ClassID:   c.Query("class_id"),
		DateFrom:  from,
		DateTo:    to,
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "limit", 50),
	}
	records, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Percentage godoc
// @Summary Attendance percentage for a student
// @Tags Attendance
// @Produce json
// @Param student_id path string true "Student ID"
// @Param subject_id query string false "Restrict to one subject"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/percentage/{student_id} [get]
func (h *AttendanceHandler) Percentage(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "invalid from date, expected YYYY-MM-DD"))
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "invalid to date, expected YYYY-MM-DD"))
		return
	}
	pct, err := h.service.Percentage(c.Request.Context(), actor, c.Param("student_id"), c.Query("subject_id"), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pct, nil)
}
