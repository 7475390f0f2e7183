package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smart-college/college-api/internal/models"
	"github.com/smart-college/college-api/internal/service"
	appErrors "github.com/smart-college/college-api/pkg/errors"
	"github.com/smart-college/college-api/pkg/response"
)

// ResultHandler exposes examination and result endpoints.
type ResultHandler struct {
	service *service.ResultService
	users   *service.UserService
}

// NewResultHandler constructs a result handler.
func NewResultHandler(svc *service.ResultService, users *service.UserService) *ResultHandler {
	return &ResultHandler{service: svc, users: users}
}

// CreateExam godoc
// @Summary Create an examination
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.ExamRequest true "Exam payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /exams [post]
func (h *ResultHandler) CreateExam(c *gin.Context) {
	var req service.ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid exam payload"))
		return
	}
	exam, err := h.service.CreateExam(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exam)
}

// GetExam godoc
// @Summary Get an examination
// @Tags Results
// @Produce json
// @Param id path string true "Examination ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /exams/{id} [get]
func (h *ResultHandler) GetExam(c *gin.Context) {
	exam, err := h.service.GetExam(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exam, nil)
}

// UpdateExam godoc
// @Summary Update an examination
// @Tags Results
// @Accept json
// @Produce json
// @Param id path string true "Examination ID"
// @Param payload body service.ExamRequest true "Exam payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /exams/{id} [put]
func (h *ResultHandler) UpdateExam(c *gin.Context) {
	var req service.ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid exam payload"))
		return
	}
	exam, err := h.service.UpdateExam(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exam, nil)
}

// DeleteExam godoc
// @Summary Delete an examination
// @Tags Results
// @Param id path string true "Examination ID"
// @Success 204 {object} nil
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /exams/{id} [delete]
func (h *ResultHandler) DeleteExam(c *gin.Context) {
	if err := h.service.DeleteExam(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListExams godoc
// @Summary List examinations
// @Tags Results
// @Produce json
// @Param class_id query string false "Filter by class"
// @Param subject_id query string false "Filter by subject"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /exams [get]
func (h *ResultHandler) ListExams(c *gin.Context) {
	exams, err := h.service.ListExams(c.Request.Context(), c.Query("class_id"), c.Query("subject_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exams, nil)
}

// EnterMarks godoc
// @Summary Enter or overwrite marks for a student in an exam
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.EnterMarksRequest true "Marks payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /results [post]
func (h *ResultHandler) EnterMarks(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	var req service.EnterMarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid marks payload"))
		return
	}
	result, err := h.service.EnterMarks(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// StudentResults godoc
// @Summary Results for one student
// @Description Students may only view their own results.
// @Tags Results
// @Produce json
// @Param student_id path string true "Student ID"
// @Param examination_id query string false "Filter by exam"
// @Param subject_id query string false "Filter by subject"
// @Param exam_type query string false "Filter by exam type"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /results/student/{student_id} [get]
func (h *ResultHandler) StudentResults(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	filter := models.ResultFilter{
		ExaminationID: c.Query("examination_id"),
		SubjectID:     c.Query("subject_id"),
		ExamType:      models.ExamType(c.Query("exam_type")),
	}
	results, err := h.service.StudentResults(c.Request.Context(), actor, c.Param("student_id"), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// ExamResults godoc
// @Summary All results for an examination
// @Tags Results
// @Produce json
// @Param id path string true "Examination ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /exams/{id}/results [get]
func (h *ResultHandler) ExamResults(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	results, err := h.service.ExamResults(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}
