package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smart-college/college-api/internal/models"
	"github.com/smart-college/college-api/internal/service"
	appErrors "github.com/smart-college/college-api/pkg/errors"
	"github.com/smart-college/college-api/pkg/response"
)

// DashboardHandler exposes the role-scoped dashboard endpoint.
type DashboardHandler struct {
	service *service.DashboardService
	users   *service.UserService
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc *service.DashboardService, users *service.UserService) *DashboardHandler {
	return &DashboardHandler{service: svc, users: users}
}

// Get godoc
// @Summary Dashboard for the calling role
// @Description Admins get institution-wide counts, teachers their teaching load,
// @Description students their personal snapshot.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c, h.users)
	if !ok {
		return
	}
	var (
		data interface{}
		err  error
	)
	switch actor.Role {
	case models.RoleAdmin:
		data, err = h.service.Admin(c.Request.Context(), actor)
	case models.RoleTeacher:
		data, err = h.service.Teacher(c.Request.Context(), actor)
	case models.RoleStudent:
		data, err = h.service.Student(c.Request.Context(), actor)
	default:
		err = appErrors.Clone(appErrors.ErrForbidden, "no dashboard for role")
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, data, nil)
}
