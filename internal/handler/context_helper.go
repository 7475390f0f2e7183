package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smart-college/college-api/internal/middleware"
	"github.com/smart-college/college-api/internal/models"
	"github.com/smart-college/college-api/internal/service"
	appErrors "github.com/smart-college/college-api/pkg/errors"
	"github.com/smart-college/college-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// requireActor resolves the caller's claims into a full Actor, writing the
// error response itself on failure.
func requireActor(c *gin.Context, users *service.UserService) (models.Actor, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Actor{}, false
	}
	actor, err := users.ResolveActor(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return models.Actor{}, false
	}
	return actor, true
}

func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}
	return &parsed, nil
}

func parseQueryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
