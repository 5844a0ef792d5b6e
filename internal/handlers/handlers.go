package handlers

import (
	"net/http"
	"strconv"

	"gigbook/internal/apperrors"
	"gigbook/internal/identity"
	"gigbook/internal/logger"
	"gigbook/internal/middleware"
	"gigbook/internal/models"
	"gigbook/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// principal extracts the authenticated principal; Auth middleware guarantees
// presence on protected routes.
func principal(c *gin.Context) identity.Principal {
	p, _ := middleware.PrincipalFromContext(c.Request.Context())
	return p
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "id must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, models.Response{Success: true, Data: data})
}

func respondList(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, models.Response{Success: true, Data: data, Count: &count})
}

// respondError maps the service error to an HTTP status via the sentinel
// taxonomy and logs server-side failures.
func respondError(c *gin.Context, err error) {
	status := apperrors.Status(err)
	if status >= 500 {
		logger.WithContext(c.Request.Context()).Error("Request failed",
			"error", err,
			"path", c.Request.URL.Path)
		c.JSON(status, models.Response{Success: false, Error: "Internal server error"})
		return
	}
	c.JSON(status, models.Response{Success: false, Error: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.Response{Success: false, Error: err.Error()})
}
