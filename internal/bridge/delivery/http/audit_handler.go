package http

import (
	"net/http"
	"strconv"

	"openalgo-sheets/internal/bridge/dto"
	"openalgo-sheets/internal/bridge/service"
	"openalgo-sheets/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// AuditHandler handles HTTP requests for the API call audit log.
type AuditHandler struct {
	audit  service.AuditService
	logger *logger.Logger
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audit service.AuditService, logger *logger.Logger) *AuditHandler {
	return &AuditHandler{audit: audit, logger: logger}
}

// RegisterRoutes registers the audit routes to the Echo group.
func (h *AuditHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/calls", h.GetCalls)
	g.GET("/calls/last", h.GetLastCall)
}

// GetCalls returns the most recent API calls, newest first.
func (h *AuditHandler) GetCalls(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	calls, err := h.audit.Latest(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get audit log", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get audit log"})
	}
	return c.JSON(http.StatusOK, calls)
}

// GetLastCall returns the single most recent API call.
func (h *AuditHandler) GetLastCall(c echo.Context) error {
	call, err := h.audit.Last(c.Request().Context())
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "No requests made yet"})
		}
		h.logger.Error("Failed to get last audit entry", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get last audit entry"})
	}
	return c.JSON(http.StatusOK, call)
}
