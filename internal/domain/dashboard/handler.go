package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mochcare/mochcare/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	adminGroup := api.Group("/dashboard", auth.RequireRole(auth.RoleAdmin, auth.RoleSupervisor))
	adminGroup.GET("/admin", h.AdminStats)
	adminGroup.GET("/activity", h.Activity)

	midwifeGroup := api.Group("/dashboard", auth.RequireRole(auth.RoleMidwife))
	midwifeGroup.GET("/midwife", h.MidwifeStats)
}

func (h *Handler) AdminStats(c echo.Context) error {
	st, err := h.svc.AdminStats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load dashboard").SetInternal(err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) MidwifeStats(c echo.Context) error {
	uid := auth.UserIDFromContext(c.Request().Context())
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}
	st, err := h.svc.MidwifeStats(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load dashboard").SetInternal(err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) Activity(c echo.Context) error {
	items, err := h.svc.Activity(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load activity").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"months": items})
}
