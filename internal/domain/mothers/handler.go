package mothers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mochcare/mochcare/internal/platform/auth"
	"github.com/mochcare/mochcare/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Read endpoints – midwife, supervisor
	readGroup := api.Group("", auth.RequireRole(auth.RoleMidwife, auth.RoleSupervisor))
	readGroup.GET("/mothers", h.ListMothers)
	readGroup.GET("/mothers/:id", h.GetMother)
	readGroup.GET("/mothers/:id/summary", h.GetSummary)
	readGroup.GET("/mothers/:id/timeline", h.GetTimeline)
	readGroup.GET("/mothers/:id/export", h.ExportMother)
	readGroup.GET("/mothers/:id/visits", h.ListVisits)
	readGroup.GET("/mothers/:id/deliveries", h.ListDeliveries)
	readGroup.GET("/visits/:id", h.GetVisit)
	readGroup.GET("/deliveries/:id", h.GetDelivery)

	// Write endpoints – midwife
	writeGroup := api.Group("", auth.RequireRole(auth.RoleMidwife))
	writeGroup.POST("/mothers", h.RegisterMother)
	writeGroup.PUT("/mothers/:id", h.UpdateMother)
	writeGroup.POST("/mothers/:id/visits", h.RecordVisit)
	writeGroup.PUT("/visits/:id", h.UpdateVisit)
	writeGroup.DELETE("/visits/:id", h.DeleteVisit)
	writeGroup.POST("/mothers/:id/deliveries", h.RecordDelivery)
	writeGroup.PUT("/deliveries/:id", h.UpdateDelivery)
	writeGroup.DELETE("/deliveries/:id", h.DeleteDelivery)
}

// VisitRequest carries calendar dates as YYYY-MM-DD.
type VisitRequest struct {
	FacilityID    uuid.UUID `json:"facility_id"`
	VisitDate     string    `json:"visit_date"`
	VisitType     string    `json:"visit_type"`
	Notes         *string   `json:"notes"`
	NextVisitDate string    `json:"next_visit_date"`
}

func (r VisitRequest) toVisit() (*Visit, error) {
	v := &Visit{FacilityID: r.FacilityID, VisitType: r.VisitType, Notes: r.Notes}
	var err error
	if v.VisitDate, err = parseDate("visit_date", r.VisitDate); err != nil {
		return nil, err
	}
	next, err := parseDate("next_visit_date", r.NextVisitDate)
	if err != nil {
		return nil, err
	}
	if !next.IsZero() {
		v.NextVisitDate = &next
	}
	return v, nil
}

type DeliveryRequest struct {
	FacilityID   uuid.UUID `json:"facility_id"`
	DeliveryDate string    `json:"delivery_date"`
	Outcome      string    `json:"outcome"`
	Notes        *string   `json:"notes"`
}

func (r DeliveryRequest) toDelivery() (*Delivery, error) {
	date, err := parseDate("delivery_date", r.DeliveryDate)
	if err != nil {
		return nil, err
	}
	return &Delivery{FacilityID: r.FacilityID, DeliveryDate: date, Outcome: r.Outcome, Notes: r.Notes}, nil
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalid, field)
	}
	return t, nil
}

// -- Mother Handlers --

func (h *Handler) RegisterMother(c echo.Context) error {
	var m Mother
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RegisterMother(c.Request().Context(), &m); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMother(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.GetMother(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListMothers(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := MotherFilter{Query: c.QueryParam("q")}
	if c.QueryParam("mine") == "true" {
		f.RegisteredBy = auth.UserIDFromContext(c.Request().Context())
	}
	items, total, err := h.svc.ListMothers(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateMother(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var m Mother
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	if err := h.svc.UpdateMother(c.Request().Context(), &m); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) GetSummary(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	s, err := h.svc.Summary(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) GetTimeline(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	events, err := h.svc.Timeline(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"events": events})
}

func (h *Handler) ExportMother(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var buf bytes.Buffer
	name, err := h.svc.Export(c.Request().Context(), id, &buf)
	if err != nil {
		return httpError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// -- Visit Handlers --

func (h *Handler) RecordVisit(c echo.Context) error {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req VisitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := req.toVisit()
	if err != nil {
		return httpError(err)
	}
	v.MotherID = motherID
	if err := h.svc.RecordVisit(c.Request().Context(), v); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) GetVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	v, err := h.svc.GetVisit(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) UpdateVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req VisitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := req.toVisit()
	if err != nil {
		return httpError(err)
	}
	v.ID = id
	if err := h.svc.UpdateVisit(c.Request().Context(), v); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) DeleteVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteVisit(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListVisits(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListVisits(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": items, "total": len(items)})
}

// -- Delivery Handlers --

func (h *Handler) RecordDelivery(c echo.Context) error {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req DeliveryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := req.toDelivery()
	if err != nil {
		return httpError(err)
	}
	d.MotherID = motherID
	if err := h.svc.RecordDelivery(c.Request().Context(), d); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDelivery(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDelivery(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) UpdateDelivery(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req DeliveryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := req.toDelivery()
	if err != nil {
		return httpError(err)
	}
	d.ID = id
	if err := h.svc.UpdateDelivery(c.Request().Context(), d); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDelivery(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteDelivery(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListDeliveries(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListDeliveries(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": items, "total": len(items)})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDuplicateRegistration):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrMotherNotFound), errors.Is(err, ErrVisitNotFound), errors.Is(err, ErrDeliveryNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}
