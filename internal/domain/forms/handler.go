package forms

import (
	"errors"
	"net/http"

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
	// Read endpoints – every signed-in role
	readGroup := api.Group("", auth.RequireRole(auth.RoleMidwife, auth.RoleSupervisor))
	readGroup.GET("/forms", h.ListForms)
	readGroup.GET("/forms/slug", h.SuggestSlug)
	readGroup.GET("/forms/:id", h.GetForm)
	readGroup.GET("/forms/:id/render", h.RenderForm)
	readGroup.GET("/form-entries", h.ListEntries)
	readGroup.GET("/form-entries/:id", h.GetEntry)

	// Form design – admin only
	adminGroup := api.Group("", auth.RequireRole(auth.RoleAdmin))
	adminGroup.POST("/forms", h.CreateForm)
	adminGroup.POST("/forms/:id/duplicate", h.DuplicateForm)
	adminGroup.DELETE("/forms/:id", h.DeleteForm)

	// Data entry – midwives
	entryGroup := api.Group("", auth.RequireRole(auth.RoleMidwife))
	entryGroup.POST("/forms/:id/entries", h.SubmitEntry)
}

// -- Form Handlers --

func (h *Handler) CreateForm(c echo.Context) error {
	var req CreateFormRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f, err := h.svc.CreateForm(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) DuplicateForm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req DuplicateFormRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f, err := h.svc.DuplicateForm(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) DeleteForm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteForm(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetForm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	f, err := h.svc.GetForm(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) ListForms(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListForms(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) RenderForm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	f, controls, err := h.svc.RenderForm(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"form_id":  f.ID,
		"title":    f.Title,
		"slug":     f.Slug,
		"controls": controls,
	})
}

func (h *Handler) SuggestSlug(c echo.Context) error {
	title := c.QueryParam("title")
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	slug, available, err := h.svc.SuggestSlug(c.Request().Context(), title)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"slug":      slug,
		"available": available,
	})
}

// -- Entry Handlers --

func (h *Handler) SubmitEntry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req SubmitEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e, err := h.svc.SubmitEntry(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) GetEntry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.GetEntry(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ListEntries(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := EntryFilter{MotherID: c.QueryParam("mother_id")}
	if v := c.QueryParam("form_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid form_id")
		}
		f.FormID = id
	}
	items, total, err := h.svc.ListEntries(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type problemBody struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func httpError(err error) error {
	var vf *ValidationFailedError
	var missing *RequiredFieldMissingError
	var fe *FieldError
	var pe *PersistenceError

	switch {
	case errors.As(err, &vf):
		problems := make([]problemBody, len(vf.Problems))
		for i, p := range vf.Problems {
			problems[i] = problemBody{Field: p.Field, Message: p.Err.Error()}
		}
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"message": "validation failed",
			"errors":  problems,
		})
	case errors.As(err, &missing):
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"message": missing.Error(),
			"errors":  []problemBody{{Field: missing.FieldID, Message: "this field is required"}},
		})
	case errors.As(err, &fe):
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"message": fe.Error(),
			"errors":  []problemBody{{Field: fe.Field, Message: fe.Err.Error()}},
		})
	case errors.Is(err, ErrMissingSubject), errors.Is(err, ErrSubjectNotFound):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrFormNotFound), errors.Is(err, ErrEntryNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrFormInUse):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &pe):
		return echo.NewHTTPError(http.StatusInternalServerError, "storage failure, please retry").SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}
