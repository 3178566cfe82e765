package admin

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
	readGroup.GET("/districts", h.ListDistricts)
	readGroup.GET("/districts/:id", h.GetDistrict)
	readGroup.GET("/facilities", h.ListFacilities)
	readGroup.GET("/facilities/:id", h.GetFacility)
	readGroup.GET("/profiles/me", h.GetOwnProfile)
	readGroup.GET("/regions", h.ListRegions)

	// Write endpoints – admin only
	writeGroup := api.Group("", auth.RequireRole(auth.RoleAdmin))
	writeGroup.POST("/districts", h.CreateDistrict)
	writeGroup.PUT("/districts/:id", h.UpdateDistrict)
	writeGroup.DELETE("/districts/:id", h.DeleteDistrict)
	writeGroup.POST("/facilities", h.CreateFacility)
	writeGroup.PUT("/facilities/:id", h.UpdateFacility)
	writeGroup.DELETE("/facilities/:id", h.DeleteFacility)
	writeGroup.GET("/profiles", h.ListProfiles)
	writeGroup.GET("/profiles/:id", h.GetProfile)
	writeGroup.POST("/profiles", h.CreateProfile)
	writeGroup.PUT("/profiles/:id", h.UpdateProfile)
}

// -- District Handlers --

func (h *Handler) CreateDistrict(c echo.Context) error {
	var d District
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDistrict(c.Request().Context(), &d); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDistrict(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDistrict(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDistricts(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDistricts(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateDistrict(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var d District
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = id
	if err := h.svc.UpdateDistrict(c.Request().Context(), &d); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDistrict(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteDistrict(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListRegions(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"regions": Regions, "facility_types": FacilityTypes})
}

// -- Facility Handlers --

func (h *Handler) CreateFacility(c echo.Context) error {
	var f Facility
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateFacility(c.Request().Context(), &f); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) GetFacility(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	f, err := h.svc.GetFacility(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) ListFacilities(c echo.Context) error {
	pg := pagination.FromContext(c)
	var f FacilityFilter
	if v := c.QueryParam("district_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid district_id")
		}
		f.DistrictID = id
	}
	items, total, err := h.svc.ListFacilities(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateFacility(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var f Facility
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f.ID = id
	if err := h.svc.UpdateFacility(c.Request().Context(), &f); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) DeleteFacility(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteFacility(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Profile Handlers --

func (h *Handler) CreateProfile(c echo.Context) error {
	var p Profile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateProfile(c.Request().Context(), &p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetProfile(c echo.Context) error {
	p, err := h.svc.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetOwnProfile(c echo.Context) error {
	uid := auth.UserIDFromContext(c.Request().Context())
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}
	p, err := h.svc.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListProfiles(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := ProfileFilter{Role: c.QueryParam("role"), ActiveOnly: c.QueryParam("active") == "true"}
	if v := c.QueryParam("facility_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid facility_id")
		}
		f.FacilityID = id
	}
	items, total, err := h.svc.ListProfiles(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var p Profile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = c.Param("id")
	if err := h.svc.UpdateProfile(c.Request().Context(), &p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDuplicateCode), errors.Is(err, ErrInUse):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrDistrictNotFound), errors.Is(err, ErrFacilityNotFound), errors.Is(err, ErrProfileNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}
