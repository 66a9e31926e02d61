package emergency

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthfolio/healthfolio/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/emergency-profile", h.Get)
	api.PUT("/emergency-profile", h.Put)
	api.DELETE("/emergency-profile", h.Delete)
}

func ownerID(c echo.Context) (uuid.UUID, error) {
	uid := auth.UserIDFromContext(c.Request().Context())
	id, err := uuid.Parse(uid)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}

func (h *Handler) Get(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), owner)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "emergency profile not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Put(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var p Profile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.OwnerID = owner
	if err := h.svc.Put(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), owner); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
