package share

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthfolio/healthfolio/internal/platform/auth"
	"github.com/healthfolio/healthfolio/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the owner-facing management surface. All of these
// sit behind authentication.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/shares", h.Create)
	api.GET("/shares", h.List)
	api.GET("/shares/:id", h.Get)
	api.GET("/shares/:id/accesses", h.ListAccesses)
	api.POST("/shares/:id/revoke", h.Revoke)
	api.POST("/shares/:id/restore", h.Restore)
	api.POST("/shares/:id/activate", h.Activate)
	api.DELETE("/shares/:id", h.Delete)
}

// RegisterPublicRoutes wires the anonymous viewer surface the QR links
// point at. Each scope kind gets its own path prefix so a link's shape
// tells the viewer what to render before the payload arrives.
func (h *Handler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/r/:id", h.accessHandler(ScopeSingleRecord))
	g.GET("/b/:id", h.accessHandler(ScopeRecordSet))
	g.GET("/p/:id", h.accessHandler(ScopeLiveProfile))
}

func ownerID(c echo.Context) (uuid.UUID, error) {
	uid := auth.UserIDFromContext(c.Request().Context())
	id, err := uuid.Parse(uid)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}

// httpError maps the service error taxonomy onto distinct statuses so a
// viewer can tell "this link never existed" from "this link was shut off".
func httpError(err error) error {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "share not found")
	case errors.Is(err, ErrExpired):
		return echo.NewHTTPError(http.StatusGone, "share link has expired")
	case errors.Is(err, ErrRevoked):
		return echo.NewHTTPError(http.StatusForbidden, "share link has been revoked")
	case errors.Is(err, ErrInactive):
		return echo.NewHTTPError(http.StatusForbidden, "share link is not active")
	case errors.Is(err, ErrUnauthorized):
		return echo.NewHTTPError(http.StatusForbidden, "not the owner of this share")
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Msg)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

type createShareRequest struct {
	ScopeKind  ScopeKind   `json:"scope_kind"`
	RecordIDs  []uuid.UUID `json:"record_ids,omitempty"`
	TTLMinutes *int        `json:"ttl_minutes,omitempty"`
	Label      *string     `json:"label,omitempty"`
}

type shareResponse struct {
	*Token
	ShareURL  string      `json:"share_url"`
	RecordIDs []uuid.UUID `json:"record_ids,omitempty"`
}

func (h *Handler) Create(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req createShareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p := IssueParams{
		OwnerID:   owner,
		ScopeKind: req.ScopeKind,
		RecordIDs: req.RecordIDs,
		Label:     req.Label,
	}
	if req.TTLMinutes != nil {
		ttl := time.Duration(*req.TTLMinutes) * time.Minute
		p.TTL = &ttl
	}
	t, err := h.svc.Issue(c.Request().Context(), p)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, shareResponse{Token: t, ShareURL: h.svc.ShareURL(t)})
}

func (h *Handler) List(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	tokens, total, err := h.svc.ListByOwner(c.Request().Context(), owner, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	out := make([]shareResponse, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, shareResponse{Token: t, ShareURL: h.svc.ShareURL(t)})
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(out, total, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	t, recordIDs, err := h.svc.GetForOwner(c.Request().Context(), id, owner)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, shareResponse{Token: t, ShareURL: h.svc.ShareURL(t), RecordIDs: recordIDs})
}

func (h *Handler) ListAccesses(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	events, total, err := h.svc.ListAccessHistory(c.Request().Context(), id, owner, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(events, total, pg.Limit, pg.Offset))
}

func (h *Handler) Revoke(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Revoke(c.Request().Context(), id, owner); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type restoreRequest struct {
	TTLMinutes *int `json:"ttl_minutes,omitempty"`
}

func (h *Handler) Restore(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req restoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ttl := DefaultTTL
	if req.TTLMinutes != nil {
		ttl = time.Duration(*req.TTLMinutes) * time.Minute
	}
	t, err := h.svc.Restore(c.Request().Context(), id, owner, ttl)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, shareResponse{Token: t, ShareURL: h.svc.ShareURL(t)})
}

type activateRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) Activate(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req activateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetActive(c.Request().Context(), id, owner, req.Active); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Delete(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id, owner); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// accessHandler serves one public scope prefix. A valid token fetched
// through the wrong prefix is treated as not found rather than hinting at
// what kind of share the id belongs to.
func (h *Handler) accessHandler(kind ScopeKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "share not found")
		}
		var requestor *uuid.UUID
		if uid, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context())); err == nil {
			requestor = &uid
		}
		grant, err := h.svc.Access(c.Request().Context(), id, requestor)
		if err != nil {
			return httpError(err)
		}
		if grant.ScopeKind != kind {
			return echo.NewHTTPError(http.StatusNotFound, "share not found")
		}
		return c.JSON(http.StatusOK, grant)
	}
}
