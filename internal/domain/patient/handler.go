package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/odontia/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/record/:recordNumber", h.getByRecordNumber)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

type createRequest struct {
	RecordNumber string  `json:"record_number"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Age          *int    `json:"age"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
}

func (h *Handler) create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	p, err := h.svc.Create(c.Request().Context(), CreateInput{
		RecordNumber: req.RecordNumber,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Age:          req.Age,
		Address:      req.Address,
		Phone:        req.Phone,
	})
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), c.QueryParam("search"), p.Limit, p.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) getByRecordNumber(c echo.Context) error {
	p, err := h.svc.GetByRecordNumber(c.Request().Context(), c.Param("recordNumber"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	p, err := h.svc.Update(c.Request().Context(), id, patch)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateRecord):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidRecord),
		errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrInvalidAge),
		errors.Is(err, ErrNoChanges):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
