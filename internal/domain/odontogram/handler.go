package odontogram

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.save)
	g.GET("/states", h.states)
	g.GET("/chart/:chartId", h.getByChart)
	g.GET("/chart/:chartId/tooth/:tooth", h.history)
	g.PUT("/:id", h.updateTooth)
	g.DELETE("/:id", h.deleteTooth)
}

type saveRequest struct {
	ChartID string       `json:"chart_id"`
	Teeth   []ToothInput `json:"teeth"`
}

func (h *Handler) save(c echo.Context) error {
	var req saveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	chartID, err := uuid.Parse(req.ChartID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chart_id")
	}

	recs, err := h.svc.Save(c.Request().Context(), chartID, req.Teeth)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, recs)
}

func (h *Handler) states(c echo.Context) error {
	return c.JSON(http.StatusOK, States)
}

func (h *Handler) getByChart(c echo.Context) error {
	chartID, err := uuid.Parse(c.Param("chartId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chart id")
	}
	o, err := h.svc.GetByChart(c.Request().Context(), chartID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) history(c echo.Context) error {
	chartID, err := uuid.Parse(c.Param("chartId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chart id")
	}
	tooth, err := strconv.Atoi(c.Param("tooth"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid tooth number")
	}

	recs, err := h.svc.History(c.Request().Context(), chartID, tooth)
	if err != nil {
		return mapError(err)
	}
	if recs == nil {
		recs = []*ToothRecord{}
	}
	return c.JSON(http.StatusOK, recs)
}

type updateToothRequest struct {
	State *string `json:"state"`
	Notes *string `json:"notes"`
}

func (h *Handler) updateTooth(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	var req updateToothRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rec, err := h.svc.UpdateTooth(c.Request().Context(), id, req.State, req.Notes)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) deleteTooth(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrChartNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoTeeth),
		errors.Is(err, ErrInvalidTooth),
		errors.Is(err, ErrInvalidQuadrant),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrNoChanges):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
