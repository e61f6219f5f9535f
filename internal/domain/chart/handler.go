package chart

import (
	"errors"
	"net/http"
	"time"

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
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

type createRequest struct {
	PatientID       string          `json:"patient_id"`
	Tooth           int             `json:"tooth"`
	Date            *string         `json:"date"`
	ReferringDoctor *string         `json:"referring_doctor"`
	ConsultReason   *string         `json:"consult_reason"`
	History         *string         `json:"history"`
	Causes          CauseFlags      `json:"causes"`
	Pain            PainDescriptors `json:"pain"`
	Zone            PeriapicalZone  `json:"zone"`
	Periodontal     PeriodontalExam `json:"periodontal"`
	Chamber         ChamberFindings `json:"chamber"`
	FailureCauses   *FailureCauses  `json:"failure_causes"`
}

func (h *Handler) create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}

	in := CreateInput{
		PatientID:       patientID,
		Tooth:           req.Tooth,
		ReferringDoctor: req.ReferringDoctor,
		ConsultReason:   req.ConsultReason,
		History:         req.History,
		Causes:          req.Causes,
		Pain:            req.Pain,
		Zone:            req.Zone,
		Periodontal:     req.Periodontal,
		Chamber:         req.Chamber,
		FailureCauses:   req.FailureCauses,
	}
	if req.Date != nil {
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
		in.Date = d
	}

	ch, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, ch)
}

func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c)

	var patientID *uuid.UUID
	if v := c.QueryParam("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		patientID = &id
	}

	items, total, err := h.svc.List(c.Request().Context(), patientID, p.Limit, p.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chart id")
	}
	ch, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *Handler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chart id")
	}
	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ch, err := h.svc.Update(c.Request().Context(), id, patch)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *Handler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chart id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPatientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTooth),
		errors.Is(err, ErrInvalidMobility),
		errors.Is(err, ErrNoChanges):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
