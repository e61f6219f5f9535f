package scheduling

import (
	"errors"
	"net/http"
	"strconv"
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
	g.GET("/upcoming", h.upcoming)
	g.GET("/day/:date", h.listByDate)
	g.GET("/patient/:patientId", h.listByPatient)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.reschedule)
	g.PUT("/:id/status", h.setStatus)
	g.DELETE("/:id", h.delete)
}

type createRequest struct {
	PatientID string  `json:"patient_id"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Reason    *string `json:"reason"`
	Notes     *string `json:"notes"`
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
	date, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}
	start, err := ParseTimeOfDay(req.StartTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start_time, expected HH:MM")
	}
	end, err := ParseTimeOfDay(req.EndTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end_time, expected HH:MM")
	}

	a, err := h.svc.Create(c.Request().Context(), CreateInput{
		PatientID: patientID,
		Date:      date,
		Start:     start,
		End:       end,
		Reason:    req.Reason,
		Notes:     req.Notes,
	})
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

type rescheduleRequest struct {
	PatientID *string `json:"patient_id"`
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Status    *string `json:"status"`
	Reason    *string `json:"reason"`
	Notes     *string `json:"notes"`
}

func (h *Handler) reschedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	var req rescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	patch := Patch{Status: req.Status, Reason: req.Reason, Notes: req.Notes}
	if req.PatientID != nil {
		pid, err := uuid.Parse(*req.PatientID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		patch.PatientID = &pid
	}
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
		patch.Date = &d
	}
	if req.StartTime != nil {
		st, err := ParseTimeOfDay(*req.StartTime)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid start_time, expected HH:MM")
		}
		patch.Start = &st
	}
	if req.EndTime != nil {
		et, err := ParseTimeOfDay(*req.EndTime)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid end_time, expected HH:MM")
		}
		patch.End = &et
	}

	a, err := h.svc.Reschedule(c.Request().Context(), id, patch)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) setStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	a, err := h.svc.SetStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

// list returns appointments in an inclusive date range, defaulting to the
// current week when no bounds are given.
func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c)

	from := h.svc.Today()
	to := from.AddDate(0, 0, 7)
	var err error
	if v := c.QueryParam("from"); v != "" {
		if from, err = parseDate(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if to, err = parseDate(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
	}

	items, total, err := h.svc.ListByRange(c.Request().Context(), from, to, p.Limit, p.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) listByDate(c echo.Context) error {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}
	items, err := h.svc.ListByDate(c.Request().Context(), date)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) listByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, p.Limit, p.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) upcoming(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	items, err := h.svc.ListUpcoming(c.Request().Context(), days)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// mapError translates service errors into HTTP status codes.
func mapError(err error) error {
	var conflict *ConflictError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrPatientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &conflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidRange),
		errors.Is(err, ErrOutsideHours),
		errors.Is(err, ErrTooShort),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrNoChanges):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrTerminalStatus):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
