package ledger

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/odontia/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.open)
	g.GET("", h.list)
	g.GET("/chart/:chartId", h.getByChart)
	g.GET("/:id", h.get)
	g.PUT("/:id/items", h.replaceItems)
	g.POST("/:id/payments", h.pay)
	g.GET("/:id/payments", h.listPayments)
	g.DELETE("/:id", h.delete)
}

type openRequest struct {
	ChartID string          `json:"chart_id"`
	Items   []LineItemInput `json:"items"`
}

func (h *Handler) open(c echo.Context) error {
	var req openRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	chartID, err := uuid.Parse(req.ChartID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chart_id")
	}

	agg, err := h.svc.Open(c.Request().Context(), chartID, req.Items)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, agg)
}

type replaceItemsRequest struct {
	Items []LineItemInput `json:"items"`
}

func (h *Handler) replaceItems(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid budget id")
	}
	var req replaceItemsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	agg, err := h.svc.ReplaceLineItems(c.Request().Context(), id, req.Items)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, agg)
}

type payRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   *string         `json:"date"`
	Note   *string         `json:"note"`
}

type payResponse struct {
	Payment *Payment `json:"payment"`
	Budget  *Budget  `json:"budget"`
	State   string   `json:"state"`
}

func (h *Handler) pay(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid budget id")
	}
	var req payRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	in := PayInput{Amount: req.Amount, Note: req.Note}
	if req.Date != nil {
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
		in.Date = d
	}

	p, b, err := h.svc.Pay(c.Request().Context(), id, in)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, payResponse{Payment: p, Budget: b, State: b.State()})
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid budget id")
	}
	agg, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, agg)
}

func (h *Handler) getByChart(c echo.Context) error {
	chartID, err := uuid.Parse(c.Param("chartId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chart id")
	}
	agg, err := h.svc.GetByChart(c.Request().Context(), chartID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, agg)
}

func (h *Handler) listPayments(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid budget id")
	}
	payments, err := h.svc.ListPayments(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	if payments == nil {
		payments = []*Payment{}
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid budget id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// mapError translates service errors into HTTP status codes. A payment
// bounced off the balance invariant maps to 422: the request was well
// formed, the ledger state forbids it.
func mapError(err error) error {
	var balance *BalanceError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrChartNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrTotalBelowPaid):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &balance):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNoLineItems),
		errors.Is(err, ErrInvalidItem),
		errors.Is(err, ErrInvalidAmount):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
