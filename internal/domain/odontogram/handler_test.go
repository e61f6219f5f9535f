package odontogram

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, uuid.UUID) {
	svc, _, chartID := newTestService()
	return NewHandler(svc), chartID
}

func doJSON(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

func TestHandlerSave_Created(t *testing.T) {
	h, chartID := newTestHandler()

	body := fmt.Sprintf(`{"chart_id":%q,"teeth":[
		{"tooth":11,"quadrant":1,"state":"healthy"},
		{"tooth":24,"quadrant":2,"state":"caries","notes":"distal"}]}`, chartID)
	c, rec := doJSON(http.MethodPost, "/api/v1/odontograms", body)
	if err := h.save(c); err != nil {
		t.Fatalf("save() error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var recs []*ToothRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
}

func TestHandlerSave_BadInput(t *testing.T) {
	h, chartID := newTestHandler()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"bad chart id", `{"chart_id":"nope","teeth":[]}`, http.StatusBadRequest},
		{"empty batch", fmt.Sprintf(`{"chart_id":%q,"teeth":[]}`, chartID), http.StatusBadRequest},
		{"bad state", fmt.Sprintf(`{"chart_id":%q,"teeth":[{"tooth":11,"quadrant":1,"state":"golden"}]}`, chartID), http.StatusBadRequest},
		{"unknown chart", fmt.Sprintf(`{"chart_id":%q,"teeth":[{"tooth":11,"quadrant":1,"state":"healthy"}]}`, uuid.New()), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := doJSON(http.MethodPost, "/api/v1/odontograms", tt.body)
			err := h.save(c)
			if got := httpStatus(t, err); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestHandlerStates(t *testing.T) {
	h, _ := newTestHandler()

	c, rec := doJSON(http.MethodGet, "/api/v1/odontograms/states", "")
	if err := h.states(c); err != nil {
		t.Fatalf("states() error: %v", err)
	}

	var got []string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != len(States) {
		t.Fatalf("expected %d states, got %d", len(States), len(got))
	}
}

func TestHandlerGetByChart(t *testing.T) {
	h, chartID := newTestHandler()

	body := fmt.Sprintf(`{"chart_id":%q,"teeth":[{"tooth":11,"quadrant":1,"state":"healthy"}]}`, chartID)
	c, _ := doJSON(http.MethodPost, "/api/v1/odontograms", body)
	if err := h.save(c); err != nil {
		t.Fatalf("save() error: %v", err)
	}

	c, rec := doJSON(http.MethodGet, "/api/v1/odontograms/chart/"+chartID.String(), "")
	c.SetParamNames("chartId")
	c.SetParamValues(chartID.String())
	if err := h.getByChart(c); err != nil {
		t.Fatalf("getByChart() error: %v", err)
	}

	var o Odontogram
	if err := json.Unmarshal(rec.Body.Bytes(), &o); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(o.Quadrant1) != 1 || len(o.All) != 1 {
		t.Fatalf("expected one tooth in quadrant 1, got %+v", o)
	}
}

func TestHandlerGetByChart_UnknownChart(t *testing.T) {
	h, _ := newTestHandler()

	id := uuid.New().String()
	c, _ := doJSON(http.MethodGet, "/api/v1/odontograms/chart/"+id, "")
	c.SetParamNames("chartId")
	c.SetParamValues(id)
	err := h.getByChart(c)
	if got := httpStatus(t, err); got != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", got)
	}
}

func TestHandlerHistory_InvalidTooth(t *testing.T) {
	h, chartID := newTestHandler()

	c, _ := doJSON(http.MethodGet, "/api/v1/odontograms/chart/"+chartID.String()+"/tooth/abc", "")
	c.SetParamNames("chartId", "tooth")
	c.SetParamValues(chartID.String(), "abc")
	err := h.history(c)
	if got := httpStatus(t, err); got != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got)
	}
}

func TestHandlerUpdateTooth(t *testing.T) {
	h, chartID := newTestHandler()

	body := fmt.Sprintf(`{"chart_id":%q,"teeth":[{"tooth":16,"quadrant":1,"state":"caries"}]}`, chartID)
	c, rec := doJSON(http.MethodPost, "/api/v1/odontograms", body)
	if err := h.save(c); err != nil {
		t.Fatalf("save() error: %v", err)
	}
	var recs []*ToothRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	id := recs[0].ID.String()

	c, rec = doJSON(http.MethodPut, "/api/v1/odontograms/"+id, `{"state":"filled"}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	if err := h.updateTooth(c); err != nil {
		t.Fatalf("updateTooth() error: %v", err)
	}

	var got ToothRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.State != "filled" {
		t.Errorf("state = %q, want filled", got.State)
	}

	c, _ = doJSON(http.MethodPut, "/api/v1/odontograms/"+id, `{}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	err := h.updateTooth(c)
	if gotCode := httpStatus(t, err); gotCode != http.StatusBadRequest {
		t.Fatalf("empty patch: expected 400, got %d", gotCode)
	}
}

func TestHandlerDeleteTooth(t *testing.T) {
	h, chartID := newTestHandler()

	body := fmt.Sprintf(`{"chart_id":%q,"teeth":[{"tooth":38,"quadrant":3,"state":"extracted"}]}`, chartID)
	c, rec := doJSON(http.MethodPost, "/api/v1/odontograms", body)
	if err := h.save(c); err != nil {
		t.Fatalf("save() error: %v", err)
	}
	var recs []*ToothRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	id := recs[0].ID.String()

	c, rec = doJSON(http.MethodDelete, "/api/v1/odontograms/"+id, "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	if err := h.deleteTooth(c); err != nil {
		t.Fatalf("deleteTooth() error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c, _ = doJSON(http.MethodDelete, "/api/v1/odontograms/"+id, "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	err := h.deleteTooth(c)
	if got := httpStatus(t, err); got != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", got)
	}
}
