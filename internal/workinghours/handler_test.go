package workinghours

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/wbarraza/barberflow/pkg/logging"
)

func newRequestWithBarberID(method, target, barberID string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("barberID", barberID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandlerSetReplacesTemplate(t *testing.T) {
	repo := NewInMemoryRepository()
	h := NewHandler(repo, logging.Default())

	body, _ := json.Marshal(SetRequest{WorkingHours: validSet()})
	req := newRequestWithBarberID(http.MethodPut, "/barbers/barber-1/working-hours", "barber-1", body)
	rr := httptest.NewRecorder()

	h.Set(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp SetResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.WorkingHours, 2)
}

func TestHandlerSetRejectsInvalidTemplate(t *testing.T) {
	h := NewHandler(NewInMemoryRepository(), logging.Default())

	body, _ := json.Marshal(SetRequest{WorkingHours: []SetEntry{
		{DayOfWeek: 1, StartTime: "18:00", EndTime: "09:00"},
	}})
	req := newRequestWithBarberID(http.MethodPut, "/barbers/barber-1/working-hours", "barber-1", body)
	rr := httptest.NewRecorder()

	h.Set(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerSetRejectsEmptyBody(t *testing.T) {
	h := NewHandler(NewInMemoryRepository(), logging.Default())

	req := newRequestWithBarberID(http.MethodPut, "/barbers/barber-1/working-hours", "barber-1", []byte(`{}`))
	rr := httptest.NewRecorder()

	h.Set(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerList(t *testing.T) {
	repo := NewInMemoryRepository()
	_, err := repo.Replace(context.Background(), "barber-1", validSet())
	require.NoError(t, err)
	h := NewHandler(repo, logging.Default())

	req := newRequestWithBarberID(http.MethodGet, "/barbers/barber-1/working-hours", "barber-1", nil)
	rr := httptest.NewRecorder()

	h.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		WorkingHours []Entry `json:"working_hours"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.WorkingHours, 2)
}
