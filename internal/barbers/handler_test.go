package barbers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/wbarraza/barberflow/pkg/logging"
)

func TestHandlerList(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.Add(Barber{ID: "barber-1", Name: "Luis"})
	repo.Add(Barber{ID: "barber-2", Name: "Marco"})
	h := NewHandler(repo, logging.Default())

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/admin/barbers", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string][]Barber
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp["barbers"], 2)
}

func TestHandlerGet(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.Add(Barber{ID: "barber-1", Name: "Luis"})
	h := NewHandler(repo, logging.Default())

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("barberID", "barber-1")
	req := httptest.NewRequest(http.MethodGet, "/admin/barbers/barber-1", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	h.Get(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	rctx = chi.NewRouteContext()
	rctx.URLParams.Add("barberID", "missing")
	req = httptest.NewRequest(http.MethodGet, "/admin/barbers/missing", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr = httptest.NewRecorder()
	h.Get(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}
