package schedule

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wbarraza/barberflow/pkg/logging"
)

func newTestHandler(ledger *fakeLedger) *Handler {
	gen := NewGenerator(mondayHours(), ledger, time.Hour, time.UTC)
	h := NewHandler(gen, logging.Default())
	h.now = func() time.Time { return monday.Add(6 * time.Hour) }
	return h
}

func TestHandlerDailySlots(t *testing.T) {
	h := newTestHandler(&fakeLedger{})

	r := httptest.NewRequest(http.MethodGet, "/ai/slots?barberId=barber-1&date=2025-03-10", nil)
	rr := httptest.NewRecorder()
	h.DailySlots(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp DailySlotsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "2025-03-10", resp.Date)
	require.Len(t, resp.Slots, 9)
	require.Equal(t, monday.Add(9*time.Hour), resp.Slots[0].Start)
}

func TestHandlerDailySlotsValidation(t *testing.T) {
	h := newTestHandler(&fakeLedger{})

	r := httptest.NewRequest(http.MethodGet, "/ai/slots?date=2025-03-10", nil)
	rr := httptest.NewRecorder()
	h.DailySlots(rr, r)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	r = httptest.NewRequest(http.MethodGet, "/ai/slots?barberId=barber-1&date=10/03/2025", nil)
	rr = httptest.NewRecorder()
	h.DailySlots(rr, r)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerWeeklyAvailability(t *testing.T) {
	h := newTestHandler(&fakeLedger{})

	r := httptest.NewRequest(http.MethodGet, "/ai/availability?barberId=barber-1", nil)
	rr := httptest.NewRecorder()
	h.WeeklyAvailability(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp WeeklyAvailabilityResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "2025-03-10", resp.StartDate)
	require.Len(t, resp.Availability, WeekDays)
	require.Len(t, resp.Availability["2025-03-10"], 9)
	require.Empty(t, resp.Availability["2025-03-11"], "day off maps to an empty list")
}

func TestHandlerCheckSlot(t *testing.T) {
	booked := Interval{Start: monday.Add(13 * time.Hour), End: monday.Add(14 * time.Hour)}
	h := newTestHandler(&fakeLedger{intervals: []Interval{booked}})

	query := "?barberId=barber-1&start=2025-03-10T13:00:00Z&end=2025-03-10T14:00:00Z"
	r := httptest.NewRequest(http.MethodGet, "/ai/slots/check"+query, nil)
	rr := httptest.NewRecorder()
	h.CheckSlot(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp SlotCheckResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.False(t, resp.Available)

	query = "?barberId=barber-1&start=2025-03-10T14:00:00Z&end=2025-03-10T15:00:00Z"
	r = httptest.NewRequest(http.MethodGet, "/ai/slots/check"+query, nil)
	rr = httptest.NewRecorder()
	h.CheckSlot(rr, r)

	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Available)
}

func TestHandlerCheckSlotValidation(t *testing.T) {
	h := newTestHandler(&fakeLedger{})

	r := httptest.NewRequest(http.MethodGet, "/ai/slots/check?barberId=barber-1&start=bad&end=2025-03-10T14:00:00Z", nil)
	rr := httptest.NewRecorder()
	h.CheckSlot(rr, r)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	query := "?barberId=barber-1&start=2025-03-10T14:00:00Z&end=2025-03-10T13:00:00Z"
	r = httptest.NewRequest(http.MethodGet, "/ai/slots/check"+query, nil)
	rr = httptest.NewRecorder()
	h.CheckSlot(rr, r)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
