package efa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformRouteParamsRequiredOnly(t *testing.T) {
	params := TransformRouteParams(RouteParams{
		Origin:      "Stuttgart",
		Destination: "Tübingen",
	})

	assert.Equal(t, Params{
		"name_origin":      "Stuttgart",
		"name_destination": "Tübingen",
		"outputFormat":     "json",
	}, params)
}

func TestTransformRouteParamsAllOptions(t *testing.T) {
	params := TransformRouteParams(RouteParams{
		Origin:      "Stuttgart",
		Destination: "Tübingen",
		Date:        "20261019",
		Time:        "0930",
		IsArrival:   true,
		UseRealtime: true,
		TripMode:    TripModeLeastChanges,
	})

	assert.Equal(t, "20261019", params["itdDate"])
	assert.Equal(t, "0930", params["itdTime"])
	assert.Equal(t, "arr", params["itdTripDateTimeDepArr"])
	assert.Equal(t, 1, params["useRealtime"])
	assert.Equal(t, "leastChanges", params["itdTripMode"])
	assert.Len(t, params, 8)
}

func TestGetRoutePassesResponseThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, TripEndpoint, r.URL.Path)
		assert.Equal(t, "Stuttgart", r.URL.Query().Get("name_origin"))
		assert.Equal(t, "Tübingen", r.URL.Query().Get("name_destination"))
		assert.Equal(t, "shortest", r.URL.Query().Get("itdTripMode"))

		w.Write([]byte(`{
			"routes": [{
				"duration": "01:02",
				"fare": "5,80 EUR",
				"changes": 1,
				"segments": [{
					"departure": {"time": "09:00", "station": "Stuttgart Hbf", "platform": "5"},
					"arrival": {"time": "10:02", "station": "Tübingen Hbf"},
					"line": "RB 63",
					"direction": "Tübingen",
					"means": "Regionalbahn",
					"duration": "01:02",
					"realtime": true
				}]
			}],
			"timestamp": "2026-10-19T07:00:00.000Z"
		}`))
	}))
	defer server.Close()

	service := NewRouteService(newTestClient(server.URL))
	service.Logger = zerolog.Nop()

	response, err := service.GetRoute(context.Background(), RouteParams{
		Origin:      "Stuttgart",
		Destination: "Tübingen",
		TripMode:    TripModeShortest,
	})
	require.NoError(t, err)

	require.Len(t, response.Routes, 1)
	route := response.Routes[0]
	assert.Equal(t, "01:02", route.Duration)
	assert.Equal(t, "5,80 EUR", route.Fare)
	assert.Equal(t, 1, route.Changes)
	require.Len(t, route.Segments, 1)
	assert.Equal(t, RouteStopTime{Time: "09:00", Station: "Stuttgart Hbf", Platform: "5"}, route.Segments[0].Departure)
	assert.Equal(t, "Tübingen Hbf", route.Segments[0].Arrival.Station)
	assert.True(t, route.Segments[0].Realtime)
	assert.Equal(t, "2026-10-19T07:00:00.000Z", response.Timestamp)
}

func TestGetRoutePropagatesErrors(t *testing.T) {
	requester := &stubRequester{Err: newStatusError(http.StatusForbidden, "Forbidden")}

	service := NewRouteService(requester)
	service.Logger = zerolog.Nop()

	response, err := service.GetRoute(context.Background(), RouteParams{Origin: "A", Destination: "B"})
	assert.Nil(t, response)

	var apiError *APIError
	require.True(t, errors.As(err, &apiError))
	assert.Equal(t, http.StatusForbidden, apiError.Status)
	assert.Same(t, requester.Err, err)
}
