package efa

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const TripEndpoint = "/XSLT_TRIP_REQUEST2"

type TripMode string

const (
	TripModeShortest     TripMode = "shortest"
	TripModeLeastChanges TripMode = "leastChanges"
)

var TripModes = []TripMode{TripModeShortest, TripModeLeastChanges}

type RouteParams struct {
	Origin      string
	Destination string
	Date        string // YYYYMMDD
	Time        string // HHMM
	IsArrival   bool
	UseRealtime bool
	TripMode    TripMode
}

type RouteStopTime struct {
	Time     string `json:"time"`
	Station  string `json:"station"`
	Platform string `json:"platform,omitempty"`
}

type RouteSegment struct {
	Departure RouteStopTime `json:"departure"`
	Arrival   RouteStopTime `json:"arrival"`
	Line      string        `json:"line,omitempty"`
	Direction string        `json:"direction,omitempty"`
	Means     string        `json:"means,omitempty"`
	Duration  string        `json:"duration,omitempty"`
	Realtime  bool          `json:"realtime,omitempty"`
}

type Route struct {
	Duration string         `json:"duration"`
	Fare     string         `json:"fare,omitempty"`
	Segments []RouteSegment `json:"segments"`
	Changes  int            `json:"changes"`
}

type RouteResponse struct {
	Routes    []Route `json:"routes"`
	Timestamp string  `json:"timestamp"`
}

type RouteService struct {
	Client Requester
	Logger zerolog.Logger
}

func NewRouteService(client Requester) *RouteService {
	return &RouteService{
		Client: client,
		Logger: log.Logger,
	}
}

// TransformRouteParams only sends the optional fields that were set
func TransformRouteParams(params RouteParams) Params {
	transformed := Params{
		"name_origin":      params.Origin,
		"name_destination": params.Destination,
		"outputFormat":     "json",
	}

	if params.Date != "" {
		transformed["itdDate"] = params.Date
	}

	if params.Time != "" {
		transformed["itdTime"] = params.Time
	}

	if params.IsArrival {
		transformed["itdTripDateTimeDepArr"] = "arr"
	}

	if params.UseRealtime {
		transformed["useRealtime"] = 1
	}

	if params.TripMode != "" {
		transformed["itdTripMode"] = string(params.TripMode)
	}

	return transformed
}

// GetRoute decodes the trip response straight into RouteResponse, there is
// no reshaping or validation step for trips
func (s *RouteService) GetRoute(ctx context.Context, params RouteParams) (*RouteResponse, error) {
	s.Logger.Debug().Str("origin", params.Origin).Str("destination", params.Destination).Msg("Getting route")

	var response RouteResponse
	if err := s.Client.Request(ctx, TripEndpoint, TransformRouteParams(params), &response); err != nil {
		return nil, err
	}

	return &response, nil
}
