package efa

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const StopFinderEndpoint = "/XML_STOPFINDER_REQUEST"

const DefaultDebounceDelay = 300 * time.Millisecond

type StationType string

const (
	StationTypeStop   StationType = "stop"
	StationTypePOI    StationType = "poi"
	StationTypeStreet StationType = "street"
)

var StationTypes = []StationType{StationTypeStop, StationTypePOI, StationTypeStreet}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type StationSearchParams struct {
	Query       string
	MaxResults  int
	Type        StationType
	Radius      int
	Coordinates *Coordinates
}

type Station struct {
	ID        string `json:"id" csv:"id"`
	Name      string `json:"name" csv:"name"`
	Type      string `json:"type" csv:"type"`
	City      string `json:"city" csv:"city"`
	Stateless string `json:"stateless" csv:"stateless"`
}

type StationService struct {
	Client Requester
	Logger zerolog.Logger

	debouncer *Debouncer
}

func NewStationService(client Requester) *StationService {
	return NewStationServiceWithScheduler(client, nil)
}

// NewStationServiceWithScheduler drives the search debounce from scheduler
func NewStationServiceWithScheduler(client Requester, scheduler Scheduler) *StationService {
	return &StationService{
		Client: client,
		Logger: log.Logger,

		debouncer: NewDebouncer(scheduler),
	}
}

func TransformStationParams(params StationSearchParams) Params {
	stationType := params.Type
	if stationType == "" {
		stationType = StationTypeStop
	}

	transformed := Params{
		"outputFormat":         "json",
		"language":             "de",
		"locationServerActive": 1,
		"stateless":            1,
		"type_sf":              string(stationType),
		"name_sf":              params.Query,
	}

	if params.MaxResults > 0 {
		transformed["anyMaxSizeHitList"] = params.MaxResults
	}

	if params.Coordinates != nil {
		transformed["coordOutputFormat"] = "WGS84[DD.ddddd]"
		transformed["coord"] = formatDegrees(params.Coordinates.Longitude) + ":" + formatDegrees(params.Coordinates.Latitude)

		if params.Radius > 0 {
			transformed["radius_sf"] = params.Radius
		}
	}

	return transformed
}

func formatDegrees(degrees float64) string {
	return strconv.FormatFloat(degrees, 'f', -1, 64)
}

// TransformStationResponse never fails: anything unexpected yields no stations
func TransformStationResponse(response *StationSearchResponse) []Station {
	stations := []Station{}

	if response == nil || response.StopFinder == nil {
		return stations
	}

	points := bytes.TrimSpace(response.StopFinder.Points)
	if len(points) == 0 || points[0] != '[' {
		return stations
	}

	var wirePoints []*wireStationPoint
	if err := json.Unmarshal(points, &wirePoints); err != nil {
		return stations
	}

	for _, point := range wirePoints {
		if point == nil {
			continue
		}

		ref := point.Ref
		if ref == nil {
			ref = &wireStationRef{}
		}

		stations = append(stations, Station{
			ID:        ref.ID.String(),
			Name:      point.Name.String(),
			Type:      point.Type.String(),
			City:      ref.Place.String(),
			Stateless: point.Stateless.String(),
		})
	}

	return stations
}

// SearchStations logs and swallows every failure and returns no stations
// instead, so "nothing found" and "search failed" look the same to callers.
func (s *StationService) SearchStations(ctx context.Context, params StationSearchParams) []Station {
	s.Logger.Debug().Str("query", params.Query).Msg("Searching stations")

	var response StationSearchResponse
	if err := s.Client.Request(ctx, StopFinderEndpoint, TransformStationParams(params), &response); err != nil {
		s.Logger.Warn().Err(err).Str("query", params.Query).Msg("Station search failed")
		return []Station{}
	}

	stations := TransformStationResponse(&response)

	s.Logger.Debug().Str("query", params.Query).Int("stations", len(stations)).Msg("Station search finished")

	return stations
}

// SearchStationsWithDebounce runs the search after delay unless another call
// on the same service arrives first. Only the latest call of a burst runs and
// receives its stations on the returned channel; the channels of superseded
// calls never receive anything and are not closed. A delay of 0 uses
// DefaultDebounceDelay.
func (s *StationService) SearchStationsWithDebounce(ctx context.Context, params StationSearchParams, delay time.Duration) <-chan []Station {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}

	result := make(chan []Station, 1)

	s.debouncer.Schedule(delay, func() {
		result <- s.SearchStations(ctx, params)
	})

	return result
}
