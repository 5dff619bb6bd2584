package efa

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DepartureMonitorEndpoint = "/XSLT_DM_REQUEST"

const defaultDepartureLimit = 10

// timestampFormat is ISO-8601 in UTC with milliseconds
const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

var errMissingDepartureList = errors.New("Invalid response format: missing departureList")

type DepartureBoardParams struct {
	StopID        string
	UseRealtime   bool
	MaxResults    int
	IncludedMeans []int
	ExcludedMeans []int
	FilterLines   []string
	ShowPlatform  bool
	ShowVia       bool
	UseCountdown  bool
}

// MultiStopDepartureBoardParams takes several stops, but only the first one
// is queried. See GetMultiStopDepartureBoard.
type MultiStopDepartureBoardParams struct {
	StopIDs       []string
	UseRealtime   bool
	MaxResults    int
	IncludedMeans []int
	ExcludedMeans []int
	FilterLines   []string
	ShowPlatform  bool
	ShowVia       bool
	UseCountdown  bool
}

type ServingLine struct {
	Key           string `json:"key" groups:"detailed"`
	Code          string `json:"code" groups:"detailed"`
	Number        string `json:"number" groups:"detailed"`
	Symbol        string `json:"symbol" groups:"detailed"`
	MotType       string `json:"motType" groups:"detailed"`
	Realtime      bool   `json:"realtime" groups:"detailed"`
	Direction     string `json:"direction" groups:"detailed"`
	DirectionFrom string `json:"directionFrom" groups:"detailed"`
	Name          string `json:"name" groups:"detailed"`
	Delay         *int   `json:"delay,omitempty" groups:"detailed"`
}

type Departure struct {
	Time        string  `json:"time" groups:"basic,detailed"`
	Realtime    *string `json:"realtime,omitempty" groups:"basic,detailed"`
	Countdown   *int    `json:"countdown,omitempty" groups:"basic,detailed"`
	Line        string  `json:"line" groups:"basic,detailed"`
	Direction   string  `json:"direction" groups:"basic,detailed"`
	Platform    string  `json:"platform" groups:"basic,detailed"`
	Via         string  `json:"via" groups:"detailed"`
	Delay       *int    `json:"delay,omitempty" groups:"basic,detailed"`
	Message     string  `json:"message" groups:"detailed"`
	VehicleType string  `json:"vehicleType" groups:"basic,detailed"`
	Monitored   bool    `json:"monitored" groups:"basic,detailed"`

	ServingLine ServingLine `json:"servingLine" groups:"detailed"`
}

type DepartureBoardMessages struct {
	General []string `json:"general" groups:"basic,detailed"`
	Stop    []string `json:"stop" groups:"basic,detailed"`
	Line    []string `json:"line" groups:"basic,detailed"`
}

type DepartureBoard struct {
	StopName   string                 `json:"stopName" groups:"basic,detailed"`
	Departures []Departure            `json:"departures" groups:"basic,detailed"`
	Messages   DepartureBoardMessages `json:"messages" groups:"basic,detailed"`
	Timestamp  string                 `json:"timestamp" groups:"basic,detailed"`
}

type DepartureBoardService struct {
	Client Requester
	Logger zerolog.Logger
	Now    func() time.Time
}

func NewDepartureBoardService(client Requester) *DepartureBoardService {
	return &DepartureBoardService{
		Client: client,
		Logger: log.Logger,
		Now:    time.Now,
	}
}

func TransformDepartureBoardParams(params DepartureBoardParams) Params {
	limit := params.MaxResults
	if limit == 0 {
		limit = defaultDepartureLimit
	}

	var stopID interface{}
	if params.StopID != "" {
		stopID = params.StopID
	}

	transformed := Params{
		"outputFormat":         "json",
		"language":             "de",
		"stateless":            1,
		"mode":                 "direct",
		"type_dm":              "stop",
		"name_dm":              stopID,
		"limit":                limit,
		"useRealtime":          1,
		"locationServerActive": 1,
	}

	if params.UseRealtime {
		transformed["itdDateTimeDepArr"] = "dep"
		transformed["itdLPxx_useRealtime"] = 1
	}

	if params.UseCountdown {
		transformed["itdLPxx_showTimeMode"] = "countdown"
	}

	if params.ShowPlatform {
		transformed["itdLPxx_showPlatform"] = 1
	}

	if params.ShowVia {
		transformed["itdLPxx_showVia"] = 1
	}

	if len(params.IncludedMeans) > 0 {
		transformed["includedMeans"] = params.IncludedMeans
	}

	if len(params.ExcludedMeans) > 0 {
		transformed["excludedMeans"] = params.ExcludedMeans
	}

	if len(params.FilterLines) > 0 {
		transformed["line"] = strings.Join(params.FilterLines, "|")
	}

	return transformed
}

// TransformDepartureBoardResponse reshapes the departure monitor payload.
// It fails when the payload has no departure list at all; an empty list is
// a valid, empty board.
func TransformDepartureBoardResponse(response *DepartureMonitorResponse, now time.Time) (*DepartureBoard, error) {
	if response == nil || response.DepartureList == nil {
		return nil, NewInternalError(errMissingDepartureList)
	}

	departures := make([]Departure, 0, len(*response.DepartureList))

	for _, wireDep := range *response.DepartureList {
		departures = append(departures, transformDeparture(wireDep))
	}

	return &DepartureBoard{
		StopName:   response.StopName.String(),
		Departures: departures,
		Messages: DepartureBoardMessages{
			General: messageContents(response.GeneralMessages),
			Stop:    messageContents(response.StopMessages),
			Line:    messageContents(response.LineMessages),
		},
		Timestamp: now.UTC().Format(timestampFormat),
	}, nil
}

func transformDeparture(wireDep wireDeparture) Departure {
	servingLine := wireDep.ServingLine
	if servingLine == nil {
		servingLine = &wireServingLine{}
	}

	var scheduledTime string
	if wireDep.DateTime != nil {
		scheduledTime = firstNonEmpty(wireDep.DateTime.Time, wireString(wireDep.DateTime.clock()))
	}

	var realtime *string
	if wireDep.RealDateTime != nil {
		realtimeClock := wireDep.RealDateTime.clock()
		realtime = &realtimeClock
	}

	return Departure{
		Time:        scheduledTime,
		Realtime:    realtime,
		Countdown:   wireDep.Countdown.Int(),
		Line:        firstNonEmpty(servingLine.Number, servingLine.Symbol),
		Direction:   servingLine.Direction.String(),
		Platform:    wireDep.Platform.String(),
		Via:         servingLine.Via.String(),
		Delay:       servingLine.Delay.Int(),
		Message:     servingLine.Message.String(),
		VehicleType: servingLine.MotType.String(),
		Monitored:   wireDep.RealtimeTripStatus == "MONITORED",

		ServingLine: ServingLine{
			Key:           servingLine.Key.String(),
			Code:          servingLine.Code.String(),
			Number:        servingLine.Number.String(),
			Symbol:        servingLine.Symbol.String(),
			MotType:       servingLine.MotType.String(),
			Realtime:      servingLine.Realtime == "1",
			Direction:     servingLine.Direction.String(),
			DirectionFrom: servingLine.DirectionFrom.String(),
			Name:          servingLine.Name.String(),
			Delay:         servingLine.Delay.Int(),
		},
	}
}

// GetDepartureBoard fetches the departure board of one stop. Errors are
// returned as *APIError unchanged.
func (s *DepartureBoardService) GetDepartureBoard(ctx context.Context, params DepartureBoardParams) (*DepartureBoard, error) {
	s.Logger.Debug().Str("stop", params.StopID).Msg("Getting departure board")

	transformedParams := TransformDepartureBoardParams(params)

	var response DepartureMonitorResponse
	if err := s.Client.Request(ctx, DepartureMonitorEndpoint, transformedParams, &response); err != nil {
		s.Logger.Error().Err(err).Str("stop", params.StopID).Msg("Failed to get departure board")
		return nil, err
	}

	departureBoard, err := TransformDepartureBoardResponse(&response, s.Now())
	if err != nil {
		s.Logger.Error().Err(err).Str("stop", params.StopID).Msg("Failed to transform departure board")
		return nil, err
	}

	return departureBoard, nil
}

// GetMultiStopDepartureBoard accepts several stops but only returns the
// board of the first one. The other stops are ignored.
func (s *DepartureBoardService) GetMultiStopDepartureBoard(ctx context.Context, params MultiStopDepartureBoardParams) (*DepartureBoard, error) {
	var singleStopParams DepartureBoardParams
	if err := copier.CopyWithOption(&singleStopParams, &params, copier.Option{DeepCopy: true}); err != nil {
		return nil, NewInternalError(err)
	}

	if len(params.StopIDs) > 0 {
		singleStopParams.StopID = params.StopIDs[0]
	}

	if len(params.StopIDs) > 1 {
		s.Logger.Debug().Strs("ignored", params.StopIDs[1:]).Msg("Multi stop departure board only queries the first stop")
	}

	return s.GetDepartureBoard(ctx, singleStopParams)
}
