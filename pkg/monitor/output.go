package monitor

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/kr/pretty"
	"github.com/travigo/rtmonitor/pkg/efa"
	"golang.org/x/exp/slices"
)

const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
	FormatCSV    = "csv"
)

var formats = []string{FormatJSON, FormatPretty, FormatCSV}

func validateFormat(format string) error {
	if !slices.Contains(formats, format) {
		return fmt.Errorf("unknown format %q, expected json, pretty or csv", format)
	}

	return nil
}

type departureRow struct {
	Stop        string `csv:"stop"`
	StopName    string `csv:"stop_name"`
	Time        string `csv:"time"`
	Realtime    string `csv:"realtime"`
	Countdown   string `csv:"countdown"`
	Line        string `csv:"line"`
	Direction   string `csv:"direction"`
	Platform    string `csv:"platform"`
	Delay       string `csv:"delay"`
	VehicleType string `csv:"vehicle_type"`
	Monitored   bool   `csv:"monitored"`
}

type routeRow struct {
	Route         int    `csv:"route"`
	Segment       int    `csv:"segment"`
	DepartureTime string `csv:"departure_time"`
	From          string `csv:"from"`
	ArrivalTime   string `csv:"arrival_time"`
	To            string `csv:"to"`
	Line          string `csv:"line"`
	Direction     string `csv:"direction"`
	Means         string `csv:"means"`
	Realtime      bool   `csv:"realtime"`
}

type stopBoard struct {
	Stop  string              `json:"stop"`
	Board *efa.DepartureBoard `json:"board"`
}

func optionalString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func optionalInt(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func departureRows(boards []stopBoard) []*departureRow {
	rows := []*departureRow{}

	for _, board := range boards {
		for _, departure := range board.Board.Departures {
			rows = append(rows, &departureRow{
				Stop:        board.Stop,
				StopName:    board.Board.StopName,
				Time:        departure.Time,
				Realtime:    optionalString(departure.Realtime),
				Countdown:   optionalInt(departure.Countdown),
				Line:        departure.Line,
				Direction:   departure.Direction,
				Platform:    departure.Platform,
				Delay:       optionalInt(departure.Delay),
				VehicleType: departure.VehicleType,
				Monitored:   departure.Monitored,
			})
		}
	}

	return rows
}

func routeRows(response *efa.RouteResponse) []*routeRow {
	rows := []*routeRow{}

	for routeIndex, route := range response.Routes {
		for segmentIndex, segment := range route.Segments {
			rows = append(rows, &routeRow{
				Route:         routeIndex + 1,
				Segment:       segmentIndex + 1,
				DepartureTime: segment.Departure.Time,
				From:          segment.Departure.Station,
				ArrivalTime:   segment.Arrival.Time,
				To:            segment.Arrival.Station,
				Line:          segment.Line,
				Direction:     segment.Direction,
				Means:         segment.Means,
				Realtime:      segment.Realtime,
			})
		}
	}

	return rows
}

// write renders value in format; rows is what the csv format writes instead
func write(w io.Writer, format string, value interface{}, rows interface{}) error {
	switch format {
	case FormatPretty:
		_, err := pretty.Fprintf(w, "%# v\n", value)
		return err
	case FormatCSV:
		return gocsv.Marshal(rows, w)
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	}
}
