package monitor

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/rtmonitor/pkg/efa"
)

func TestDepartureRows(t *testing.T) {
	realtime := "09:07"
	countdown := 4

	rows := departureRows([]stopBoard{
		{
			Stop: "5006118",
			Board: &efa.DepartureBoard{
				StopName: "Stuttgart Hbf",
				Departures: []efa.Departure{
					{Time: "09:05", Realtime: &realtime, Countdown: &countdown, Line: "S1", Platform: "2"},
					{Time: "09:15", Line: "U14"},
				},
			},
		},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, departureRow{
		Stop:      "5006118",
		StopName:  "Stuttgart Hbf",
		Time:      "09:05",
		Realtime:  "09:07",
		Countdown: "4",
		Line:      "S1",
		Platform:  "2",
	}, *rows[0])
	assert.Equal(t, "", rows[1].Realtime)
	assert.Equal(t, "", rows[1].Delay)
}

func TestWriteCSV(t *testing.T) {
	var buffer bytes.Buffer

	stations := []efa.Station{{ID: "5006118", Name: "Stuttgart, Hauptbahnhof (tief)", Type: "stop", City: "Stuttgart", Stateless: "5006118"}}
	require.NoError(t, write(&buffer, FormatCSV, stations, stations))

	assert.Equal(t, "id,name,type,city,stateless\n5006118,\"Stuttgart, Hauptbahnhof (tief)\",stop,Stuttgart,5006118\n", buffer.String())
}

func TestWriteRouteCSV(t *testing.T) {
	var buffer bytes.Buffer

	response := &efa.RouteResponse{
		Routes: []efa.Route{{
			Segments: []efa.RouteSegment{
				{Departure: efa.RouteStopTime{Time: "09:00", Station: "Stuttgart Hbf"}, Arrival: efa.RouteStopTime{Time: "10:02", Station: "Tübingen Hbf"}, Line: "RB 63"},
			},
		}},
	}
	require.NoError(t, write(&buffer, FormatCSV, response, routeRows(response)))

	assert.Equal(t,
		"route,segment,departure_time,from,arrival_time,to,line,direction,means,realtime\n1,1,09:00,Stuttgart Hbf,10:02,Tübingen Hbf,RB 63,,,false\n",
		buffer.String(),
	)
}

func TestWriteJSONAndPretty(t *testing.T) {
	stations := []efa.Station{{ID: "1", Name: "Tübingen Hbf"}}

	var jsonBuffer bytes.Buffer
	require.NoError(t, write(&jsonBuffer, FormatJSON, stations, stations))
	assert.JSONEq(t, `[{"id": "1", "name": "Tübingen Hbf", "type": "", "city": "", "stateless": ""}]`, jsonBuffer.String())

	var prettyBuffer bytes.Buffer
	require.NoError(t, write(&prettyBuffer, FormatPretty, stations, stations))
	assert.Contains(t, prettyBuffer.String(), `"Tübingen Hbf"`)
	assert.Contains(t, prettyBuffer.String(), "efa.Station")
}

func TestValidateFormat(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatPretty, FormatCSV} {
		assert.NoError(t, validateFormat(format))
	}
	assert.Error(t, validateFormat("xml"))
}

func TestShiftedDateTime(t *testing.T) {
	now := time.Date(2026, 10, 19, 23, 45, 0, 0, time.UTC)

	date, clock, err := shiftedDateTime("PT30M", now)
	require.NoError(t, err)
	assert.Equal(t, "20261020", date)
	assert.Equal(t, "0015", clock)

	_, _, err = shiftedDateTime("half an hour", now)
	assert.Error(t, err)
}
