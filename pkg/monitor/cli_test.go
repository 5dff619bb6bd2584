package monitor

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/rtmonitor/pkg/efa"
	"github.com/urfave/cli/v2"
)

// newTestUpstream answers departure requests with a board named after the stop
func newTestUpstream(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		switch r.URL.Path {
		case efa.DepartureMonitorEndpoint:
			if query.Get("name_dm") == "missing" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(`{
				"stopName": "` + query.Get("name_dm") + `",
				"departureList": [
					{"dateTime": {"hour": "9", "minute": "5"}, "servingLine": {"symbol": "S1", "motType": "1", "realtime": "1"}},
					{"dateTime": {"hour": "9", "minute": "7"}, "servingLine": {"symbol": "U14", "motType": "4"}}
				]
			}`))
		case efa.TripEndpoint:
			w.Write([]byte(`{"routes": [{"duration": "00:20", "changes": 0, "segments": [
				{"departure": {"time": "` + query.Get("itdTime") + `", "station": "` + query.Get("name_origin") + `"}, "arrival": {"time": "09:20", "station": "` + query.Get("name_destination") + `"}}
			]}]}`))
		case efa.StopFinderEndpoint:
			w.Write([]byte(`{"stopFinder": {"points": [{"type": "` + query.Get("type_sf") + `", "name": "` + query.Get("name_sf") + `", "ref": {"id": "1", "place": "Stuttgart"}}]}}`))
		}
	}))
	t.Cleanup(server.Close)

	t.Setenv("RTMONITOR_EFA_BASE_URL", server.URL)
	t.Setenv("RTMONITOR_CONFIG", "")

	return server
}

func runCLI(t *testing.T, args ...string) (string, error) {
	var output bytes.Buffer

	app := &cli.App{
		Name:      "rtmonitor",
		Flags:     GlobalFlags(),
		Commands:  RegisterCLI(),
		Writer:    &output,
		ErrWriter: &output,
	}

	err := app.Run(append([]string{"rtmonitor"}, args...))

	return output.String(), err
}

func TestDeparturesCommandKeepsStopOrder(t *testing.T) {
	newTestUpstream(t)

	output, err := runCLI(t, "departures", "--format", "csv", "first", "second", "third")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "stop,stop_name,time"))
	assert.True(t, strings.HasPrefix(lines[1], "first,first,09:05"))
	assert.True(t, strings.HasPrefix(lines[3], "second,second,09:05"))
	assert.True(t, strings.HasPrefix(lines[6], "third,third,09:07"))

	output, err = runCLI(t, "departures", "--format", "csv", "first", "first")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(output), "\n"), 3, "repeated stops are fetched once")
}

func TestDeparturesCommandFilter(t *testing.T) {
	newTestUpstream(t)

	output, err := runCLI(t, "departures", "--format", "csv", "--filter", `Line == "U14"`, "5006118")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "U14")
}

func TestDeparturesCommandErrors(t *testing.T) {
	newTestUpstream(t)

	_, err := runCLI(t, "departures")
	assert.Error(t, err)

	_, err = runCLI(t, "departures", "--format", "xml", "5006118")
	assert.Error(t, err)

	_, err = runCLI(t, "departures", "--filter", "Line ==", "5006118")
	assert.Error(t, err)

	_, err = runCLI(t, "departures", "5006118", "missing")
	assert.ErrorContains(t, err, "API request failed: Not Found")
}

func TestRouteCommand(t *testing.T) {
	newTestUpstream(t)

	output, err := runCLI(t, "route", "--from", "Stuttgart", "--to", "Esslingen", "--time", "0900", "--format", "csv")
	require.NoError(t, err)

	assert.Contains(t, output, "1,1,0900,Stuttgart,09:20,Esslingen")

	_, err = runCLI(t, "route", "--from", "Stuttgart", "--to", "Esslingen", "--mode", "fastest")
	assert.Error(t, err)

	_, err = runCLI(t, "route", "--from", "Stuttgart", "--to", "Esslingen", "--in", "soon")
	assert.Error(t, err)
}

func TestStationsCommand(t *testing.T) {
	newTestUpstream(t)

	output, err := runCLI(t, "stations", "--type", "poi", "Wilhelma")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": "1", "name": "Wilhelma", "type": "poi", "city": "Stuttgart", "stateless": ""}]`, output)

	_, err = runCLI(t, "stations", "--type", "airport", "Wilhelma")
	assert.Error(t, err)

	_, err = runCLI(t, "stations", "--lat", "48.8", "Wilhelma")
	assert.Error(t, err)
}
