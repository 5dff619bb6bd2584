package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/rtmonitor/pkg/efa"
	"github.com/travigo/rtmonitor/pkg/util"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/slices"
)

const maxConcurrentBoards = 8

// GlobalFlags are shared by every command of the binary
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "YAML file overriding the EFA base URL and default parameters",
			EnvVars: []string{"RTMONITOR_CONFIG"},
		},
	}
}

func RegisterCLI() []*cli.Command {
	return []*cli.Command{
		departuresCommand(),
		routeCommand(),
		stationsCommand(),
	}
}

func newClient(c *cli.Context) (*efa.Client, error) {
	config, err := efa.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	return efa.NewClient(config), nil
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Value: FormatJSON,
		Usage: "output format: json, pretty or csv",
	}
}

func departuresCommand() *cli.Command {
	return &cli.Command{
		Name:      "departures",
		Usage:     "show the departure board of one or more stops",
		ArgsUsage: "STOP...",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "maximum number of departures per stop"},
			&cli.BoolFlag{Name: "realtime", Usage: "use realtime data"},
			&cli.BoolFlag{Name: "countdown", Usage: "request countdown times"},
			&cli.BoolFlag{Name: "platform", Usage: "request platform information"},
			&cli.BoolFlag{Name: "via", Usage: "request via information"},
			&cli.StringSliceFlag{Name: "line", Usage: "only show these lines"},
			&cli.IntSliceFlag{Name: "include", Usage: "only include these means of transport"},
			&cli.IntSliceFlag{Name: "exclude", Usage: "exclude these means of transport"},
			&cli.StringFlag{Name: "filter", Usage: "expression selecting departures, e.g. 'Line == \"U14\"'"},
			formatFlag(),
		},
		Action: func(c *cli.Context) error {
			stops := util.UniqueStrings(c.Args().Slice())
			if len(stops) == 0 {
				return errors.New("at least one stop is required")
			}

			format := c.String("format")
			if err := validateFormat(format); err != nil {
				return err
			}

			var filter *DepartureFilter
			if c.String("filter") != "" {
				var err error
				if filter, err = NewDepartureFilter(c.String("filter")); err != nil {
					return err
				}
			}

			client, err := newClient(c)
			if err != nil {
				return err
			}

			params := efa.DepartureBoardParams{
				UseRealtime:   c.Bool("realtime"),
				MaxResults:    c.Int("limit"),
				IncludedMeans: c.IntSlice("include"),
				ExcludedMeans: c.IntSlice("exclude"),
				FilterLines:   c.StringSlice("line"),
				ShowPlatform:  c.Bool("platform"),
				ShowVia:       c.Bool("via"),
				UseCountdown:  c.Bool("countdown"),
			}

			boards, err := fetchBoards(c.Context, efa.NewDepartureBoardService(client), stops, params)
			if err != nil {
				return err
			}

			if filter != nil {
				for _, board := range boards {
					if board.Board.Departures, err = filter.Apply(board.Board.Departures); err != nil {
						return err
					}
				}
			}

			return write(c.App.Writer, format, boards, departureRows(boards))
		},
	}
}

// fetchBoards requests one independent board per stop, keeping the order of stops
func fetchBoards(ctx context.Context, service *efa.DepartureBoardService, stops []string, params efa.DepartureBoardParams) ([]stopBoard, error) {
	type indexedBoard struct {
		index int
		stopBoard
	}

	p := pool.NewWithResults[indexedBoard]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(maxConcurrentBoards)

	for index, stop := range stops {
		index := index
		stopParams := params
		stopParams.StopID = stop

		p.Go(func(ctx context.Context) (indexedBoard, error) {
			board, err := service.GetDepartureBoard(ctx, stopParams)
			if err != nil {
				return indexedBoard{}, fmt.Errorf("stop %s: %w", stopParams.StopID, err)
			}

			return indexedBoard{index: index, stopBoard: stopBoard{Stop: stopParams.StopID, Board: board}}, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].index < results[j].index
	})

	boards := make([]stopBoard, 0, len(results))
	for _, result := range results {
		boards = append(boards, result.stopBoard)
	}

	return boards, nil
}

func routeCommand() *cli.Command {
	return &cli.Command{
		Name:  "route",
		Usage: "plan a trip between two places",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Required: true, Usage: "origin"},
			&cli.StringFlag{Name: "to", Required: true, Usage: "destination"},
			&cli.StringFlag{Name: "date", Usage: "date as YYYYMMDD"},
			&cli.StringFlag{Name: "time", Usage: "time as HHMM"},
			&cli.StringFlag{Name: "in", Usage: "ISO-8601 duration from now, e.g. PT30M; sets date and time"},
			&cli.BoolFlag{Name: "arrival", Usage: "treat the time as arrival time"},
			&cli.BoolFlag{Name: "realtime", Usage: "use realtime data"},
			&cli.StringFlag{Name: "mode", Usage: "shortest or leastChanges"},
			formatFlag(),
		},
		Action: func(c *cli.Context) error {
			format := c.String("format")
			if err := validateFormat(format); err != nil {
				return err
			}

			params := efa.RouteParams{
				Origin:      c.String("from"),
				Destination: c.String("to"),
				Date:        c.String("date"),
				Time:        c.String("time"),
				IsArrival:   c.Bool("arrival"),
				UseRealtime: c.Bool("realtime"),
				TripMode:    efa.TripMode(c.String("mode")),
			}

			if params.TripMode != "" && !slices.Contains(efa.TripModes, params.TripMode) {
				return fmt.Errorf("unknown mode %q, expected shortest or leastChanges", params.TripMode)
			}

			if c.String("in") != "" {
				date, clock, err := shiftedDateTime(c.String("in"), time.Now())
				if err != nil {
					return err
				}
				params.Date, params.Time = date, clock

				log.Debug().Str("date", date).Str("time", clock).Msg("Planning relative trip")
			}

			client, err := newClient(c)
			if err != nil {
				return err
			}

			response, err := efa.NewRouteService(client).GetRoute(c.Context, params)
			if err != nil {
				return err
			}

			return write(c.App.Writer, format, response, routeRows(response))
		},
	}
}

// shiftedDateTime renders now shifted by an ISO-8601 duration as EFA date and time
func shiftedDateTime(duration string, now time.Time) (string, string, error) {
	offset, err := iso8601.ParseISO8601(duration)
	if err != nil {
		return "", "", fmt.Errorf("invalid duration %q: %w", duration, err)
	}

	shifted := offset.Shift(now)

	return shifted.Format("20060102"), shifted.Format("1504"), nil
}

func stationsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stations",
		Usage:     "search stops, points of interest and streets",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Value: string(efa.StationTypeStop), Usage: "stop, poi or street"},
			&cli.IntFlag{Name: "max", Usage: "maximum number of results"},
			&cli.Float64Flag{Name: "lat", Usage: "latitude to search around"},
			&cli.Float64Flag{Name: "lon", Usage: "longitude to search around"},
			&cli.IntFlag{Name: "radius", Usage: "search radius in metres, needs --lat and --lon"},
			formatFlag(),
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return errors.New("exactly one query is required")
			}

			format := c.String("format")
			if err := validateFormat(format); err != nil {
				return err
			}

			params := efa.StationSearchParams{
				Query:      c.Args().First(),
				MaxResults: c.Int("max"),
				Type:       efa.StationType(c.String("type")),
				Radius:     c.Int("radius"),
			}

			if !slices.Contains(efa.StationTypes, params.Type) {
				return fmt.Errorf("unknown station type %q", params.Type)
			}

			if c.IsSet("lat") != c.IsSet("lon") {
				return errors.New("--lat and --lon must be given together")
			}
			if c.IsSet("lat") {
				params.Coordinates = &efa.Coordinates{
					Latitude:  c.Float64("lat"),
					Longitude: c.Float64("lon"),
				}
			}

			client, err := newClient(c)
			if err != nil {
				return err
			}

			stations := efa.NewStationService(client).SearchStations(c.Context, params)

			return write(c.App.Writer, format, stations, stations)
		},
	}
}
