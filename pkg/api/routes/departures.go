package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/rtmonitor/pkg/efa"
	"golang.org/x/exp/slices"
)

var detailLevels = []string{"basic", "detailed"}

func DeparturesRouter(router fiber.Router, service *efa.DepartureBoardService) {
	router.Get("/", func(c *fiber.Ctx) error {
		return getMultiStopDepartures(c, service)
	})
	router.Get("/:stop", func(c *fiber.Ctx) error {
		return getDepartures(c, service)
	})
}

func getDepartures(c *fiber.Ctx, service *efa.DepartureBoardService) error {
	options, err := parseDepartureOptions(c)
	if err != nil {
		return sendBadRequest(c, err)
	}

	params := options.params
	params.StopID = c.Params("stop")

	board, err := service.GetDepartureBoard(c.UserContext(), params)
	if err != nil {
		return sendError(c, err)
	}

	return sendDepartureBoard(c, board, options.detail)
}

func getMultiStopDepartures(c *fiber.Ctx, service *efa.DepartureBoardService) error {
	stops := queryStrings(c, "stop")
	if len(stops) == 0 {
		return sendBadRequest(c, errors.New("Parameter stop is required"))
	}

	options, err := parseDepartureOptions(c)
	if err != nil {
		return sendBadRequest(c, err)
	}

	board, err := service.GetMultiStopDepartureBoard(c.UserContext(), efa.MultiStopDepartureBoardParams{
		StopIDs:       stops,
		UseRealtime:   options.params.UseRealtime,
		MaxResults:    options.params.MaxResults,
		IncludedMeans: options.params.IncludedMeans,
		ExcludedMeans: options.params.ExcludedMeans,
		FilterLines:   options.params.FilterLines,
		ShowPlatform:  options.params.ShowPlatform,
		ShowVia:       options.params.ShowVia,
		UseCountdown:  options.params.UseCountdown,
	})
	if err != nil {
		return sendError(c, err)
	}

	return sendDepartureBoard(c, board, options.detail)
}

type departureOptions struct {
	params efa.DepartureBoardParams
	detail string
}

func parseDepartureOptions(c *fiber.Ctx) (departureOptions, error) {
	var options departureOptions
	var err error

	options.detail = c.Query("detail", "detailed")
	if !slices.Contains(detailLevels, options.detail) {
		return options, errors.New("Parameter detail should be basic or detailed")
	}

	if options.params.MaxResults, err = queryInt(c, "limit"); err != nil {
		return options, err
	}
	if options.params.UseRealtime, err = queryFlag(c, "realtime"); err != nil {
		return options, err
	}
	if options.params.UseCountdown, err = queryFlag(c, "countdown"); err != nil {
		return options, err
	}
	if options.params.ShowPlatform, err = queryFlag(c, "platform"); err != nil {
		return options, err
	}
	if options.params.ShowVia, err = queryFlag(c, "via"); err != nil {
		return options, err
	}
	if options.params.IncludedMeans, err = queryInts(c, "include"); err != nil {
		return options, err
	}
	if options.params.ExcludedMeans, err = queryInts(c, "exclude"); err != nil {
		return options, err
	}

	options.params.FilterLines = queryStrings(c, "line")

	return options, nil
}

func sendDepartureBoard(c *fiber.Ctx, board *efa.DepartureBoard, detail string) error {
	boardReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{detail},
	}, board)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sheriff could not reduce DepartureBoard",
		})
	}

	return c.JSON(boardReduced)
}
