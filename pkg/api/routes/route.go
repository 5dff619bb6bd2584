package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/rtmonitor/pkg/efa"
	"golang.org/x/exp/slices"
)

func RouteRouter(router fiber.Router, service *efa.RouteService) {
	router.Get("/", func(c *fiber.Ctx) error {
		return getRoute(c, service)
	})
}

func getRoute(c *fiber.Ctx, service *efa.RouteService) error {
	params := efa.RouteParams{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		Date:        c.Query("date"),
		Time:        c.Query("time"),
		TripMode:    efa.TripMode(c.Query("mode")),
	}

	if params.Origin == "" || params.Destination == "" {
		return sendBadRequest(c, errors.New("Parameters origin and destination are required"))
	}

	if params.TripMode != "" && !slices.Contains(efa.TripModes, params.TripMode) {
		return sendBadRequest(c, errors.New("Parameter mode should be shortest or leastChanges"))
	}

	var err error
	if params.IsArrival, err = queryFlag(c, "arrival"); err != nil {
		return sendBadRequest(c, err)
	}
	if params.UseRealtime, err = queryFlag(c, "realtime"); err != nil {
		return sendBadRequest(c, err)
	}

	route, err := service.GetRoute(c.UserContext(), params)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(route)
}
