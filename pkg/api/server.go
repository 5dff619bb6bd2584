package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/rtmonitor/pkg/api/routes"
	"github.com/travigo/rtmonitor/pkg/cachedresults"
	"github.com/travigo/rtmonitor/pkg/efa"
)

// Services are shared by every request of one server
type Services struct {
	DepartureBoard *efa.DepartureBoardService
	Route          *efa.RouteService
	Station        *efa.StationService

	// Cache is optional and only used for station search
	Cache *cachedresults.Cache
}

func NewServices(client efa.Requester) *Services {
	return &Services{
		DepartureBoard: efa.NewDepartureBoardService(client),
		Route:          efa.NewRouteService(client),
		Station:        efa.NewStationService(client),
	}
}

func NewApp(services *Services) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger(log.Logger))

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.DeparturesRouter(group.Group("/departures"), services.DepartureBoard)
	routes.RouteRouter(group.Group("/route"), services.Route)
	routes.StationsRouter(group.Group("/stations"), services.Station, services.Cache)

	return webApp
}

func SetupServer(listen string, services *Services) error {
	log.Info().Str("listen", listen).Msg("Starting web API")

	return NewApp(services).Listen(listen)
}
