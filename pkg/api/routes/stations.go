package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/rtmonitor/pkg/cachedresults"
	"github.com/travigo/rtmonitor/pkg/efa"
	"golang.org/x/exp/slices"
)

// StationsRouter serves station search; cache may be nil
func StationsRouter(router fiber.Router, service *efa.StationService, cache *cachedresults.Cache) {
	router.Get("/", func(c *fiber.Ctx) error {
		return searchStations(c, service, cache)
	})
}

func searchStations(c *fiber.Ctx, service *efa.StationService, cache *cachedresults.Cache) error {
	params, err := parseStationParams(c)
	if err != nil {
		return sendBadRequest(c, err)
	}

	cacheKey := cachedresults.Key(efa.StopFinderEndpoint, efa.TransformStationParams(params))

	if cache != nil {
		var cached []efa.Station
		if cache.Get(c.UserContext(), cacheKey, &cached) {
			return c.JSON(cached)
		}
	}

	stations := service.SearchStations(c.UserContext(), params)

	// Failed searches come back empty too, so only hits are cached
	if cache != nil && len(stations) > 0 {
		if err := cache.Set(c.UserContext(), cacheKey, stations); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("Failed to cache stations")
		}
	}

	return c.JSON(stations)
}

func parseStationParams(c *fiber.Ctx) (efa.StationSearchParams, error) {
	params := efa.StationSearchParams{
		Query: c.Query("q"),
		Type:  efa.StationType(c.Query("type")),
	}

	if params.Type != "" && !slices.Contains(efa.StationTypes, params.Type) {
		return params, errors.New("Parameter type should be stop, poi or street")
	}

	var err error
	if params.MaxResults, err = queryInt(c, "max"); err != nil {
		return params, err
	}
	if params.Radius, err = queryInt(c, "radius"); err != nil {
		return params, err
	}

	latitude, longitude := c.Query("lat"), c.Query("lon")
	if latitude == "" && longitude == "" {
		return params, nil
	}
	if latitude == "" || longitude == "" {
		return params, errors.New("Parameters lat and lon must be given together")
	}

	params.Coordinates = &efa.Coordinates{}
	if params.Coordinates.Latitude, err = queryFloat(c, "lat"); err != nil {
		return params, err
	}
	if params.Coordinates.Longitude, err = queryFloat(c, "lon"); err != nil {
		return params, err
	}

	return params, nil
}
