package api

import (
	"time"

	"github.com/travigo/rtmonitor/pkg/cachedresults"
	"github.com/travigo/rtmonitor/pkg/efa"
	"github.com/travigo/rtmonitor/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the departure, route and station web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.DurationFlag{
						Name:  "cache-expiration",
						Value: cachedresults.DefaultExpiration,
						Usage: "how long station search results stay in Redis",
					},
				},
				Action: func(c *cli.Context) error {
					config, err := efa.LoadConfig(c.String("config"))
					if err != nil {
						return err
					}

					if err := redis_client.Connect(); err != nil {
						return err
					}

					services := NewServices(efa.NewClient(config))
					services.Cache = newCache(c.Duration("cache-expiration"))

					return SetupServer(c.String("listen"), services)
				},
			},
		},
	}
}

func newCache(expiration time.Duration) *cachedresults.Cache {
	if redis_client.Client == nil {
		return nil
	}

	cache := &cachedresults.Cache{}
	cache.Setup(redis_client.Client, expiration)

	return cache
}
