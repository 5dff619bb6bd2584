package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/rtmonitor/pkg/api"
	"github.com/travigo/rtmonitor/pkg/monitor"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	_ = godotenv.Load()

	// Command output goes to stdout, so logs stay on stderr
	if os.Getenv("RTMONITOR_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	if os.Getenv("RTMONITOR_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "rtmonitor",
		Usage:       "departure boards, trips and station search from an EFA server",
		Description: "Client and web API for the EFA realtime monitor of the Baden-Württemberg journey planner",
		Flags:       monitor.GlobalFlags(),

		Commands: append(monitor.RegisterCLI(), api.RegisterCLI()),
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
