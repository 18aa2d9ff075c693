package api

import (
	"github.com/rs/zerolog/log"
	"github.com/transitdraft/transitdraft/pkg/api/routes"
	"github.com/transitdraft/transitdraft/pkg/database"
	"github.com/transitdraft/transitdraft/pkg/redis_client"
	"github.com/transitdraft/transitdraft/pkg/routing"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the route drafting web API",
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
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						log.Fatal().Err(err).Msg("Failed to connect to Redis")
					}

					routes.Setup(
						routing.NewOSRMPlanner(),
						routing.NewCachedGeocoder(routing.NewNominatimGeocoder()),
					)

					return SetupServer(c.String("listen"))
				},
			},
		},
	}
}
