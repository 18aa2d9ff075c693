package draftstore

import (
	"context"

	"github.com/kr/pretty"
	"github.com/transitdraft/transitdraft/pkg/database"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "draft",
		Usage: "Inspect stored route drafts",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Pretty print a stored draft",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Identifier of the draft",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					d, err := Get(context.Background(), c.String("id"))
					if err != nil {
						return err
					}

					pretty.Println(d)

					return nil
				},
			},
		},
	}
}
