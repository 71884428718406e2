package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// @title        AgriLink Market API
// @version      1.0
// @description  Farm-to-community pre-order marketplace: catalog, cart, orders and the transparency dashboard.
// @BasePath     /api
func main() {
	app := &cli.App{
		Name:  "agrilink",
		Usage: "farm-to-community pre-order marketplace API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run migrations, then serve HTTP and gRPC health",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations and exit",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "down", Usage: "roll back every migration"},
				},
				Action: migrateCmd,
			},
		},
		DefaultCommand: "serve",
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
