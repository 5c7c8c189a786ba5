package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/chadlung/barbican/cmd/app/commands"
	"github.com/chadlung/barbican/internal/app"
	"github.com/chadlung/barbican/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "list-plugins",
			Usage: "List the enabled crypto plugins in selection order",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				pluginManager, err := container.PluginManager()
				if err != nil {
					return err
				}

				return commands.RunListPlugins(pluginManager, commands.DefaultIO().Writer, cmd.String("format"))
			},
		},
	}
}
