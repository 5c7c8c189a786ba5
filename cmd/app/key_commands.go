package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/chadlung/barbican/cmd/app/commands"
	"github.com/chadlung/barbican/internal/app"
	"github.com/chadlung/barbican/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-master-key",
			Usage: "Generate a master key for the software crypto plugin",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "Master key ID (e.g., prod-master-key-2026)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateMasterKey(
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
				)
			},
		},
		{
			Name:  "rotate-master-key",
			Usage: "Generate a new active master key and keep the existing ones for unwrapping",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "New master key ID (e.g., prod-master-key-2027)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunRotateMasterKey(
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cfg.MasterKeys,
					cfg.ActiveMasterKeyID,
				)
			},
		},
		{
			Name:  "bind-kek",
			Usage: "Bind a project's key encryption key for a crypto plugin",
			Flags: []cli.Flag{
				projectFlag(),
				&cli.StringFlag{
					Name:  "plugin",
					Value: "software",
					Usage: "Crypto plugin to bind the KEK with",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tenantRepo, err := container.TenantRepository()
				if err != nil {
					return err
				}

				pluginManager, err := container.PluginManager()
				if err != nil {
					return err
				}

				kekUseCase, err := container.KekUseCase()
				if err != nil {
					return err
				}

				return commands.RunBindKek(
					ctx,
					tenantRepo,
					pluginManager,
					kekUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("project"),
					cmd.String("plugin"),
					cmd.String("format"),
				)
			},
		},
	}
}
