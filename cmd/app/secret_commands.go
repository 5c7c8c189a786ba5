package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/chadlung/barbican/cmd/app/commands"
	"github.com/chadlung/barbican/internal/app"
	"github.com/chadlung/barbican/internal/config"
)

func getSecretCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "store-secret",
			Usage: "Encrypt and store a secret for a project",
			Flags: []cli.Flag{
				projectFlag(),
				&cli.StringFlag{
					Name:    "name",
					Aliases: []string{"n"},
					Usage:   "Human-readable secret name",
				},
				&cli.StringFlag{
					Name:     "payload",
					Required: true,
					Usage:    "Base64-encoded secret payload",
				},
				&cli.StringFlag{
					Name:  "content-type",
					Usage: "Payload content type (defaults to DEFAULT_CONTENT_TYPE)",
				},
				&cli.StringFlag{
					Name:    "algorithm",
					Aliases: []string{"alg"},
					Usage:   "Algorithm the payload is meant for (e.g., aes)",
				},
				&cli.IntFlag{
					Name:  "bit-length",
					Usage: "Key size in bits",
				},
				&cli.StringFlag{
					Name:  "mode",
					Usage: "Cipher mode (e.g., cbc)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				secretUseCase, err := container.SecretUseCase()
				if err != nil {
					return err
				}

				return commands.RunStoreSecret(
					ctx,
					secretUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					commands.StoreSecretParams{
						ProjectID:   cmd.String("project"),
						Name:        cmd.String("name"),
						Payload:     cmd.String("payload"),
						ContentType: cmd.String("content-type"),
						Algorithm:   cmd.String("algorithm"),
						BitLength:   int(cmd.Int("bit-length")),
						Mode:        cmd.String("mode"),
						Format:      cmd.String("format"),
					},
				)
			},
		},
		{
			Name:  "get-secret",
			Usage: "Decrypt a project's secret and print its payload as base64",
			Flags: []cli.Flag{
				projectFlag(),
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Secret ID (UUID)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				secretUseCase, err := container.SecretUseCase()
				if err != nil {
					return err
				}

				return commands.RunGetSecret(
					ctx,
					secretUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("project"),
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "generate-key",
			Usage: "Generate a symmetric key or an asymmetric key pair for a project",
			Flags: []cli.Flag{
				projectFlag(),
				&cli.StringFlag{
					Name:    "name",
					Aliases: []string{"n"},
					Usage:   "Name for the generated secrets",
				},
				&cli.StringFlag{
					Name:    "type",
					Aliases: []string{"t"},
					Value:   "key",
					Usage:   "Order type: 'key' or 'asymmetric'",
				},
				&cli.StringFlag{
					Name:     "algorithm",
					Aliases:  []string{"alg"},
					Required: true,
					Usage:    "Algorithm: aes, des, 3des, hmacsha*, rsa or dsa",
				},
				&cli.IntFlag{
					Name:     "bit-length",
					Required: true,
					Usage:    "Key size in bits",
				},
				&cli.StringFlag{
					Name:  "mode",
					Usage: "Cipher mode (e.g., cbc)",
				},
				&cli.StringFlag{
					Name:  "passphrase",
					Usage: "Passphrase protecting the private key (asymmetric only)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				secretUseCase, err := container.SecretUseCase()
				if err != nil {
					return err
				}

				return commands.RunGenerateKey(
					ctx,
					secretUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					commands.GenerateKeyParams{
						ProjectID:  cmd.String("project"),
						Name:       cmd.String("name"),
						Type:       cmd.String("type"),
						Algorithm:  cmd.String("algorithm"),
						BitLength:  int(cmd.Int("bit-length")),
						Mode:       cmd.String("mode"),
						Passphrase: cmd.String("passphrase"),
						Format:     cmd.String("format"),
					},
				)
			},
		},
	}
}
