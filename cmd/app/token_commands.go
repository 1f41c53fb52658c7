package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/gatekeeper/cmd/app/commands"
	"github.com/allisson/gatekeeper/internal/app"
	"github.com/allisson/gatekeeper/internal/config"
)

func getTokenCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-token",
			Usage: "Issue a new token for a user",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "owner",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "User identifier the token will be bound to",
				},
				&cli.StringFlag{
					Name:    "message",
					Aliases: []string{"m"},
					Value:   "Created via command line interface",
					Usage:   "Provenance message recorded with the token",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateToken(
					ctx,
					tokenUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("owner"),
					cmd.String("message"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "revoke-token",
			Usage: "Revoke a token regardless of owner",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "token",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Token value to revoke",
				},
				&cli.StringFlag{
					Name:    "message",
					Aliases: []string{"m"},
					Value:   "Revoked via command line interface",
					Usage:   "Provenance message recorded with the revocation",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevokeToken(
					ctx,
					tokenUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("token"),
					cmd.String("message"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "list-tokens",
			Usage: "List a user's full token history",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "owner",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "User identifier to list tokens for",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunListTokens(
					ctx,
					tokenUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("owner"),
					cmd.String("format"),
				)
			},
		},
	}
}
