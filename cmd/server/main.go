package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/storefront/config"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/repository/postgres"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/logger"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "storefront",
		Usage:   "operators, customers, orders and products API",
		Version: version,
		Action:  serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the postgres schema",
				Action: migrate,
			},
			{
				Name:  "token",
				Usage: "mint a signed bearer token for local testing",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Aliases: []string{"s"}, Usage: "user_id claim", Required: true},
					&cli.DurationFlag{Name: "ttl", Usage: "token lifetime; 0 for no expiry (default JWT_ACCESS_TTL)"},
				},
				Action: token,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the process logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.App.Version == "0.0.0" {
		cfg.App.Version = version
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.WithService(log, cfg.App), nil
}

func migrate(_ *cli.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.Database.Driver != config.StoragePostgres {
		return fmt.Errorf("migrate requires STORAGE_DRIVER=%s", config.StoragePostgres)
	}

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	return database.Migrate(db, log, postgres.Models()...)
}

func token(c *cli.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ttl := cfg.JWT.AccessTokenTTL
	if c.IsSet("ttl") {
		ttl = c.Duration("ttl")
	}

	signed, expiresAt, err := auth.NewAuthenticator(cfg.JWT, log).GenerateToken(c.String("subject"), ttl)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, signed)
	if !expiresAt.IsZero() {
		fmt.Fprintf(c.App.ErrWriter, "expires at %s\n", expiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}
