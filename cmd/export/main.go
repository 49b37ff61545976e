package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"food_rent/internal/adapters/csvexport"
	"food_rent/internal/adapters/observability"
	"food_rent/internal/shared"
	"food_rent/internal/storage"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	outFlag := &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default stdout)"}
	app := &cli.App{
		Name:  "export",
		Usage: "write aggregate reports from the store as CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "driver", Value: cfg.StoreDriver, Usage: "store backend: sqlite or mysql"},
			&cli.StringFlag{Name: "sqlite", Value: cfg.SQLitePath, Usage: "sqlite database path"},
			&cli.StringFlag{Name: "mysql", Value: cfg.MySQLDSN, Usage: "mysql DSN"},
		},
		Commands: []*cli.Command{
			{Name: "rent", Usage: "average rent per city", Flags: []cli.Flag{outFlag}, Action: RentAction},
			{Name: "summary", Usage: "restaurant and rental figures per city", Flags: []cli.Flag{outFlag}, Action: SummaryAction},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}
}

func RentAction(c *cli.Context) error {
	repo, closeStore, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeStore()

	rows, err := repo.AverageRent(c.Context)
	if err != nil {
		return fmt.Errorf("average rent: %w", err)
	}
	return withOutput(c.String("out"), func(w io.Writer) error {
		return csvexport.WriteAverageRent(w, rows)
	})
}

func SummaryAction(c *cli.Context) error {
	repo, closeStore, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeStore()

	rows, err := repo.CitySummaries(c.Context)
	if err != nil {
		return fmt.Errorf("city summaries: %w", err)
	}
	return withOutput(c.String("out"), func(w io.Writer) error {
		return csvexport.WriteSummaries(w, rows)
	})
}

func openStore(c *cli.Context) (storage.Repository, func(), error) {
	repo, db, err := storage.Open(c.Context, c.String("driver"), c.String("sqlite"), c.String("mysql"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return repo, func() { _ = db.Close() }, nil
}

func withOutput(path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	log.Info().Str("path", path).Msg("report written")
	return f.Close()
}
