// Package main checks every account balance against its ledger and exits
// non-zero when they disagree.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/branch-bank/internal/domain"
	"github.com/go-petr/branch-bank/internal/middleware"
	"github.com/go-petr/branch-bank/internal/reconciliationrepo"
	"github.com/go-petr/branch-bank/internal/reconciliationservice"
	"github.com/go-petr/branch-bank/pkg/configpkg"
	"github.com/go-petr/branch-bank/pkg/dbpkg"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

func main() {
	configPath := flag.String("config", "./configs", "directory holding app.env")
	flag.Parse()

	config, err := configpkg.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)
	ctx := logger.WithContext(context.Background())

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer db.Close()

	service := reconciliationservice.New(reconciliationrepo.NewRepoPGS(db))

	report, err := service.Run(ctx)
	if err != nil && !errors.Is(err, domain.ErrPartialCommit) {
		logger.Fatal().Err(err).Msg("reconciliation failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if encErr := enc.Encode(report); encErr != nil {
		logger.Fatal().Err(encErr).Msg("cannot write report")
	}

	if err != nil {
		logger.Error().Err(err).Send()
		os.Exit(1)
	}
}
