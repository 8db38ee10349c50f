package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/amanahq/amanah/backend/internal/ledger/adapter/repo"
	"github.com/amanahq/amanah/backend/internal/ledger/api"
	"github.com/amanahq/amanah/backend/internal/ledger/domain"
	"github.com/amanahq/amanah/backend/internal/ledger/service"
	"github.com/amanahq/amanah/backend/internal/platform/database"
	"github.com/amanahq/amanah/backend/internal/platform/logger"
	"github.com/amanahq/amanah/backend/internal/platform/metrics"
	"github.com/amanahq/amanah/backend/internal/platform/server"
)

func main() {
	viper.SetConfigFile("configs/config.yaml")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file: %s", err)
	}

	appLogger := logger.NewLogger(viper.GetString("server.mode"))
	defer appLogger.Sync() //nolint:errcheck

	db := database.NewPostgresDB(
		viper.GetString("database.dsn"),
		viper.GetInt("database.max_idle_conns"),
		viper.GetInt("database.max_open_conns"),
	)

	if viper.GetBool("database.auto_migrate") {
		err := db.AutoMigrate(
			&domain.Account{},
			&domain.Entry{},
			&domain.Line{},
			&domain.CategoryMapping{},
		)
		if err != nil {
			appLogger.Fatal("migration failed", zap.Error(err))
		}
	}

	accountRepo := repo.NewAccountRepo(db)
	entryRepo := repo.NewEntryRepo(db)
	mappingRepo := repo.NewMappingRepo(db)

	ledgerMetrics := metrics.New()

	valuation := service.ValuationConfig{
		GoldPricePerGram: decimal.NewFromInt(viper.GetInt64("ledger.gold_price_per_gram")),
		NisabGrams:       decimal.NewFromFloat(viper.GetFloat64("ledger.nisab_grams")),
	}

	registry := service.NewRegistry(accountRepo, mappingRepo, appLogger)
	classifier := service.NewClassifier(accountRepo, mappingRepo, valuation, appLogger)
	posting := service.NewPosting(accountRepo, entryRepo, appLogger, ledgerMetrics)
	ledgerSvc := service.NewLedger(classifier, posting)
	reporter := service.NewReporter(entryRepo, ledgerMetrics)
	auditor := service.NewAuditor(accountRepo, entryRepo, appLogger)
	reclassifier := service.NewReclassifier(entryRepo, appLogger)

	if viper.GetBool("ledger.seed") {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := registry.Seed(ctx); err != nil {
			cancel()
			appLogger.Fatal("seeding failed", zap.Error(err))
		}
		cancel()
	}

	ledgerHandler := api.NewLedgerHandler(ledgerSvc, registry, reporter, auditor, reclassifier)

	srv := server.NewServer(
		appLogger,
		viper.GetString("server.port"),
		viper.GetString("server.mode"),
		ledgerHandler,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("server startup failed", zap.Error(err))
		}
	case sig := <-quit:
		appLogger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			appLogger.Error("shutdown error", zap.Error(err))
		}
	}
}
