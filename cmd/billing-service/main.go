package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"kriyatec.com/medstore-api/pkg/billing-service/bills"
	"kriyatec.com/medstore-api/pkg/billing-service/info"
	"kriyatec.com/medstore-api/pkg/billing-service/medicines"
	"kriyatec.com/medstore-api/pkg/shared/config"
	"kriyatec.com/medstore-api/pkg/shared/database"
	"kriyatec.com/medstore-api/pkg/shared/helper"
	logx "kriyatec.com/medstore-api/pkg/shared/logger"
	"kriyatec.com/medstore-api/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("invalid configuration")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.App.Environment})
	// money goes out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	//By Default try to connect shared db
	if err := database.Init(cfg.Mongo); err != nil {
		logx.Fatal().Err(err).Msg("shared database unreachable")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := database.InitCache(ctx, cfg.Redis); err != nil {
		logx.Warn().Err(err).Msg("redis unavailable, store profiles are not cached")
	}
	cancel()

	profiles := helper.NewStoreProfiles(database.Cache, cfg.Redis)

	billHandler := bills.NewHandler(bills.MongoStore{}, profiles, helper.InvoicePDF{}, cfg.App.PublicURL)
	if uploader, err := helper.NewS3Uploader(cfg.S3); err != nil {
		logx.Warn().Err(err).Msg("object storage disabled, invoices cannot be exported")
	} else {
		billHandler.Uploader = uploader
	}
	if sms := helper.NewSMSGateway(cfg.SMS); sms.Enabled() {
		billHandler.Notifier = sms
	}
	if cfg.Cashfree.AppID != "" {
		billHandler.Payments = helper.NewCashfree(cfg.Cashfree)
	}

	// Server initialization
	app := server.Create(cfg.App)
	info.SetupRoutes(app, &info.Handler{Profiles: profiles})
	medicines.SetupRoutes(app, medicines.NewHandler(medicines.MongoStore{}, medicines.Thresholds{
		ExpiryWindowDays: cfg.Stock.ExpiryWindowDays,
		LowStockAlert:    cfg.Stock.LowStockAlert,
	}))
	bills.SetupRoutes(app, billHandler)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logx.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logx.Error().Err(err).Msg("server shutdown")
		}
	}()

	if err := server.Listen(app, cfg.App); err != nil {
		logx.Panic().Err(err).Msg("server stopped")
	}

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if database.Cache != nil {
		_ = database.Cache.Close()
	}
	database.Disconnect(ctx)
}
