package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"churchledger-backend/api/reconciler/v1/reconcilerv1connect"
	"churchledger-backend/lib/configutil"
	configsqlite "churchledger-backend/lib/configutil/sqlite"
	"churchledger-backend/lib/rosterstore/db"
	"churchledger-backend/lib/serviceutil"
	"churchledger-backend/lib/telemetry"
	"churchledger-backend/services/reconciler"

	"connectrpc.com/connect"
)

type Config struct {
	Database    configsqlite.Struct `json:"database"`
	AccessToken string              `json:"access_token"`
	Port        int                 `json:"port"`
	Matching    reconciler.Config   `json:"matching"`
}

func defaultConfig() Config {
	return Config{
		Database: configsqlite.Struct{File: "state/reconciler.db"},
		Port:     8222,
		Matching: reconciler.DefaultConfig(),
	}
}

func main() {
	configPath := flag.String("config", "config.json5", "path to the service configuration")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfigWithDefaults(*configPath, defaultConfig())
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	database, err := config.Database.OpenDB(db.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}
	defer database.Close()

	t, err := telemetry.SetupFromEnv(ctx, "reconciler")
	if os.IsNotExist(err) {
		slog.Warn("no telemetry.json5 found, telemetry is disabled")
	} else if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())

	telemetry.InstrumentPerfStats(ctx, 30*time.Second)

	service, err := reconciler.NewService(database, config.Matching)
	if err != nil {
		serviceutil.Fatal("failed to create service", err)
	}

	mux := http.NewServeMux()
	mux.Handle(reconcilerv1connect.NewReconcilerServiceHandler(
		service,
		connect.WithInterceptors(
			serviceutil.NewConnectOtelInterceptor(),
			serviceutil.VerifyAccessTokenInterceptor(config.AccessToken),
		),
	))

	err = serviceutil.StartHttpServer(ctx, config.Port, mux)
	if err != nil {
		serviceutil.Fatal("http server stopped", err)
	}
}
