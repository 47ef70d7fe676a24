package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/config"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/connection"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/controller/api"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/mist"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/platform/logger"
	"github.com/jmorrison-juniper/MistOrgLicensingComparison/internal/platform/utils"
	"github.com/redhatinsights/platform-go-middlewares/request_id"

	"github.com/gorilla/mux"
)

func startApiServer(listenAddr string) {

	logger.InitLogger()

	logger.Log.Info("Starting Mist Org Licensing Comparison service")

	cfg := config.GetConfig()
	logger.Log.Info("Mist Org Licensing Comparison configuration:\n", cfg)

	mistClient := mist.NewClient(cfg.MistApiHost, cfg.MistClientTimeout)

	// The connection manager is built eagerly so a bad token configuration
	// takes the process down at startup instead of on the first request.
	connectionMgr, err := connection.NewConnectionManager(context.Background(), cfg, mistClient)
	if err != nil {
		logger.LogFatalError("Unable to initialize the Mist connection manager", err)
	}

	apiMux := mux.NewRouter()
	apiMux.Use(request_id.ConfiguredRequestID("x-request-id"))

	apiSpecServer := api.NewApiSpecServer(apiMux, cfg.UrlBasePath, cfg.OpenApiSpecFilePath)
	apiSpecServer.Routes()

	monitoringServer := api.NewMonitoringServer(apiMux, cfg)
	monitoringServer.Routes()

	comparisonServer := api.NewComparisonServer(connectionMgr, apiMux, cfg)
	comparisonServer.Routes()

	apiSrv := utils.StartHTTPServer(listenAddr, "api", apiMux)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-signalChan
	logger.Log.Info("Received signal to shutdown: ", sig)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HttpShutdownTimeout)
	defer cancel()

	utils.ShutdownHTTPServer(ctx, "api", apiSrv)

	logger.Log.Info("Mist Org Licensing Comparison shutting down")
}
