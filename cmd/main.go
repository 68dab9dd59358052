package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tank_control/internal/config"
	"tank_control/internal/control"
	"tank_control/internal/handlers"
	"tank_control/internal/hardware"
	"tank_control/internal/logger"
	"tank_control/internal/repository"
	"tank_control/internal/server"
	"tank_control/internal/service"

	"github.com/spf13/viper"

	_ "tank_control/docs"
)

const (
	defaultEvokTimeout  = 5 * time.Second
	defaultRetentionRun = 24 * time.Hour
)

// @title           Tank Control API
// @version         1.0
// @description     Hot-water tank temperature control and monitoring.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	// load config.yml first so the log level comes from it
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log.level"))

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// wire dependencies
	repos := repository.NewRepository(db)
	store, err := config.NewStore(ctx, repos.Settings)
	if err != nil {
		log.Fatalw("failed to load control settings", "err", err)
	}

	sensors, actuators := buildGateways(store, log)

	hub := handlers.NewHub()
	services := service.NewService(repos, store, hub, viper.GetString("jwt.signing_key"), log)
	apiHandler := handlers.NewHandler(services, hub, log)

	// start the control loop and retention cleanup
	loop := control.NewLoop(sensors, actuators, store, services.Recorder, log)
	go loop.Run(ctx)
	go services.Retention.Run(ctx, defaultRetentionRun)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "tanks.db")
		dbPath = "tanks.db"
	}
	return repository.InitDB(dbPath)
}

// buildGateways selects the hardware backend: a real Evok endpoint or the
// built-in simulation when evok.mock is set.
func buildGateways(store *config.Store, log *logger.Logger) (hardware.SensorGateway, hardware.ActuatorGateway) {
	if viper.GetBool("evok.mock") {
		log.Infow("using simulated hardware")
		sim := hardware.NewSimulatedClient(store.Snapshot().RelayHeating)
		return sim, sim
	}

	host := viper.GetString("evok.host")
	if host == "" {
		host = "127.0.0.1"
	}
	port := viper.GetInt("evok.port")
	if port == 0 {
		port = 8080
	}
	log.Infow("using evok hardware", "host", host, "port", port)
	client := hardware.NewEvokClient(host, port, defaultEvokTimeout)
	return client, client
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8081"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the control loop, retention and ws writers
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
