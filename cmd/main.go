package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"curtaincall/internal/handlers"
	"curtaincall/internal/logger"
	"curtaincall/internal/repository"
	"curtaincall/internal/repository/db"
	"curtaincall/internal/server"
	"curtaincall/internal/service"

	"github.com/spf13/viper"
)

// @title        Curtain Call API
// @description  Home-automation backend for a motorized curtain: sensor ingest, command queue, AI bridge.
func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB
	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, serviceConfig())
	apiHandler := handlers.NewHandler(services, log, viper.GetBool("auth.enabled"))

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	viper.SetDefault("port", "8080")
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("ai.response_format", service.FormatAction)
	viper.SetDefault("ai.timeout_seconds", 20)
	return viper.ReadInConfig()
}

// serviceConfig maps the viper tree onto the service layer's config.
func serviceConfig() service.Config {
	return service.Config{
		AI: service.AIConfig{
			APIKey:         viper.GetString("ai.api_key"),
			APIURL:         viper.GetString("ai.api_url"),
			Timeout:        time.Duration(viper.GetInt("ai.timeout_seconds")) * time.Second,
			ResponseFormat: viper.GetString("ai.response_format"),
		},
		Auth: service.AuthConfig{
			SigningKey: viper.GetString("auth.signing_key"),
			TokenTTL:   time.Duration(viper.GetInt("auth.token_ttl_minutes")) * time.Minute,
		},
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "curtaincall.db")
		dbPath = "curtaincall.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests (including a pending AI call) to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
