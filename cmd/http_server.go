package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/asset-management/internal/accessory"
	"github.com/frahmantamala/asset-management/internal/assignment"
	"github.com/frahmantamala/asset-management/internal/dashboard"
	"github.com/frahmantamala/asset-management/internal/document"
	"github.com/frahmantamala/asset-management/internal/equipment"
	"github.com/frahmantamala/asset-management/internal/report"
	"github.com/frahmantamala/asset-management/internal/transport"
	"github.com/frahmantamala/asset-management/internal/transport/rest"
	"github.com/frahmantamala/asset-management/internal/transport/swagger"
	"github.com/frahmantamala/asset-management/internal/user"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	app, err := newApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	router, err := setupRoutes(app)
	if err != nil {
		app.Logger.Error("Failed to set up routes", "error", err)
		app.Close()
		os.Exit(1)
	}

	cfg := app.Config.Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	app.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		app.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			app.Logger.Error("Server shutdown error", "error", err)
		}
		app.Close()
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			app.Logger.Error("Server failed to start", "error", err)
			app.Close()
			os.Exit(1)
		}
	}

	app.Logger.Info("Server stopped")
}

func setupRoutes(app *App) (*chi.Mux, error) {
	cfg := app.Config
	if cfg.Server.OpenAPIPath != "" {
		if _, err := swagger.LoadSpec(context.Background(), cfg.Server.OpenAPIPath); err != nil {
			return nil, err
		}
	}

	base := transport.NewBaseHandler(app.Logger)
	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Handlers{
		Health:     rest.NewHealthHandler(app.DB.DB, app.Redis),
		Equipment:  equipment.NewHandler(base, app.Equipment),
		Assignment: assignment.NewHandler(base, app.Assignment),
		User:       user.NewHandler(base, app.User),
		Accessory:  accessory.NewHandler(base, app.Accessory),
		Document:   document.NewHandler(base, app.Document, cfg.Uploads.MaxBytes()),
		Dashboard:  dashboard.NewHandler(base, app.Dashboard),
		Report:     report.NewHandler(base, app.Reports),
	}, rest.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		UploadsDir:     cfg.Uploads.Dir,
		UploadsPath:    cfg.Uploads.PublicPath,
		OpenAPIPath:    cfg.Server.OpenAPIPath,
	}, app.Logger)
	return router, nil
}
