package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appHTTP "github.com/cmlabs-hris/face-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/cron"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the attendance API. Pending migrations are applied and the face
roster is loaded before the listener opens.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides APP_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := newApplication(ctx, true)
	if err != nil {
		return err
	}
	defer app.Close()

	port := app.cfg.App.Port
	if p := mustGetInt(cmd, "port"); p > 0 {
		port = p
	}

	scheduler := cron.NewScheduler()
	if err := cron.NewRosterJobs(app.roster, app.cfg.Match.RosterRefresh).RegisterJobs(scheduler); err != nil {
		return fmt.Errorf("registering cron jobs: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         app.logger,
			LogLevel:       app.cfg.SlogLevel(),
			AllowedOrigins: app.cfg.App.AllowedOrigins,
			JWTService:     app.jwtService,
			Pinger:         app.db,
		},
		appHTTP.NewAuthHandler(app.authService),
		appHTTP.NewAttendanceHandler(app.attendanceService, app.hub),
		appHTTP.NewEmployeeHandler(app.employeeService),
		appHTTP.NewFaceHandler(app.faceService),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutting down")
		// ends open event streams so Shutdown does not wait on them
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	slog.Info("Server starting",
		"port", port,
		"auth_enabled", app.cfg.AuthEnabled(),
		"geofence_enabled", app.cfg.Office.Enabled,
		"match_policy", app.cfg.Match.Policy,
		"roster_size", app.roster.Current().Size(),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
