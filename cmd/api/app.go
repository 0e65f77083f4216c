package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/face-attendance-go/internal/config"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/face-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/face-attendance-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/face-attendance-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/face-attendance-go/internal/service/employee"
	faceService "github.com/cmlabs-hris/face-attendance-go/internal/service/face"
	"github.com/go-chi/httplog/v3"
)

// application holds everything the commands share once the database is up.
type application struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *database.DB
	hub    *sse.Hub
	roster *faceService.RosterCache

	jwtService        jwt.Service
	faceService       face.Service
	employeeService   employee.EmployeeService
	attendanceService attendance.AttendanceService
	authService       auth.AuthService
}

func newLogger(cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "face-attendance"),
		slog.String("env", cfg.App.Env),
	)
}

// connect loads configuration, installs the default logger and opens the pool.
func connect() (*config.Config, *slog.Logger, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		ApplicationName: "face-attendance",
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	return cfg, logger, db, nil
}

// newApplication connects, migrates and wires repositories and services.
// refreshRoster=false skips the employee-write roster hook for batch jobs.
func newApplication(ctx context.Context, refreshRoster bool) (*application, error) {
	cfg, logger, db, err := connect()
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	policy, err := face.ParsePolicy(cfg.Match.Policy)
	if err != nil {
		db.Close()
		return nil, err
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	transactor := postgresql.NewTransactor(db)

	matcher := faceService.NewMatcher(cfg.Match.Threshold, policy, face.DescriptorDimension, cfg.Match.IndexNeighbours)
	roster := faceService.NewRosterCache(employeeRepo)
	if _, err := roster.Refresh(ctx); err != nil {
		db.Close()
		return nil, err
	}
	faceSvc := faceService.NewFaceService(matcher, roster)

	var rosterHook face.RosterRefresher
	if refreshRoster {
		rosterHook = roster
	}
	employeeSvc := employeeService.NewEmployeeService(transactor, employeeRepo, rosterHook)

	hub := sse.NewHub(16)
	opts := attendanceService.Options{
		Location:        cfg.Attendance.Location,
		StandardWorkday: cfg.Attendance.StandardWorkday,
		Hub:             hub,
	}
	if cfg.Office.Enabled {
		opts.Geofence = &attendanceService.Geofence{
			Latitude:     cfg.Office.Latitude,
			Longitude:    cfg.Office.Longitude,
			RadiusMeters: cfg.Office.RadiusMeters,
		}
	}
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, faceSvc, opts)

	var jwtSvc jwt.Service
	if cfg.AuthEnabled() {
		jwtSvc = jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	}
	authSvc := authService.NewAuthService(jwtSvc, cfg.Admin.Username, cfg.Admin.PasswordHash)

	return &application{
		cfg:               cfg,
		logger:            logger,
		db:                db,
		hub:               hub,
		roster:            roster,
		jwtService:        jwtSvc,
		faceService:       faceSvc,
		employeeService:   employeeSvc,
		attendanceService: attendanceSvc,
		authService:       authSvc,
	}, nil
}

func (a *application) Close() {
	a.db.Close()
}
