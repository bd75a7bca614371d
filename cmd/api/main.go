package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/config"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/apilog"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	absenceService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/absence"
	adjustmentService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/adjustment"
	serviceAuth "github.com/cmlabs-hris/timeclock-backend-go/internal/service/auth"
	serviceCompany "github.com/cmlabs-hris/timeclock-backend-go/internal/service/company"
	timeRecordService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/timerecord"
	userService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
)

const (
	appName         = "timeclock"
	appVersion      = "v1.0.0"
	shutdownTimeout = 15 * time.Second
)

// repositories is the storage backend selected by DB_DRIVER.
type repositories struct {
	db          database.Transactor
	pinger      database.Pinger
	users       user.UserRepository
	companies   company.CompanyRepository
	timeRecords timerecord.TimeRecordRepository
	absences    absence.AbsenceRepository
	adjustments adjustment.AdjustmentRepository
	apiLogs     apilog.APILogRepository
	close       func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)
	response.SetDebug(cfg.App.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	clk := clock.System()
	loc := cfg.Location()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, clk)
	if err != nil {
		return fmt.Errorf("error creating jwt service: %w", err)
	}

	userSvc := userService.NewUserService(repos.db, repos.users, repos.companies, clk, cfg.Limits.UserLimit)
	companySvc := serviceCompany.NewCompanyService(repos.companies, repos.users, clk)
	authSvc := serviceAuth.NewAuthService(repos.users, userSvc, JWTService)
	timeRecordSvc := timeRecordService.NewTimeRecordService(repos.timeRecords, repos.users, clk, loc)
	absenceSvc := absenceService.NewAbsenceService(repos.absences, repos.users, clk)
	adjustmentSvc := adjustmentService.NewAdjustmentService(repos.db, repos.adjustments, repos.timeRecords, repos.users, clk)

	if cfg.Master.Email != "" {
		if err := userSvc.EnsureMaster(ctx, cfg.Master.Name, cfg.Master.Email, cfg.Master.Password); err != nil {
			return fmt.Errorf("error seeding master account: %w", err)
		}
	}

	scheduler := cron.NewScheduler(ctx)
	cron.NewAPILogJobs(repos.apiLogs, clk, cfg.APILog.RetentionDays, cfg.APILog.PurgeInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Company:    appHTTP.NewCompanyHandler(companySvc),
		User:       appHTTP.NewUserHandler(userSvc),
		TimeRecord: appHTTP.NewTimeRecordHandler(timeRecordSvc),
		Absence:    appHTTP.NewAbsenceHandler(absenceSvc),
		Adjustment: appHTTP.NewAdjustmentHandler(adjustmentSvc),
		Health:     appHTTP.NewHealthHandler(appVersion, map[string]database.Pinger{"database": repos.pinger}),
	}, appHTTP.RouterOptions{
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		APILogs:        repos.apiLogs,
		Clock:          clk,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "db_driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case "memory":
		store := memory.NewStore()
		return &repositories{
			db:          memory.NewTransactor(store),
			pinger:      store,
			users:       memory.NewUserRepository(store),
			companies:   memory.NewCompanyRepository(store),
			timeRecords: memory.NewTimeRecordRepository(store),
			absences:    memory.NewAbsenceRepository(store),
			adjustments: memory.NewAdjustmentRepository(store),
			apiLogs:     memory.NewAPILogRepository(store),
			close:       func() {},
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("error connecting to database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(ctx); err != nil {
				db.Close()
				return nil, fmt.Errorf("error migrating database: %w", err)
			}
		}
		return &repositories{
			db:          postgresql.NewTransactor(db),
			pinger:      db,
			users:       postgresql.NewUserRepository(db),
			companies:   postgresql.NewCompanyRepository(db),
			timeRecords: postgresql.NewTimeRecordRepository(db),
			absences:    postgresql.NewAbsenceRepository(db),
			adjustments: postgresql.NewAdjustmentRepository(db),
			apiLogs:     postgresql.NewAPILogRepository(db),
			close:       db.Close,
		}, nil
	}
}
