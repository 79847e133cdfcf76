package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/config"
	appHTTP "github.com/developers-alawaf/hrms-app-sub000/internal/handler/http"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/activity"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/cron"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/database"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/jwt"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/terminal"
	"github.com/developers-alawaf/hrms-app-sub000/internal/repository/postgresql"
	adjustmentService "github.com/developers-alawaf/hrms-app-sub000/internal/service/adjustment"
	attendanceService "github.com/developers-alawaf/hrms-app-sub000/internal/service/attendance"
	authService "github.com/developers-alawaf/hrms-app-sub000/internal/service/auth"
	syncService "github.com/developers-alawaf/hrms-app-sub000/internal/service/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.MaxConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	loc, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		fmt.Println("Error loading timezone:", err)
		return
	}
	normalizer := localtime.NewNormalizer(loc, cfg.WindowStartMinutes())

	punchRepo := postgresql.NewPunchRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	adjustmentRepo := postgresql.NewAdjustmentRepository(db)
	activitySink := postgresql.NewActivitySink(db)

	recorder := activity.NewRecorder(activitySink, 256)
	defer recorder.Close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	terminalClient := terminal.NewHTTPClient(cfg.Terminal.BaseURL, cfg.Terminal.APIKey, cfg.Terminal.Timeout)

	attendanceSvc := attendanceService.NewService(
		attendanceRepo,
		punchRepo,
		employeeRepo,
		shiftRepo,
		holidayRepo,
		leaveRepo,
		normalizer,
		recorder,
	)
	syncSvc := syncService.NewService(
		terminalClient,
		punchRepo,
		employeeRepo,
		attendanceSvc,
		normalizer,
		recorder,
		cfg.Terminal.DeviceIDs,
	)
	adjustmentSvc := adjustmentService.NewService(
		adjustmentRepo,
		attendanceRepo,
		employeeRepo,
		attendanceSvc,
		recorder,
	)

	authSvc := authService.NewService(employeeRepo, JWTService)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	syncHandler := appHTTP.NewSyncHandler(syncSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	adjustmentHandler := appHTTP.NewAdjustmentHandler(adjustmentSvc)

	router := appHTTP.NewRouter(
		JWTService,
		authHandler,
		syncHandler,
		attendanceHandler,
		adjustmentHandler,
	)

	scheduler := cron.NewScheduler()
	jobs := cron.NewAttendanceJobs(syncSvc, attendanceSvc, employeeRepo, normalizer, cfg.Attendance.SyncInterval)
	jobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Shutdown error:", err)
	}
}
