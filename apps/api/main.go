package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/trezcool/schooldash/apps/api/echo"
	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/assessment"
	"github.com/trezcool/schooldash/core/branch"
	"github.com/trezcool/schooldash/core/class"
	"github.com/trezcool/schooldash/core/curriculum"
	"github.com/trezcool/schooldash/core/report"
	"github.com/trezcool/schooldash/core/student"
	"github.com/trezcool/schooldash/core/teacher"
	"github.com/trezcool/schooldash/core/user"
	"github.com/trezcool/schooldash/services/logger"
	"github.com/trezcool/schooldash/storage/database"
	"github.com/trezcool/schooldash/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer logger.Close()

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()
	if err = db.Init(context.Background()); err != nil {
		logger.Fatal(fmt.Sprintf("initializing database: %v", err), err)
	}

	// set up services
	opts := &echoapi.Options{
		Address:        conf.Server.Address,
		DisableReqLogs: conf.TestMode,
		Debug:          conf.Debug,
		TestMode:       conf.TestMode,
		AppName:        conf.AppName,
		SecretKey:      conf.SecretKey,
		SessionMaxAge:  conf.Server.SessionMaxAge,
		SecureCookies:  conf.Server.SecureCookies,
		Logger:         logger,

		UserSvc:       user.NewService(sqlxrepos.NewUserRepository(db)),
		BranchSvc:     branch.NewService(sqlxrepos.NewBranchRepository(db)),
		ClassSvc:      class.NewService(sqlxrepos.NewClassRepository(db)),
		StudentSvc:    student.NewService(sqlxrepos.NewStudentRepository(db)),
		CurriculumSvc: curriculum.NewService(sqlxrepos.NewCurriculumRepository(db)),
		TeacherSvc:    teacher.NewService(sqlxrepos.NewTeacherRepository(db)),
		AssessmentSvc: assessment.NewService(sqlxrepos.NewAssessmentRepository(db)),
		ReportSvc:     report.NewService(sqlxrepos.NewReportRepository(db)),
	}

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(opts)

	serverErrors := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}
