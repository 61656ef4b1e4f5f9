package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/assessment"
	"github.com/trezcool/schooldash/core/branch"
	"github.com/trezcool/schooldash/core/class"
	"github.com/trezcool/schooldash/core/curriculum"
	"github.com/trezcool/schooldash/core/report"
	"github.com/trezcool/schooldash/core/student"
	"github.com/trezcool/schooldash/core/teacher"
	"github.com/trezcool/schooldash/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Debug          bool
		TestMode       bool
		AppName        string
		SecretKey      string
		SessionMaxAge  time.Duration
		SecureCookies  bool
		Logger         core.Logger

		UserSvc       *user.Service
		BranchSvc     *branch.Service
		ClassSvc      *class.Service
		StudentSvc    *student.Service
		CurriculumSvc *curriculum.Service
		TeacherSvc    *teacher.Service
		AssessmentSvc *assessment.Service
		ReportSvc     *report.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		sessions sessionStore
		metrics  *metrics
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
		sessions: sessionStore{
			key:    []byte(opts.SecretKey),
			issuer: opts.AppName,
			maxAge: opts.SessionMaxAge,
			secure: opts.SecureCookies,
		},
		metrics: newMetrics(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(s.metrics.middleware())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.opts.Debug || s.opts.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.sessions)
	s.app.Debug = s.opts.Debug

	s.app.GET("/", s.home)
	s.app.GET("/metrics", echo.WrapHandler(s.metrics.handler()))

	registerAuthAPI(s.app.Group(""), s.sessions, s.metrics, s.opts.UserSvc)
	registerSuperadminAPI(s.app.Group("/superadmin", s.requireRole(user.RoleSuperAdmin)), s.opts)
	registerBranchadminAPI(s.app.Group("/branchadmin", s.requireRole(user.RoleBranchAdmin)), s.opts, s.metrics)
	registerTeacherAPI(s.app.Group("/teacher", s.requireRole(user.RoleTeacher)), s.opts, s.metrics)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.opts.AppName+"!")
}
