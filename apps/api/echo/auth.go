package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/session"
	"github.com/trezcool/schooldash/core/user"
)

type (
	LoginRequest struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}

	NavigateRequest struct {
		Page string `json:"page" form:"page" validate:"required,notblank"`
	}
)

type authApi struct {
	sessions sessionStore
	metrics  *metrics
	svc      *user.Service
}

func registerAuthAPI(g *echo.Group, sessions sessionStore, m *metrics, svc *user.Service) {
	api := authApi{sessions: sessions, metrics: m, svc: svc}

	g.GET(loginPath, api.current)
	g.POST(loginPath, api.login)
	g.POST("/logout", api.logout)
	g.GET("/session", api.current)
	g.POST("/navigate", api.navigate)
}

// login starts a session; on failure the current session (if any) is left as it was.
func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}

	ident, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		api.metrics.login(false)
		if errors.Cause(err) == core.ErrAuthenticationFailed {
			return err
		}
		return errors.Wrap(err, "authenticating")
	}
	api.metrics.login(true)

	sess := session.Login(ident)
	if err = api.sessions.save(ctx, sess); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *authApi) logout(ctx echo.Context) error {
	api.sessions.clear(ctx)
	return ctx.JSON(http.StatusOK, session.Logout())
}

func (api *authApi) current(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.sessions.load(ctx))
}

func (api *authApi) navigate(ctx echo.Context) error {
	sess := api.sessions.load(ctx)
	if !sess.IsAuthenticated() {
		api.sessions.clear(ctx)
		return ctx.Redirect(http.StatusSeeOther, loginPath)
	}

	var data NavigateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NavigateRequest")
	}
	data.Page = core.CleanString(data.Page)
	if err := core.Validate.Struct(data); err != nil {
		return err
	}

	sess = session.Navigate(sess, data.Page)
	if err := api.sessions.save(ctx, sess); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}
