package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/user"
)

var (
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")
	errNoFile        = core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a CSV file is required"})
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger, sessions sessionStore) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = core.TranslateValidationErrors(origErr)
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *core.ConstraintError:
			code = http.StatusConflict
			field := origErr.Field
			if field == "" {
				field = "error"
			}
			message = map[string]string{field: origErr.Error()}
		case *core.StoreUnavailableError:
			code = http.StatusServiceUnavailable
			message = http.StatusText(code)
			logger.Error("store unavailable", err, contextIdentity(ctx, sessions))
		default:
			switch origErr {
			case core.ErrNotFound:
				code = http.StatusNotFound
				message = "not found"
			case core.ErrAuthenticationFailed:
				code = http.StatusBadRequest
				message = core.ErrAuthenticationFailed.Error()
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(code)
				message = msg
				logger.Error(msg, errors.Wrap(err, msg), contextIdentity(ctx, sessions))
			}
		}

		if ctx.Echo().Debug && code >= http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// contextIdentity is the acting user as far as the session tells, for error reports.
func contextIdentity(ctx echo.Context, sessions sessionStore) user.Identity {
	sess := contextSession(ctx)
	if !sess.IsAuthenticated() {
		sess = sessions.load(ctx)
	}
	return user.Identity{UserID: sess.UserID, Role: sess.Role, BranchID: sess.BranchID}
}
