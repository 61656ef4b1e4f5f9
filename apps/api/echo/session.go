package echoapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core/session"
)

const (
	sessionCookieName = "schooldash_session"
	contextSessionKey = "session"
	loginPath         = "/login"
)

var errUnexpectedSigningMethod = errors.New("unexpected signing method")

// sessionClaims is the session state carried by the cookie.
type sessionClaims struct {
	jwt.RegisteredClaims
	Role     string     `json:"role"`
	Page     string     `json:"page"`
	UserID   int64      `json:"uid"`
	BranchID null.Int64 `json:"bid"`
}

// sessionStore keeps the session in a signed (HS256) cookie.
type sessionStore struct {
	key    []byte
	issuer string
	maxAge time.Duration
	secure bool
}

func (st sessionStore) encode(sess session.Session, now time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    st.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(st.maxAge)),
		},
		Role:     sess.Role,
		Page:     sess.Page,
		UserID:   sess.UserID,
		BranchID: sess.BranchID,
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(st.key)
	return ss, errors.Wrap(err, "signing session token")
}

func (st sessionStore) decode(token string) (session.Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigningMethod
		}
		return st.key, nil
	})
	if err != nil {
		return session.Session{}, errors.Wrap(err, "parsing session token")
	}
	return session.Session{Role: claims.Role, Page: claims.Page, UserID: claims.UserID, BranchID: claims.BranchID}, nil
}

// save writes sess to the response cookie.
func (st sessionStore) save(ctx echo.Context, sess session.Session) error {
	token, err := st.encode(sess, time.Now())
	if err != nil {
		return err
	}
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(st.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// load reads the request session; a missing, expired or tampered cookie yields the logged-out session.
func (st sessionStore) load(ctx echo.Context) session.Session {
	cookie, err := ctx.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return session.Logout()
	}
	sess, err := st.decode(cookie.Value)
	if err != nil {
		return session.Logout()
	}
	return sess
}

func (st sessionStore) clear(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// requireRole re-checks the cookie session on every request of a role group.
// A mismatch clears the cookie and redirects to the login page.
func (s *server) requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := session.Require(s.sessions.load(ctx), role)
			if err != nil {
				s.sessions.clear(ctx)
				return ctx.Redirect(http.StatusSeeOther, loginPath)
			}
			ctx.Set(contextSessionKey, sess)
			return next(ctx)
		}
	}
}

func contextSession(ctx echo.Context) session.Session {
	if sess, ok := ctx.Get(contextSessionKey).(session.Session); ok {
		return sess
	}
	return session.Logout()
}

// contextBranchID is the branch of the logged-in branchadmin or teacher.
func contextBranchID(ctx echo.Context) (int64, error) {
	sess := contextSession(ctx)
	if !sess.BranchID.Valid {
		return 0, errHttpForbidden
	}
	return sess.BranchID.Int64, nil
}
