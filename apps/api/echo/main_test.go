package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooldash/core/assessment"
	"github.com/trezcool/schooldash/core/branch"
	"github.com/trezcool/schooldash/core/class"
	"github.com/trezcool/schooldash/core/curriculum"
	"github.com/trezcool/schooldash/core/report"
	"github.com/trezcool/schooldash/core/session"
	"github.com/trezcool/schooldash/core/student"
	"github.com/trezcool/schooldash/core/teacher"
	"github.com/trezcool/schooldash/core/user"
	"github.com/trezcool/schooldash/services/logger"
	"github.com/trezcool/schooldash/storage/database/sqlx"
	"github.com/trezcool/schooldash/testutil"
)

type testApp struct {
	srv     *server
	users   *user.Service
	repos   testRepos
	mainBID int64
}

type testRepos struct {
	branches branch.Repository
	classes  class.Repository
	students student.Repository
	teachers teacher.Repository
}

func setup(t *testing.T) *testApp {
	t.Helper()
	conf := testutil.NewConfig(t)
	db := testutil.PrepareDBWithConfig(t, conf)

	usrRepo := sqlxrepos.NewUserRepository(db)
	brRepo := sqlxrepos.NewBranchRepository(db)
	clsRepo := sqlxrepos.NewClassRepository(db)
	stdRepo := sqlxrepos.NewStudentRepository(db)
	tchRepo := sqlxrepos.NewTeacherRepository(db)

	usrSvc := user.NewService(usrRepo)
	srv := NewServer(&Options{
		DisableReqLogs: true,
		TestMode:       true,
		AppName:        conf.AppName,
		SecretKey:      conf.SecretKey,
		SessionMaxAge:  conf.Server.SessionMaxAge,
		Logger:         logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf),

		UserSvc:       usrSvc,
		BranchSvc:     branch.NewService(brRepo),
		ClassSvc:      class.NewService(clsRepo),
		StudentSvc:    student.NewService(stdRepo),
		CurriculumSvc: curriculum.NewService(sqlxrepos.NewCurriculumRepository(db)),
		TeacherSvc:    teacher.NewService(tchRepo),
		AssessmentSvc: assessment.NewService(sqlxrepos.NewAssessmentRepository(db)),
		ReportSvc:     report.NewService(sqlxrepos.NewReportRepository(db)),
	}).(*server)

	app := &testApp{
		srv:   srv,
		users: usrSvc,
		repos: testRepos{branches: brRepo, classes: clsRepo, students: stdRepo, teachers: tchRepo},
	}
	app.mainBID = app.user(t, "branch@example.com").BranchID.Int64
	return app
}

func (app *testApp) user(t *testing.T, email string) user.User {
	t.Helper()
	usr, err := app.users.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	return usr
}

// cookie returns a valid session cookie for the user.
func (app *testApp) cookie(t *testing.T, usr user.User) *http.Cookie {
	t.Helper()
	token, err := app.srv.sessions.encode(session.Login(usr.Identity()), time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookieName, Value: token}
}

func (app *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.srv.ServeHTTP(rec, req)
	return rec
}

func newRequest(method, path string, cookie *http.Cookie, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func newUploadRequest(t *testing.T, path string, cookie *http.Cookie, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func responseCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	return nil
}

func assertRedirectedToLogin(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, loginPath, rec.Header().Get("Location"))
	if c := responseCookie(rec); assert.NotNil(t, c) {
		assert.Equal(t, "", c.Value)
		assert.True(t, c.MaxAge < 0)
	}
}
