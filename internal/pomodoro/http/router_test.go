package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/mail"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/service"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store/drivers/sqlite"
	"github.com/aussiebroadwan/pomodoro/pkg/cryptox"
	"github.com/aussiebroadwan/pomodoro/pkg/pomodorosdk"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret-0123456789abcdef"

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "pomodoro-http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type outbox struct {
	mu   sync.Mutex
	msgs []mail.Message
	err  error
}

func (o *outbox) Send(_ context.Context, m mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.msgs = append(o.msgs, m)
	return nil
}

func (o *outbox) lastToken(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.msgs)
	m := regexp.MustCompile(`/reset-password/([A-Za-z0-9_-]+)`).FindStringSubmatch(o.msgs[len(o.msgs)-1].Text)
	require.Len(t, m, 2)
	return m[1]
}

type testServer struct {
	t      *testing.T
	router *Router
	tokens *service.TokenService
	mail   *outbox
}

func newTestServer(t *testing.T, staticDir string) *testServer {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens, err := service.NewTokenService([]byte(testSecret), "pomodoro", time.Hour)
	require.NoError(t, err)
	box := &outbox{}
	resets := &service.ResetService{Store: st}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter("test", st, logger)
	r.TokenService = tokens
	r.ResetService = resets
	r.AccountService = &service.AccountService{
		Store:       st,
		Tokens:      tokens,
		Resets:      resets,
		Mailer:      box,
		FrontendURL: "http://localhost:3000",
	}
	r.TaskService = &service.TaskService{Store: st}
	r.StaticDir = staticDir
	r.ApplyRoutes()

	return &testServer{t: t, router: r, tokens: tokens, mail: box}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(s.t, err)
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(email, password string) pomodorosdk.RegisterResponse {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/register", "", pomodorosdk.RegisterRequest{Email: email, Password: password})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var out pomodorosdk.RegisterResponse
	decode(s.t, rec, &out)
	return out
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/login", "", pomodorosdk.LoginRequest{Email: email, Password: password})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var out pomodorosdk.LoginResponse
	decode(s.t, rec, &out)
	require.NotEmpty(s.t, out.Token)
	return out.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var e pomodorosdk.ErrorResponse
	decode(t, rec, &e)
	require.NotEmpty(t, e.Error)
	return e.Error
}

func TestScenario(t *testing.T) {
	s := newTestServer(t, "")

	reg := s.register("a@x.com", "abc123")
	require.Equal(t, "a@x.com", reg.Email)
	require.NotEmpty(t, reg.ID)

	token := s.login("a@x.com", "abc123")

	rec := s.do(http.MethodPost, "/login", "", pomodorosdk.LoginRequest{Email: "a@x.com", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/tasks", token, pomodorosdk.CreateTaskRequest{Description: "write report", Status: pomodorosdk.StatusToDo})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created pomodorosdk.Task
	decode(t, rec, &created)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "write report", created.Description)
	require.Equal(t, pomodorosdk.StatusToDo, created.Status)

	rec = s.do(http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []pomodorosdk.Task
	decode(t, rec, &tasks)
	require.Len(t, tasks, 1)
	require.Equal(t, created.ID, tasks[0].ID)

	rec = s.do(http.MethodPatch, "/tasks/"+created.ID, token, pomodorosdk.UpdateTaskStatusRequest{Status: pomodorosdk.StatusDone})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Task updated", rec.Body.String())

	rec = s.do(http.MethodDelete, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msg pomodorosdk.MessageResponse
	decode(t, rec, &msg)
	require.NotEmpty(t, msg.Message)

	rec = s.do(http.MethodGet, "/tasks", token, nil)
	require.Contains(t, []int{http.StatusUnauthorized, http.StatusForbidden}, rec.Code)

	rec = s.do(http.MethodDelete, "/users/me", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegister(t *testing.T) {
	s := newTestServer(t, "")
	s.register("a@x.com", "abc123")

	tests := []struct {
		name string
		body any
		want int
	}{
		{"duplicate", pomodorosdk.RegisterRequest{Email: "a@x.com", Password: "abc123"}, http.StatusConflict},
		{"missing email", pomodorosdk.RegisterRequest{Password: "abc123"}, http.StatusBadRequest},
		{"missing password", pomodorosdk.RegisterRequest{Email: "b@x.com"}, http.StatusBadRequest},
		{"invalid email", pomodorosdk.RegisterRequest{Email: "bee", Password: "abc123"}, http.StatusBadRequest},
		{"weak password", pomodorosdk.RegisterRequest{Email: "b@x.com", Password: "abcdef"}, http.StatusBadRequest},
		{"not json", "email=b@x.com", http.StatusBadRequest},
		{"empty body", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/register", "", tt.body)
			require.Equal(t, tt.want, rec.Code, rec.Body.String())
			errorOf(t, rec)
		})
	}
}

func TestLoginErrorsAreUniform(t *testing.T) {
	s := newTestServer(t, "")
	s.register("a@x.com", "abc123")

	wrong := s.do(http.MethodPost, "/login", "", pomodorosdk.LoginRequest{Email: "a@x.com", Password: "nope12"})
	unknown := s.do(http.MethodPost, "/login", "", pomodorosdk.LoginRequest{Email: "z@x.com", Password: "abc123"})
	require.Equal(t, http.StatusUnauthorized, wrong.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, errorOf(t, wrong), errorOf(t, unknown))

	missing := s.do(http.MethodPost, "/login", "", pomodorosdk.LoginRequest{Email: "a@x.com"})
	require.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestSessionCookie(t *testing.T) {
	s := newTestServer(t, "")
	s.register("a@x.com", "abc123")

	rec := s.do(http.MethodPost, "/login", "", pomodorosdk.LoginRequest{Email: "a@x.com", Password: "abc123"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login pomodorosdk.LoginResponse
	decode(t, rec, &login)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, SessionCookie, cookies[0].Name)
	require.Equal(t, login.Token, cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
	require.Equal(t, 3600, cookies[0].MaxAge)

	rec = s.do(http.MethodPost, "/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Logged out successfully", rec.Body.String())
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, SessionCookie, cookies[0].Name)
	require.Negative(t, cookies[0].MaxAge)
}

func TestPasswordReset(t *testing.T) {
	s := newTestServer(t, "")
	s.register("a@x.com", "abc123")

	rec := s.do(http.MethodPost, "/forgot-password", "", pomodorosdk.ForgotPasswordRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/forgot-password", "", pomodorosdk.ForgotPasswordRequest{Email: "z@x.com"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/forgot-password", "", pomodorosdk.ForgotPasswordRequest{Email: "a@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := s.mail.lastToken(t)

	rec = s.do(http.MethodPost, "/reset-password", "", pomodorosdk.ResetPasswordRequest{Token: token})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/reset-password", "", pomodorosdk.ResetPasswordRequest{Token: token, Password: "n3wpass"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s.login("a@x.com", "n3wpass")

	rec = s.do(http.MethodPost, "/reset-password", "", pomodorosdk.ResetPasswordRequest{Token: token, Password: "again12"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid or expired token", errorOf(t, rec))

	s.mail.err = errors.New("relay down")
	rec = s.do(http.MethodPost, "/forgot-password", "", pomodorosdk.ForgotPasswordRequest{Email: "a@x.com"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestBearerErrors(t *testing.T) {
	s := newTestServer(t, "")
	reg := s.register("a@x.com", "abc123")
	valid := s.login("a@x.com", "abc123")

	past := time.Now().Add(-2 * time.Hour)
	s.tokens.SetClock(func() time.Time { return past })
	expired, err := s.tokens.Issue(reg.ID, "a@x.com", time.Hour)
	require.NoError(t, err)
	s.tokens.SetClock(time.Now)

	tampered := valid[:strings.LastIndex(valid, ".")+1] + strings.Repeat("A", 43)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
		{"malformed", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusForbidden},
		{"tampered", "Bearer " + tampered, http.StatusForbidden},
		{"valid", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			require.Equal(t, tt.want, rec.Code)
			if tt.want != http.StatusOK {
				require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
				errorOf(t, rec)
			}
		})
	}
}

func TestTasksOfOthersAreNotFound(t *testing.T) {
	s := newTestServer(t, "")
	s.register("a@x.com", "abc123")
	s.register("m@x.com", "abc123")
	alice := s.login("a@x.com", "abc123")
	mallory := s.login("m@x.com", "abc123")

	rec := s.do(http.MethodPost, "/tasks", alice, pomodorosdk.CreateTaskRequest{Description: "private", Status: pomodorosdk.StatusToDo})
	require.Equal(t, http.StatusCreated, rec.Code)
	var task pomodorosdk.Task
	decode(t, rec, &task)

	rec = s.do(http.MethodPatch, "/tasks/"+task.ID, mallory, pomodorosdk.UpdateTaskStatusRequest{Status: pomodorosdk.StatusDone})
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(http.MethodDelete, "/tasks/"+task.ID, mallory, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/tasks", mallory, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())

	rec = s.do(http.MethodDelete, "/tasks/"+task.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Task deleted", rec.Body.String())
	rec = s.do(http.MethodDelete, "/tasks/"+task.ID, alice, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskValidation(t *testing.T) {
	s := newTestServer(t, "")
	s.register("a@x.com", "abc123")
	token := s.login("a@x.com", "abc123")

	rec := s.do(http.MethodPost, "/tasks", token, pomodorosdk.CreateTaskRequest{Status: pomodorosdk.StatusToDo})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodPost, "/tasks", token, pomodorosdk.CreateTaskRequest{Description: "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodPost, "/tasks", token, pomodorosdk.CreateTaskRequest{Description: "x", Status: "archived"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid status", errorOf(t, rec))

	rec = s.do(http.MethodPost, "/tasks", token, pomodorosdk.CreateTaskRequest{Description: "x", Status: pomodorosdk.StatusWorkingOn})
	require.Equal(t, http.StatusCreated, rec.Code)
	var task pomodorosdk.Task
	decode(t, rec, &task)

	rec = s.do(http.MethodPatch, "/tasks/"+task.ID, token, `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodPatch, "/tasks/"+task.ID, token, pomodorosdk.UpdateTaskStatusRequest{Status: "later"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodPatch, "/tasks/unknown", token, pomodorosdk.UpdateTaskStatusRequest{Status: pomodorosdk.StatusDone})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var live pomodorosdk.HealthResponse
	decode(t, rec, &live)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	rec = s.do(http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ready pomodorosdk.HealthResponse
	decode(t, rec, &ready)
	require.Equal(t, "ok", ready.Checks.Database)

	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestReadyzReportsDatabaseDown(t *testing.T) {
	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "down.db"))
	require.NoError(t, err)
	require.NoError(t, st.Close())

	rec := httptest.NewRecorder()
	ReadyzHandler(time.Now(), "test", st).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSPAFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "static"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "static", "main.js"), []byte("console.log(1)"), 0o644))

	s := newTestServer(t, dir)

	rec := s.do(http.MethodGet, "/static/main.js", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "console.log(1)", rec.Body.String())

	rec = s.do(http.MethodGet, "/reset-password/some-token", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "app")

	rec = s.do(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "app")

	// API routes still win over the fallback.
	rec = s.do(http.MethodGet, "/tasks", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNoStaticDirMeansNotFound(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(http.MethodGet, "/reset-password/x", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
