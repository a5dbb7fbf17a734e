package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/service"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store"
	"github.com/aussiebroadwan/pomodoro/pkg/httpx"
	"github.com/aussiebroadwan/pomodoro/pkg/slogx"
	"github.com/go-chi/chi/v5/middleware"

	_ "github.com/aussiebroadwan/pomodoro/api/pomodoro" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	TokenService   *service.TokenService
	AccountService *service.AccountService
	ResetService   *service.ResetService
	TaskService    *service.TaskService

	// StaticDir, when set, is served at / with index.html as the fallback
	// for client-side routes.
	StaticDir string

	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// RealIP runs first so the request log carries the client address;
	// Recoverer sits inside the logger so a panic is logged as a 500.
	r.middlewares = []httpx.Middleware{
		middleware.RealIP,
		slogx.HTTPMiddleware(r.logger),
		middleware.Recoverer,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerTasks()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())

	if r.StaticDir != "" {
		r.Mux.Handle("GET /", SPAHandler(r.StaticDir))
	}
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Pomodoro Task Service API
//	@version		0.1.0
//	@description	Accounts and tasks for the Pomodoro board. Session tokens are HS256 JWTs returned by /login.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/pomodoro
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	h := &AccountHandler{
		AccountService: r.AccountService,
		ResetService:   r.ResetService,
		SessionTTL:     r.TokenService.TTL(),
		SecureCookies:  r.SecureCookies,
	}

	r.Mux.HandleFunc("POST /register", h.HandleRegister)
	r.Mux.HandleFunc("POST /login", h.HandleLogin)
	r.Mux.HandleFunc("POST /forgot-password", h.HandleForgotPassword)
	r.Mux.HandleFunc("POST /reset-password", h.HandleResetPassword)
	r.Mux.HandleFunc("POST /logout", h.HandleLogout)

	r.Mux.Handle("DELETE /users/me",
		httpx.Chain(http.HandlerFunc(h.HandleDeleteMe),
			RequireAuth(r.TokenService),
		),
	)
}

func (r *Router) registerTasks() {
	h := &TasksHandler{TaskService: r.TaskService}

	// A valid token whose account has since been deleted is refused.
	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			RequireAuth(r.TokenService),
			RequireActiveAccount(r.AccountService),
		)
	}

	r.Mux.Handle("GET /tasks", secured(h.HandleList))
	r.Mux.Handle("POST /tasks", secured(h.HandleCreate))
	r.Mux.Handle("PATCH /tasks/{id}", secured(h.HandleUpdateStatus))
	r.Mux.Handle("DELETE /tasks/{id}", secured(h.HandleDelete))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
