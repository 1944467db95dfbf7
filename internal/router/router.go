package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskflow/backend/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Sync   *apiHandler.SyncHandler
	Upload *apiHandler.UploadHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, teamScope func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/login", handlers.Auth.Login)
	r.POST("/api/register", handlers.Auth.Register)
	r.POST("/api/logout", handlers.Auth.Logout)

	// Sync accepts either a bearer token (resolved by the middleware) or a
	// bare Team-ID header from offline-first clients.
	r.POST("/api/sync", teamScope(handlers.Sync.Sync))

	// Attachments
	r.POST("/api/upload", teamScope(handlers.Upload.Upload))
	r.GET("/uploads/{name}", handlers.Upload.Serve)

	return r
}
