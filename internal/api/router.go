package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "qualifier/internal/api/context"
	"qualifier/internal/api/handlers"
	"qualifier/internal/api/middleware"
	"qualifier/internal/pkg/errors"
)

type Dependencies struct {
	HiringHandler  *handlers.HiringHandler
	HealthHandler  *handlers.HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.GET("/health", wrap(deps.HealthHandler.Check))

	router.POST("/hiring/generateWebhook/:lang",
		chain(deps.HiringHandler.GenerateWebhook, deps.RateLimiter.Handle("generate")))
	router.POST("/hiring/testWebhook/:lang",
		chain(deps.HiringHandler.TestWebhook, deps.AuthMiddleware.Handle))

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Route not found", nil)
	})

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
