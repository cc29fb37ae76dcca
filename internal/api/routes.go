package api

import (
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/propagation"

	"github.com/partnerhub/partnerhub/internal/api/authenticator"
	"github.com/partnerhub/partnerhub/internal/api/controllers"
	"github.com/partnerhub/partnerhub/internal/api/response"
	"github.com/partnerhub/partnerhub/internal/config"
	"github.com/partnerhub/partnerhub/internal/identity"
	"github.com/partnerhub/partnerhub/internal/perrors"
)

var tracePropagator = propagation.TraceContext{}

func (s *Server) initRoutes(conf *config.Config) fasthttp.RequestHandler {
	r := router.New()

	r.GET("/api/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		_, _ = ctx.Write([]byte("OK"))
	})

	auth, err := authenticator.New(conf)
	if err != nil {
		log.Fatal(err)
	}

	controllers.RegisterLeadRoutes(r, s.services)
	controllers.RegisterPageRoutes(r, s.services)
	controllers.RegisterPartnerRoutes(r, s.services)
	controllers.RegisterReportRoutes(r, s.services)
	controllers.RegisterActivityRoutes(r, s.services)
	controllers.RegisterSupervisorRoutes(r, s.services)
	controllers.RegisterEbookRoutes(r, s.services)
	controllers.RegisterUserRoutes(r, s.services, auth)

	return s.withMiddlewares(r.Handler)
}

func (s *Server) withMiddlewares(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		applyCORS(ctx)
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		start := time.Now()
		uri := ctx.URI()
		requestURI := string(uri.FullURI())
		slog.Info("Started processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI))

		h := http.Header{}
		ctx.Request.Header.VisitAll(func(k, v []byte) {
			h[string(k)] = []string{string(v)}
		})
		traceCtx := tracePropagator.Extract(ctx, propagation.HeaderCarrier(h))
		ctx.SetUserValue("traceCtx", traceCtx)

		// Identity headers are required everywhere except public routes and
		// the token-verified profile endpoints. They are parsed exactly once
		// here; everything downstream works on the canonical Caller.
		if !isPublicRoute(ctx) && !isTokenRoute(ctx) {
			caller, err := identity.FromHeaders(
				string(ctx.Request.Header.Peek("X-User-Id")),
				string(ctx.Request.Header.Peek("X-User-Role")),
				string(ctx.Request.Header.Peek("X-User-Provider-Sub")),
			)
			if err != nil {
				if errors.Is(err, identity.ErrUnknownRole) {
					response.NewResponse[any](traceCtx, "Unknown role", nil).
						WithError(perrors.New(perrors.ErrCodeForbidden, "Unknown role", err)).Write(ctx)
					return
				}
				response.NewResponse[any](traceCtx, "Missing identity headers", nil).
					WithError(perrors.New(perrors.ErrCodeUnauthorized, "Missing identity headers", err)).Write(ctx)
				return
			}

			ctx.SetUserValue("caller", caller)
		}

		next(ctx)

		slog.Info("Finished processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI), slog.Duration("duration", time.Since(start)))
	}
}

func applyCORS(ctx *fasthttp.RequestCtx) {
	headers := &ctx.Response.Header
	headers.Set("Access-Control-Allow-Origin", string(ctx.Request.Header.Peek("Origin")))
	headers.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS,PATCH")
	headers.Set("Access-Control-Allow-Headers", os.Getenv("ALLOWED_HEADERS"))
	headers.Set("Access-Control-Allow-Credentials", "true")
}

func isPublicRoute(ctx *fasthttp.RequestCtx) bool {
	path := string(ctx.Path())

	switch {
	case path == "/api/health":
		return true
	case path == "/api/leads" && string(ctx.Method()) == fasthttp.MethodPost:
		// Public lead capture from partner pages
		return true
	default:
		return false
	}
}

// isTokenRoute marks routes authenticated by a bearer token instead of
// identity headers.
func isTokenRoute(ctx *fasthttp.RequestCtx) bool {
	return string(ctx.Path()) == "/api/user"
}
