package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/partnerhub/partnerhub/internal/perrors"
	"github.com/partnerhub/partnerhub/internal/services"
	page2 "github.com/partnerhub/partnerhub/internal/services/page"
	"github.com/partnerhub/partnerhub/internal/services/scope"
)

func RegisterPageRoutes(r *router.Router, svc *services.Services) {
	// List pages visible to the caller with summary counts
	r.GET("/api/pages", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		filter := &page2.ListFilter{
			Status: string(ctx.QueryArgs().Peek("status")),
			Type:   string(ctx.QueryArgs().Peek("type")),
			Search: string(ctx.QueryArgs().Peek("search")),
		}

		pages, err := svc.Page.List(stdCtx, caller, filter)
		if err != nil {
			switch {
			case errors.Is(err, scope.ErrProfileNotFound):
				writeError(ctx, stdCtx, "User profile not found", perrors.New(perrors.ErrCodeNotFound, "User profile not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to list pages", perrors.NewErrInternalServerError("Failed to list pages", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Pages retrieved successfully", pages)
	})
}
