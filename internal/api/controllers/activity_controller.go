package controllers

import (
	"errors"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/partnerhub/partnerhub/internal/perrors"
	"github.com/partnerhub/partnerhub/internal/services"
	"github.com/partnerhub/partnerhub/internal/services/scope"
)

func RegisterActivityRoutes(r *router.Router, svc *services.Services) {
	// Activity feed for the caller's scope, newest first
	r.GET("/api/activity", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		limit := intQuery(ctx, "limit")
		offset := intQuery(ctx, "offset")

		feed, err := svc.Activity.List(stdCtx, caller, limit, offset)
		if err != nil {
			switch {
			case errors.Is(err, scope.ErrProfileNotFound):
				writeError(ctx, stdCtx, "User profile not found", perrors.New(perrors.ErrCodeNotFound, "User profile not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to list activity", perrors.NewErrInternalServerError("Failed to list activity", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Activity retrieved successfully", feed)
	})
}

// intQuery parses an optional numeric query param, 0 when absent or invalid
func intQuery(ctx *fasthttp.RequestCtx, key string) int {
	raw := ctx.QueryArgs().Peek(key)
	if len(raw) == 0 {
		return 0
	}

	v, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0
	}

	return v
}
