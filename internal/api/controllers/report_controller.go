package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/partnerhub/partnerhub/internal/perrors"
	"github.com/partnerhub/partnerhub/internal/services"
	report2 "github.com/partnerhub/partnerhub/internal/services/report"
	"github.com/partnerhub/partnerhub/internal/services/scope"
)

func RegisterReportRoutes(r *router.Router, svc *services.Services) {
	// Full statistics report for the caller's scope
	r.GET("/api/statistics", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		rng, err := report2.ParseRange(string(ctx.QueryArgs().Peek("range")))
		if err != nil {
			writeError(ctx, stdCtx, "Invalid range", perrors.NewErrInvalidRequest("Invalid range", err))
			return
		}

		report, err := svc.Report.BuildReport(stdCtx, caller, rng)
		if err != nil {
			switch {
			case errors.Is(err, scope.ErrProfileNotFound):
				writeError(ctx, stdCtx, "User profile not found", perrors.New(perrors.ErrCodeNotFound, "User profile not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to build statistics report", perrors.NewErrInternalServerError("Failed to build statistics report", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Statistics retrieved successfully", report)
	})

	// Dashboard snapshot counters
	r.GET("/api/stats", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		stats, err := svc.Dashboard.Stats(stdCtx, caller, string(ctx.QueryArgs().Peek("excludeUserId")))
		if err != nil {
			switch {
			case errors.Is(err, scope.ErrProfileNotFound):
				writeError(ctx, stdCtx, "User profile not found", perrors.New(perrors.ErrCodeNotFound, "User profile not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to build dashboard stats", perrors.NewErrInternalServerError("Failed to build dashboard stats", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Dashboard stats retrieved successfully", stats)
	})
}
