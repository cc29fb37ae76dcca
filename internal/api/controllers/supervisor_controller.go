package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/partnerhub/partnerhub/internal/perrors"
	"github.com/partnerhub/partnerhub/internal/services"
	supervisor2 "github.com/partnerhub/partnerhub/internal/services/supervisor"
)

func RegisterSupervisorRoutes(r *router.Router, svc *services.Services) {
	// Resolve a supervisor code by exact display name
	r.GET("/api/supervisor-code", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		name, err := requireStringQuery(ctx, "name")
		if err != nil {
			writeError(ctx, stdCtx, "Name is required", perrors.NewErrInvalidRequest("Name is required", err))
			return
		}

		code, err := svc.Supervisor.CodeByName(stdCtx, caller, name)
		if err != nil {
			switch {
			case errors.Is(err, supervisor2.ErrLookupForbidden):
				writeError(ctx, stdCtx, "Supervisor lookup requires ADMIN or GOD role", perrors.New(perrors.ErrCodeForbidden, "Supervisor lookup requires ADMIN or GOD role", err))
			case errors.Is(err, supervisor2.ErrCodeNotFound):
				writeError(ctx, stdCtx, "Supervisor code not found", perrors.New(perrors.ErrCodeNotFound, "Supervisor code not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to resolve supervisor code", perrors.NewErrInternalServerError("Failed to resolve supervisor code", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Supervisor code retrieved successfully", code)
	})

	// Human label for a supervisor code. Unknown codes get a placeholder
	// label rather than an error.
	r.GET("/api/supervisors/{code}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		code, err := pathParam(ctx, "code")
		if err != nil {
			writeError(ctx, stdCtx, "Code is required", perrors.NewErrInvalidRequest("Code is required", err))
			return
		}

		description, err := svc.Supervisor.DescriptionByCode(stdCtx, code)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to resolve supervisor", perrors.NewErrInternalServerError("Failed to resolve supervisor", err))
			return
		}

		writeOK(ctx, stdCtx, "Supervisor retrieved successfully", map[string]string{
			"code":        code,
			"description": description,
		})
	})
}
