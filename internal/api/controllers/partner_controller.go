package controllers

import (
	"context"
	"errors"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/partnerhub/partnerhub/internal/perrors"
	"github.com/partnerhub/partnerhub/internal/services"
	partner2 "github.com/partnerhub/partnerhub/internal/services/partner"
	"github.com/partnerhub/partnerhub/internal/services/scope"
)

func RegisterPartnerRoutes(r *router.Router, svc *services.Services) {
	// List partners visible to the caller with stats and supervisor refs
	r.GET("/api/partners", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		filter := &partner2.ListFilter{
			Status:         string(ctx.QueryArgs().Peek("status")),
			Role:           string(ctx.QueryArgs().Peek("role")),
			SupervisorCode: string(ctx.QueryArgs().Peek("supervisorCode")),
			Search:         string(ctx.QueryArgs().Peek("search")),
			ExcludeUserID:  string(ctx.QueryArgs().Peek("excludeUserId")),
		}

		partners, err := svc.Partner.List(stdCtx, caller, filter)
		if err != nil {
			switch {
			case errors.Is(err, partner2.ErrForbidden):
				writeError(ctx, stdCtx, "Partner administration requires ADMIN or GOD role", perrors.New(perrors.ErrCodeForbidden, "Partner administration requires ADMIN or GOD role", err))
			case errors.Is(err, scope.ErrProfileNotFound):
				writeError(ctx, stdCtx, "User profile not found", perrors.New(perrors.ErrCodeNotFound, "User profile not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to list partners", perrors.NewErrInternalServerError("Failed to list partners", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Partners retrieved successfully", partners)
	})

	// Get one partner
	r.GET("/api/partners/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		id, err := partnerID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		target, err := svc.Partner.Get(stdCtx, caller, id)
		if err != nil {
			writePartnerError(ctx, stdCtx, err)
			return
		}

		writeOK(ctx, stdCtx, "Partner retrieved successfully", target)
	})

	// Apply administrative changes to a partner
	r.PATCH("/api/partners/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		id, err := partnerID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body partner2.UpdatePartnerRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Partner.Update(stdCtx, caller, id, &body)
		if err != nil {
			if errors.Is(err, partner2.ErrInvalidPartnerStatus) {
				writeError(ctx, stdCtx, "Invalid partner status", perrors.NewErrInvalidRequest("Invalid partner status", err))
				return
			}
			writePartnerError(ctx, stdCtx, err)
			return
		}

		writeOK(ctx, stdCtx, "Partner updated successfully", updated)
	})

	// Promote a USER to ADMIN with a fresh supervisor code
	r.POST("/api/partners/{id}/promote", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		id, err := partnerID(ctx)
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		promoted, err := svc.Partner.Promote(stdCtx, caller, id)
		if err != nil {
			if errors.Is(err, partner2.ErrNotPromotable) {
				writeError(ctx, stdCtx, "Only USER accounts can be promoted", perrors.NewErrInvalidOperation("Only USER accounts can be promoted", err))
				return
			}
			writePartnerError(ctx, stdCtx, err)
			return
		}

		writeOK(ctx, stdCtx, "Partner promoted successfully", promoted)
	})
}

func partnerID(ctx *fasthttp.RequestCtx) (int64, error) {
	raw, err := pathParam(ctx, "id")
	if err != nil {
		return 0, err
	}

	return strconv.ParseInt(raw, 10, 64)
}

// writePartnerError maps the shared partner access failures. Out-of-scope
// reads already come back from the service as not found.
func writePartnerError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	switch {
	case errors.Is(err, partner2.ErrForbidden):
		writeError(ctx, stdCtx, "Partner administration requires ADMIN or GOD role", perrors.New(perrors.ErrCodeForbidden, "Partner administration requires ADMIN or GOD role", err))
	case errors.Is(err, partner2.ErrPartnerNotFound):
		writeError(ctx, stdCtx, "Partner not found", perrors.New(perrors.ErrCodeNotFound, "Partner not found", err))
	case errors.Is(err, scope.ErrProfileNotFound):
		writeError(ctx, stdCtx, "User profile not found", perrors.New(perrors.ErrCodeNotFound, "User profile not found", err))
	default:
		writeError(ctx, stdCtx, "Failed to process partner request", perrors.NewErrInternalServerError("Failed to process partner request", err))
	}
}
