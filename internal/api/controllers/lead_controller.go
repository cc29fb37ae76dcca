package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/partnerhub/partnerhub/internal/perrors"
	"github.com/partnerhub/partnerhub/internal/services"
	lead2 "github.com/partnerhub/partnerhub/internal/services/lead"
	"github.com/partnerhub/partnerhub/internal/services/scope"
)

func RegisterLeadRoutes(r *router.Router, svc *services.Services) {
	// List leads visible to the caller
	r.GET("/api/leads", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		filter := &lead2.ListFilter{
			Status:         string(ctx.QueryArgs().Peek("status")),
			Source:         string(ctx.QueryArgs().Peek("source")),
			Creator:        string(ctx.QueryArgs().Peek("creator")),
			SupervisorCode: string(ctx.QueryArgs().Peek("supervisorCode")),
			Search:         string(ctx.QueryArgs().Peek("search")),
		}

		leads, err := svc.Lead.List(stdCtx, caller, filter)
		if err != nil {
			switch {
			case errors.Is(err, scope.ErrProfileNotFound):
				writeError(ctx, stdCtx, "User profile not found", perrors.New(perrors.ErrCodeNotFound, "User profile not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to list leads", perrors.NewErrInternalServerError("Failed to list leads", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Leads retrieved successfully", leads)
	})

	// Capture a lead from a partner page. Public.
	r.POST("/api/leads", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		var body lead2.CreateLeadRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.PageID == "" {
			writeError(ctx, stdCtx, "page_id is required", perrors.NewErrInvalidRequest("page_id is required", errors.New("page_id is required")))
			return
		}
		if body.Email == "" {
			writeError(ctx, stdCtx, "email is required", perrors.NewErrInvalidRequest("email is required", errors.New("email is required")))
			return
		}

		created, err := svc.Lead.Create(stdCtx, &body)
		if err != nil {
			switch {
			case errors.Is(err, lead2.ErrPageNotFound):
				writeError(ctx, stdCtx, "Page not found", perrors.New(perrors.ErrCodeNotFound, "Page not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to capture lead", perrors.NewErrInternalServerError("Failed to capture lead", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Lead captured successfully", created)
	})

	// Change lead status. A non-owner attempt is reported in the payload as
	// hasPermission=false with HTTP 200, not as an error.
	r.PATCH("/api/leads/{id}/status", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body struct {
			Status string `json:"status"`
		}
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		result, err := svc.Lead.ChangeStatus(stdCtx, caller, id, body.Status)
		if err != nil {
			switch {
			case errors.Is(err, lead2.ErrInvalidStatus):
				writeError(ctx, stdCtx, "Invalid lead status", perrors.NewErrInvalidRequest("Invalid lead status", err))
			case errors.Is(err, lead2.ErrLeadNotFound):
				writeError(ctx, stdCtx, "Lead not found", perrors.New(perrors.ErrCodeNotFound, "Lead not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to change lead status", perrors.NewErrInternalServerError("Failed to change lead status", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Lead status processed", result)
	})

	// Delete lead
	r.DELETE("/api/leads/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		if err := svc.Lead.Delete(stdCtx, caller, id); err != nil {
			switch {
			case errors.Is(err, lead2.ErrLeadNotFound):
				writeError(ctx, stdCtx, "Lead not found", perrors.New(perrors.ErrCodeNotFound, "Lead not found", err))
			case errors.Is(err, lead2.ErrNotOwner):
				writeError(ctx, stdCtx, "You do not own this lead", perrors.New(perrors.ErrCodeForbidden, "You do not own this lead", err))
			default:
				writeError(ctx, stdCtx, "Failed to delete lead", perrors.NewErrInternalServerError("Failed to delete lead", err))
			}
			return
		}

		writeOK(ctx, stdCtx, "Lead deleted successfully", nil)
	})
}
