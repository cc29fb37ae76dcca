package controllers

import (
	"context"
	"errors"
	"strings"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/partnerhub/partnerhub/internal/api/authenticator"
	"github.com/partnerhub/partnerhub/internal/perrors"
	"github.com/partnerhub/partnerhub/internal/services"
	partner2 "github.com/partnerhub/partnerhub/internal/services/partner"
)

// User routes are the self-service profile surface. They authenticate with
// the caller's own bearer token instead of the upstream identity headers.
func RegisterUserRoutes(r *router.Router, svc *services.Services, auth *authenticator.Authenticator) {
	// Get own profile
	r.GET("/api/user", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		providerSub, err := verifyBearer(ctx, stdCtx, auth)
		if err != nil {
			return
		}

		profile, err := svc.Partner.GetProfile(stdCtx, providerSub)
		if err != nil {
			writeProfileError(ctx, stdCtx, err)
			return
		}

		writeOK(ctx, stdCtx, "Profile retrieved successfully", profile)
	})

	// Update own profile
	r.PUT("/api/user", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		providerSub, err := verifyBearer(ctx, stdCtx, auth)
		if err != nil {
			return
		}

		var body partner2.UpdateProfileRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Partner.UpdateProfile(stdCtx, providerSub, &body)
		if err != nil {
			if errors.Is(err, partner2.ErrBlocked) {
				writeError(ctx, stdCtx, "Blocked accounts cannot update their profile", perrors.New(perrors.ErrCodeForbidden, "Blocked accounts cannot update their profile", err))
				return
			}
			writeProfileError(ctx, stdCtx, err)
			return
		}

		writeOK(ctx, stdCtx, "Profile updated successfully", updated)
	})
}

// verifyBearer validates the Authorization header and returns the provider
// subject. On failure the error response is already written.
func verifyBearer(ctx *fasthttp.RequestCtx, stdCtx context.Context, auth *authenticator.Authenticator) (string, error) {
	header := string(ctx.Request.Header.Peek("Authorization"))
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		err := errors.New("missing bearer token")
		writeError(ctx, stdCtx, "Missing bearer token", perrors.New(perrors.ErrCodeUnauthorized, "Missing bearer token", err))
		return "", err
	}

	providerSub, err := auth.VerifyAccessToken(stdCtx, token)
	if err != nil {
		if errors.Is(err, authenticator.ErrAuthDisabled) {
			writeError(ctx, stdCtx, "Token verification is not configured", perrors.New(perrors.ErrCodeNotImplemented, "Token verification is not configured", err))
			return "", err
		}
		writeError(ctx, stdCtx, "Invalid token", perrors.New(perrors.ErrCodeUnauthorized, "Invalid token", err))
		return "", err
	}

	return providerSub, nil
}

func writeProfileError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	switch {
	case errors.Is(err, partner2.ErrPartnerNotFound):
		writeError(ctx, stdCtx, "Profile not found", perrors.New(perrors.ErrCodeNotFound, "Profile not found", err))
	default:
		writeError(ctx, stdCtx, "Failed to process profile request", perrors.NewErrInternalServerError("Failed to process profile request", err))
	}
}
