package controllers

import (
	"context"
	"errors"
	"fmt"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/partnerhub/partnerhub/internal/api/response"
	"github.com/partnerhub/partnerhub/internal/identity"
)

// requestContext returns a baseline context for handlers. fasthttp does not
// provide a standard context, so we use the trace-extracted one set by the
// middleware and fall back to Background.
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if stdCtx, ok := ctx.UserValue("traceCtx").(context.Context); ok {
		return stdCtx
	}

	return context.Background()
}

// callerFrom returns the identity the middleware resolved for this request.
// It is nil only on public routes.
func callerFrom(ctx *fasthttp.RequestCtx) *identity.Caller {
	caller, _ := ctx.UserValue("caller").(*identity.Caller)
	return caller
}

func parseBody(ctx *fasthttp.RequestCtx, target any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return errors.New("request body is empty")
	}

	return json.Unmarshal(body, target)
}

func writeError(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, err error) {
	response.NewResponse[any](stdCtx, message, nil).WithError(err).Write(ctx)
}

func writeOK(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, data any) {
	response.NewResponse(stdCtx, message, data).Write(ctx)
}

func pathParam(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return "", fmt.Errorf("%s is required", key)
	}

	return fmt.Sprint(val), nil
}

func pathParamUUID(ctx *fasthttp.RequestCtx, key string) (uuid.UUID, error) {
	val, err := pathParam(ctx, key)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(val)
}

func requireStringQuery(ctx *fasthttp.RequestCtx, key string) (string, error) {
	raw := ctx.QueryArgs().Peek(key)
	if len(raw) == 0 {
		return "", fmt.Errorf("%s parameter is required", key)
	}

	return string(raw), nil
}
