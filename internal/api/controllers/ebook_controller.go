package controllers

import (
	"context"
	"errors"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/partnerhub/partnerhub/internal/perrors"
	"github.com/partnerhub/partnerhub/internal/services"
	chapter2 "github.com/partnerhub/partnerhub/internal/services/chapter"
)

func RegisterEbookRoutes(r *router.Router, svc *services.Services) {
	// Create ebook
	r.POST("/api/ebooks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		var body chapter2.CreateEbookRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Title == "" {
			writeError(ctx, stdCtx, "Title is required", perrors.NewErrInvalidRequest("Title is required", errors.New("title is required")))
			return
		}

		created, err := svc.Chapter.CreateEbook(stdCtx, caller, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create ebook", perrors.NewErrInternalServerError("Failed to create ebook", err))
			return
		}

		writeOK(ctx, stdCtx, "Ebook created successfully", created)
	})

	// Get ebook with its chapters in reading order
	r.GET("/api/ebooks/{ebookId}/chapters", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		ebookID, err := pathParamUUID(ctx, "ebookId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		ebook, err := svc.Chapter.GetEbook(stdCtx, caller, ebookID)
		if err != nil {
			writeEbookError(ctx, stdCtx, err)
			return
		}

		writeOK(ctx, stdCtx, "Ebook retrieved successfully", ebook)
	})

	// Append chapters at the next free positions
	r.POST("/api/ebooks/{ebookId}/chapters", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		ebookID, err := pathParamUUID(ctx, "ebookId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body chapter2.AddChaptersRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if len(body.Chapters) == 0 {
			writeError(ctx, stdCtx, "At least one chapter is required", perrors.NewErrInvalidRequest("At least one chapter is required", errors.New("chapters is empty")))
			return
		}

		chapters, err := svc.Chapter.AddChapters(stdCtx, caller, ebookID, &body)
		if err != nil {
			writeEbookError(ctx, stdCtx, err)
			return
		}

		writeOK(ctx, stdCtx, "Chapters added successfully", chapters)
	})

	// Delete all chapters of an ebook
	r.DELETE("/api/ebooks/{ebookId}/chapters", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		ebookID, err := pathParamUUID(ctx, "ebookId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		deleted, err := svc.Chapter.DeleteChapters(stdCtx, caller, ebookID)
		if err != nil {
			writeEbookError(ctx, stdCtx, err)
			return
		}

		writeOK(ctx, stdCtx, "Chapters deleted successfully", map[string]int64{"deleted": deleted})
	})

	// Chapter operations. Only reorder is supported; it swaps the chapter
	// with its neighbour in the given direction.
	r.PATCH("/api/ebooks/{ebookId}/chapters", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		caller := callerFrom(ctx)

		ebookID, err := pathParamUUID(ctx, "ebookId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body struct {
			Operation string `json:"operation"`
			ChapterID string `json:"chapterId"`
			Direction string `json:"direction"`
		}
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Operation != "reorder" {
			writeError(ctx, stdCtx, "Unsupported operation", perrors.NewErrInvalidRequest("Unsupported operation", errors.New("operation must be reorder")))
			return
		}

		chapterID, err := uuid.Parse(body.ChapterID)
		if err != nil {
			writeError(ctx, stdCtx, "Invalid chapterId format", perrors.NewErrInvalidRequest("Invalid chapterId format", err))
			return
		}

		direction, err := chapter2.ParseDirection(body.Direction)
		if err != nil {
			writeError(ctx, stdCtx, "Invalid direction", perrors.NewErrInvalidRequest("Invalid direction", err))
			return
		}

		moved, err := svc.Chapter.Move(stdCtx, caller, ebookID, chapterID, direction)
		if err != nil {
			switch {
			case errors.Is(err, chapter2.ErrChapterNotFound):
				writeError(ctx, stdCtx, "Chapter not found", perrors.New(perrors.ErrCodeNotFound, "Chapter not found", err))
			case errors.Is(err, chapter2.ErrCannotMoveFirst):
				writeError(ctx, stdCtx, "Chapter is already first", perrors.NewErrInvalidOperation("Chapter is already first", err))
			case errors.Is(err, chapter2.ErrCannotMoveLast):
				writeError(ctx, stdCtx, "Chapter is already last", perrors.NewErrInvalidOperation("Chapter is already last", err))
			case errors.Is(err, chapter2.ErrNoSwapPartner):
				writeError(ctx, stdCtx, "No chapter at the adjacent position", perrors.NewErrInvalidOperation("No chapter at the adjacent position", err))
			default:
				writeEbookError(ctx, stdCtx, err)
			}
			return
		}

		writeOK(ctx, stdCtx, "Chapters reordered successfully", moved)
	})
}

func writeEbookError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	switch {
	case errors.Is(err, chapter2.ErrEbookNotFound):
		writeError(ctx, stdCtx, "Ebook not found", perrors.New(perrors.ErrCodeNotFound, "Ebook not found", err))
	case errors.Is(err, chapter2.ErrNotOwner):
		writeError(ctx, stdCtx, "You do not own this ebook", perrors.New(perrors.ErrCodeForbidden, "You do not own this ebook", err))
	default:
		writeError(ctx, stdCtx, "Failed to process ebook request", perrors.NewErrInternalServerError("Failed to process ebook request", err))
	}
}
