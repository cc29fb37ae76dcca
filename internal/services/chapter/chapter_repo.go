package chapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrEbookNotFound   = errors.New("ebook not found")
	ErrChapterNotFound = errors.New("chapter not found")
	ErrCannotMoveFirst = errors.New("cannot move first chapter up")
	ErrCannotMoveLast  = errors.New("cannot move last chapter down")
	ErrNoSwapPartner   = errors.New("no chapter at adjacent position")
)

// sentinelPosition parks the moving chapter outside the unique position
// space during a swap. It must never be observable after commit.
const sentinelPosition = -1

// ChapterRepo handles database operations for ebooks and their chapters
type ChapterRepo struct {
	db *sqlx.DB
}

// NewChapterRepo creates a new chapter repository
func NewChapterRepo(db *sqlx.DB) *ChapterRepo {
	return &ChapterRepo{db: db}
}

// CreateEbook inserts a new empty ebook
func (r *ChapterRepo) CreateEbook(ctx context.Context, ownerID string, req *CreateEbookRequest) (*Ebook, error) {
	query := `
        INSERT INTO ebooks (owner_id, title, description)
        VALUES ($1, $2, $3)
        RETURNING id, owner_id, title, description, created_at, updated_at
    `

	var ebook Ebook
	err := r.db.GetContext(ctx, &ebook, query, ownerID, req.Title, req.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create ebook: %w", err)
	}

	return &ebook, nil
}

// GetEbook retrieves an ebook by ID
func (r *ChapterRepo) GetEbook(ctx context.Context, id uuid.UUID) (*Ebook, error) {
	query := `
        SELECT id, owner_id, title, description, created_at, updated_at
        FROM ebooks
        WHERE id = $1
    `

	var ebook Ebook
	err := r.db.GetContext(ctx, &ebook, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEbookNotFound
		}
		return nil, fmt.Errorf("failed to get ebook: %w", err)
	}

	return &ebook, nil
}

// ListChapters returns an ebook's chapters in position order
func (r *ChapterRepo) ListChapters(ctx context.Context, ebookID uuid.UUID) ([]*Chapter, error) {
	query := `
        SELECT id, ebook_id, title, content, position, created_at, updated_at
        FROM ebook_chapters
        WHERE ebook_id = $1
        ORDER BY position
    `

	var chapters []*Chapter
	if err := r.db.SelectContext(ctx, &chapters, query, ebookID); err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}

	return chapters, nil
}

// AppendChapter inserts a chapter at the next free position. The position is
// computed inside the insert so each append is a single atomic statement.
func (r *ChapterRepo) AppendChapter(ctx context.Context, ebookID uuid.UUID, ch *NewChapter) (*Chapter, error) {
	query := `
        INSERT INTO ebook_chapters (ebook_id, title, content, position)
        VALUES ($1, $2, $3,
            (SELECT COALESCE(MAX(position) + 1, 0) FROM ebook_chapters WHERE ebook_id = $1))
        RETURNING id, ebook_id, title, content, position, created_at, updated_at
    `

	var chapter Chapter
	err := r.db.GetContext(ctx, &chapter, query, ebookID, ch.Title, ch.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to append chapter: %w", err)
	}

	return &chapter, nil
}

// DeleteChapters removes every chapter of an ebook
func (r *ChapterRepo) DeleteChapters(ctx context.Context, ebookID uuid.UUID) (int64, error) {
	query := `DELETE FROM ebook_chapters WHERE ebook_id = $1`

	result, err := r.db.ExecContext(ctx, query, ebookID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete chapters: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

// TouchEbook refreshes an ebook's updated_at after a chapter mutation
func (r *ChapterRepo) TouchEbook(ctx context.Context, ebookID uuid.UUID) error {
	query := `UPDATE ebooks SET updated_at = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, ebookID); err != nil {
		return fmt.Errorf("failed to touch ebook: %w", err)
	}

	return nil
}

// Move swaps a chapter with its neighbor in the given direction. The whole
// swap runs in one transaction: the chapter parks at the sentinel position,
// the neighbor takes the chapter's old slot, the chapter takes the
// neighbor's. Any failure rolls everything back; callers observe either the
// full swap or no change at all.
func (r *ChapterRepo) Move(ctx context.Context, ebookID, chapterID uuid.UUID, direction Direction) ([]MovedChapter, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reorder transaction: %w", err)
	}
	defer tx.Rollback()

	var currentPos int
	err = tx.GetContext(ctx, &currentPos,
		`SELECT position FROM ebook_chapters WHERE ebook_id = $1 AND id = $2`,
		ebookID, chapterID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to read chapter position: %w", err)
	}

	if direction == DirectionUp && currentPos == 0 {
		return nil, ErrCannotMoveFirst
	}

	var maxPos int
	err = tx.GetContext(ctx, &maxPos,
		`SELECT COALESCE(MAX(position), 0) FROM ebook_chapters WHERE ebook_id = $1`,
		ebookID)
	if err != nil {
		return nil, fmt.Errorf("failed to read max position: %w", err)
	}

	if direction == DirectionDown && currentPos == maxPos {
		return nil, ErrCannotMoveLast
	}

	targetPos := currentPos - 1
	if direction == DirectionDown {
		targetPos = currentPos + 1
	}

	var partnerID uuid.UUID
	err = tx.GetContext(ctx, &partnerID,
		`SELECT id FROM ebook_chapters WHERE ebook_id = $1 AND position = $2`,
		ebookID, targetPos)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoSwapPartner
		}
		return nil, fmt.Errorf("failed to find swap partner: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE ebook_chapters SET position = $1, updated_at = NOW() WHERE id = $2`,
		sentinelPosition, chapterID); err != nil {
		return nil, fmt.Errorf("failed to park chapter at sentinel: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE ebook_chapters SET position = $1, updated_at = NOW() WHERE id = $2`,
		currentPos, partnerID); err != nil {
		return nil, fmt.Errorf("failed to move swap partner: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE ebook_chapters SET position = $1, updated_at = NOW() WHERE id = $2`,
		targetPos, chapterID); err != nil {
		return nil, fmt.Errorf("failed to move chapter: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE ebooks SET updated_at = NOW() WHERE id = $1`, ebookID); err != nil {
		return nil, fmt.Errorf("failed to touch ebook: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reorder transaction: %w", err)
	}

	return []MovedChapter{
		{ID: chapterID, Position: targetPos},
		{ID: partnerID, Position: currentPos},
	}, nil
}
