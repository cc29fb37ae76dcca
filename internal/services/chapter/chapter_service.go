package chapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/partnerhub/partnerhub/internal/identity"
)

var ErrNotOwner = errors.New("caller does not own this ebook")

// ChapterService contains business logic for ebooks and chapter ordering
type ChapterService struct {
	repo *ChapterRepo
}

// NewChapterService constructs a new ChapterService
func NewChapterService(repo *ChapterRepo) *ChapterService {
	return &ChapterService{repo: repo}
}

// CreateEbook registers a new empty ebook owned by the caller
func (s *ChapterService) CreateEbook(ctx context.Context, caller *identity.Caller, req *CreateEbookRequest) (*Ebook, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("ebook title is required")
	}

	ebook, err := s.repo.CreateEbook(ctx, caller.UserID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create ebook: %w", err)
	}

	return ebook, nil
}

// GetEbook fetches an ebook with its chapters in position order
func (s *ChapterService) GetEbook(ctx context.Context, caller *identity.Caller, ebookID uuid.UUID) (*Ebook, error) {
	ebook, err := s.authorize(ctx, caller, ebookID)
	if err != nil {
		return nil, err
	}

	chapters, err := s.repo.ListChapters(ctx, ebookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}

	ebook.Chapters = chapters

	return ebook, nil
}

// AddChapters appends chapters at the next free positions
func (s *ChapterService) AddChapters(ctx context.Context, caller *identity.Caller, ebookID uuid.UUID, req *AddChaptersRequest) ([]*Chapter, error) {
	if len(req.Chapters) == 0 {
		return nil, fmt.Errorf("at least one chapter is required")
	}
	for _, ch := range req.Chapters {
		if strings.TrimSpace(ch.Title) == "" {
			return nil, fmt.Errorf("chapter title is required")
		}
	}

	if _, err := s.authorize(ctx, caller, ebookID); err != nil {
		return nil, err
	}

	added := make([]*Chapter, 0, len(req.Chapters))
	for i := range req.Chapters {
		chapter, err := s.repo.AppendChapter(ctx, ebookID, &req.Chapters[i])
		if err != nil {
			return nil, fmt.Errorf("failed to append chapter: %w", err)
		}
		added = append(added, chapter)
	}

	if err := s.repo.TouchEbook(ctx, ebookID); err != nil {
		return nil, err
	}

	return added, nil
}

// DeleteChapters removes every chapter of an ebook
func (s *ChapterService) DeleteChapters(ctx context.Context, caller *identity.Caller, ebookID uuid.UUID) (int64, error) {
	if _, err := s.authorize(ctx, caller, ebookID); err != nil {
		return 0, err
	}

	deleted, err := s.repo.DeleteChapters(ctx, ebookID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete chapters: %w", err)
	}

	if err := s.repo.TouchEbook(ctx, ebookID); err != nil {
		return 0, err
	}

	return deleted, nil
}

// Move swaps a chapter with its neighbor, returning both new positions
func (s *ChapterService) Move(ctx context.Context, caller *identity.Caller, ebookID, chapterID uuid.UUID, direction Direction) ([]MovedChapter, error) {
	if _, err := s.authorize(ctx, caller, ebookID); err != nil {
		return nil, err
	}

	moved, err := s.repo.Move(ctx, ebookID, chapterID, direction)
	if err != nil {
		return nil, err
	}

	return moved, nil
}

// authorize loads the ebook and checks the caller may mutate it. GOD may
// touch any ebook, everyone else only their own.
func (s *ChapterService) authorize(ctx context.Context, caller *identity.Caller, ebookID uuid.UUID) (*Ebook, error) {
	ebook, err := s.repo.GetEbook(ctx, ebookID)
	if err != nil {
		return nil, err
	}

	if caller.Role != identity.RoleGod &&
		strings.TrimSpace(ebook.OwnerID) != strings.TrimSpace(caller.UserID) {
		return nil, ErrNotOwner
	}

	return ebook, nil
}
