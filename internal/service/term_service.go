package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/easyapps/poly-schedule-api/internal/models"
	appErrors "github.com/easyapps/poly-schedule-api/pkg/errors"
)

type termRepository interface {
	FindCurrent(ctx context.Context) (*models.Term, error)
	FindByCode(ctx context.Context, code string) (*models.Term, error)
}

// TermService exposes the scraped term metadata.
type TermService struct {
	repo   termRepository
	logger *zap.Logger
}

// NewTermService constructs the service.
func NewTermService(repo termRepository, logger *zap.Logger) *TermService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{repo: repo, logger: logger}
}

// Current returns the term the scraper most recently marked current.
func (s *TermService) Current(ctx context.Context) (*models.Term, error) {
	term, err := s.repo.FindCurrent(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no current term available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load current term")
	}
	return term, nil
}

// ByCode returns one term by its code.
func (s *TermService) ByCode(ctx context.Context, code string) (*models.Term, error) {
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "term code is required")
	}
	term, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	return term, nil
}
