package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/easyapps/poly-schedule-api/internal/dto"
	"github.com/easyapps/poly-schedule-api/internal/models"
	appErrors "github.com/easyapps/poly-schedule-api/pkg/errors"
)

type savedScheduleRepository interface {
	Create(ctx context.Context, schedule *models.SavedSchedule) error
	ListByUser(ctx context.Context, userID string) ([]models.SavedSchedule, error)
	FindByID(ctx context.Context, id string) (*models.SavedSchedule, error)
	Delete(ctx context.Context, id string) error
}

// SavedScheduleService persists a user's picked class numbers per term.
type SavedScheduleService struct {
	repo      savedScheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSavedScheduleService constructs the service.
func NewSavedScheduleService(repo savedScheduleRepository, validate *validator.Validate, logger *zap.Logger) *SavedScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SavedScheduleService{repo: repo, validator: validate, logger: logger}
}

// Save stores a new saved schedule for the user.
func (s *SavedScheduleService) Save(ctx context.Context, userID string, req dto.SaveScheduleRequest) (*models.SavedSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save schedule payload")
	}

	schedule := &models.SavedSchedule{
		ID:        uuid.NewString(),
		UserID:    userID,
		TermCode:  req.TermCode,
		Name:      req.Name,
		ClassNbrs: req.ClassNbrs,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule")
	}
	return schedule, nil
}

// List returns the user's saved schedules, newest first.
func (s *SavedScheduleService) List(ctx context.Context, userID string) ([]models.SavedSchedule, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list saved schedules")
	}
	return list, nil
}

// Delete removes a saved schedule owned by the user.
func (s *SavedScheduleService) Delete(ctx context.Context, userID, scheduleID string) error {
	schedule, err := s.repo.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "saved schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load saved schedule")
	}
	if schedule.UserID != userID {
		return appErrors.Clone(appErrors.ErrForbidden, "schedule belongs to another user")
	}
	if err := s.repo.Delete(ctx, scheduleID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete saved schedule")
	}
	return nil
}
