package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/easyapps/poly-schedule-api/internal/dto"
	"github.com/easyapps/poly-schedule-api/internal/models"
	appErrors "github.com/easyapps/poly-schedule-api/pkg/errors"
)

type sectionCatalog interface {
	ListCandidates(ctx context.Context, termCode string, courses []dto.CourseRequest) ([]models.SectionCandidate, error)
	ListCourseComponents(ctx context.Context, termCode string, courses []dto.CourseRequest) ([]models.CourseKey, error)
}

type generationCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ScheduleGeneratorConfig governs generator behaviour.
type ScheduleGeneratorConfig struct {
	RawLimit     int
	DisplayLimit int
	NodeBudget   int
	CacheTTL     time.Duration
}

// ScheduleGeneratorService builds ranked conflict-free schedules from the
// candidate pool. The service itself is stateless: every call constructs its
// own search, so concurrent requests never share generation state.
type ScheduleGeneratorService struct {
	sections  sectionCatalog
	cache     generationCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ScheduleGeneratorConfig
}

// NewScheduleGeneratorService wires generator dependencies. Cache and
// metrics are optional.
func NewScheduleGeneratorService(
	sections sectionCatalog,
	cache generationCache,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleGeneratorConfig,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RawLimit <= 0 {
		cfg.RawLimit = defaultRawLimit
	}
	if cfg.DisplayLimit <= 0 {
		cfg.DisplayLimit = defaultDisplayLimit
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &ScheduleGeneratorService{
		sections:  sections,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate runs the full pipeline: candidate pool query, preference
// filtering, backtracking search, scoring, ranking, truncation. Zero
// reachable combinations is a valid empty response, never an error.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateSchedulesRequest) (*dto.GenerateSchedulesResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}
	sortBy, err := models.ParseSortMode(req.SortBy)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	cacheKey := s.cacheKey(req)
	if s.cache != nil {
		start := time.Now()
		var cached dto.GenerateSchedulesResponse
		cacheErr := s.cache.Get(ctx, cacheKey, &cached)
		s.metrics.RecordCacheOperation(cacheErr == nil, time.Since(start))
		if cacheErr == nil {
			return &cached, nil
		}
		if !errors.Is(cacheErr, appErrors.ErrCacheMiss) {
			s.logger.Warn("generation cache lookup failed", zap.Error(cacheErr))
		}
	}

	pool, err := s.sections.ListCandidates(ctx, req.TermCode, req.Courses)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate sections")
	}
	required, err := s.sections.ListCourseComponents(ctx, req.TermCode, req.Courses)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course components")
	}

	filtered := filterCandidates(pool, req)

	started := time.Now()
	result := runScheduleEngine(filtered, req.LockedClassNbrs, required, engineOptions{
		RawLimit:     s.rawLimit(req),
		DisplayLimit: s.displayLimit(req),
		NodeBudget:   s.cfg.NodeBudget,
	})
	sortSchedules(result.Schedules, sortBy)
	s.metrics.ObserveGeneration(result.NodesVisited, result.RawCount, result.Truncated, time.Since(started))

	if result.Truncated {
		s.logger.Warn("schedule search exhausted its node budget",
			zap.String("term", req.TermCode),
			zap.Int("nodes", result.NodesVisited),
			zap.Int("results", result.RawCount))
	}

	resp := &dto.GenerateSchedulesResponse{
		TermCode:  req.TermCode,
		SortBy:    sortBy,
		Count:     len(result.Schedules),
		Truncated: result.Truncated,
		Schedules: result.Schedules,
	}
	if resp.Schedules == nil {
		resp.Schedules = []models.GeneratedSchedule{}
	}

	if s.cache != nil {
		start := time.Now()
		if err := s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache generation response", zap.Error(err))
		}
		s.metrics.ObserveCacheWrite(time.Since(start))
	}

	return resp, nil
}

// Sections exposes the filtered candidate pool for a term and course list,
// used by the pool inspection endpoint.
func (s *ScheduleGeneratorService) Sections(ctx context.Context, query dto.SectionQuery) ([]models.SectionCandidate, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "termCode and subject are required")
	}
	courses := []dto.CourseRequest{{Subject: strings.ToUpper(query.Subject), CatalogNumber: query.Catalog}}
	pool, err := s.sections.ListCandidates(ctx, query.TermCode, courses)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}
	return pool, nil
}

func (s *ScheduleGeneratorService) rawLimit(req dto.GenerateSchedulesRequest) int {
	if req.RawLimit > 0 {
		return req.RawLimit
	}
	return s.cfg.RawLimit
}

func (s *ScheduleGeneratorService) displayLimit(req dto.GenerateSchedulesRequest) int {
	if req.DisplayLimit > 0 {
		return req.DisplayLimit
	}
	return s.cfg.DisplayLimit
}

func (s *ScheduleGeneratorService) cacheKey(req dto.GenerateSchedulesRequest) string {
	payload, err := json.Marshal(req)
	if err != nil {
		return "schedgen:" + req.TermCode
	}
	sum := sha256.Sum256(payload)
	return "schedgen:" + req.TermCode + ":" + hex.EncodeToString(sum[:])
}

// --- Candidate pool filters ---

// filterCandidates applies the user's preference filters ahead of the
// search. Locked sections bypass every preference filter: a pinned pick
// always survives to the partition step, even when it intersects a blocked
// slot the user declared afterwards. Floating sections pass all time-based
// filters untouched.
func filterCandidates(pool []models.SectionCandidate, req dto.GenerateSchedulesRequest) []models.SectionCandidate {
	locked := make(map[int]bool, len(req.LockedClassNbrs))
	for _, nbr := range req.LockedClassNbrs {
		locked[nbr] = true
	}

	kept := make([]models.SectionCandidate, 0, len(pool))
	for _, candidate := range pool {
		if locked[candidate.ClassNbr] || admitCandidate(candidate, req) {
			kept = append(kept, candidate)
		}
	}
	return kept
}

func admitCandidate(c models.SectionCandidate, req dto.GenerateSchedulesRequest) bool {
	// Rated sections below the floor are dropped; unrated ones are kept so
	// a missing PolyRatings match never hides a section.
	if req.MinRating != nil && c.Rating != nil && *c.Rating < *req.MinRating {
		return false
	}
	if req.OpenSeatsOnly && (c.SeatsAvailable == nil || *c.SeatsAvailable <= 0) {
		return false
	}
	if !c.HasMeetingTimes() {
		return true
	}
	if req.EarliestStartMinute != nil && *c.StartMinute < *req.EarliestStartMinute {
		return false
	}
	if req.LatestEndMinute != nil && *c.EndMinute > *req.LatestEndMinute {
		return false
	}
	if req.AllowedDays != "" {
		for i := 0; i < len(c.MeetingDays); i++ {
			if !strings.ContainsRune(req.AllowedDays, rune(c.MeetingDays[i])) {
				return false
			}
		}
	}
	for _, slot := range req.BlockedSlots {
		if slot.Intersects(c) {
			return false
		}
	}
	return true
}
