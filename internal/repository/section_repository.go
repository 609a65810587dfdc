package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/easyapps/poly-schedule-api/internal/dto"
	"github.com/easyapps/poly-schedule-api/internal/models"
)

type queryTimer interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// SectionRepository assembles the candidate pool: scraped sections joined to
// their PolyRatings row through the normalized instructor key the scraper
// pipeline computes on both tables.
type SectionRepository struct {
	db      *sqlx.DB
	metrics queryTimer
}

// NewSectionRepository creates a new section repository. Metrics are optional.
func NewSectionRepository(db *sqlx.DB, metrics queryTimer) *SectionRepository {
	return &SectionRepository{db: db, metrics: metrics}
}

const candidateColumns = `s.subject, s.catalog_nbr, s.class_section, s.component, s.class_nbr,
	COALESCE(s.meeting_days, '') AS meeting_days, s.start_minute, s.end_minute,
	s.instructor_name, r.overall_rating AS rating, r.num_evals, s.seats_available`

// ListCandidates returns one row per class number for the requested courses,
// ordered deterministically. The fuzzy instructor-key join can attach more
// than one rating row to a section; the duplicate with the most evaluations
// wins and the section keeps its first-seen position.
func (r *SectionRepository) ListCandidates(ctx context.Context, termCode string, courses []dto.CourseRequest) ([]models.SectionCandidate, error) {
	if len(courses) == 0 {
		return nil, nil
	}

	where, args := courseFilter(termCode, courses)
	query := fmt.Sprintf(`SELECT %s
FROM sections s
LEFT JOIN professor_ratings r ON r.professor_key = s.instructor_key
WHERE %s
ORDER BY s.subject, s.catalog_nbr, s.component, s.class_section, s.class_nbr`, candidateColumns, where)

	started := time.Now()
	var rows []models.SectionCandidate
	err := r.db.SelectContext(ctx, &rows, query, args...)
	if r.metrics != nil {
		r.metrics.ObserveDBQuery("list_candidates", time.Since(started))
	}
	if err != nil {
		return nil, fmt.Errorf("list candidate sections: %w", err)
	}

	return dedupeByClassNbr(rows), nil
}

// ListCourseComponents returns the distinct course-component keys offered
// this term for the requested courses, before any preference filtering.
func (r *SectionRepository) ListCourseComponents(ctx context.Context, termCode string, courses []dto.CourseRequest) ([]models.CourseKey, error) {
	if len(courses) == 0 {
		return nil, nil
	}

	where, args := courseFilter(termCode, courses)
	query := fmt.Sprintf(`SELECT DISTINCT s.subject, s.catalog_nbr, s.component
FROM sections s
WHERE %s
ORDER BY s.subject, s.catalog_nbr, s.component`, where)

	started := time.Now()
	var keys []models.CourseKey
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if r.metrics != nil {
		r.metrics.ObserveDBQuery("list_course_components", time.Since(started))
	}
	if err != nil {
		return nil, fmt.Errorf("list course components: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key models.CourseKey
		if err := rows.Scan(&key.Subject, &key.CatalogNumber, &key.Component); err != nil {
			return nil, fmt.Errorf("scan course component: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course components: %w", err)
	}
	return keys, nil
}

func courseFilter(termCode string, courses []dto.CourseRequest) (string, []interface{}) {
	args := []interface{}{termCode}
	clauses := make([]string, 0, len(courses))
	for _, course := range courses {
		if course.CatalogNumber == "" {
			clauses = append(clauses, fmt.Sprintf("s.subject = $%d", len(args)+1))
			args = append(args, course.Subject)
			continue
		}
		clauses = append(clauses, fmt.Sprintf("(s.subject = $%d AND s.catalog_nbr = $%d)", len(args)+1, len(args)+2))
		args = append(args, course.Subject, course.CatalogNumber)
	}
	return "s.term_code = $1 AND (" + strings.Join(clauses, " OR ") + ")", args
}

// dedupeByClassNbr collapses duplicate class numbers to a single row,
// keeping the rating with the most evaluations. First appearance decides
// position so the pool order stays stable.
func dedupeByClassNbr(rows []models.SectionCandidate) []models.SectionCandidate {
	if len(rows) == 0 {
		return rows
	}
	position := make(map[int]int, len(rows))
	out := make([]models.SectionCandidate, 0, len(rows))
	for _, row := range rows {
		i, seen := position[row.ClassNbr]
		if !seen {
			position[row.ClassNbr] = len(out)
			out = append(out, row)
			continue
		}
		if evalCount(row) > evalCount(out[i]) {
			out[i] = row
		}
	}
	return out
}

func evalCount(s models.SectionCandidate) int {
	if s.NumEvaluations == nil {
		return -1
	}
	return *s.NumEvaluations
}
