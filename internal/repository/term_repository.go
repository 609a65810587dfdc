package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/easyapps/poly-schedule-api/internal/models"
)

type TermRepository struct {
	db *sqlx.DB
}

func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

const termColumns = `term_code AS code, term_name AS name, COALESCE(date_range, '') AS date_range, is_current AS current, scraped_at`

// FindCurrent returns the term the latest scrape marked current.
func (r *TermRepository) FindCurrent(ctx context.Context) (*models.Term, error) {
	query := fmt.Sprintf(`SELECT %s FROM terms WHERE is_current = TRUE ORDER BY term_code DESC LIMIT 1`, termColumns)

	var term models.Term
	if err := r.db.GetContext(ctx, &term, query); err != nil {
		return nil, err
	}
	return &term, nil
}

func (r *TermRepository) FindByCode(ctx context.Context, code string) (*models.Term, error) {
	query := fmt.Sprintf(`SELECT %s FROM terms WHERE term_code = $1`, termColumns)

	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, code); err != nil {
		return nil, err
	}
	return &term, nil
}
