package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/easyapps/poly-schedule-api/internal/models"
)

// SavedScheduleRepository stores the class-number picks a user saved per term.
type SavedScheduleRepository struct {
	db *sqlx.DB
}

// NewSavedScheduleRepository creates a new instance of SavedScheduleRepository.
func NewSavedScheduleRepository(db *sqlx.DB) *SavedScheduleRepository {
	return &SavedScheduleRepository{db: db}
}

// Create inserts a saved schedule and fills the generated fields.
func (r *SavedScheduleRepository) Create(ctx context.Context, schedule *models.SavedSchedule) error {
	const query = `INSERT INTO saved_schedules (id, user_id, term_code, name, class_nbrs, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, query, schedule.ID, schedule.UserID, schedule.TermCode, schedule.Name, pq.Array(schedule.ClassNbrs), schedule.CreatedAt); err != nil {
		return fmt.Errorf("create saved schedule: %w", err)
	}
	return nil
}

// ListByUser returns a user's saved schedules, newest first.
func (r *SavedScheduleRepository) ListByUser(ctx context.Context, userID string) ([]models.SavedSchedule, error) {
	const query = `SELECT id, user_id, term_code, name, class_nbrs, created_at
FROM saved_schedules WHERE user_id = $1 ORDER BY created_at DESC, id`

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.SavedSchedule
	for rows.Next() {
		schedule, err := scanSavedSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved schedules: %w", err)
	}
	return schedules, nil
}

// FindByID returns a saved schedule by identifier.
func (r *SavedScheduleRepository) FindByID(ctx context.Context, id string) (*models.SavedSchedule, error) {
	const query = `SELECT id, user_id, term_code, name, class_nbrs, created_at
FROM saved_schedules WHERE id = $1 LIMIT 1`

	rows, err := r.db.QueryxContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("find saved schedule: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("find saved schedule: %w", err)
		}
		return nil, sql.ErrNoRows
	}
	return scanSavedSchedule(rows)
}

// Delete removes a saved schedule.
func (r *SavedScheduleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM saved_schedules WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete saved schedule: %w", err)
	}
	return nil
}

func scanSavedSchedule(rows *sqlx.Rows) (*models.SavedSchedule, error) {
	var schedule models.SavedSchedule
	if err := rows.Scan(&schedule.ID, &schedule.UserID, &schedule.TermCode, &schedule.Name, pq.Array(&schedule.ClassNbrs), &schedule.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan saved schedule: %w", err)
	}
	return &schedule, nil
}
