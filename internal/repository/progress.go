package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/eehealth/api/internal/apperr"
	"github.com/eehealth/api/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrProgressConflict = fmt.Errorf("daily progress %w", apperr.ErrConflict)
)

type ProgressRepository interface {
	// ByDate returns the record for (userID, date), or nil when none exists yet.
	ByDate(ctx context.Context, userID string, date civil.Date) (*model.DailyProgress, error)
	// Range returns records with from <= date <= to, newest first.
	Range(ctx context.Context, userID string, from, to civil.Date) ([]model.DailyProgress, error)
	// All returns every record of the user, newest first.
	All(ctx context.Context, userID string) ([]model.DailyProgress, error)
	// Save inserts a new record (Version 0) or updates an existing one only if its
	// stored version still equals p.Version. Either way a lost race returns
	// ErrProgressConflict. On success p.Version is advanced.
	Save(ctx context.Context, p *model.DailyProgress) error
	WithTx(tx *sqlx.Tx) ProgressRepository
}

type progressRow struct {
	UserID               string    `db:"user_id"`
	Date                 string    `db:"date"`
	Goals                string    `db:"goals"`
	TotalGoals           int       `db:"total_goals"`
	CompletedGoals       int       `db:"completed_goals"`
	CompletionPercentage int       `db:"completion_percentage"`
	Version              int       `db:"version"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

func (row progressRow) toModel() (model.DailyProgress, error) {
	date, err := civil.ParseDate(row.Date)
	if err != nil {
		return model.DailyProgress{}, fmt.Errorf("parse date %q: %w", row.Date, err)
	}

	entries := []model.ProgressEntry{}
	if row.Goals != "" {
		err = json.Unmarshal([]byte(row.Goals), &entries)
		if err != nil {
			return model.DailyProgress{}, fmt.Errorf("decode goals for %s: %w", row.Date, err)
		}
	}
	if entries == nil {
		entries = []model.ProgressEntry{}
	}

	return model.DailyProgress{
		UserID:               row.UserID,
		Date:                 date,
		Goals:                entries,
		TotalGoals:           row.TotalGoals,
		CompletedGoals:       row.CompletedGoals,
		CompletionPercentage: row.CompletionPercentage,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
		Version:              row.Version,
	}, nil
}

const progressColumns = `user_id, date, goals, total_goals, completed_goals, completion_percentage, version, created_at, updated_at`

type progressRepository struct {
	db sqlx.ExtContext
}

func NewProgressRepository(db *sqlx.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) WithTx(tx *sqlx.Tx) ProgressRepository {
	return &progressRepository{db: tx}
}

func (r *progressRepository) ByDate(ctx context.Context, userID string, date civil.Date) (*model.DailyProgress, error) {
	var row progressRow
	query := `SELECT ` + progressColumns + ` FROM daily_progress WHERE user_id = $1 AND date = $2`

	err := sqlx.GetContext(ctx, r.db, &row, query, userID, date.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("progress lookup", err)
	}

	p, err := row.toModel()
	if err != nil {
		return nil, apperr.Storage("progress decode", err)
	}
	return &p, nil
}

func (r *progressRepository) Range(ctx context.Context, userID string, from, to civil.Date) ([]model.DailyProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM daily_progress
	          WHERE user_id = $1 AND date >= $2 AND date <= $3
	          ORDER BY date DESC`
	return r.list(ctx, "progress range", query, userID, from.String(), to.String())
}

func (r *progressRepository) All(ctx context.Context, userID string) ([]model.DailyProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM daily_progress WHERE user_id = $1 ORDER BY date DESC`
	return r.list(ctx, "progress list", query, userID)
}

func (r *progressRepository) list(ctx context.Context, op, query string, args ...any) ([]model.DailyProgress, error) {
	var rows []progressRow
	err := sqlx.SelectContext(ctx, r.db, &rows, query, args...)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}

	records := make([]model.DailyProgress, 0, len(rows))
	for _, row := range rows {
		p, err := row.toModel()
		if err != nil {
			return nil, apperr.Storage(op, err)
		}
		records = append(records, p)
	}
	return records, nil
}

func (r *progressRepository) Save(ctx context.Context, p *model.DailyProgress) error {
	goals := p.Goals
	if goals == nil {
		goals = []model.ProgressEntry{}
	}
	encoded, err := json.Marshal(goals)
	if err != nil {
		return apperr.Storage("progress encode", err)
	}

	now := time.Now().UTC()

	if p.Version == 0 {
		query := `INSERT INTO daily_progress (` + progressColumns + `)
		          VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)
		          ON CONFLICT (user_id, date) DO NOTHING`

		result, err := r.db.ExecContext(ctx, query,
			p.UserID,
			p.Date.String(),
			string(encoded),
			p.TotalGoals,
			p.CompletedGoals,
			p.CompletionPercentage,
			now,
			now,
		)
		err = affectedOne(result, err, "progress insert", ErrProgressConflict)
		if err != nil {
			return err
		}

		p.Version = 1
		p.CreatedAt = now
		p.UpdatedAt = now
		return nil
	}

	query := `UPDATE daily_progress
	          SET goals = $1, total_goals = $2, completed_goals = $3, completion_percentage = $4,
	              version = version + 1, updated_at = $5
	          WHERE user_id = $6 AND date = $7 AND version = $8`

	result, err := r.db.ExecContext(ctx, query,
		string(encoded),
		p.TotalGoals,
		p.CompletedGoals,
		p.CompletionPercentage,
		now,
		p.UserID,
		p.Date.String(),
		p.Version,
	)
	err = affectedOne(result, err, "progress update", ErrProgressConflict)
	if err != nil {
		return err
	}

	p.Version++
	p.UpdatedAt = now
	return nil
}
