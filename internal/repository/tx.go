package repository

import (
	"context"

	"github.com/eehealth/api/internal/apperr"
	"github.com/jmoiron/sqlx"
)

// Transactor runs fn inside a database transaction, committing when fn returns nil.
type Transactor interface {
	Transact(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) Transactor {
	return &transactor{db: db}
}

func (t *transactor) Transact(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Storage("begin transaction", err)
	}
	defer tx.Rollback()

	err = fn(tx)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return apperr.Storage("commit transaction", err)
	}
	return nil
}
