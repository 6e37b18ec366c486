// Package store wraps db.Querier with transaction support and groups the
// multi-step writes that must execute atomically: survey creation under a
// plan quota, report issuing, plan purchases and catalog seeding.
//
// Single-query reads (GetSurveyByID, ListSectorWeightings, etc.) are called
// directly on db.Querier via Q().
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nyashahama/property-risk-survey-backend/internal/db"
)

// Store holds a *sql.DB for starting transactions and a db.Querier for
// executing queries outside of them.
type Store struct {
	pool *sql.DB
	q    db.Querier
}

// New creates a Store from a live, already-pinged connection pool.
func New(pool *sql.DB, q db.Querier) *Store {
	return &Store{pool: pool, q: q}
}

// Q exposes the underlying Querier for single-query reads.
//
//	survey, err := s.Q().GetSurveyByID(ctx, id)
func (s *Store) Q() db.Querier {
	return s.q
}

// txQuerier receives a transactional Querier. Returning a non-nil error rolls
// the transaction back.
type txQuerier func(ctx context.Context, q db.Querier) error

// withTx runs fn inside a serializable transaction, committing on success and
// rolling back on error or panic. Every multi-step write here reads before it
// writes (quota counts, pending-plan checks) so serializable is the default.
func (s *Store) withTx(ctx context.Context, fn txQuerier) error {
	tx, err := s.pool.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	txQ := s.q.(*db.Queries).WithTx(tx)

	if err := fn(ctx, txQ); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("store: fn error: %w; rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit transaction: %w", err)
	}
	return nil
}

// nullString maps "" to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
