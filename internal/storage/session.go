// Package storage owns the request-scoped PostgreSQL session the stores run on.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrReleased is returned when a session is used after Release.
var ErrReleased = errors.New("storage session used after release")

// DBTX is satisfied by *pgxpool.Conn, *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Session is one unit of database access with an explicit end. It is opened at the
// start of a request and released when the request finishes; after that every call
// fails with ErrReleased.
type Session struct {
	mu       sync.Mutex
	db       DBTX
	release  func()
	released bool
}

// NewSession binds a session to db. release runs once, on the first Release call.
func NewSession(db DBTX, release func()) *Session {
	if db == nil {
		panic("db cannot be nil")
	}
	return &Session{db: db, release: release}
}

// Acquire checks a connection out of pool for the lifetime of the session.
func Acquire(ctx context.Context, pool *pgxpool.Pool) (*Session, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return NewSession(conn, conn.Release), nil
}

// DB returns the live handle or ErrReleased.
func (s *Session) DB() (DBTX, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil, ErrReleased
	}
	return s.db, nil
}

// Released reports whether Release has been called.
func (s *Session) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// Release ends the session. Calling it more than once is a no-op.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return
	}
	s.released = true
	if s.release != nil {
		s.release()
	}
}

// InTx runs fn inside a transaction on this session. The session handed to fn is bound
// to the transaction and released when InTx returns. The transaction commits when fn
// returns nil and rolls back on error or panic.
func (s *Session) InTx(ctx context.Context, logger *slog.Logger, fn func(tx *Session) error) error {
	db, err := s.DB()
	if err != nil {
		return err
	}
	if logger == nil {
		logger = slog.Default()
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to begin transaction", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txSession := NewSession(tx, nil)
	defer txSession.Release()

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.ErrorContext(ctx, "failed to roll back transaction after panic",
					"error", rbErr,
					"panic", p,
				)
			} else {
				logger.ErrorContext(ctx, "rolled back transaction after panic", "panic", p)
			}
			panic(p)
		}
	}()

	if err := fn(txSession); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.ErrorContext(ctx, "failed to roll back transaction",
				"rollback_error", rbErr,
				"original_error", err,
			)
			return fmt.Errorf("error rolling back transaction: %v (original error: %w)", rbErr, err)
		}
		logger.DebugContext(ctx, "rolled back transaction", "error", err)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to commit transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
