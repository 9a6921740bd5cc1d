package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const defaultQueryTimeout = 10 * time.Second

// BaseRepository provides common repository functionality
type BaseRepository struct {
	db             *bun.DB
	defaultTimeout time.Duration
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *bun.DB) *BaseRepository {
	return &BaseRepository{
		db:             db,
		defaultTimeout: defaultQueryTimeout,
	}
}

// RepositoryError represents a repository-level error
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

// NotFoundError represents an entity not found error
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %v not found", nfe.Entity, nfe.ID)
}

// ConflictError represents a data conflict error
type ConflictError struct {
	Entity string
	Field  string
	Value  interface{}
}

func (ce *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %v already exists", ce.Entity, ce.Field, ce.Value)
}

// WithTimeout creates a context with the default timeout
func (br *BaseRepository) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, br.defaultTimeout)
}

// HandleError standardizes error handling across repositories
func (br *BaseRepository) HandleError(operation, entity string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: entity, ID: "unknown"}
	}

	return &RepositoryError{
		Operation: operation,
		Entity:    entity,
		Err:       err,
	}
}

// HandleErrorWithID standardizes error handling with specific ID
func (br *BaseRepository) HandleErrorWithID(operation, entity string, id interface{}, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: entity, ID: id}
	}

	return &RepositoryError{
		Operation: operation,
		Entity:    entity,
		Err:       err,
	}
}

// SelectOneWithTimeout executes a select one query with timeout and error handling
func (br *BaseRepository) SelectOneWithTimeout(ctx context.Context, operation, entity string, id interface{}, query func(context.Context) error) error {
	timeoutCtx, cancel := br.WithTimeout(ctx)
	defer cancel()

	err := query(timeoutCtx)
	return br.HandleErrorWithID(operation, entity, id, err)
}

// SelectWithTimeout executes a select query with timeout and error handling
func (br *BaseRepository) SelectWithTimeout(ctx context.Context, operation, entity string, query func(context.Context) error) error {
	timeoutCtx, cancel := br.WithTimeout(ctx)
	defer cancel()

	err := query(timeoutCtx)
	return br.HandleError(operation, entity, err)
}

// Transaction executes a function within a database transaction
func (br *BaseRepository) Transaction(ctx context.Context, fn func(context.Context, bun.Tx) error) error {
	timeoutCtx, cancel := br.WithTimeout(ctx)
	defer cancel()

	return br.db.RunInTx(timeoutCtx, nil, fn)
}

// Count returns the count of records matching the query
func (br *BaseRepository) Count(ctx context.Context, entity string, query *bun.SelectQuery) (int, error) {
	timeoutCtx, cancel := br.WithTimeout(ctx)
	defer cancel()

	count, err := query.Count(timeoutCtx)
	return count, br.HandleError("count", entity, err)
}

// Exists checks if a record exists
func (br *BaseRepository) Exists(ctx context.Context, entity string, query *bun.SelectQuery) (bool, error) {
	timeoutCtx, cancel := br.WithTimeout(ctx)
	defer cancel()

	exists, err := query.Exists(timeoutCtx)
	return exists, br.HandleError("exists", entity, err)
}

// GetDB returns the underlying database connection
func (br *BaseRepository) GetDB() *bun.DB {
	return br.db
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
