package api

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for the service/repository layers. Handlers translate them
// to HTTP status codes with errors.Is.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrValidation      = errors.New("invalid input")
)

// Machine-readable error codes used in the response envelope.
const (
	CodeValidation    = "validation_error"
	CodeAlreadyExists = "already_exists"
	CodeAuth          = "auth_error"
	CodeNotFound      = "not_found"
	CodeServer        = "server_error"
)

// DBPool is the subset of pgxpool.Pool the repositories use. pgxmock
// implements the same set, which keeps repository tests off a live database.
type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}
