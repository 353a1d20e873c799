package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("record not found")

// DBTX is the subset of *pgxpool.Pool the repositories need.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	FacultyRepository *FacultyRepository
	StudentRepository *StudentRepository
	AvatarRepository  *AvatarRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		FacultyRepository: NewFacultyRepository(db),
		StudentRepository: NewStudentRepository(db),
		AvatarRepository:  NewAvatarRepository(db),
	}
}

func newStatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
