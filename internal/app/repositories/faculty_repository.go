package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/pkg/logger"
)

var facultyColumns = []string{"id", "name", "color"}

// FacultyRepository handles faculty database operations
type FacultyRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewFacultyRepository creates a new FacultyRepository
func NewFacultyRepository(db DBTX) *FacultyRepository {
	return &FacultyRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

// Create inserts a faculty and returns its generated id
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) (int64, error) {
	sql, args, err := r.sb.Insert("faculties").
		Columns("name", "color").
		Values(faculty.Name, faculty.Color).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create faculty query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create faculty query")
		return 0, fmt.Errorf("error creating faculty: %w", err)
	}

	return id, nil
}

// GetByID retrieves a faculty by ID
func (r *FacultyRepository) GetByID(ctx context.Context, id int64) (*models.Faculty, error) {
	sql, args, err := r.sb.Select(facultyColumns...).
		From("faculties").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get faculty query: %w", err)
	}

	faculty := &models.Faculty{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&faculty.ID, &faculty.Name, &faculty.Color)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("facultyID", id).Msg("Error scanning faculty row")
		return nil, fmt.Errorf("error getting faculty by ID: %w", err)
	}

	return faculty, nil
}

// FindAll returns every faculty in id order
func (r *FacultyRepository) FindAll(ctx context.Context) ([]*models.Faculty, error) {
	return r.list(ctx, nil)
}

// FindAllByColor returns faculties whose color matches exactly
func (r *FacultyRepository) FindAllByColor(ctx context.Context, color string) ([]*models.Faculty, error) {
	return r.list(ctx, squirrel.Eq{"color": color})
}

// FindAllByColorOrNameContains returns faculties whose color or name contains
// text, ignoring case.
func (r *FacultyRepository) FindAllByColorOrNameContains(ctx context.Context, text string) ([]*models.Faculty, error) {
	pattern := "%" + escapeLike(text) + "%"
	return r.list(ctx, squirrel.Or{
		squirrel.ILike{"color": pattern},
		squirrel.ILike{"name": pattern},
	})
}

// Update overwrites name and color of an existing faculty
func (r *FacultyRepository) Update(ctx context.Context, faculty *models.Faculty) error {
	sql, args, err := r.sb.Update("faculties").
		SetMap(map[string]interface{}{
			"name":  faculty.Name,
			"color": faculty.Color,
		}).
		Where(squirrel.Eq{"id": faculty.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update faculty query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("facultyID", faculty.ID).Msg("Error executing update faculty query")
		return fmt.Errorf("error updating faculty: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete deletes a faculty by ID. Students of the faculty keep existing with
// faculty_id reset to NULL by the foreign key.
func (r *FacultyRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("faculties").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete faculty query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("facultyID", id).Msg("Error executing delete faculty query")
		return fmt.Errorf("error deleting faculty: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *FacultyRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Faculty, error) {
	query := r.sb.Select(facultyColumns...).From("faculties")
	if where != nil {
		query = query.Where(where)
	}

	sql, args, err := query.OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list faculties query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list faculties query")
		return nil, fmt.Errorf("error querying faculties: %w", err)
	}
	defer rows.Close()

	faculties := []*models.Faculty{}
	for rows.Next() {
		faculty := &models.Faculty{}
		if err := rows.Scan(&faculty.ID, &faculty.Name, &faculty.Color); err != nil {
			return nil, fmt.Errorf("error scanning faculty row: %w", err)
		}
		faculties = append(faculties, faculty)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating faculty rows: %w", err)
	}

	return faculties, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes text match literally inside a LIKE pattern.
func escapeLike(text string) string {
	return likeEscaper.Replace(text)
}
