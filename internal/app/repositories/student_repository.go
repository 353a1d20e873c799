package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/pkg/logger"
)

// studentColumns selects a student together with its faculty and avatar metadata.
var studentColumns = []string{
	"s.id", "s.name", "s.age", "s.faculty_id",
	"f.name", "f.color",
	"a.id", "a.file_path", "a.file_size", "a.media_type",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func (r *StudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(studentColumns...).
		From("students s").
		LeftJoin("faculties f ON f.id = s.faculty_id").
		LeftJoin("avatars a ON a.student_id = s.id")
}

// Create inserts a student and returns its generated id
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("name", "age", "faculty_id").
		Values(student.Name, student.Age, student.FacultyID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create student query")
		return 0, fmt.Errorf("error creating student: %w", err)
	}

	return id, nil
}

// GetByID retrieves a student with its faculty and avatar
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.selectStudents().
		Where(squirrel.Eq{"s.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	return student, nil
}

// FindAll returns every student in id order
func (r *StudentRepository) FindAll(ctx context.Context) ([]*models.Student, error) {
	return r.list(ctx, r.selectStudents().OrderBy("s.id ASC"))
}

// FindAllByAge returns students of exactly the given age
func (r *StudentRepository) FindAllByAge(ctx context.Context, age int) ([]*models.Student, error) {
	return r.list(ctx, r.selectStudents().Where(squirrel.Eq{"s.age": age}).OrderBy("s.id ASC"))
}

// FindAllByAgeBetween returns students with ageFrom <= age <= ageTo.
// An inverted range matches nothing.
func (r *StudentRepository) FindAllByAgeBetween(ctx context.Context, ageFrom, ageTo int) ([]*models.Student, error) {
	return r.list(ctx, r.selectStudents().
		Where(squirrel.Expr("s.age BETWEEN ? AND ?", ageFrom, ageTo)).
		OrderBy("s.id ASC"))
}

// FindAllByFacultyID returns the students assigned to a faculty
func (r *StudentRepository) FindAllByFacultyID(ctx context.Context, facultyID int64) ([]*models.Student, error) {
	return r.list(ctx, r.selectStudents().Where(squirrel.Eq{"s.faculty_id": facultyID}).OrderBy("s.id ASC"))
}

// LastN returns the n most recently created students, newest first
func (r *StudentRepository) LastN(ctx context.Context, n int) ([]*models.Student, error) {
	if n <= 0 {
		return []*models.Student{}, nil
	}
	return r.list(ctx, r.selectStudents().OrderBy("s.id DESC").Limit(uint64(n)))
}

// CountAll returns the number of students
func (r *StudentRepository) CountAll(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("students").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error counting students")
		return 0, fmt.Errorf("error counting students: %w", err)
	}

	return count, nil
}

// AverageAge returns the mean student age, 0 when there are no students
func (r *StudentRepository) AverageAge(ctx context.Context) (float64, error) {
	sql, args, err := r.sb.Select("COALESCE(AVG(age), 0)::float8").From("students").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build average age query: %w", err)
	}

	var avg float64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&avg); err != nil {
		logger.Error().Err(err).Msg("Error computing average student age")
		return 0, fmt.Errorf("error computing average age: %w", err)
	}

	return avg, nil
}

// Update overwrites name, age and faculty of an existing student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"name":       student.Name,
			"age":        student.Age,
			"faculty_id": student.FacultyID,
		}).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete deletes a student by ID. The avatar row, if any, is kept with student_id NULL.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *StudentRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Student, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// scanStudent reads one row produced by selectStudents.
func scanStudent(row pgx.Row) (*models.Student, error) {
	var (
		student         models.Student
		facultyName     *string
		facultyColor    *string
		avatarID        *int64
		avatarPath      *string
		avatarSize      *int64
		avatarMediaType *string
	)

	err := row.Scan(
		&student.ID, &student.Name, &student.Age, &student.FacultyID,
		&facultyName, &facultyColor,
		&avatarID, &avatarPath, &avatarSize, &avatarMediaType,
	)
	if err != nil {
		return nil, err
	}

	if student.FacultyID != nil && facultyName != nil {
		student.Faculty = &models.Faculty{
			ID:    *student.FacultyID,
			Name:  *facultyName,
			Color: derefString(facultyColor),
		}
	}

	if avatarID != nil {
		studentID := student.ID
		student.Avatar = &models.Avatar{
			ID:        *avatarID,
			FilePath:  derefString(avatarPath),
			MediaType: derefString(avatarMediaType),
			StudentID: &studentID,
		}
		if avatarSize != nil {
			student.Avatar.FileSize = *avatarSize
		}
	}

	return &student, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
