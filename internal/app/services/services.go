// Package services holds the business logic between controllers and repositories.
//
// Services defined in this package:
//   - FacultyService: faculty CRUD, lookups and the longest name report
//   - StudentService: student CRUD, aggregates and avatar upload
//   - AvatarService: avatar storage and retrieval
//   - InfoService: runtime information endpoints
package services

import (
	"context"

	"github.com/yigit/hogwarts/internal/app/models"
)

// FacultyStore is the persistence FacultyService depends on.
type FacultyStore interface {
	Create(ctx context.Context, faculty *models.Faculty) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Faculty, error)
	FindAll(ctx context.Context) ([]*models.Faculty, error)
	FindAllByColor(ctx context.Context, color string) ([]*models.Faculty, error)
	FindAllByColorOrNameContains(ctx context.Context, text string) ([]*models.Faculty, error)
	Update(ctx context.Context, faculty *models.Faculty) error
	Delete(ctx context.Context, id int64) error
}

// StudentStore is the persistence StudentService depends on.
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	FindAll(ctx context.Context) ([]*models.Student, error)
	FindAllByAge(ctx context.Context, age int) ([]*models.Student, error)
	FindAllByAgeBetween(ctx context.Context, ageFrom, ageTo int) ([]*models.Student, error)
	FindAllByFacultyID(ctx context.Context, facultyID int64) ([]*models.Student, error)
	LastN(ctx context.Context, n int) ([]*models.Student, error)
	CountAll(ctx context.Context) (int64, error)
	AverageAge(ctx context.Context) (float64, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

// AvatarStore is the persistence AvatarService depends on.
type AvatarStore interface {
	GetByID(ctx context.Context, id int64) (*models.Avatar, error)
	GetByStudentID(ctx context.Context, studentID int64) (*models.Avatar, error)
	Save(ctx context.Context, avatar *models.Avatar) error
	FindPage(ctx context.Context, offset, limit int) ([]*models.Avatar, error)
}
