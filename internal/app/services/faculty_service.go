package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/yigit/hogwarts/internal/app/mappers"
	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/app/models/dto"
	"github.com/yigit/hogwarts/internal/app/repositories"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
	"github.com/yigit/hogwarts/internal/pkg/logger"
)

// FacultyService defines the interface for faculty-related operations
type FacultyService interface {
	CreateFaculty(ctx context.Context, req *dto.CreateFacultyRequest) (*dto.FacultyResponse, error)
	GetFaculty(ctx context.Context, id int64) (*dto.FacultyResponse, error)
	UpdateFaculty(ctx context.Context, id int64, req *dto.UpdateFacultyRequest) (*dto.FacultyResponse, error)
	DeleteFaculty(ctx context.Context, id int64) (*dto.FacultyResponse, error)
	// FindAllFaculties returns every faculty, or only those of color when it is set.
	FindAllFaculties(ctx context.Context, color *string) ([]*dto.FacultyResponse, error)
	FindByColorOrName(ctx context.Context, colorOrName string) ([]*dto.FacultyResponse, error)
	GetFacultyStudents(ctx context.Context, id int64) ([]*dto.StudentResponse, error)
	GetTheLongestFacultyName(ctx context.Context) (string, error)
}

// facultyServiceImpl implements the FacultyService interface
type facultyServiceImpl struct {
	facultyRepo FacultyStore
	studentRepo StudentStore
	mappers     *mappers.Mappers
}

// NewFacultyService creates a new faculty service instance
func NewFacultyService(facultyRepo FacultyStore, studentRepo StudentStore, m *mappers.Mappers) FacultyService {
	return &facultyServiceImpl{
		facultyRepo: facultyRepo,
		studentRepo: studentRepo,
		mappers:     m,
	}
}

func (s *facultyServiceImpl) CreateFaculty(ctx context.Context, req *dto.CreateFacultyRequest) (*dto.FacultyResponse, error) {
	logger.Info().Msg("Was invoked method for creating a Faculty")

	faculty := s.mappers.Faculty.FromCreateRequest(req)
	id, err := s.facultyRepo.Create(ctx, faculty)
	if err != nil {
		return nil, fmt.Errorf("error creating faculty: %w", err)
	}
	faculty.ID = id

	logger.Warn().Int64("facultyID", id).Msg("Faculty was created")
	return s.mappers.Faculty.ToResponse(faculty), nil
}

func (s *facultyServiceImpl) GetFaculty(ctx context.Context, id int64) (*dto.FacultyResponse, error) {
	logger.Info().Int64("facultyID", id).Msg("Was invoked method for getting a Faculty")

	faculty, err := s.facultyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, facultyLookupError(id, err)
	}
	return s.mappers.Faculty.ToResponse(faculty), nil
}

func (s *facultyServiceImpl) UpdateFaculty(ctx context.Context, id int64, req *dto.UpdateFacultyRequest) (*dto.FacultyResponse, error) {
	logger.Info().Int64("facultyID", id).Msg("Was invoked method for updating a Faculty")

	faculty, err := s.facultyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, facultyLookupError(id, err)
	}

	if req.Name != nil {
		faculty.Name = *req.Name
	}
	if req.Color != nil {
		faculty.Color = *req.Color
	}

	if err := s.facultyRepo.Update(ctx, faculty); err != nil {
		return nil, facultyLookupError(id, err)
	}

	logger.Warn().Int64("facultyID", id).Msg("Faculty was updated")
	return s.mappers.Faculty.ToResponse(faculty), nil
}

func (s *facultyServiceImpl) DeleteFaculty(ctx context.Context, id int64) (*dto.FacultyResponse, error) {
	logger.Info().Int64("facultyID", id).Msg("Was invoked method for deleting a Faculty")

	faculty, err := s.facultyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, facultyLookupError(id, err)
	}

	if err := s.facultyRepo.Delete(ctx, id); err != nil {
		return nil, facultyLookupError(id, err)
	}

	logger.Warn().Int64("facultyID", id).Msg("Faculty was deleted")
	return s.mappers.Faculty.ToResponse(faculty), nil
}

func (s *facultyServiceImpl) FindAllFaculties(ctx context.Context, color *string) ([]*dto.FacultyResponse, error) {
	logger.Info().Msg("Was invoked method for finding all Faculties")

	var err error
	var faculties []*models.Faculty
	if color != nil {
		faculties, err = s.facultyRepo.FindAllByColor(ctx, *color)
	} else {
		faculties, err = s.facultyRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving faculties: %w", err)
	}
	return s.mappers.Faculty.ToResponses(faculties), nil
}

func (s *facultyServiceImpl) FindByColorOrName(ctx context.Context, colorOrName string) ([]*dto.FacultyResponse, error) {
	logger.Info().Str("colorOrName", colorOrName).Msg("Was invoked method for finding Faculties by color or name")

	faculties, err := s.facultyRepo.FindAllByColorOrNameContains(ctx, colorOrName)
	if err != nil {
		return nil, fmt.Errorf("error retrieving faculties: %w", err)
	}
	return s.mappers.Faculty.ToResponses(faculties), nil
}

// GetFacultyStudents does not check that the faculty exists; an unknown id
// yields an empty list.
func (s *facultyServiceImpl) GetFacultyStudents(ctx context.Context, id int64) ([]*dto.StudentResponse, error) {
	logger.Info().Int64("facultyID", id).Msg("Was invoked method for getting the Students of a Faculty")

	students, err := s.studentRepo.FindAllByFacultyID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving faculty students: %w", err)
	}
	return s.mappers.Student.ToResponses(students), nil
}

// GetTheLongestFacultyName compares names by character count. The first of
// equally long names wins and "" is returned when there are no faculties.
func (s *facultyServiceImpl) GetTheLongestFacultyName(ctx context.Context) (string, error) {
	logger.Info().Msg("Was invoked method for getting the longest Faculty name")

	faculties, err := s.facultyRepo.FindAll(ctx)
	if err != nil {
		return "", fmt.Errorf("error retrieving faculties: %w", err)
	}

	longest, longestLen := "", -1
	for _, f := range faculties {
		if n := utf8.RuneCountInString(f.Name); n > longestLen {
			longest, longestLen = f.Name, n
		}
	}
	return longest, nil
}

// facultyLookupError turns a missing row into the faculty NotFound error.
func facultyLookupError(id int64, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		logger.Error().Int64("facultyID", id).Msg("Faculty was not found")
		return apperrors.NewFacultyNotFound(id)
	}
	return fmt.Errorf("error accessing faculty %d: %w", id, err)
}
