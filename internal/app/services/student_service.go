package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yigit/hogwarts/internal/app/mappers"
	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/app/models/dto"
	"github.com/yigit/hogwarts/internal/app/repositories"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
	"github.com/yigit/hogwarts/internal/pkg/logger"
)

// StudentService defines the interface for student-related operations
type StudentService interface {
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error)
	GetStudent(ctx context.Context, id int64) (*dto.StudentResponse, error)
	UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	DeleteStudent(ctx context.Context, id int64) (*dto.StudentResponse, error)
	// FindAllStudents returns every student, or only those of age when it is set.
	FindAllStudents(ctx context.Context, age *int) ([]*dto.StudentResponse, error)
	FindByAgeBetween(ctx context.Context, ageFrom, ageTo int) ([]*dto.StudentResponse, error)
	GetFacultyForStudent(ctx context.Context, id int64) (*dto.FacultyResponse, error)
	UploadAvatar(ctx context.Context, id int64, upload *AvatarUpload) (*dto.StudentResponse, error)

	CountAllStudentsInTheSchool(ctx context.Context) (int64, error)
	GetAverageAgeOfStudents(ctx context.Context) (float64, error)
	GetAverageAgeOfStudentsInMemory(ctx context.Context) (float64, error)
	GetLastStudents(ctx context.Context, count int) ([]*dto.StudentResponse, error)
	FilterStudentsByNameStartsWith(ctx context.Context, letter string) ([]string, error)

	PrintStudentNamesParallel(ctx context.Context) error
	PrintStudentNamesSynchronized(ctx context.Context) error
}

type studentServiceImpl struct {
	studentRepo StudentStore
	facultyRepo FacultyStore
	avatars     AvatarService
	mappers     *mappers.Mappers
	printer     *NamePrinter
}

// NewStudentService creates a new student service instance
func NewStudentService(
	studentRepo StudentStore,
	facultyRepo FacultyStore,
	avatars AvatarService,
	m *mappers.Mappers,
	printer *NamePrinter,
) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		facultyRepo: facultyRepo,
		avatars:     avatars,
		mappers:     m,
		printer:     printer,
	}
}

func (s *studentServiceImpl) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	logger.Info().Msg("Was invoked method for creating a Student")

	student := s.mappers.Student.FromCreateRequest(req)
	if student.FacultyID != nil {
		faculty, err := s.facultyRepo.GetByID(ctx, *student.FacultyID)
		if err != nil {
			return nil, facultyLookupError(*student.FacultyID, err)
		}
		student.Faculty = faculty
	}

	id, err := s.studentRepo.Create(ctx, student)
	if err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	student.ID = id

	logger.Warn().Int64("studentID", id).Msg("Student was created")
	return s.mappers.Student.ToResponse(student), nil
}

func (s *studentServiceImpl) getStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, studentLookupError(id, err)
	}
	return student, nil
}

func (s *studentServiceImpl) GetStudent(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	logger.Info().Int64("studentID", id).Msg("Was invoked method for getting a Student")

	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mappers.Student.ToResponse(student), nil
}

func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	logger.Info().Int64("studentID", id).Msg("Was invoked method for updating a Student")

	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Age != nil {
		student.Age = *req.Age
	}
	if req.FacultyID != nil {
		faculty, err := s.facultyRepo.GetByID(ctx, *req.FacultyID)
		if err != nil {
			return nil, facultyLookupError(*req.FacultyID, err)
		}
		student.FacultyID = &faculty.ID
		student.Faculty = faculty
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, studentLookupError(id, err)
	}

	logger.Warn().Int64("studentID", id).Msg("Student was updated")
	return s.mappers.Student.ToResponse(student), nil
}

func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	logger.Info().Int64("studentID", id).Msg("Was invoked method for deleting a Student")

	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return nil, studentLookupError(id, err)
	}

	logger.Warn().Int64("studentID", id).Msg("Student was deleted")
	return s.mappers.Student.ToResponse(student), nil
}

func (s *studentServiceImpl) FindAllStudents(ctx context.Context, age *int) ([]*dto.StudentResponse, error) {
	logger.Info().Msg("Was invoked method for finding all Students")

	var err error
	var students []*models.Student
	if age != nil {
		students, err = s.studentRepo.FindAllByAge(ctx, *age)
	} else {
		students, err = s.studentRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return s.mappers.Student.ToResponses(students), nil
}

// FindByAgeBetween is inclusive on both ends. An inverted range returns an empty list.
func (s *studentServiceImpl) FindByAgeBetween(ctx context.Context, ageFrom, ageTo int) ([]*dto.StudentResponse, error) {
	logger.Info().Int("ageFrom", ageFrom).Int("ageTo", ageTo).Msg("Was invoked method for finding Students by age range")

	students, err := s.studentRepo.FindAllByAgeBetween(ctx, ageFrom, ageTo)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return s.mappers.Student.ToResponses(students), nil
}

// GetFacultyForStudent reports a student without a faculty as a missing student.
func (s *studentServiceImpl) GetFacultyForStudent(ctx context.Context, id int64) (*dto.FacultyResponse, error) {
	logger.Info().Int64("studentID", id).Msg("Was invoked method for getting the Faculty of a Student")

	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	if student.Faculty == nil {
		return nil, apperrors.NewStudentNotFound(id)
	}
	return s.mappers.Faculty.ToResponse(student.Faculty), nil
}

func (s *studentServiceImpl) UploadAvatar(ctx context.Context, id int64, upload *AvatarUpload) (*dto.StudentResponse, error) {
	logger.Info().Int64("studentID", id).Msg("Was invoked method for uploading an Avatar for a Student")

	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	avatar, err := s.avatars.Upload(ctx, id, upload)
	if err != nil {
		return nil, err
	}
	student.Avatar = avatar

	return s.mappers.Student.ToResponse(student), nil
}

func (s *studentServiceImpl) CountAllStudentsInTheSchool(ctx context.Context) (int64, error) {
	logger.Info().Msg("Was invoked method for counting all Students")

	count, err := s.studentRepo.CountAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

func (s *studentServiceImpl) GetAverageAgeOfStudents(ctx context.Context) (float64, error) {
	logger.Info().Msg("Was invoked method for getting the average age of Students")

	avg, err := s.studentRepo.AverageAge(ctx)
	if err != nil {
		return 0, fmt.Errorf("error computing average age: %w", err)
	}
	return avg, nil
}

// GetAverageAgeOfStudentsInMemory loads every student and averages in Go.
func (s *studentServiceImpl) GetAverageAgeOfStudentsInMemory(ctx context.Context) (float64, error) {
	logger.Info().Msg("Was invoked method for getting the average age of Students in memory")

	students, err := s.studentRepo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("error retrieving students: %w", err)
	}
	if len(students) == 0 {
		return 0, nil
	}

	total := 0
	for _, st := range students {
		total += st.Age
	}
	return float64(total) / float64(len(students)), nil
}

// GetLastStudents returns the |count| most recently created students.
func (s *studentServiceImpl) GetLastStudents(ctx context.Context, count int) ([]*dto.StudentResponse, error) {
	logger.Info().Int("count", count).Msg("Was invoked method for getting the last Students")

	if count < 0 {
		count = -count
	}
	students, err := s.studentRepo.LastN(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("error retrieving last students: %w", err)
	}
	return s.mappers.Student.ToResponses(students), nil
}

// FilterStudentsByNameStartsWith returns the upper-cased names whose first
// character equals letter ignoring case, sorted by the original names.
func (s *studentServiceImpl) FilterStudentsByNameStartsWith(ctx context.Context, letter string) ([]string, error) {
	logger.Info().Str("letter", letter).Msg("Was invoked method for filtering Students by the first letter")

	students, err := s.studentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}

	names := []string{}
	if utf8.RuneCountInString(letter) != 1 {
		return names, nil
	}

	first, _ := utf8.DecodeRuneInString(letter)
	for _, st := range students {
		if st.Name == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(st.Name)
		if strings.EqualFold(string(r), string(first)) {
			names = append(names, st.Name)
		}
	}

	sort.Strings(names)
	for i, name := range names {
		names[i] = strings.ToUpper(name)
	}
	return names, nil
}

// studentLookupError turns a missing row into the student NotFound error.
func studentLookupError(id int64, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		logger.Error().Int64("studentID", id).Msg("Student was not found")
		return apperrors.NewStudentNotFound(id)
	}
	return fmt.Errorf("error accessing student %d: %w", id, err)
}
