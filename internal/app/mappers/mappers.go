// Package mappers converts between persisted models and DTOs.
package mappers

import (
	"fmt"
	"strings"

	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/app/models/dto"
)

// Mappers groups the mappers so they can be injected together.
type Mappers struct {
	Faculty *FacultyMapper
	Student *StudentMapper
	Avatar  *AvatarMapper
}

// NewMappers wires the mappers. baseURL is the public origin used for avatar links.
func NewMappers(baseURL string) *Mappers {
	faculty := &FacultyMapper{}
	avatar := NewAvatarMapper(baseURL)
	return &Mappers{
		Faculty: faculty,
		Student: &StudentMapper{faculty: faculty, avatar: avatar},
		Avatar:  avatar,
	}
}

// FacultyMapper maps faculties
type FacultyMapper struct{}

func (FacultyMapper) ToResponse(faculty *models.Faculty) *dto.FacultyResponse {
	if faculty == nil {
		return nil
	}
	return &dto.FacultyResponse{ID: faculty.ID, Name: faculty.Name, Color: faculty.Color}
}

func (m FacultyMapper) ToResponses(faculties []*models.Faculty) []*dto.FacultyResponse {
	out := make([]*dto.FacultyResponse, 0, len(faculties))
	for _, f := range faculties {
		out = append(out, m.ToResponse(f))
	}
	return out
}

func (FacultyMapper) FromCreateRequest(req *dto.CreateFacultyRequest) *models.Faculty {
	return &models.Faculty{Name: req.Name, Color: req.Color}
}

// StudentMapper maps students and nests their faculty and avatar.
type StudentMapper struct {
	faculty *FacultyMapper
	avatar  *AvatarMapper
}

func (m *StudentMapper) ToResponse(student *models.Student) *dto.StudentResponse {
	if student == nil {
		return nil
	}
	resp := &dto.StudentResponse{
		ID:   student.ID,
		Name: student.Name,
		Age:  student.Age,
	}
	if student.Faculty != nil {
		resp.Faculty = m.faculty.ToResponse(student.Faculty)
	}
	if student.Avatar != nil {
		resp.Avatar = m.avatar.ToResponse(student.Avatar)
	}
	return resp
}

func (m *StudentMapper) ToResponses(students []*models.Student) []*dto.StudentResponse {
	out := make([]*dto.StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, m.ToResponse(s))
	}
	return out
}

// FromCreateRequest builds a student without relations; the faculty is
// resolved by the service.
func (m *StudentMapper) FromCreateRequest(req *dto.CreateStudentRequest) *models.Student {
	return &models.Student{Name: req.Name, Age: req.Age, FacultyID: req.FacultyID}
}

// AvatarMapper maps avatar metadata and computes the download link.
type AvatarMapper struct {
	baseURL string
}

func NewAvatarMapper(baseURL string) *AvatarMapper {
	return &AvatarMapper{baseURL: strings.TrimRight(baseURL, "/")}
}

// URL returns the link under which the stored bytes of avatar id are served.
func (m *AvatarMapper) URL(id int64) string {
	return fmt.Sprintf("%s/avatar/%d/avatarFromDb", m.baseURL, id)
}

func (m *AvatarMapper) ToResponse(avatar *models.Avatar) *dto.AvatarResponse {
	if avatar == nil {
		return nil
	}
	return &dto.AvatarResponse{
		ID:        avatar.ID,
		FilePath:  avatar.FilePath,
		FileSize:  avatar.FileSize,
		MediaType: avatar.MediaType,
		StudentID: avatar.StudentID,
		AvatarURL: m.URL(avatar.ID),
	}
}

func (m *AvatarMapper) ToResponses(avatars []*models.Avatar) []*dto.AvatarResponse {
	out := make([]*dto.AvatarResponse, 0, len(avatars))
	for _, a := range avatars {
		out = append(out, m.ToResponse(a))
	}
	return out
}
