package models

// Student defines the student model based on the 'students' table
type Student struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Age       int    `json:"age" db:"age"`
	FacultyID *int64 `json:"facultyId,omitempty" db:"faculty_id"`

	// Relations (populated by joined queries)
	Faculty *Faculty `json:"faculty,omitempty"`
	Avatar  *Avatar  `json:"avatar,omitempty"`
}

// AvatarID returns the id of the student's avatar, if one was uploaded.
func (s *Student) AvatarID() *int64 {
	if s.Avatar == nil {
		return nil
	}
	id := s.Avatar.ID
	return &id
}
