package dto

// StudentResponse is the wire shape of a student with nested relations.
type StudentResponse struct {
	ID      int64            `json:"id" example:"1"`
	Name    string           `json:"name" example:"Harry Potter"`
	Age     int              `json:"age" example:"11"`
	Faculty *FacultyResponse `json:"faculty,omitempty"`
	Avatar  *AvatarResponse  `json:"avatar,omitempty"`
}

// CreateStudentRequest represents student creation data
type CreateStudentRequest struct {
	Name      string `json:"name" binding:"required,notblank" example:"Harry Potter"`
	Age       int    `json:"age" binding:"gte=0" example:"11"`
	FacultyID *int64 `json:"facultyId" example:"1"`
}

// UpdateStudentRequest carries optional fields; omitted fields keep their stored value.
// A supplied FacultyID reassigns the student to that faculty.
type UpdateStudentRequest struct {
	Name      *string `json:"name" binding:"omitempty,notblank" example:"Harry Potter"`
	Age       *int    `json:"age" binding:"omitempty,gte=0" example:"12"`
	FacultyID *int64  `json:"facultyId" example:"1"`
}

// AgeRangeQuery holds the inclusive bounds for GET /student/filter
type AgeRangeQuery struct {
	AgeFrom *int `form:"ageFrom" binding:"required"`
	AgeTo   *int `form:"ageTo" binding:"required"`
}
