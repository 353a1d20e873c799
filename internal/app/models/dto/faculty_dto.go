package dto

// FacultyResponse is the wire shape of a faculty
type FacultyResponse struct {
	ID    int64  `json:"id" example:"1"`
	Name  string `json:"name" example:"Gryffindor"`
	Color string `json:"color" example:"red"`
}

// CreateFacultyRequest represents faculty creation data
type CreateFacultyRequest struct {
	Name  string `json:"name" binding:"required,notblank" example:"Gryffindor"`
	Color string `json:"color" example:"red"`
}

// UpdateFacultyRequest carries optional fields; omitted fields keep their stored value.
type UpdateFacultyRequest struct {
	Name  *string `json:"name" binding:"omitempty,notblank" example:"Gryffindor"`
	Color *string `json:"color" example:"scarlet"`
}
